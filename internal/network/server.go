// Package network exposes generation over a TCP JSON interface: one
// JSON request object per call, one JSON response back. Each request
// runs synchronously on its connection.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/leengari/synthtab/internal/compare"
	"github.com/leengari/synthtab/internal/config"
	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
	"github.com/leengari/synthtab/internal/filter"
	"github.com/leengari/synthtab/internal/generator"
	"github.com/leengari/synthtab/internal/session"
)

// Request carries one generation call. Source rows travel inline as
// record objects; the schema is inferred from their textual cell forms
// unless pinned by the categorical list.
type Request struct {
	Rows        int                     `json:"rows"`
	Records     []map[string]string     `json:"records"`
	Columns     []string                `json:"columns"`
	Categorical []string                `json:"categorical,omitempty"`
	Constraints []config.ConstraintSpec `json:"constraints,omitempty"`
	Combine     bool                    `json:"combine,omitempty"`
	Compare     bool                    `json:"compare,omitempty"`
	Seed        int64                   `json:"seed,omitempty"`
}

// Response carries the generated rows or an error
type Response struct {
	ID          string                `json:"id,omitempty"`
	Requested   int                   `json:"requested,omitempty"`
	Delivered   int                   `json:"delivered,omitempty"`
	Shortfall   bool                  `json:"shortfall,omitempty"`
	Rows        []map[string]string   `json:"rows,omitempty"`
	Comparisons []*compare.Comparison `json:"comparisons,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// Start runs the TCP generation server until the context is cancelled
func Start(ctx context.Context, port int, logger *slog.Logger) error {
	addr := fmt.Sprintf(":%d", port)
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", port, err)
	}
	defer listener.Close()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	logger.Info("generation server listening", slog.String("addr", addr))

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("failed to accept connection", slog.Any("error", err))
			continue
		}
		go handleConnection(ctx, conn, logger)
	}
}

func handleConnection(ctx context.Context, conn net.Conn, logger *slog.Logger) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			logger.Error("decode error", slog.Any("error", err))
			_ = encoder.Encode(&Response{Error: fmt.Sprintf("invalid request format: %v", err)})
			return
		}

		resp := serve(ctx, req, logger)
		if err := encoder.Encode(resp); err != nil {
			logger.Error("encode error", slog.Any("error", err))
			return
		}
	}
}

// serve runs one generation session for a decoded request
func serve(ctx context.Context, req Request, logger *slog.Logger) *Response {
	src, err := buildSource(req)
	if err != nil {
		return &Response{Error: err.Error()}
	}

	store, err := (&config.Spec{Constraints: req.Constraints}).Store()
	if err != nil {
		return &Response{Error: err.Error()}
	}

	sess := session.New(generator.NewEmpirical(req.Seed, logger), logger)
	result, err := sess.Run(ctx, session.Request{
		Source:      src,
		Rows:        req.Rows,
		Constraints: store,
		Combine:     req.Combine,
		Compare:     req.Compare,
		Policy:      filter.DefaultPolicy(),
	})
	if err != nil {
		return &Response{Error: err.Error()}
	}

	resp := &Response{
		ID:          result.ID,
		Requested:   result.Requested,
		Delivered:   result.Delivered,
		Shortfall:   result.Shortfall != nil,
		Rows:        renderRows(result.Output),
		Comparisons: result.Comparisons,
	}
	return resp
}

// buildSource assembles the inline records into a typed dataset
func buildSource(req Request) (*dataset.Dataset, error) {
	if len(req.Records) == 0 {
		return nil, &derrors.LoadError{Path: "request", Reason: "no source records"}
	}
	if len(req.Columns) == 0 {
		return nil, &derrors.LoadError{Path: "request", Reason: "no column order declared"}
	}

	forced := make(map[string]struct{}, len(req.Categorical))
	for _, name := range req.Categorical {
		forced[name] = struct{}{}
	}

	specs := make([]dataset.ColumnSpec, len(req.Columns))
	for i, name := range req.Columns {
		raw := make([]string, len(req.Records))
		for r, record := range req.Records {
			raw[r] = record[name]
		}
		kind := dataset.InferKind(raw)
		if _, ok := forced[name]; ok {
			kind = dataset.KindCategorical
		}
		specs[i] = dataset.ColumnSpec{Name: name, Kind: kind}
	}

	ds, err := dataset.New(specs...)
	if err != nil {
		return nil, &derrors.LoadError{Path: "request", Reason: "invalid schema", Err: err}
	}
	for r, record := range req.Records {
		row := make(map[string]interface{}, len(specs))
		for _, spec := range specs {
			v, err := dataset.ParseCell(record[spec.Name], spec.Kind)
			if err != nil {
				return nil, &derrors.LoadError{
					Path:   "request",
					Reason: fmt.Sprintf("column %s, record %d", spec.Name, r+1),
					Err:    err,
				}
			}
			row[spec.Name] = v
		}
		if err := ds.AppendRow(row); err != nil {
			return nil, &derrors.LoadError{Path: "request", Reason: fmt.Sprintf("record %d", r+1), Err: err}
		}
	}
	return ds, nil
}

// renderRows serializes dataset rows back to textual record objects
func renderRows(ds *dataset.Dataset) []map[string]string {
	rows := make([]map[string]string, ds.Len())
	for r := 0; r < ds.Len(); r++ {
		row := make(map[string]string, ds.NumColumns())
		for _, col := range ds.Columns() {
			row[col.Name] = dataset.FormatCell(col.Values[r])
		}
		rows[r] = row
	}
	return rows
}
