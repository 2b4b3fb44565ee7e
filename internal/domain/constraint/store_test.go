package constraint

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/synthtab/internal/domain/dataset"
	derrors "github.com/leengari/synthtab/internal/domain/errors"
)

func customerSchema() []dataset.ColumnSpec {
	return []dataset.ColumnSpec{
		{Name: "age", Kind: dataset.KindNumeric},
		{Name: "gender", Kind: dataset.KindCategorical},
		{Name: "policy_start_date", Kind: dataset.KindDatetime},
	}
}

func TestStoreRejectsInfeasibleAtEntry(t *testing.T) {
	s := NewStore()
	err := s.Set("age", Range{Min: 30, Max: 20})
	require.Error(t, err)

	var infeasible *derrors.InfeasibleError
	assert.True(t, errors.As(err, &infeasible))
	assert.Equal(t, "age", infeasible.Column)
	assert.Equal(t, 0, s.Len(), "a rejected constraint must not be stored")
}

func TestStoreSetOverwritesInPlace(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("age", Range{Min: 0, Max: 100}))
	require.NoError(t, s.Set("gender", NewAllowList("Female")))
	require.NoError(t, s.Set("age", Range{Min: 20, Max: 30}))

	assert.Equal(t, []string{"age", "gender"}, s.Columns(), "redeclaring keeps the original position")
	c, ok := s.Get("age")
	require.True(t, ok)
	assert.Equal(t, Range{Min: 20, Max: 30}, c)
}

func TestStoreValidate(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("age", Range{Min: 20, Max: 30}))
	require.NoError(t, s.Set("gender", NewAllowList("Female", "Male")))
	assert.NoError(t, s.Validate(customerSchema()))

	missing := NewStore()
	require.NoError(t, missing.Set("income", Range{Min: 0, Max: 1}))
	err := missing.Validate(customerSchema())
	var cerr *derrors.ConstraintError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "income", cerr.Column)

	mismatched := NewStore()
	require.NoError(t, mismatched.Set("gender", Range{Min: 0, Max: 1}))
	err = mismatched.Validate(customerSchema())
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "gender", cerr.Column)
}

func TestCheckRow(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("age", Range{Min: 20, Max: 30}))
	require.NoError(t, s.Set("gender", NewAllowList("Female")))

	pass := map[string]interface{}{"age": 25.0, "gender": "Female", "extra": "ignored"}
	assert.True(t, s.CheckRow(pass), "unconstrained columns are never checked")

	assert.False(t, s.CheckRow(map[string]interface{}{"age": 45.0, "gender": "Female"}))
	assert.False(t, s.CheckRow(map[string]interface{}{"age": 25.0, "gender": "Male"}))
	assert.False(t, s.CheckRow(map[string]interface{}{"age": nil, "gender": "Female"}),
		"null in a constrained column fails the row")
}

func TestExplainReportsFirstDeclaredViolation(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("age", Range{Min: 20, Max: 30}))
	require.NoError(t, s.Set("policy_start_date", TimeWindow{
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}))

	// Both columns violate; declaration order decides the report
	violation := s.Explain(map[string]interface{}{
		"age":               55.0,
		"policy_start_date": time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NotNil(t, violation)
	assert.Equal(t, "age", violation.Column)
	assert.Equal(t, 55.0, violation.Value)

	assert.Nil(t, s.Explain(map[string]interface{}{
		"age":               25.0,
		"policy_start_date": time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}))
}
