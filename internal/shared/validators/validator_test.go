package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSQLIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		valid bool
	}{
		{input: "perf_log", valid: true},
		{input: "bench.perf_log", valid: true},
		{input: "_t1", valid: true},
		{input: "", valid: false},
		{input: "1table", valid: false},
		{input: "a.b.c", valid: false},
		{input: "log; DROP TABLE x", valid: false},
		{input: `"quoted"`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, IsSQLIdentifier(tt.input))
		})
	}
}

func TestNew_RegistersSQLIdentifier(t *testing.T) {
	t.Parallel()

	type source struct {
		Table string `validate:"omitempty,sqlident"`
	}

	v := New()
	require.NoError(t, v.Struct(source{Table: "perf_log"}))
	require.NoError(t, v.Struct(source{}))

	err := v.Struct(source{Table: "x;y"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, TagSQLIdentifier, verrs[0].Tag())
}

func TestIsPositiveDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		valid bool
	}{
		{input: "300s", valid: true},
		{input: "100ms", valid: true},
		{input: "1h30m", valid: true},
		{input: "0s", valid: false},
		{input: "-5s", valid: false},
		{input: "300", valid: false},
		{input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, IsPositiveDuration(tt.input))
		})
	}
}

func TestNew_RegistersPositiveDuration(t *testing.T) {
	t.Parallel()

	type analysis struct {
		GapThreshold string `validate:"required,posduration"`
	}

	v := New()
	require.NoError(t, v.Struct(analysis{GapThreshold: "5m"}))

	err := v.Struct(analysis{GapThreshold: "soon"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, TagPositiveDuration, verrs[0].Tag())
}
