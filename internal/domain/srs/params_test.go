package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParamsAreValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NewDefaultParams().Validate())
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(*Params)
	}{
		{
			name:   "weight below lower bound",
			mutate: func(p *Params) { p.Weights[0] = 0 },
		},
		{
			name:   "weight above upper bound",
			mutate: func(p *Params) { p.Weights[20] = 5 },
		},
		{
			name:   "zero retention",
			mutate: func(p *Params) { p.DesiredRetention = 0 },
		},
		{
			name:   "retention above one",
			mutate: func(p *Params) { p.DesiredRetention = 1.01 },
		},
		{
			name:   "non-positive maximum interval",
			mutate: func(p *Params) { p.MaximumIntervalDays = 0 },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params := NewDefaultParams()
			tc.mutate(params)
			assert.ErrorIs(t, params.Validate(), ErrInvalidParams)
		})
	}
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{
		DesiredRetention:    0.85,
		MaximumIntervalDays: 365,
	})

	assert.InDelta(t, 0.85, params.DesiredRetention, 1e-9)
	assert.Equal(t, 365, params.MaximumIntervalDays)
	// Untouched fields keep the defaults.
	assert.Equal(t, 10, params.AgainStepMinutes)
	assert.Equal(t, DefaultWeights, params.Weights)
}
