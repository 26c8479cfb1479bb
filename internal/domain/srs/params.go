package srs

import "fmt"

// DefaultWeights are the FSRS v6 default parameter values.
var DefaultWeights = [21]float64{
	0.212, 1.2931, 2.3065, 8.2956, // w[0..3]  initial stability per first rating
	6.4133, 0.8334, 3.0194, 0.001, // w[4..7]  difficulty parameters
	1.8722, 0.1666, 0.796, 1.4835, // w[8..11] recall stability parameters
	0.0614, 0.2629, 1.6483, 0.6014, // w[12..15] forget stability parameters
	1.8729, 0.5425, 0.0912, 0.0658, // w[16..19] easy bonus and short-term parameters
	0.1542, // w[20] decay exponent
}

// weightLowerBounds and weightUpperBounds bracket each trainable weight.
var (
	weightLowerBounds = [21]float64{
		0.001, 0.001, 0.001, 0.001,
		1.0, 0.001, 0.001, 0.001,
		0.0, 0.0, 0.001, 0.001,
		0.001, 0.001, 0.0, 0.0,
		1.0, 0.0, 0.0, 0.0,
		0.1,
	}
	weightUpperBounds = [21]float64{
		100.0, 100.0, 100.0, 100.0,
		10.0, 4.0, 4.0, 0.75,
		4.5, 0.8, 3.5, 5.0,
		0.25, 0.9, 4.0, 1.0,
		6.0, 2.0, 2.0, 0.8,
		0.8,
	}
)

// Params defines all configurable parameters for the scheduler.
type Params struct {
	// Weights are the FSRS model weights.
	Weights [21]float64

	// DesiredRetention is the target recall probability at review time.
	// Higher values shorten intervals. System-wide, not per learner.
	DesiredRetention float64

	// MaximumIntervalDays caps the scheduled interval.
	MaximumIntervalDays int

	// AgainStepMinutes is how soon a forgotten card comes back.
	AgainStepMinutes int

	// HardStepMinutes is the intra-day step for a hard answer while the
	// card is still in learning or relearning.
	HardStepMinutes int
}

// ParamsConfig allows overriding the defaults when creating Params.
// Zero values keep the default.
type ParamsConfig struct {
	DesiredRetention    float64
	MaximumIntervalDays int
	AgainStepMinutes    int
	HardStepMinutes     int
}

// NewDefaultParams creates Params with the default weights, a 0.90 retention
// target, and a 100-year interval cap.
func NewDefaultParams() *Params {
	return &Params{
		Weights:             DefaultWeights,
		DesiredRetention:    0.90,
		MaximumIntervalDays: 36500,
		AgainStepMinutes:    10,
		HardStepMinutes:     30,
	}
}

// NewParams creates Params with custom configuration applied over the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.DesiredRetention > 0 {
		params.DesiredRetention = config.DesiredRetention
	}
	if config.MaximumIntervalDays > 0 {
		params.MaximumIntervalDays = config.MaximumIntervalDays
	}
	if config.AgainStepMinutes > 0 {
		params.AgainStepMinutes = config.AgainStepMinutes
	}
	if config.HardStepMinutes > 0 {
		params.HardStepMinutes = config.HardStepMinutes
	}

	return params
}

// Validate checks that every weight sits inside its trained bounds and the
// retention target is a probability.
func (p *Params) Validate() error {
	for i := 0; i < len(p.Weights); i++ {
		if p.Weights[i] < weightLowerBounds[i] || p.Weights[i] > weightUpperBounds[i] {
			return fmt.Errorf("%w: w[%d] = %f, bounds [%f, %f]",
				ErrInvalidParams, i, p.Weights[i], weightLowerBounds[i], weightUpperBounds[i])
		}
	}

	if p.DesiredRetention <= 0 || p.DesiredRetention > 1 {
		return fmt.Errorf("%w: desired retention %f out of range (0, 1]", ErrInvalidParams, p.DesiredRetention)
	}

	if p.MaximumIntervalDays < 1 {
		return fmt.Errorf("%w: maximum interval %d must be positive", ErrInvalidParams, p.MaximumIntervalDays)
	}

	return nil
}
