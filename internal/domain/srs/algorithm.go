package srs

import "math"

// algorithm holds the model weights plus constants precomputed from them.
type algorithm struct {
	w      [21]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1
}

func newAlgorithm(w [21]float64) algorithm {
	decay := -w[20]
	return algorithm{
		w:      w,
		decay:  decay,
		factor: math.Pow(0.9, 1.0/decay) - 1.0,
	}
}

// retrievability computes the recall probability after elapsedDays given the
// card's stability: R(t, S) = (1 + factor*t/S)^decay.
func (a *algorithm) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+a.factor*elapsedDays/stability, a.decay)
}

// initialStability returns the stability assigned on a card's first review.
func (a *algorithm) initialStability(rating Rating) float64 {
	return clampStability(a.w[rating-1])
}

// initialDifficulty returns the difficulty assigned on a card's first review:
// D0(G) = w[4] - e^(w[5]*(G-1)) + 1, clamped to [1, 10] unless the caller
// needs the raw value as a mean-reversion anchor.
func (a *algorithm) initialDifficulty(rating Rating, clamp bool) float64 {
	d := a.w[4] - math.Exp(a.w[5]*float64(rating-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextIntervalDays converts stability into a scheduled interval:
// I(r, S) = round((S/factor) * (r^(1/decay) - 1)), clamped to [1, maxDays].
func (a *algorithm) nextIntervalDays(stability, desiredRetention float64, maxDays int) int {
	interval := stability / a.factor * (math.Pow(desiredRetention, 1.0/a.decay) - 1)
	days := int(math.Round(interval))
	if days < 1 {
		days = 1
	}
	if days > maxDays {
		days = maxDays
	}
	return days
}

// shortTermStability updates stability for a same-day review, where no
// meaningful forgetting has happened yet.
func (a *algorithm) shortTermStability(stability float64, rating Rating) float64 {
	inc := math.Exp(a.w[17]*(float64(rating)-3+a.w[18])) * math.Pow(stability, -a.w[19])
	if rating == RatingGood || rating == RatingEasy {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(stability * inc)
}

// nextDifficulty updates difficulty after a review with linear damping and
// mean reversion toward the first-rating-Easy anchor.
func (a *algorithm) nextDifficulty(difficulty float64, rating Rating) float64 {
	delta := -a.w[6] * (float64(rating) - 3)
	damped := difficulty + (10-difficulty)*delta/9
	anchor := a.initialDifficulty(RatingEasy, false)
	return clampDifficulty(a.w[7]*anchor + (1-a.w[7])*damped)
}

// nextStability dispatches on whether the learner recalled the card.
func (a *algorithm) nextStability(difficulty, stability, retrievability float64, rating Rating) float64 {
	if rating == RatingAgain {
		return a.forgetStability(difficulty, stability, retrievability)
	}
	return a.recallStability(difficulty, stability, retrievability, rating)
}

// recallStability computes stability after a successful recall:
// S' = S * (1 + e^w[8] * (11-D) * S^(-w[9]) * (e^((1-R)*w[10]) - 1) * hardPenalty * easyBonus).
func (a *algorithm) recallStability(d, s, r float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == RatingHard {
		hardPenalty = a.w[15]
	}
	easyBonus := 1.0
	if rating == RatingEasy {
		easyBonus = a.w[16]
	}
	return s * (1 + math.Exp(a.w[8])*
		(11-d)*
		math.Pow(s, -a.w[9])*
		(math.Exp((1-r)*a.w[10])-1)*
		hardPenalty*easyBonus)
}

// forgetStability computes stability after the learner forgot, taking the
// smaller of the long-term and short-term estimates.
func (a *algorithm) forgetStability(d, s, r float64) float64 {
	long := a.w[11] *
		math.Pow(d, -a.w[12]) *
		(math.Pow(s+1, a.w[13]) - 1) *
		math.Exp((1-r)*a.w[14])
	short := s / math.Exp(a.w[17]*a.w[18])
	return math.Min(long, short)
}

func clampStability(s float64) float64 {
	return math.Max(s, 0.001)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
