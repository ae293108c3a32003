package mastery

// SuccessDelta is added to the score for every successful attempt.
const SuccessDelta = 0.15

// DefaultPenalty applies to failures with no error kind.
const DefaultPenalty = -0.15

// Penalties maps each error kind to the score change a failure applies.
var Penalties = map[ErrorKind]float64{
	ErrorExecution: -0.05,
	ErrorForgot:    -0.15,
	ErrorConcept:   -0.25,
}

// Penalty returns the score change for a failure of the given kind.
// A nil kind falls back to DefaultPenalty.
func Penalty(kind *ErrorKind) float64 {
	if kind == nil {
		return DefaultPenalty
	}
	if p, ok := Penalties[*kind]; ok {
		return p
	}
	return DefaultPenalty
}

// Delta returns the unclamped score change for a practice outcome.
func Delta(success bool, kind *ErrorKind) float64 {
	if success {
		return SuccessDelta
	}
	return Penalty(kind)
}

// Clamp bounds a score to [0, 1].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
