package search

import "time"

// TimeControl mirrors the protocol's wtime/btime/winc/binc/movestogo
// option set.
type TimeControl struct {
	Remaining    time.Duration
	Increment    time.Duration
	MovesToGo    int
	HasMovesToGo bool
}

// movesToGoDefault, incrementFraction and safetyMargin are the allocation
// coefficients; ConfigureTime overrides them from the engine's loaded
// configuration so they are not hard-coded in two places.
var (
	movesToGoDefault  = 30
	incrementFraction = 0.75
	safetyMargin      = 50 * time.Millisecond
)

// ConfigureTime overrides Allocate's coefficients from internal/config's
// TimeConfig, called once at engine startup.
func ConfigureTime(movesToGo int, incFraction float64, safetyMarginMillis int) {
	if movesToGo > 0 {
		movesToGoDefault = movesToGo
	}
	incrementFraction = incFraction
	safetyMargin = time.Duration(safetyMarginMillis) * time.Millisecond
}

// Allocate computes how long to spend on the current move: a base share of
// the remaining clock (by movestogo, or a 30-move horizon), plus a
// fraction of the increment, clamped below the remaining time by a safety
// margin.
func Allocate(tc TimeControl) time.Duration {
	divisor := movesToGoDefault
	if tc.HasMovesToGo && tc.MovesToGo > 0 {
		divisor = tc.MovesToGo
	}

	base := tc.Remaining / time.Duration(divisor)
	base += time.Duration(float64(tc.Increment) * incrementFraction)

	limit := tc.Remaining - safetyMargin
	if limit < 0 {
		limit = 0
	}
	if base > limit {
		base = limit
	}
	if base < 0 {
		base = 0
	}
	return base
}
