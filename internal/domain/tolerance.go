package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Tolerance is a self-reported drinking pace used as the cooldown multiplier.
type Tolerance int

const (
	ToleranceWeak   Tolerance = 1
	ToleranceNormal Tolerance = 2
	ToleranceStrong Tolerance = 3
)

var toleranceLabels = []string{"Weak", "Normal", "Strong"}

func (t Tolerance) Valid() bool {
	return t >= ToleranceWeak && t <= ToleranceStrong
}

func (t Tolerance) Label() string {
	if !t.Valid() {
		return strconv.Itoa(int(t))
	}

	return toleranceLabels[t-1]
}

// ToleranceFromPresses maps a button press count onto the cycling
// Weak -> Normal -> Strong choice.
func ToleranceFromPresses(presses int) Tolerance {
	if presses < 0 {
		presses = 0
	}

	return Tolerance(presses%len(toleranceLabels) + 1)
}

// ParseTolerance accepts either the numeric level or its label.
func ParseTolerance(raw string) (Tolerance, error) {
	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(trimmed); err == nil {
		t := Tolerance(n)
		if !t.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidTolerance, n)
		}
		return t, nil
	}

	for i, label := range toleranceLabels {
		if strings.EqualFold(label, trimmed) {
			return Tolerance(i + 1), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidTolerance, raw)
}
