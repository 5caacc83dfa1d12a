package estimator

import (
	"strings"

	apperrors "github.com/louisbranch/threepoint/internal/services/estimator/platform/errors"
)

// Unit labels the time unit attached to estimate values. The pert core is
// unit-agnostic; the label travels with requests and history entries so
// surfaces can render and convert consistently.
type Unit string

const (
	UnitHours Unit = "hours"
	UnitDays  Unit = "days"
)

// ParseUnit normalizes a unit label. Empty input defaults to hours.
func ParseUnit(value string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(UnitHours):
		return UnitHours, nil
	case string(UnitDays):
		return UnitDays, nil
	}
	return "", apperrors.E(apperrors.KindInvalidInput, "unit must be hours or days")
}

func (u Unit) String() string {
	return string(u)
}
