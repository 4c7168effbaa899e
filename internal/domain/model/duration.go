package model

import (
	"fmt"
	"strconv"
	"strings"

	"telegram-vip-subscription/internal/domain"
)

type DurationUnit string

const (
	DurationUnitDay   DurationUnit = "day"
	DurationUnitMonth DurationUnit = "month"
)

// unitTags maps short-form tags to units. The allow-list in storage is the
// real source of truth for which (magnitude, unit) pairs are accepted; this
// map only drives token parsing.
var unitTags = map[byte]DurationUnit{
	'd': DurationUnitDay,
	'm': DurationUnitMonth,
}

// Duration is an admin-configured unit of subscription length.
// A month is normalized to exactly 30 days for all arithmetic; this is a
// deliberate simplification, not calendar math.
type Duration struct {
	ID        string
	Magnitude int
	Unit      DurationUnit
}

func NewDuration(id string, magnitude int, unit DurationUnit) (*Duration, error) {
	if magnitude <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	switch unit {
	case DurationUnitDay, DurationUnitMonth:
	default:
		return nil, domain.ErrInvalidArgument
	}
	return &Duration{ID: id, Magnitude: magnitude, Unit: unit}, nil
}

func (d *Duration) IsZero() bool { return d == nil || d.Magnitude == 0 }

// Days converts the duration to a concrete day count.
func (d *Duration) Days() int {
	if d.Unit == DurationUnitMonth {
		return d.Magnitude * 30
	}
	return d.Magnitude
}

// Token renders the short form an admin would type, e.g. "3d" or "1m".
func (d *Duration) Token() string {
	for tag, unit := range unitTags {
		if unit == d.Unit {
			return fmt.Sprintf("%d%c", d.Magnitude, tag)
		}
	}
	return strconv.Itoa(d.Magnitude)
}

func (d *Duration) String() string {
	s := fmt.Sprintf("%d %s", d.Magnitude, d.Unit)
	if d.Magnitude > 1 {
		s += "s"
	}
	return s
}

// ParseDurationToken parses a short-form duration token: an integer magnitude
// immediately followed by a one-character unit tag ("7d", "1m"). It does not
// consult the allow-list; callers validate the pair separately.
func ParseDurationToken(text string) (int, DurationUnit, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) < 2 {
		return 0, "", domain.ErrInvalidDuration
	}
	unit, ok := unitTags[text[len(text)-1]]
	if !ok {
		return 0, "", domain.ErrInvalidDuration
	}
	magnitude, err := strconv.Atoi(text[:len(text)-1])
	if err != nil || magnitude <= 0 {
		return 0, "", domain.ErrInvalidDuration
	}
	return magnitude, unit, nil
}
