package models

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// AlarmInput is the create/update payload. Nil fields are left untouched on
// update; Create requires Time.
type AlarmInput struct {
	Time     *string `json:"time"`
	Label    *string `json:"label"`
	Days     *[]int  `json:"days"`
	IsActive *bool   `json:"isActive"`
	UseAI    *bool   `json:"useAI"`
}

// Validate checks the set fields and normalizes Days in place
// (range check, dedupe, sort).
func (in *AlarmInput) Validate() error {
	if in.Time != nil && !clockRe.MatchString(*in.Time) {
		return fmt.Errorf("time %q is not a zero-padded HH:MM value", *in.Time)
	}
	if in.Days != nil {
		days, err := NormalizeDays(*in.Days)
		if err != nil {
			return err
		}
		*in.Days = days
	}
	return nil
}

// ValidateCreate is Validate plus the fields a new alarm cannot do without.
func (in *AlarmInput) ValidateCreate() error {
	if in.Time == nil {
		return errors.New("time is required")
	}
	return in.Validate()
}

// NormalizeDays returns the weekday set deduplicated and sorted, or an error
// when an index falls outside 0..6.
func NormalizeDays(days []int) ([]int, error) {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("weekday index %d out of range 0..6", d)
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out, nil
}

// ValidClockString reports whether s is a zero-padded 24h "HH:MM" value.
func ValidClockString(s string) bool {
	return clockRe.MatchString(s)
}
