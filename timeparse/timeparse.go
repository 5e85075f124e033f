// Package timeparse converts raw scheduled-time tokens into canonical
// 24-hour HH:MM. The contract is strict: a bare 1-3 digit token without a
// meridiem marker is ambiguous and is rejected rather than silently
// assumed to be AM or PM.
package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadTime marks a token that could not be normalized to a well-formed
// clock time. Callers drop the dose with the BadTime skip reason.
var ErrBadTime = errors.New("unparseable time token")

var (
	meridiemForm = regexp.MustCompile(`^(\d{1,2})(?::([0-5]\d))?\s*([APap])\.?[Mm]?\.?$`)
	clockForm    = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	bareForm     = regexp.MustCompile(`^(\d+)$`)
)

// Normalize converts a raw time token to canonical "HH:MM".
//
// Accepted forms: "9am", "9 AM", "9:00p", "21:00", "2100". A meridiem
// marker forces 12-hour interpretation; a bare 4-digit token is 24-hour; a
// bare 1-3 digit token is rejected with ErrBadTime. Results outside
// 00:00-23:59 are rejected.
func Normalize(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrBadTime)
	}

	if m := meridiemForm.FindStringSubmatch(token); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("%w: %q", ErrBadTime, raw)
		}
		hour = to24Hour(hour, m[3] == "p" || m[3] == "P")
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}

	if m := clockForm.FindStringSubmatch(token); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}

	if m := bareForm.FindStringSubmatch(token); m != nil {
		digits := m[1]
		if len(digits) != 4 {
			// "9" or "900" without a meridiem: AM/PM cannot be assumed.
			return "", fmt.Errorf("%w: ambiguous token %q", ErrBadTime, raw)
		}
		hour, _ := strconv.Atoi(digits[:2])
		minute, _ := strconv.Atoi(digits[2:])
		if hour > 23 || minute > 59 {
			return "", fmt.Errorf("%w: %q out of range", ErrBadTime, raw)
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}

	return "", fmt.Errorf("%w: %q", ErrBadTime, raw)
}

func to24Hour(hour int, pm bool) int {
	if pm {
		if hour == 12 {
			return 12
		}
		return hour + 12
	}
	if hour == 12 {
		return 0
	}
	return hour
}
