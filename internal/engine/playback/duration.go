package playback

import (
	"fmt"
	"strconv"
	"strings"
)

// DurationMode selects how multi-field duration strings are summed.
type DurationMode int

const (
	// DurationFaithful reuses the first field for every term ("1:30" is 61s).
	// Scores of peer engines are calibrated against this arithmetic.
	DurationFaithful DurationMode = iota
	// DurationPositional reads each field at its own position ("1:30" is 90s).
	DurationPositional
)

// ParseDurationMode maps a config value to a mode; empty means faithful.
func ParseDurationMode(s string) (DurationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "faithful":
		return DurationFaithful, nil
	case "positional":
		return DurationPositional, nil
	}
	return DurationFaithful, fmt.Errorf("unknown duration mode %q", s)
}

func (m DurationMode) String() string {
	if m == DurationPositional {
		return "positional"
	}
	return "faithful"
}

// ParseDuration converts "S", "M:S" or "H:M:S" into milliseconds.
// Any other shape, including empty input or non-digit fields, yields 0.
func ParseDuration(s string, mode DurationMode) int64 {
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0
	}
	nums := make([]int64, len(parts))
	for i, p := range parts {
		if !isDigits(p) {
			return 0
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0
		}
		nums[i] = n
	}

	var secs int64
	switch len(nums) {
	case 1:
		secs = nums[0]
	case 2:
		if mode == DurationPositional {
			secs = nums[0]*60 + nums[1]
		} else {
			secs = nums[0]*60 + nums[0]
		}
	case 3:
		if mode == DurationPositional {
			secs = nums[0]*3600 + nums[1]*60 + nums[2]
		} else {
			secs = nums[0]*3600 + nums[0]*60 + nums[0]
		}
	}
	return secs * 1000
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
