package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxDuration bounds a single appointment; nothing may last a whole day.
const MaxDuration = 24 * time.Hour

var durationUnits = map[string]time.Duration{
	"h":       time.Hour,
	"hr":      time.Hour,
	"hrs":     time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"hora":    time.Hour,
	"horas":   time.Hour,
	"m":       time.Minute,
	"min":     time.Minute,
	"mins":    time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"minuto":  time.Minute,
	"minutos": time.Minute,
}

// ParseDurationLabel parses catalog labels such as "3 hours", "1.5 hours",
// "30 minutes" or "1 hour 30 minutes" into a duration.
// An empty, unitless, or non-positive label is rejected with ErrInvalidDuration.
func ParseDurationLabel(label string) (time.Duration, error) {
	fields := strings.Fields(strings.ToLower(label))
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty label", ErrInvalidDuration)
	}

	// Split glued forms like "90min" or "1.5h" into number and unit.
	var tokens []string
	for _, f := range fields {
		i := strings.IndexFunc(f, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.'
		})
		if i > 0 {
			tokens = append(tokens, f[:i], f[i:])
			continue
		}
		tokens = append(tokens, f)
	}

	if len(tokens)%2 != 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, label)
	}

	var total time.Duration
	for i := 0; i < len(tokens); i += 2 {
		n, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil || n < 0 || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, label)
		}
		unit, ok := durationUnits[tokens[i+1]]
		if !ok {
			return 0, fmt.Errorf("%w: unknown unit in %q", ErrInvalidDuration, label)
		}
		if n*float64(unit) >= float64(MaxDuration) {
			return 0, fmt.Errorf("%w: %q is a day or longer", ErrInvalidDuration, label)
		}
		total += time.Duration(n * float64(unit))
	}
	if total >= MaxDuration {
		return 0, fmt.Errorf("%w: %q is a day or longer", ErrInvalidDuration, label)
	}

	total = total.Round(time.Minute)
	if total <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, label)
	}
	return total, nil
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour)).Round(time.Minute)
}
