package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// parseTimeframeToken converts a frequency token like "1D", "1H", "15M",
// "1W" into a base Frequency. The leading digits are a multiplier the
// compiler does not otherwise interpret; only the trailing unit letter
// matters for base-frequency inference.
func parseTimeframeToken(token string) (types.Frequency, error) {
	if token == "" {
		return "", fmt.Errorf("compiler: empty timeframe token")
	}
	unit := token[len(token)-1]
	qty := token[:len(token)-1]
	if qty != "" {
		if _, err := strconv.Atoi(qty); err != nil {
			return "", fmt.Errorf("compiler: malformed timeframe token %q", token)
		}
	}
	switch strings.ToUpper(string(unit)) {
	case "M":
		return types.FreqMinute, nil
	case "H":
		return types.FreqHour, nil
	case "D":
		return types.FreqDay, nil
	case "W":
		return types.FreqWeek, nil
	default:
		return "", fmt.Errorf("compiler: unrecognized timeframe unit in %q", token)
	}
}

// parseHHMM parses a "HH:MM" clock string into minutes-since-midnight.
func parseHHMM(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("compiler: malformed clock value %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("compiler: malformed clock hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("compiler: malformed clock minute in %q", s)
	}
	return h*60 + m, nil
}

// coarsestFrequency returns whichever of a, b is the lower-resolution
// (coarser) base frequency, used when inferring a plan's base frequency
// from its constituent nodes' declared timeframes.
func coarsestFrequency(a, b types.Frequency) types.Frequency {
	rank := map[types.Frequency]int{
		types.FreqMinute: 0,
		types.FreqHour:   1,
		types.FreqDay:     2,
		types.FreqWeek:    3,
	}
	if rank[a] >= rank[b] {
		return a
	}
	return b
}
