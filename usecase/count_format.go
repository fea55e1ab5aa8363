package usecase

import (
	"strconv"
	"strings"
)

var countUnits = []struct {
	size   uint64
	suffix string
}{
	{1_000_000_000, "B"},
	{1_000_000, "M"},
	{1_000, "K"},
}

// FormatCount renders a count for display: 950 -> "950", 1500 -> "1.5K",
// 2300000 -> "2.3M". At most two decimals, truncated, trailing zeros dropped.
// The result is lossy and only meant to be shown.
func FormatCount(n int64) string {
	if n < 0 {
		// -(n+1) cannot overflow, unlike -n for math.MinInt64
		return "-" + formatMagnitude(uint64(-(n+1))+1)
	}
	return formatMagnitude(uint64(n))
}

func formatMagnitude(n uint64) string {
	for _, u := range countUnits {
		if n < u.size {
			continue
		}
		hundredths := n / (u.size / 100)
		whole, frac := hundredths/100, hundredths%100
		if frac == 0 {
			return strconv.FormatUint(whole, 10) + u.suffix
		}
		decimals := strings.TrimRight(strconv.FormatUint(100+frac, 10)[1:], "0")
		return strconv.FormatUint(whole, 10) + "." + decimals + u.suffix
	}
	return strconv.FormatUint(n, 10)
}
