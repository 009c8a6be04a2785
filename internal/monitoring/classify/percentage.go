package classify

import "fmt"

// Percentage returns count/total as a percentage in hundredths, truncated
// towards zero. A zero total yields 0.
func Percentage(count, total int) int {
	if total <= 0 || count <= 0 {
		return 0
	}
	return count * 10000 / total
}

// FormatPercentage renders hundredths with at least one decimal and no
// trailing zeros: 5000 -> "50.0", 3330 -> "33.3", 3333 -> "33.33".
func FormatPercentage(hundredths int) string {
	whole, frac := hundredths/100, hundredths%100
	switch {
	case frac == 0:
		return fmt.Sprintf("%d.0", whole)
	case frac%10 == 0:
		return fmt.Sprintf("%d.%d", whole, frac/10)
	default:
		return fmt.Sprintf("%d.%02d", whole, frac)
	}
}

// Consensus renders "P% count/total".
func Consensus(count, total int) string {
	return fmt.Sprintf("%s%% %d/%d", FormatPercentage(Percentage(count, total)), count, total)
}
