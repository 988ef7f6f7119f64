package helpers

// Truncate shortens s to at most max runes, appending an ellipsis when the
// text was cut. Material tile descriptions use a 100 rune cutoff.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
