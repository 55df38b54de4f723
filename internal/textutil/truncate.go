package textutil

import "unicode/utf8"

// Truncate caps s at max bytes. Strings at or under the cap come back
// unchanged; longer ones are cut on a rune boundary at or before max
// with suffix appended so readers can see text was dropped.
func Truncate(s string, max int, suffix string) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + suffix
}
