package harness

import (
	"regexp"
	"strings"
)

// Volatile output patterns, replaced in the order listed. Replacement text
// never re-matches a later pattern, so CleanOutput is idempotent.
var (
	uuidRe      = regexp.MustCompile(`(?i)[0-9a-f-]{36}`)
	colonPortRe = regexp.MustCompile(`:\d{4,6}`)
	wordPortRe  = regexp.MustCompile(`port \d{4,6}`)
	reportURLRe = regexp.MustCompile(`app/projects/\S+/reports/\d+`)
	longDigitRe = regexp.MustCompile(`\d{4,}(\.\d+)?`)
)

// CleanOutput rewrites volatile values (failure glyphs, UUIDs, ports,
// report URLs, long numbers) into stable placeholders so captured CLI
// output can be compared deterministically. It is a pure function and
// applying it twice yields the same result.
func CleanOutput(output string) string {
	output = strings.ReplaceAll(output, "✘", "X")
	output = strings.ReplaceAll(output, "×", "X")
	output = uuidRe.ReplaceAllString(output, "<UUID>")
	output = colonPortRe.ReplaceAllString(output, ":XXXX")
	output = wordPortRe.ReplaceAllString(output, "port XXXX")
	output = reportURLRe.ReplaceAllString(output, "app/projects/slug/reports/XXXX")
	output = longDigitRe.ReplaceAllString(output, "XXXX")
	return output
}

// ExtractUUIDs returns every UUID-shaped substring in output, in order of
// appearance. Call it before CleanOutput, which destroys the originals.
func ExtractUUIDs(output string) []string {
	return uuidRe.FindAllString(output, -1)
}
