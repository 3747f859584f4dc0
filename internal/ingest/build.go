// Package ingest fetches news from the configured sources, canonicalizes
// each raw item into a classified Article, and runs the full ingestion
// sweep.
package ingest

import "regexp"

// summaryMaxLen is the character limit for stored summaries.
const summaryMaxLen = 300

// userAgent is sent on every outbound request.
const userAgent = "FinancialNewsBot/1.0 (+https://example.com)"

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// stripTags removes anything that looks like a markup tag. This is
// deliberately not an HTML parser: entities are left undecoded so the
// stored summary (and with it the dedup key surface) stays stable.
func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// truncate shortens s to the summary limit, appending an ellipsis marker
// when anything was cut.
func truncate(s string) string {
	r := []rune(s)
	if len(r) > summaryMaxLen {
		return string(r[:summaryMaxLen]) + "..."
	}
	return s
}
