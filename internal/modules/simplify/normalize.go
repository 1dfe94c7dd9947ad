package simplify

import (
	"regexp"
	"strings"
)

// Canonical section headers. Every externally visible result contains each of
// these exactly once, in this order.
const (
	HeaderSummary     = "1. Summary"
	HeaderMainPoints  = "2. Main Points"
	HeaderDefinitions = "3. Helpful Definitions"
)

var canonicalHeaders = [3]string{HeaderSummary, HeaderMainPoints, HeaderDefinitions}

// headerPatterns recognize decorated variants of each header on its own line:
// optional leading ordinal, optional bold markers, optional trailing
// colon/dash with same-line content. A plain sentence mentioning the header
// word does not match because trailing content requires a separator.
var headerPatterns = [3]*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:\*\*)?\s*(?:\d+\s*[.)]\s*)?(?:\*\*)?\s*Summary(?:\s*\*\*)?\s*(?:[:\-–—]\s*(.*?))?\s*(?:\*\*)?\s*$`),
	regexp.MustCompile(`(?i)^\s*(?:\*\*)?\s*(?:\d+\s*[.)]\s*)?(?:\*\*)?\s*Main\s+Points(?:\s*\*\*)?\s*(?:[:\-–—]\s*(.*?))?\s*(?:\*\*)?\s*$`),
	regexp.MustCompile(`(?i)^\s*(?:\*\*)?\s*(?:\d+\s*[.)]\s*)?(?:\*\*)?\s*Helpful\s+Definitions(?:\s*\*\*)?\s*(?:[:\-–—]\s*(.*?))?\s*(?:\*\*)?\s*$`),
}

// NormalizeHeaders guarantees the three canonical headers exist, each starting
// its own line. The first decorated match for each header is reduced to the
// canonical literal; same-line trailing content moves to the start of that
// section body. Missing headers are synthesized: the Summary header is
// prepended to the whole text, the other two are appended with an "N/A" body.
// Section bodies are never reordered. Idempotent.
func NormalizeHeaders(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")

	found := [3]int{-1, -1, -1}
	rest := [3]string{}

	for i, line := range lines {
		for h := range headerPatterns {
			if found[h] >= 0 {
				continue
			}
			m := headerPatterns[h].FindStringSubmatch(line)
			if m == nil {
				continue
			}
			found[h] = i
			rest[h] = strings.TrimSpace(m[1])
			break
		}
	}

	for h, i := range found {
		if i < 0 {
			continue
		}
		if rest[h] != "" {
			lines[i] = canonicalHeaders[h] + "\n" + rest[h]
		} else {
			lines[i] = canonicalHeaders[h]
		}
	}

	out := strings.Join(lines, "\n")
	if found[0] < 0 {
		out = HeaderSummary + "\n" + strings.TrimSpace(out)
	}
	for h := 1; h < 3; h++ {
		if found[h] < 0 {
			out = strings.TrimRight(out, "\n") + "\n\n" + canonicalHeaders[h] + "\nN/A"
		}
	}
	return out
}

var canonicalHeaderLine = regexp.MustCompile(`(?m)^(1\. Summary|2\. Main Points|3\. Helpful Definitions)\s*$`)

// segmentSections splits normalized text into the three section bodies by
// canonical header position. Bodies are trimmed; a header that never occurs
// yields an empty body.
func segmentSections(text string) [3]string {
	matches := canonicalHeaderLine.FindAllStringSubmatchIndex(text, -1)

	var bodies [3]string
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(text[m[1]:end])

		switch text[m[2]:m[3]] {
		case HeaderSummary:
			if bodies[0] == "" {
				bodies[0] = body
			}
		case HeaderMainPoints:
			if bodies[1] == "" {
				bodies[1] = body
			}
		case HeaderDefinitions:
			if bodies[2] == "" {
				bodies[2] = body
			}
		}
	}
	return bodies
}
