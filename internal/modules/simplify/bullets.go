package simplify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	mainPointsStart = regexp.MustCompile(`(?m)^\s*2\.\s*Main Points\s*$`)
	bulletMarkerRe  = regexp.MustCompile(`^\s*(?:[-*•–—]|\d+[.)]\s)\s*`)
	sentenceEndRe   = regexp.MustCompile(`[.!?][ \t\n]+`)
)

// FixMainPointsBullets rewrites the body of the Main Points section so every
// item is a "- " hyphen bullet on its own line. Existing bullet markers of any
// style are replaced; run-on prose is split at sentence boundaries. The "N/A"
// placeholder and text outside the section are left untouched. Idempotent.
func FixMainPointsBullets(text string) string {
	loc := mainPointsStart.FindStringIndex(text)
	if loc == nil {
		return text
	}

	bodyStart := loc[1]
	bodyEnd := len(text)
	// Numbered list items look like section headers, so the body is bounded
	// by the next canonical header line rather than any numbered line.
	if next := canonicalHeaderLine.FindStringIndex(text[bodyStart:]); next != nil {
		bodyEnd = bodyStart + next[0]
	}

	body := text[bodyStart:bodyEnd]
	trimmed := strings.TrimSpace(body)
	if trimmed == "" || trimmed == "N/A" {
		return text
	}

	var items []string
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = bulletMarkerRe.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		for _, sentence := range splitSentences(line) {
			items = append(items, "- "+sentence)
		}
	}
	if len(items) == 0 {
		return text
	}

	fixed := text[:bodyStart] + "\n" + strings.Join(items, "\n")
	if after := strings.TrimLeft(text[bodyEnd:], "\n"); after != "" {
		fixed += "\n\n" + after
	}
	return fixed
}

// splitSentences breaks run-on text at sentence-ending punctuation, but only
// when what follows plausibly starts a new item. Abbreviations followed by
// lowercase words stay intact.
func splitSentences(text string) []string {
	var parts []string
	start := 0
	for _, m := range sentenceEndRe.FindAllStringIndex(text, -1) {
		rest := text[m[1]:]
		r, _ := utf8.DecodeRuneInString(rest)
		if !isSentenceStart(r) {
			continue
		}
		part := strings.TrimSpace(text[start : m[0]+1])
		if part != "" {
			parts = append(parts, part)
		}
		start = m[1]
	}
	tail := strings.TrimSpace(bulletMarkerRe.ReplaceAllString(text[start:], ""))
	if tail != "" {
		parts = append(parts, tail)
	}

	for i, p := range parts {
		parts[i] = strings.TrimSpace(bulletMarkerRe.ReplaceAllString(p, ""))
	}
	return parts
}

func isSentenceStart(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '(':
		return true
	case r == '•' || r == '-' || r == '*' || r == '–' || r == '—':
		return true
	}
	return false
}
