package simplify

import (
	"regexp"
	"strings"
)

const maxDashTermLen = 120

var (
	definitionsStart = regexp.MustCompile(`(?m)^\s*3\.\s*Helpful Definitions\s*$`)
	nextSectionRe    = regexp.MustCompile(`(?m)^\s*\d+\.\s`)
	spacedDashRe     = regexp.MustCompile(`\s[–—-]\s`)
	boldWrapRe       = regexp.MustCompile(`^\*\*(.+)\*\*$`)
)

// FixHelpfulDefinitionsFormatting rewrites every parseable line of the
// Helpful Definitions section to the canonical "- **Term**: definition" form.
// Term and definition split at the first colon, falling back to the first
// spaced dash when the candidate term stays short enough to be a term rather
// than prose. Lines that fit neither shape, and the "N/A" placeholder, pass
// through untouched. Idempotent.
func FixHelpfulDefinitionsFormatting(text string) string {
	loc := definitionsStart.FindStringIndex(text)
	if loc == nil {
		return text
	}

	bodyStart := loc[1]
	bodyEnd := len(text)
	if next := nextSectionRe.FindStringIndex(text[bodyStart:]); next != nil {
		bodyEnd = bodyStart + next[0]
	}

	body := text[bodyStart:bodyEnd]
	trimmedBody := strings.TrimSpace(body)
	if trimmedBody == "" || trimmedBody == "N/A" {
		return text
	}

	lines := strings.Split(trimmedBody, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "N/A" {
			continue
		}
		trimmed = bulletMarkerRe.ReplaceAllString(trimmed, "")

		term, def, ok := splitTermDefinition(trimmed)
		if !ok {
			// No separator means this is not a definition line.
			continue
		}
		lines[i] = "- " + boldTerm(term) + ": " + def
	}

	fixed := text[:bodyStart] + "\n" + strings.Join(lines, "\n")
	if after := strings.TrimLeft(text[bodyEnd:], "\n"); after != "" {
		fixed += "\n\n" + after
	}
	return fixed
}

// splitTermDefinition separates a definition line into term and definition.
// The first colon wins; otherwise the first spaced dash, unless the text
// before it is too long to be a term.
func splitTermDefinition(line string) (term, def string, ok bool) {
	if idx := strings.Index(line, ":"); idx > 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
	}
	if m := spacedDashRe.FindStringIndex(line); m != nil {
		candidate := strings.TrimSpace(line[:m[0]])
		if candidate != "" && len(candidate) <= maxDashTermLen {
			return candidate, strings.TrimSpace(line[m[1]:]), true
		}
	}
	return "", "", false
}

// boldTerm wraps the term in bold markers, stripping stray brackets and any
// existing bold so repeated runs never double-wrap.
func boldTerm(term string) string {
	term = strings.Trim(term, "[]()")
	term = strings.TrimSpace(term)
	if m := boldWrapRe.FindStringSubmatch(term); m != nil {
		term = strings.TrimSpace(m[1])
	}
	term = strings.Trim(term, "*")
	return "**" + term + "**"
}

// RepairOutput applies the full post-processing pipeline to a complete model
// response: canonical headers, hyphen bullets, formatted definitions.
func RepairOutput(text string) string {
	out := NormalizeHeaders(text)
	out = FixMainPointsBullets(out)
	out = FixHelpfulDefinitionsFormatting(out)
	return out
}

// RepairDocumentOutput repairs a document-level response. Document responses
// arrive with sections in arbitrary order often enough that the bodies are
// re-segmented and reassembled canonically before the per-section fixes run.
func RepairDocumentOutput(text string) string {
	return RepairOutput(FixDocumentSections(text))
}

// FixDocumentSections normalizes headers and reassembles the three sections
// in canonical order. Empty bodies become "N/A".
func FixDocumentSections(text string) string {
	bodies := segmentSections(NormalizeHeaders(text))
	for i, b := range bodies {
		if strings.TrimSpace(b) == "" {
			bodies[i] = "N/A"
		}
	}
	return HeaderSummary + "\n" + bodies[0] +
		"\n\n" + HeaderMainPoints + "\n" + bodies[1] +
		"\n\n" + HeaderDefinitions + "\n" + bodies[2]
}
