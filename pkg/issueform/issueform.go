// Package issueform reads fields out of GitHub issue-form bodies.
//
// An issue form is rendered as Markdown where every field is a level-3
// heading followed by the submitted value:
//
//	### Word
//	serendipity
//
//	### Notes
//	_No response_
package issueform

import (
	"strings"

	"github.com/japaniel/wordbook/pkg/vocab"
)

// NoResponse is what GitHub renders for an optional field left blank.
const NoResponse = "_No response_"

const headingPrefix = "### "

// Extract returns the value of the section headed by label, or "" when the
// section is missing or holds the no-response placeholder.
func Extract(body, label string) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	start := -1
	for i, line := range lines {
		if rest, ok := strings.CutPrefix(line, headingPrefix); ok && strings.TrimRight(rest, " \t") == label {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return ""
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], headingPrefix) {
			end = i
			break
		}
	}

	val := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
	if val == NoResponse {
		return ""
	}
	return val
}

// First probes labels in order and returns the first non-empty value.
func First(body string, labels []string) string {
	for _, label := range labels {
		if v := Extract(body, label); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Parse extracts every vocabulary field from an issue body.
func Parse(body string, labels Labels) vocab.Fields {
	examplesRaw := First(body, labels.Examples)
	synonymsRaw := First(body, labels.Synonyms)
	tagsRaw := First(body, labels.Tags)

	return vocab.Fields{
		Word:          strings.TrimSpace(First(body, labels.Word)),
		PartOfSpeech:  strings.TrimSpace(First(body, labels.PartOfSpeech)),
		OtherSpelling: strings.TrimSpace(First(body, labels.OtherSpelling)),
		Pronunciation: strings.TrimSpace(First(body, labels.Pronunciation)),
		Meaning:       strings.TrimSpace(First(body, labels.Meaning)),
		Examples:      SplitLines(examplesRaw),
		ExamplesRaw:   examplesRaw,
		Synonyms:      SplitSet(synonymsRaw),
		SynonymsRaw:   synonymsRaw,
		Tags:          SplitSet(tagsRaw),
		TagsRaw:       tagsRaw,
		Notes:         strings.TrimSpace(First(body, labels.Notes)),
	}
}

// SplitLines returns the non-blank lines of s, trimmed, in order.
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SplitSet splits a comma-separated list, dropping blanks and
// case-insensitive duplicates. The first spelling seen is kept.
func SplitSet(s string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := strings.ToLower(part)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, part)
	}
	return out
}
