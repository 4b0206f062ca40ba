package vocab

import (
	"sort"
	"strings"
	"time"
)

// TimeLayout is the created_at format. It matches the ISO timestamps with a
// numeric UTC offset that existing word lists already contain.
const TimeLayout = "2006-01-02T15:04:05.000000-07:00"

// FieldError reports a required submission field that was missing.
type FieldError struct {
	Field string
	msg   string
}

func (e *FieldError) Error() string { return e.msg }

var (
	// ErrMissingWord is returned when the submission has no Word field.
	ErrMissingWord = &FieldError{Field: "word", msg: "Word is required but missing."}
	// ErrMissingMeaning is returned when a new word is submitted without a meaning.
	ErrMissingMeaning = &FieldError{Field: "meaning", msg: "Meaning (Japanese) is required for a new word."}
)

// Key normalizes a word for identity comparison.
func Key(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Find returns the index of the entry whose word matches case-insensitively, or -1.
func Find(entries []Entry, word string) int {
	key := Key(word)
	for i, e := range entries {
		if Key(e.Word) == key {
			return i
		}
	}
	return -1
}

// SourceID identifies a submission, preferring its URL.
func SourceID(url, number string) string {
	if url != "" {
		return url
	}
	return "#" + number
}

// Upsert merges the incoming fields into entries. A new word is appended;
// an existing one is updated in place, keeping every field the submission
// left empty. The returned slice may share storage with entries.
func Upsert(entries []Entry, in Fields, source string, now time.Time) ([]Entry, Status, error) {
	word := strings.TrimSpace(in.Word)
	if word == "" {
		return entries, "", ErrMissingWord
	}
	stamp := now.UTC().Format(TimeLayout)

	idx := Find(entries, word)
	if idx == -1 {
		if in.Meaning == "" {
			return entries, "", ErrMissingMeaning
		}
		entries = append(entries, Entry{
			Word:          word,
			PartOfSpeech:  in.PartOfSpeech,
			OtherSpelling: in.OtherSpelling,
			Pronunciation: in.Pronunciation,
			Meaning:       in.Meaning,
			Examples:      nonNil(in.Examples),
			Synonyms:      nonNil(in.Synonyms),
			Tags:          nonNil(in.Tags),
			Notes:         in.Notes,
			Mastery:       0,
			LastReviewed:  "",
			CreatedAt:     stamp,
			SourceIssue:   source,
		})
		return entries, StatusAdded, nil
	}

	e := &entries[idx]
	e.Word = word
	setIfPresent(&e.PartOfSpeech, in.PartOfSpeech)
	setIfPresent(&e.OtherSpelling, in.OtherSpelling)
	setIfPresent(&e.Pronunciation, in.Pronunciation)
	setIfPresent(&e.Meaning, in.Meaning)

	// Lists are replaced only when the submission provided raw text.
	if strings.TrimSpace(in.ExamplesRaw) != "" {
		e.Examples = nonNil(in.Examples)
	}
	if strings.TrimSpace(in.SynonymsRaw) != "" {
		e.Synonyms = nonNil(in.Synonyms)
	}
	if strings.TrimSpace(in.TagsRaw) != "" {
		e.Tags = nonNil(in.Tags)
	}

	setIfPresent(&e.Notes, in.Notes)
	if e.CreatedAt == "" {
		e.CreatedAt = stamp
	}
	e.SourceIssue = source
	return entries, StatusUpdated, nil
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Sort orders entries by word, case-insensitively. Ties keep their order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Word) < strings.ToLower(entries[j].Word)
	})
}
