package vocab

import "encoding/json"

// Entry is one vocabulary record, keyed case-insensitively by Word.
type Entry struct {
	Word          string   `json:"word"`
	PartOfSpeech  string   `json:"part_of_speech"`
	OtherSpelling string   `json:"other_spelling"`
	Pronunciation string   `json:"pronunciation"`
	Meaning       string   `json:"meaning"`
	Examples      []string `json:"examples"`
	Synonyms      []string `json:"synonyms"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
	Mastery       int      `json:"mastery"`
	LastReviewed  string   `json:"last_reviewed"`
	CreatedAt     string   `json:"created_at"`
	SourceIssue   string   `json:"source_issue"`
}

// UnmarshalJSON accepts records written before the meaning column was
// renamed from meaning_ja, and normalizes null lists to empty ones.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var raw struct {
		plain
		MeaningJA string `json:"meaning_ja"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry(raw.plain)
	if e.Meaning == "" {
		e.Meaning = raw.MeaningJA
	}
	e.Examples = nonNil(e.Examples)
	e.Synonyms = nonNil(e.Synonyms)
	e.Tags = nonNil(e.Tags)
	return nil
}

// Fields is the incoming field set of one submission. The *Raw fields keep
// the unparsed list text so an omitted list can be told apart from one that
// was provided.
type Fields struct {
	Word          string
	PartOfSpeech  string
	OtherSpelling string
	Pronunciation string
	Meaning       string
	Examples      []string
	ExamplesRaw   string
	Synonyms      []string
	SynonymsRaw   string
	Tags          []string
	TagsRaw       string
	Notes         string
}

// Status is the terminal report of one upsert.
type Status string

const (
	StatusAdded   Status = "added"
	StatusUpdated Status = "updated"
)

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
