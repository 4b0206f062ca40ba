package issueform

import "fmt"

// Labels lists, per field, the heading texts accepted for it. Issue
// templates have been reworded over time, so each field is probed under
// every historical label in priority order.
type Labels struct {
	Word          []string
	PartOfSpeech  []string
	OtherSpelling []string
	Pronunciation []string
	Meaning       []string
	Examples      []string
	Synonyms      []string
	Tags          []string
	Notes         []string
}

// DefaultLabels returns the labels used by the published issue templates.
func DefaultLabels() Labels {
	return Labels{
		Word:          []string{"Word", "Word (must match existing)"},
		PartOfSpeech:  []string{"Part of speech", "Part of Speech"},
		OtherSpelling: []string{"Other spelling (UK/US if different)", "Other spelling (if different)", "Other spelling"},
		Pronunciation: []string{"Pronunciation (IPA etc.)", "Pronunciation"},
		Meaning:       []string{"Meaning (Japanese)", "Meaning (JP)", "Meaning"},
		Examples:      []string{"Examples (one per line)", "Examples"},
		Synonyms:      []string{"Synonyms (comma-separated)", "Synonyms"},
		Tags:          []string{"Tags (comma-separated)", "Tags"},
		Notes:         []string{"Notes"},
	}
}

// Extend returns a copy of l with extra labels appended after the existing
// ones. Keys are the entry field names (word, part_of_speech, ...).
func (l Labels) Extend(extra map[string][]string) (Labels, error) {
	out := l
	for field, labels := range extra {
		dst, err := out.field(field)
		if err != nil {
			return l, err
		}
		*dst = append(append([]string(nil), *dst...), labels...)
	}
	return out, nil
}

func (l *Labels) field(name string) (*[]string, error) {
	switch name {
	case "word":
		return &l.Word, nil
	case "part_of_speech":
		return &l.PartOfSpeech, nil
	case "other_spelling":
		return &l.OtherSpelling, nil
	case "pronunciation":
		return &l.Pronunciation, nil
	case "meaning":
		return &l.Meaning, nil
	case "examples":
		return &l.Examples, nil
	case "synonyms":
		return &l.Synonyms, nil
	case "tags":
		return &l.Tags, nil
	case "notes":
		return &l.Notes, nil
	}
	return nil, fmt.Errorf("unknown field %q in label aliases", name)
}
