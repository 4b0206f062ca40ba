package reading

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Analyzer produces hiragana readings for Japanese text.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a new tokenizer instance.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Reading returns the hiragana reading of text. Tokens without a reading
// (latin text, symbols, unknown words) are kept as written.
func (a *Analyzer) Reading(text string) string {
	var b strings.Builder
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}

		// IPA features: 7 is the katakana reading.
		features := token.Features()
		if len(features) > 7 && features[7] != "*" {
			b.WriteString(features[7])
		} else {
			b.WriteString(token.Surface)
		}
	}
	return ToHiragana(b.String())
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
