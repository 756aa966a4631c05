// Package moderation censors facilitator broadcasts before they are
// relayed into the breakout rooms.
package moderation

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Censor masks configured words in relayed text. A Censor built from an
// empty word list passes everything through unchanged.
type Censor struct {
	matcher *goahocorasick.Machine
	mask    rune
}

// NewCensor builds the Aho-Corasick automaton over the lowered word list.
func NewCensor(words []string, mask rune) (*Censor, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		patterns = append(patterns, []rune(word))
	}
	if len(patterns) == 0 {
		return &Censor{mask: mask}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{matcher: m, mask: mask}, nil
}

// Censor replaces every matched span with the mask character, matching
// case-insensitively while preserving the rest of the text untouched.
func (c *Censor) Censor(original string) string {
	if c == nil || c.matcher == nil {
		return original
	}

	lowered := []rune(strings.Map(unicode.ToLower, original))
	spans := c.matcher.MultiPatternSearch(lowered, false)
	if len(spans) == 0 {
		return original
	}

	out := []rune(original)
	for _, span := range spans {
		end := span.Pos + len(span.Word)
		if span.Pos < 0 || end > len(out) {
			continue
		}
		for i := span.Pos; i < end; i++ {
			out[i] = c.mask
		}
	}
	return string(out)
}
