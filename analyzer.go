package laneskip

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TERM LANES
// ═══════════════════════════════════════════════════════════════════════════════
// A SkipList[string] makes a small sorted term dictionary. Text goes through
// the usual analysis pipeline before its terms are linked in:
//
//	"The Quick Brown Fox Jumps!"
//	  tokenize   → ["The", "Quick", "Brown", "Fox", "Jumps"]
//	  lowercase  → ["the", "quick", "brown", "fox", "jumps"]
//	  stopwords  → ["quick", "brown", "fox", "jumps"]
//	  length     → ["quick", "brown", "fox", "jumps"]
//	  stem       → ["quick", "brown", "fox", "jump"]
//
// The level each term gets comes from a LevelPolicy; HashStrings is the usual
// choice because it gives a term the same lanes in every list.
// ═══════════════════════════════════════════════════════════════════════════════

// AnalyzerConfig tunes the analysis pipeline.
type AnalyzerConfig struct {
	MinTokenLength  int  // Shorter tokens are dropped (default: 2)
	EnableStemming  bool // Reduce tokens to their snowball stem (default: true)
	EnableStopwords bool // Drop common English words (default: true)
}

// DefaultConfig returns the standard analyzer configuration.
func DefaultConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MinTokenLength:  2,
		EnableStemming:  true,
		EnableStopwords: true,
	}
}

// Analyze turns text into terms with DefaultConfig.
//
// Example:
//
//	Analyze("The quick brown fox jumps over the lazy dog")
//	// ["quick", "brown", "fox", "jump", "lazi", "dog"]
func Analyze(text string) []string {
	return AnalyzeWithConfig(text, DefaultConfig())
}

// AnalyzeWithConfig turns text into terms with a custom configuration.
func AnalyzeWithConfig(text string, config AnalyzerConfig) []string {
	// Any rune that is neither a letter nor a digit separates tokens.
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	terms := tokens[:0]
	for _, token := range tokens {
		token = strings.ToLower(token)

		if config.EnableStopwords && isStopword(token) {
			continue
		}
		if len(token) < config.MinTokenLength {
			continue
		}
		if config.EnableStemming {
			token = snowballeng.Stem(token, false)
		}

		terms = append(terms, token)
	}
	return terms
}

// IndexTerms analyzes text and inserts every resulting term into sl at the
// level policy picks for it. Repeated terms are inserted once per occurrence.
// It returns how many terms were inserted before any error.
func IndexTerms(sl *SkipList[string], text string, policy LevelPolicy[string]) (int, error) {
	terms := Analyze(text)
	slog.Info("indexing terms", slog.Int("terms", len(terms)))

	for i, term := range terms {
		if _, err := sl.InsertWithPolicy(NewKeyNode(term), policy); err != nil {
			return i, fmt.Errorf("term %q: %w", term, err)
		}
	}
	return len(terms), nil
}

func isStopword(token string) bool {
	_, ok := englishStopwords[token]
	return ok
}

var englishStopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {},
	"and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"because": {}, "been": {}, "before": {}, "being": {}, "between": {},
	"both": {}, "but": {}, "by": {}, "can": {}, "could": {}, "did": {},
	"do": {}, "does": {}, "each": {}, "for": {}, "from": {}, "had": {},
	"has": {}, "have": {}, "he": {}, "her": {}, "here": {}, "him": {},
	"his": {}, "how": {}, "i": {}, "if": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "just": {}, "me": {}, "more": {},
	"most": {}, "my": {}, "no": {}, "not": {}, "now": {}, "of": {},
	"on": {}, "only": {}, "or": {}, "other": {}, "our": {}, "out": {},
	"over": {}, "she": {}, "so": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {}, "to": {},
	"too": {}, "under": {}, "up": {}, "very": {}, "was": {}, "we": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "while": {},
	"who": {}, "why": {}, "will": {}, "with": {}, "would": {}, "you": {},
	"your": {},
}
