package knowledge

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "can": true, "do": true, "does": true, "for": true,
	"from": true, "how": true, "i": true, "in": true, "is": true, "it": true,
	"its": true, "me": true, "my": true, "of": true, "on": true, "or": true,
	"the": true, "this": true, "to": true, "was": true, "what": true,
	"when": true, "where": true, "which": true, "who": true, "will": true,
	"with": true, "you": true,
}

// Tokenize splits text into lowercase search terms on Unicode word
// boundaries. Punctuation and common English stopwords are dropped.
func Tokenize(text string) []string {
	var terms []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if !isWord(word) {
			continue
		}
		w := strings.ToLower(word)
		if stopwords[w] {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
