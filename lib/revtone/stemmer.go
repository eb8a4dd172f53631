package revtone

import "strings"

// suffixRules is an ordered table of strippable endings, first match wins.
// The order is part of the model contract: stems produced by this table form
// the vocabulary, so reordering or "improving" the rules silently invalidates
// every model trained before the change.
var suffixRules = []string{
	"ational", "fulness", "iveness", "ousness", "ization",
	"biliti", "tional", "lessli", "entli", "ation", "alism",
	"aliti", "ousli", "fulli", "enci", "anci", "abli",
	"izer", "ator", "logi", "ical", "ness", "ment", "ingly",
	"edly", "ing", "ers", "ies", "ied", "ly", "ed", "es", "s",
}

// minStemLen is the shortest remainder a suffix rule may leave behind.
const minStemLen = 3

// stem reduces a word to its base form. A rule from the table applies only
// when both the suffix matches and the remainder keeps minStemLen bytes;
// a matching suffix failing the length guard keeps scanning the table.
// Tokens are ascii by the time they get here, so byte lengths are fine.
func stem(word string) string {
	if len(word) <= minStemLen {
		return word
	}

	saved := word
	for _, ending := range suffixRules {
		if strings.HasSuffix(word, ending) && len(word)-len(ending) >= minStemLen {
			word = word[:len(word)-len(ending)]
			break
		}
	}

	if strings.HasSuffix(word, "er") && len(word) > 4 {
		word = word[:len(word)-2]
	}
	if strings.HasSuffix(word, "ly") && len(word) > 4 {
		word = word[:len(word)-2]
	}
	if strings.HasSuffix(word, "e") && len(word) > 3 {
		word = word[:len(word)-1]
	}

	if word == "" {
		word = saved
	}
	return word
}
