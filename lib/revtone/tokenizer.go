package revtone

import (
	"strings"
	"unicode"
)

// Tokenize splits a text into classification tokens: lowercase, keep only
// [a-z0-9'] and whitespace, split on whitespace, drop stopwords and stem
// what survives. Duplicates are kept and order is preserved, bigrams depend
// on it. Uses the built-in stopword set.
func Tokenize(text string) []string {
	return tokenize(text, stopWords)
}

// tokenize is Tokenize against an explicit stopword set. The stopword check
// runs on the surface token, before stemming.
func tokenize(text string, stops map[string]struct{}) []string {
	lowered := strings.ToLower(text)

	var cleaned strings.Builder
	cleaned.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			cleaned.WriteRune(r)
		case unicode.IsSpace(r):
			cleaned.WriteRune(r)
		default:
			cleaned.WriteByte(' ')
		}
	}

	res := []string{}
	for _, tok := range strings.Fields(cleaned.String()) {
		if _, ok := stops[tok]; ok {
			continue
		}
		res = append(res, stem(tok))
	}
	return res
}

// features turns a token list into model features: unigrams in input order
// first, then adjacent pairs joined with "_" appended after them when
// bigrams are enabled and there is more than one token.
func features(tokens []string, bigrams bool) []string {
	feats := make([]string, 0, len(tokens)*2)
	for _, tok := range tokens {
		if tok != "" {
			feats = append(feats, tok)
		}
	}
	if bigrams && len(tokens) > 1 {
		for i := 0; i < len(tokens)-1; i++ {
			feats = append(feats, tokens[i]+"_"+tokens[i+1])
		}
	}
	return feats
}
