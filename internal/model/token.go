package model

import "strings"

// Token is a single tagged token as produced by a tagger
type Token struct {
	Text string `json:"text"` // Surface text as it appears in the sentence
	POS  string `json:"pos"`  // Part-of-speech tag, passed through unmodified
}

// WordMatch records whether a target word occurs among the tokens
type WordMatch struct {
	Found bool   `json:"found"`
	Token *Token `json:"token,omitempty"` // Leftmost matching token (nil if not found)
}

// MatchWord finds the first token whose text equals word, ignoring case.
// When the word occurs several times the leftmost occurrence is authoritative.
func MatchWord(tokens []Token, word string) WordMatch {
	for i := range tokens {
		if strings.EqualFold(tokens[i].Text, word) {
			tok := tokens[i]
			return WordMatch{Found: true, Token: &tok}
		}
	}
	return WordMatch{}
}
