// Package token splits input text into word and punctuation tokens for the
// synthesis pipeline.
package token

import (
	"regexp"
)

// Kind classifies a token produced by the tokenizer.
type Kind int

const (
	// Word is a run of word characters and apostrophes.
	Word Kind = iota
	// Terminal is sentence-ending punctuation: . ! ?
	Terminal
	// Comma is clause punctuation: , ;
	Comma
)

// Token is one unit of tokenized input text.
type Token struct {
	Text string
	Kind Kind
}

// tokenRegex matches runs of word characters and apostrophes, or a single
// piece of pause punctuation. Everything else is a discardable separator.
var tokenRegex = regexp.MustCompile(`[\w']+|[.,!?;]`)

// Tokenize splits text into an ordered sequence of tokens. Word text keeps
// its original case; matching against the voice bank happens
// case-insensitively downstream. Empty input yields an empty sequence.
func Tokenize(text string) []Token {
	matches := tokenRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, Token{Text: m, Kind: kindOf(m)})
	}
	return tokens
}

func kindOf(text string) Kind {
	switch text {
	case ".", "!", "?":
		return Terminal
	case ",", ";":
		return Comma
	default:
		return Word
	}
}
