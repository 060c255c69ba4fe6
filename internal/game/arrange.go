package game

import (
	"strings"

	"github.com/samber/lo"
)

// Token is one word tile of an arrange question. ID keeps duplicate words apart.
type Token struct {
	ID   int
	Text string
}

// Arrangement is the two pools of an arrange question
type Arrangement struct {
	Available []Token
	Answer    []Token
}

// Shuffler reorders tokens in place
type Shuffler func([]Token)

func shuffleTokens(tokens []Token) {
	lo.Shuffle(tokens)
}

func newArrangement(words []string, shuffle Shuffler) Arrangement {
	tokens := lo.Map(words, func(word string, i int) Token {
		return Token{ID: i, Text: word}
	})
	shuffle(tokens)
	return Arrangement{Available: tokens, Answer: []Token{}}
}

// Pick moves the available token at pos to the end of the answer
func (a *Arrangement) Pick(pos int) bool {
	if pos < 0 || pos >= len(a.Available) {
		return false
	}
	token := a.Available[pos]
	a.Available = append(a.Available[:pos], a.Available[pos+1:]...)
	a.Answer = append(a.Answer, token)
	return true
}

// Unpick moves the answer token at pos back to the end of the available pool
func (a *Arrangement) Unpick(pos int) bool {
	if pos < 0 || pos >= len(a.Answer) {
		return false
	}
	token := a.Answer[pos]
	a.Answer = append(a.Answer[:pos], a.Answer[pos+1:]...)
	a.Available = append(a.Available, token)
	return true
}

// Words returns the answer in its current order
func (a Arrangement) Words() []string {
	return lo.Map(a.Answer, func(t Token, _ int) string { return t.Text })
}

// Sentence joins words the way the correct answer is displayed
func Sentence(words []string) string {
	return strings.Join(words, " ")
}

func (a Arrangement) clone() Arrangement {
	return Arrangement{
		Available: append([]Token(nil), a.Available...),
		Answer:    append([]Token(nil), a.Answer...),
	}
}
