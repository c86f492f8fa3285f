// Package codec implements the delimited option encoding used by the
// legacy exam database: the four options and the correct-answer marker
// travel as a single string of the form "*A:text|B:text|C:text|D:text",
// where the token for the correct letter carries a leading asterisk.
package codec

import (
	"fmt"
	"strings"

	appErrors "github.com/haise314/exam-management-system/pkg/errors"
)

// Letters are the valid option keys, in render order.
var Letters = []string{"A", "B", "C", "D"}

// Options maps an option letter to its text.
type Options map[string]string

// ValidLetter reports whether l is one of A-D.
func ValidLetter(l string) bool {
	for _, letter := range Letters {
		if l == letter {
			return true
		}
	}
	return false
}

// Encode serialises the four options and the correct letter. All of A-D
// must be present and correct must be one of them.
func Encode(opts Options, correct string) (string, error) {
	if !ValidLetter(correct) {
		return "", appErrors.Clone(appErrors.ErrEncoding, fmt.Sprintf("correct answer %q is not one of A-D", correct))
	}

	tokens := make([]string, 0, len(Letters))
	for _, letter := range Letters {
		text, ok := opts[letter]
		if !ok {
			return "", appErrors.Clone(appErrors.ErrEncoding, fmt.Sprintf("option %s is missing", letter))
		}
		prefix := ""
		if letter == correct {
			prefix = "*"
		}
		tokens = append(tokens, prefix+letter+":"+text)
	}

	return strings.Join(tokens, "|"), nil
}

// Decode parses an encoded option string back into the option map and
// the correct letter. The exact byte layout is not preserved; the letter
// set and the marker are.
func Decode(encoded string) (Options, string, error) {
	tokens := strings.Split(encoded, "|")
	if len(tokens) < 2 {
		return nil, "", appErrors.Clone(appErrors.ErrDecoding, "fewer than two options")
	}

	opts := make(Options, len(tokens))
	correct := ""
	for _, token := range tokens {
		marked := strings.HasPrefix(token, "*")
		if marked {
			token = token[1:]
		}

		letter, text, found := strings.Cut(token, ":")
		if !found || letter == "" {
			return nil, "", appErrors.Clone(appErrors.ErrDecoding, fmt.Sprintf("malformed option token %q", token))
		}

		if marked {
			if correct != "" {
				return nil, "", appErrors.Clone(appErrors.ErrDecoding, "more than one option marked correct")
			}
			correct = letter
		}
		opts[letter] = text
	}

	if correct == "" {
		return nil, "", appErrors.Clone(appErrors.ErrDecoding, "no option marked correct")
	}

	return opts, correct, nil
}
