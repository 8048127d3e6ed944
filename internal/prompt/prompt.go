// Package prompt gates destructive operations on explicit operator
// confirmation. The terminal prompter accepts exactly "yes" or "no" and
// re-prompts on anything else: there is no default and no way to confirm
// with a malformed or empty response.
package prompt

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

const question = "\nWould you like to continue? (yes or no): "

// Prompter is the confirmation gate. Confirm returns true only for an
// explicit affirmative response.
type Prompter interface {
	Confirm() (bool, error)
}

// Terminal prompts on Out and reads line-wise from In until it sees one
// of the two accepted literals.
type Terminal struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

func (t *Terminal) Confirm() (bool, error) {
	if t.scanner == nil {
		t.scanner = bufio.NewScanner(t.In)
	}

	for {
		fmt.Fprint(t.Out, question)

		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return false, errors.Wrap(err, "reading confirmation")
			}
			return false, errors.New("confirmation input closed before an answer was given")
		}

		switch t.scanner.Text() {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
	}
}

// Scripted replays canned confirmation outcomes; a test double for
// exercising orchestration without interactive input.
type Scripted struct {
	Answers []bool

	// Calls counts how many confirmations were requested.
	Calls int
}

func (s *Scripted) Confirm() (bool, error) {
	if s.Calls >= len(s.Answers) {
		return false, errors.New("scripted prompter exhausted")
	}
	answer := s.Answers[s.Calls]
	s.Calls++
	return answer, nil
}
