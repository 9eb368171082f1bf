package form

import (
	"fmt"
	"regexp"
	"strings"
)

// Intentionally permissive, not RFC-compliant: a local part and a dotted
// domain, each a run of non-whitespace.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Report is the full validation result for one submit attempt. It is
// recomputed from scratch on every attempt and never persisted. QuestionErrors
// has one slot per question, in question order; an empty string means the
// question passed.
type Report struct {
	ActiveRecordingError string   `json:"active_recording_error,omitempty"`
	NameError            string   `json:"name_error,omitempty"`
	EmailError           string   `json:"email_error,omitempty"`
	QuestionErrors       []string `json:"question_errors"`
}

// OK reports the verdict: pass iff every field and every question slot is
// clear.
func (r *Report) OK() bool {
	if r.ActiveRecordingError != "" || r.NameError != "" || r.EmailError != "" {
		return false
	}
	for _, msg := range r.QuestionErrors {
		if msg != "" {
			return false
		}
	}
	return true
}

// Validate checks the form in a fixed precedence order and always returns a
// complete report, never an error.
//
//  1. Identity checks always run: name must be non-blank; email must be
//     non-blank and shaped like local@domain.tld.
//  2. Active-recording veto: if any answer's audio artifact is still
//     recording, the report names the first such question and the
//     per-question completeness checks are skipped entirely for this pass.
//  3. Per-question completeness, only when no recording is open: a question
//     fails iff its text is blank and it has no audio artifact. Audio whose
//     own recording already finished still exempts the question from
//     requiring text.
//
// The identity checks and the veto are independent; neither suppresses the
// other.
func Validate(s *State) *Report {
	rep := &Report{QuestionErrors: make([]string, len(s.Answers))}

	if trimmed(s.Name) == "" {
		rep.NameError = "Name is required"
	}
	switch {
	case trimmed(s.Email) == "":
		rep.EmailError = "Email is required"
	case !emailPattern.MatchString(s.Email):
		rep.EmailError = "Email is invalid"
	}

	for i, a := range s.Answers {
		if a.Audio != nil && a.Audio.Recording {
			rep.ActiveRecordingError = fmt.Sprintf("Recording in progress for Question %d", i+1)
			return rep
		}
	}

	for i, a := range s.Answers {
		if !a.Answered() {
			rep.QuestionErrors[i] = fmt.Sprintf("Please provide an answer for Question %d", i+1)
		}
	}
	return rep
}

func trimmed(s string) string { return strings.TrimSpace(s) }
