// Package form implements the answer/recording coordination state machine
// behind the interview form: per-question answer state, the single active
// recording slot, submission validation, and the editing/submitted lifecycle.
//
// The package owns no transport or storage concerns; callers feed it discrete
// events (identity edits, text edits, recording data callbacks) and read the
// derived recorder and validation state back out.
package form

import "fmt"

// IdentityField names one of the two respondent identity fields.
type IdentityField string

const (
	FieldName  IdentityField = "name"
	FieldEmail IdentityField = "email"
)

// AudioArtifact is the recording produced by the external recording provider.
// The core treats it as opaque beyond these fields: a re-recording replaces
// the artifact wholesale, it is never mutated in place.
type AudioArtifact struct {
	// Payload is the raw recorded audio. It is excluded from JSON views of the
	// form state; the wire layer carries it separately.
	Payload []byte `json:"-"`
	// Locator is a playback reference derived from Payload.
	Locator string `json:"locator"`
	// Recording is true while the artifact's recording session is still open.
	Recording bool `json:"recording"`
	// Size is the payload byte length, informational only.
	Size int64 `json:"size,omitempty"`
}

// AnswerRecord holds the state of a single question's answer. A record moves
// to "recording" before any artifact exists, so Recording is tracked on the
// record itself and mirrored from the artifact whenever one is attached.
type AnswerRecord struct {
	Text      string         `json:"text"`
	Audio     *AudioArtifact `json:"audio,omitempty"`
	Recording bool           `json:"recording"`
}

// Answered reports whether the record counts as answered: non-blank text or a
// present audio artifact, regardless of that artifact's own recording status.
func (r AnswerRecord) Answered() bool {
	return trimmed(r.Text) != "" || r.Audio != nil
}

// State is the whole form: identity fields, one answer record per question
// (fixed count, order significant), and the submitted flag. It is exclusively
// owned by its form; all derived views are recomputed from it on demand.
type State struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Answers   []AnswerRecord `json:"answers"`
	Submitted bool           `json:"submitted"`
}

// NewState returns a fresh editing-state form with questionCount empty
// answer records.
func NewState(questionCount int) *State {
	return &State{Answers: make([]AnswerRecord, questionCount)}
}

// SetIdentity replaces the named identity field. No validation happens here;
// identity is only checked on submit.
func (s *State) SetIdentity(field IdentityField, value string) {
	switch field {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	default:
		panic(fmt.Sprintf("form: unknown identity field %q", field))
	}
}

// SetAnswerText replaces the text of the answer at index i, leaving any audio
// state untouched. The index must be in range; callers translating untrusted
// input are expected to range-check first.
func (s *State) SetAnswerText(i int, text string) {
	s.mustIndex(i)
	s.Answers[i].Text = text
}

// SetAnswerAudio replaces the audio artifact of the answer at index i
// wholesale and mirrors the artifact's recording flag onto the record. This
// is the only path by which audio state changes.
func (s *State) SetAnswerAudio(i int, artifact AudioArtifact) {
	s.mustIndex(i)
	s.Answers[i].Audio = &artifact
	s.Answers[i].Recording = artifact.Recording
}

// Submit validates the form and, only on a passing verdict, transitions it to
// the submitted state. The returned report is complete either way and the
// state is untouched on failure.
func (s *State) Submit() *Report {
	rep := Validate(s)
	if rep.OK() {
		s.Submitted = true
	}
	return rep
}

// Reset unconditionally discards all answers, identity fields, and the
// submitted flag, restoring a fresh editing state. There is no undo.
func (s *State) Reset() {
	*s = *NewState(len(s.Answers))
}

// Clone returns an independent deep copy, safe to read after the source
// keeps mutating.
func (s *State) Clone() *State {
	out := *s
	out.Answers = make([]AnswerRecord, len(s.Answers))
	copy(out.Answers, s.Answers)
	for i, a := range s.Answers {
		if a.Audio != nil {
			audio := *a.Audio
			out.Answers[i].Audio = &audio
		}
	}
	return &out
}

func (s *State) mustIndex(i int) {
	if i < 0 || i >= len(s.Answers) {
		panic(fmt.Sprintf("form: answer index %d out of range [0,%d)", i, len(s.Answers)))
	}
}
