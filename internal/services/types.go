package services

import (
	"time"

	"github.com/ederowe/voiceform/internal/form"
)

// Question is one entry of the fixed interview question set. Prompts are
// keyed by locale; order is the on-form position.
type Question struct {
	ID         string            `json:"id"`
	Order      int               `json:"order"`
	PromptI18n map[string]string `json:"prompt_i18n,omitempty"`
}

// RecorderConfig is passed through to the external recording provider
// unmodified; the core does not interpret it.
type RecorderConfig struct {
	MaxDurationSec int    `json:"max_duration_sec"`
	Compression    string `json:"compression"`
}

// Session binds one respondent's in-progress form state to an ID. Sessions
// live in memory only; nothing survives a restart until submission.
type Session struct {
	ID        string      `json:"id"`
	State     *form.State `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Clone returns a deep copy. Stores hand clones to callers so reads never
// race with mutations of the live session.
func (s *Session) Clone() *Session {
	out := *s
	out.State = s.State.Clone()
	return &out
}

// Submission is the frozen snapshot handed to the submission sink once a
// session passes validation.
type Submission struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	SubmittedAt time.Time          `json:"submitted_at"`
	Answers     []SubmissionAnswer `json:"answers"`
}

// SubmissionAnswer is one question's final answer inside a submission.
type SubmissionAnswer struct {
	QuestionID   string `json:"question_id"`
	Position     int    `json:"position"`
	Text         string `json:"text"`
	AudioLocator string `json:"audio_locator,omitempty"`
	AudioPayload []byte `json:"-"`
	AudioSize    int64  `json:"audio_size,omitempty"`
}

// User is an admin account able to review and export submissions.
type User struct {
	ID        string
	Email     string
	PassHash  []byte
	CreatedAt time.Time
}
