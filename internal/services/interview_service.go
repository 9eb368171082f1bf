package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ederowe/voiceform/internal/form"
)

// SessionStore abstracts session persistence for InterviewService. Mutations
// go through UpdateSession so every event is applied atomically with respect
// to concurrent requests for the same session. GetSession returns (nil, nil)
// for an unknown ID; UpdateSession returns a not-found ServiceError instead.
type SessionStore interface {
	AddSession(s *Session) error
	GetSession(id string) (*Session, error)
	UpdateSession(id string, fn func(*Session) error) (*Session, error)
}

// SubmissionSink receives the final form snapshot of a passing submit. Wire
// format and transport beyond the sink are not this service's concern.
type SubmissionSink interface {
	SaveSubmission(sub *Submission) error
}

// RecordingEvent is the data event emitted by the recording provider for one
// question: the opaque payload, a playback locator, the open/closed flag, and
// an optional byte size.
type RecordingEvent struct {
	Locator   string
	Payload   []byte
	Recording bool
	Size      int64
}

// RecorderState is the per-question enablement signal derived after every
// answer mutation. ActiveIndex is nil when no recording session is open.
type RecorderState struct {
	ActiveIndex *int   `json:"active_index"`
	Enabled     []bool `json:"enabled"`
}

// SubmissionReceipt acknowledges a passing submit.
type SubmissionReceipt struct {
	SubmissionID string    `json:"submission_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// InterviewService hosts the interview form workflow: session creation,
// answer and identity mutation, recording coordination, submit, and reset.
type InterviewService struct {
	store     SessionStore
	sink      SubmissionSink
	questions []*Question
	recorder  RecorderConfig
	now       func() time.Time
	idGen     func() string
}

// NewInterviewService constructs a service over the given store and sink for
// a fixed question set.
func NewInterviewService(store SessionStore, sink SubmissionSink, questions []*Question) *InterviewService {
	return &InterviewService{
		store:     store,
		sink:      sink,
		questions: questions,
		recorder:  DefaultRecorderConfig(),
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func() string { return shortID(12) },
	}
}

// Questions returns the fixed question set in form order.
func (s *InterviewService) Questions() []*Question { return s.questions }

// RecorderConfig returns the configuration handed through to the recording
// provider.
func (s *InterviewService) RecorderConfig() RecorderConfig { return s.recorder }

// CreateSession opens a fresh editing session with one empty answer record
// per question.
func (s *InterviewService) CreateSession() (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:        s.idGen(),
		State:     form.NewState(len(s.questions)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.AddSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// GetSession looks up a session by ID.
func (s *InterviewService) GetSession(id string) (*Session, error) {
	sess, err := s.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, NewNotFoundError("session not found")
	}
	return sess, nil
}

// SetIdentity replaces the session's name or email field.
func (s *InterviewService) SetIdentity(id, field, value string) (*Session, error) {
	f := form.IdentityField(strings.ToLower(strings.TrimSpace(field)))
	if f != form.FieldName && f != form.FieldEmail {
		return nil, NewInvalidError("field must be name or email")
	}
	return s.mutate(id, func(st *form.State) error {
		st.SetIdentity(f, value)
		return nil
	})
}

// SetAnswerText replaces the typed answer for one question.
func (s *InterviewService) SetAnswerText(id string, index int, text string) (*Session, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	return s.mutate(id, func(st *form.State) error {
		st.SetAnswerText(index, text)
		return nil
	})
}

// ApplyRecordingEvent reacts to a data event from the recording provider by
// replacing the question's audio artifact, then returns the re-derived
// recorder enablement. Events are accepted even when the recorder for that
// question is currently disabled: enablement is advisory at the UI layer and
// the provider is trusted not to start sessions for disabled controls.
func (s *InterviewService) ApplyRecordingEvent(id string, index int, ev RecordingEvent) (*RecorderState, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	sess, err := s.mutate(id, func(st *form.State) error {
		st.SetAnswerAudio(index, form.AudioArtifact{
			Payload:   ev.Payload,
			Locator:   ev.Locator,
			Recording: ev.Recording,
			Size:      ev.Size,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recorderState(sess.State), nil
}

// RecorderState derives the active recording index and the per-question
// enablement signal from the session's current answers.
func (s *InterviewService) RecorderState(id string) (*RecorderState, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	return recorderState(sess.State), nil
}

// Submit validates the session. On a passing verdict the form freezes into a
// Submission snapshot, the session transitions to submitted, and the snapshot
// goes to the sink. The sink write happens outside the store's critical
// section: the sink may be the session store itself, and it must be free to
// take its own locks. On failure the report is returned and the session stays
// editable; the report itself is never an error.
func (s *InterviewService) Submit(id string) (*form.Report, *SubmissionReceipt, error) {
	var (
		report *form.Report
		sub    *Submission
	)
	_, err := s.store.UpdateSession(id, func(sess *Session) error {
		if sess.State.Submitted {
			return NewConflictError("session already submitted")
		}
		report = sess.State.Submit()
		if !report.OK() {
			return nil
		}
		sub = s.snapshot(sess)
		sess.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return report, nil, nil
	}
	if err := s.sink.SaveSubmission(sub); err != nil {
		// Keep the lifecycle honest: the snapshot never reached the sink, so
		// the session must go back to editable.
		_, _ = s.store.UpdateSession(id, func(sess *Session) error {
			sess.State.Submitted = false
			return nil
		})
		return nil, nil, err
	}
	return report, &SubmissionReceipt{SubmissionID: sub.ID, SubmittedAt: sub.SubmittedAt}, nil
}

// Reset discards everything in the session and returns it to a fresh editing
// state. It is unconditional and idempotent.
func (s *InterviewService) Reset(id string) (*Session, error) {
	return s.store.UpdateSession(id, func(sess *Session) error {
		sess.State.Reset()
		sess.UpdatedAt = s.now()
		return nil
	})
}

func (s *InterviewService) mutate(id string, fn func(*form.State) error) (*Session, error) {
	return s.store.UpdateSession(id, func(sess *Session) error {
		if sess.State.Submitted {
			return NewConflictError("session already submitted")
		}
		if err := fn(sess.State); err != nil {
			return err
		}
		sess.UpdatedAt = s.now()
		return nil
	})
}

func (s *InterviewService) checkIndex(index int) error {
	if index < 0 || index >= len(s.questions) {
		return NewInvalidError("question index out of range")
	}
	return nil
}

func (s *InterviewService) snapshot(sess *Session) *Submission {
	sub := &Submission{
		ID:          s.idGen(),
		Name:        sess.State.Name,
		Email:       sess.State.Email,
		SubmittedAt: s.now(),
		Answers:     make([]SubmissionAnswer, 0, len(sess.State.Answers)),
	}
	for i, a := range sess.State.Answers {
		ans := SubmissionAnswer{
			QuestionID: s.questions[i].ID,
			Position:   i,
			Text:       a.Text,
		}
		if a.Audio != nil {
			ans.AudioLocator = a.Audio.Locator
			ans.AudioPayload = a.Audio.Payload
			ans.AudioSize = a.Audio.Size
		}
		sub.Answers = append(sub.Answers, ans)
	}
	return sub
}

func recorderState(st *form.State) *RecorderState {
	out := &RecorderState{Enabled: form.RecorderStates(st.Answers)}
	if idx, ok := form.ActiveRecordingIndex(st.Answers); ok {
		out.ActiveIndex = &idx
	}
	return out
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
