package api

import (
	"strings"
	"sync"
	"time"

	"github.com/ederowe/voiceform/internal/services"
)

// memoryStore keeps interview sessions, admin users, and (when no database is
// configured) submitted snapshots. Sessions are deliberately memory-only:
// an in-progress form does not survive a restart, only submissions do.
type memoryStore struct {
	mu           sync.RWMutex
	sessions     map[string]*services.Session
	usersByEmail map[string]*services.User
	submissions  []*services.Submission
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions:     map[string]*services.Session{},
		usersByEmail: map[string]*services.User{},
	}
}

// --- services.SessionStore ---

func (s *memoryStore) AddSession(sess *services.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// GetSession returns a detached copy; callers read and encode it after the
// lock is released, so the live session must never leak out.
func (s *memoryStore) GetSession(id string) (*services.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.sessions[id]
	if sess == nil {
		return nil, nil
	}
	return sess.Clone(), nil
}

// UpdateSession applies fn under the store lock so each event mutates the
// session and re-derives its state atomically with respect to other requests.
// The returned session is a detached copy, same as GetSession.
func (s *memoryStore) UpdateSession(id string, fn func(*services.Session) error) (*services.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[id]
	if sess == nil {
		return nil, services.NewNotFoundError("session not found")
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// CleanupSessionsBefore drops unsubmitted sessions last touched before cutoff
// and returns the removed count.
func (s *memoryStore) CleanupSessionsBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if !sess.State.Submitted && sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// --- services.SubmissionSink / services.SubmissionBrowser ---

func (s *memoryStore) SaveSubmission(sub *services.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
	return nil
}

func (s *memoryStore) ListSubmissions() ([]*services.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.Submission, len(s.submissions))
	copy(out, s.submissions)
	return out, nil
}

func (s *memoryStore) AudioPayload(submissionID string, position int) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.submissions {
		if sub.ID != submissionID {
			continue
		}
		for _, a := range sub.Answers {
			if a.Position == position {
				return a.AudioPayload, nil
			}
		}
	}
	return nil, services.NewNotFoundError("answer not found")
}

// --- services.AuthStore ---

func (s *memoryStore) AddUser(u *services.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByEmail[strings.ToLower(u.Email)] = u
	return nil
}

func (s *memoryStore) FindUserByEmail(email string) (*services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByEmail[strings.ToLower(email)], nil
}
