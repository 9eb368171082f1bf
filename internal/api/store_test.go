package api

import (
	"testing"
	"time"

	"github.com/ederowe/voiceform/internal/services"
)

func newReadySession(t *testing.T, svc *services.InterviewService) string {
	t.Helper()
	sess, err := svc.CreateSession()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := svc.SetIdentity(sess.ID, "name", "Ada"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if _, err := svc.SetIdentity(sess.ID, "email", "ada@example.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	for i := range svc.Questions() {
		if _, err := svc.SetAnswerText(sess.ID, i, "answer"); err != nil {
			t.Fatalf("set text %d: %v", i, err)
		}
	}
	return sess.ID
}

// The default wiring uses one memoryStore as both session store and
// submission sink, so the sink write must complete while the same store is
// reachable for its own locking.
func TestSubmitWithStoreAsItsOwnSink(t *testing.T) {
	store := newMemoryStore()
	svc := services.NewInterviewService(store, store, services.DefaultQuestions())
	id := newReadySession(t, svc)

	done := make(chan error, 1)
	go func() {
		_, receipt, err := svc.Submit(id)
		if err == nil && receipt == nil {
			t.Errorf("submit passed validation but returned no receipt")
		}
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("submit blocked with the store acting as its own sink")
	}

	subs, err := store.ListSubmissions()
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("submissions stored = %d, want 1", len(subs))
	}
}

func TestGetSessionReturnsDetachedCopy(t *testing.T) {
	store := newMemoryStore()
	svc := services.NewInterviewService(store, store, services.DefaultQuestions())
	sess, err := svc.CreateSession()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := store.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	got.State.Name = "scribble"
	got.State.Answers[0].Text = "scribble"

	again, err := store.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if again.State.Name != "" || again.State.Answers[0].Text != "" {
		t.Fatalf("writes to a returned session reached the store: %+v", again.State)
	}
}

func TestUpdateSessionReturnsDetachedCopy(t *testing.T) {
	store := newMemoryStore()
	svc := services.NewInterviewService(store, store, services.DefaultQuestions())
	sess, err := svc.CreateSession()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	updated, err := svc.SetAnswerText(sess.ID, 0, "kept")
	if err != nil {
		t.Fatalf("set text: %v", err)
	}
	updated.State.Answers[0].Text = "scribble"

	again, err := store.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if again.State.Answers[0].Text != "kept" {
		t.Fatalf("answer text = %q, want %q", again.State.Answers[0].Text, "kept")
	}
}
