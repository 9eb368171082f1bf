package form

import (
	"reflect"
	"testing"
)

func TestNewStateStartsEmpty(t *testing.T) {
	s := NewState(4)
	if s.Name != "" || s.Email != "" {
		t.Fatalf("identity = (%q,%q), want empty", s.Name, s.Email)
	}
	if len(s.Answers) != 4 {
		t.Fatalf("answers = %d, want 4", len(s.Answers))
	}
	if s.Submitted {
		t.Fatalf("new state already submitted")
	}
	for i, a := range s.Answers {
		if a.Text != "" || a.Audio != nil || a.Recording {
			t.Fatalf("answer %d not empty: %+v", i, a)
		}
	}
}

func TestSetIdentity(t *testing.T) {
	s := NewState(2)
	s.SetIdentity(FieldName, "Ada")
	s.SetIdentity(FieldEmail, "ada@example.com")
	if s.Name != "Ada" || s.Email != "ada@example.com" {
		t.Fatalf("identity = (%q,%q), want (Ada,ada@example.com)", s.Name, s.Email)
	}
}

func TestSetIdentityUnknownFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown identity field")
		}
	}()
	NewState(1).SetIdentity("phone", "555")
}

func TestSetAnswerTextLeavesAudioUntouched(t *testing.T) {
	s := NewState(2)
	s.SetAnswerAudio(1, AudioArtifact{Locator: "blob:a", Recording: false, Size: 10})
	s.SetAnswerText(1, "typed as well")
	if s.Answers[1].Text != "typed as well" {
		t.Fatalf("text = %q, want %q", s.Answers[1].Text, "typed as well")
	}
	if s.Answers[1].Audio == nil || s.Answers[1].Audio.Locator != "blob:a" {
		t.Fatalf("audio changed by text edit: %+v", s.Answers[1].Audio)
	}
}

func TestSetAnswerAudioReplacesWholesale(t *testing.T) {
	s := NewState(1)
	s.SetAnswerAudio(0, AudioArtifact{Payload: []byte("one"), Locator: "blob:1", Recording: true})
	if !s.Answers[0].Recording {
		t.Fatalf("record did not mirror recording flag")
	}
	s.SetAnswerAudio(0, AudioArtifact{Payload: []byte("two"), Locator: "blob:2", Recording: false, Size: 3})
	a := s.Answers[0].Audio
	if a.Locator != "blob:2" || string(a.Payload) != "two" || a.Size != 3 {
		t.Fatalf("artifact not replaced wholesale: %+v", a)
	}
	if s.Answers[0].Recording {
		t.Fatalf("recording flag not cleared by finished artifact")
	}
}

func TestOutOfRangeIndexPanics(t *testing.T) {
	for _, i := range []int{-1, 3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("index %d: expected panic", i)
				}
			}()
			NewState(3).SetAnswerText(i, "x")
		}()
	}
}

func TestAnswered(t *testing.T) {
	cases := []struct {
		name string
		rec  AnswerRecord
		want bool
	}{
		{"empty", AnswerRecord{}, false},
		{"whitespace only", AnswerRecord{Text: "   \t"}, false},
		{"text", AnswerRecord{Text: "hiking"}, true},
		{"finished audio", AnswerRecord{Audio: &AudioArtifact{Locator: "blob:a"}}, true},
		{"open audio", AnswerRecord{Audio: &AudioArtifact{Recording: true}, Recording: true}, true},
	}
	for _, tc := range cases {
		if got := tc.rec.Answered(); got != tc.want {
			t.Fatalf("%s: answered = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	s := NewState(3)
	s.SetIdentity(FieldName, "Ada")
	s.SetIdentity(FieldEmail, "ada@example.com")
	s.SetAnswerText(0, "hiking")
	s.SetAnswerAudio(1, AudioArtifact{Payload: []byte("pcm"), Locator: "blob:b", Size: 3})
	s.SetAnswerText(2, "x")
	if rep := s.Submit(); !rep.OK() {
		t.Fatalf("submit failed unexpectedly: %+v", rep)
	}
	if !s.Submitted {
		t.Fatalf("state not submitted after passing submit")
	}

	s.Reset()
	if !reflect.DeepEqual(s, NewState(3)) {
		t.Fatalf("reset state = %+v, want fresh", s)
	}

	// Repeated reset is idempotent.
	s.Reset()
	if !reflect.DeepEqual(s, NewState(3)) {
		t.Fatalf("second reset diverged: %+v", s)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewState(2)
	s.SetIdentity(FieldName, "Ada")
	s.SetAnswerAudio(0, AudioArtifact{Payload: []byte("pcm"), Locator: "blob:a", Recording: true})

	c := s.Clone()
	if !reflect.DeepEqual(c, s) {
		t.Fatalf("clone = %+v, want %+v", c, s)
	}

	c.SetIdentity(FieldName, "Eve")
	c.SetAnswerText(1, "typed")
	c.Answers[0].Audio.Locator = "blob:b"
	if s.Name != "Ada" || s.Answers[1].Text != "" || s.Answers[0].Audio.Locator != "blob:a" {
		t.Fatalf("clone mutation leaked into source: %+v", s)
	}

	s.Reset()
	if c.Name != "Eve" || c.Answers[0].Audio == nil {
		t.Fatalf("source reset leaked into clone: %+v", c)
	}
}

func TestSubmitFailureLeavesStateEditing(t *testing.T) {
	s := NewState(2)
	rep := s.Submit()
	if rep.OK() {
		t.Fatalf("empty form passed validation")
	}
	if s.Submitted {
		t.Fatalf("failed submit still transitioned to submitted")
	}
}
