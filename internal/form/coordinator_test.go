package form

import "testing"

func TestActiveRecordingIndexNone(t *testing.T) {
	s := NewState(4)
	if idx, ok := ActiveRecordingIndex(s.Answers); ok || idx != NoActiveRecording {
		t.Fatalf("active = (%d,%v), want (%d,false)", idx, ok, NoActiveRecording)
	}
}

func TestActiveRecordingIndexSingle(t *testing.T) {
	s := NewState(4)
	s.SetAnswerAudio(2, AudioArtifact{Recording: true})
	idx, ok := ActiveRecordingIndex(s.Answers)
	if !ok || idx != 2 {
		t.Fatalf("active = (%d,%v), want (2,true)", idx, ok)
	}
}

func TestActiveRecordingIndexFirstMatchWins(t *testing.T) {
	// Two simultaneously recording records should never happen, but a
	// transient inconsistency must degrade to the earliest index rather
	// than flap or fail.
	answers := []AnswerRecord{
		{},
		{Recording: true},
		{},
		{Recording: true},
	}
	idx, ok := ActiveRecordingIndex(answers)
	if !ok || idx != 1 {
		t.Fatalf("active = (%d,%v), want (1,true)", idx, ok)
	}
}

func TestAtMostOneActiveAcrossAudioEvents(t *testing.T) {
	s := NewState(4)
	events := []struct {
		index int
		a     AudioArtifact
	}{
		{0, AudioArtifact{Recording: true}},
		{0, AudioArtifact{Locator: "blob:0", Recording: false, Size: 8}},
		{3, AudioArtifact{Recording: true}},
		{3, AudioArtifact{Locator: "blob:3", Recording: false, Size: 5}},
		{1, AudioArtifact{Recording: true}},
	}
	for _, ev := range events {
		s.SetAnswerAudio(ev.index, ev.a)
		count := 0
		for _, a := range s.Answers {
			if a.Recording {
				count++
			}
		}
		if count > 1 {
			t.Fatalf("after event on %d: %d records recording, want <= 1", ev.index, count)
		}
	}
	if idx, ok := ActiveRecordingIndex(s.Answers); !ok || idx != 1 {
		t.Fatalf("final active = (%d,%v), want (1,true)", idx, ok)
	}
}

func TestRecorderEnabledAllWhenIdle(t *testing.T) {
	s := NewState(3)
	for i := range s.Answers {
		if !RecorderEnabled(s.Answers, i) {
			t.Fatalf("question %d disabled with no active recording", i)
		}
	}
}

func TestRecorderEnabledOnlyActiveWhileRecording(t *testing.T) {
	s := NewState(3)
	s.SetAnswerAudio(1, AudioArtifact{Recording: true})
	want := []bool{false, true, false}
	got := RecorderStates(s.Answers)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("enabled[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Finishing the session re-enables every recorder.
	s.SetAnswerAudio(1, AudioArtifact{Locator: "blob:1", Recording: false})
	for i := range s.Answers {
		if !RecorderEnabled(s.Answers, i) {
			t.Fatalf("question %d still disabled after session ended", i)
		}
	}
}
