package form

// The recording coordinator derives, from the answer sequence, which single
// question (if any) currently owns the active recording slot. The derivation
// is never cached: every caller recomputes it from the current state, so
// there is no stale parallel copy to diverge from.

// NoActiveRecording is the active-index value when no recording is open.
const NoActiveRecording = -1

// ActiveRecordingIndex scans the answers left to right and returns the first
// index whose record is recording, or NoActiveRecording and false when none
// is. At most one record should be recording at a time, but that rule is
// enforced by recorder enablement rather than asserted here: picking the
// first match keeps the result deterministic through a transient violation
// instead of crashing on it.
func ActiveRecordingIndex(answers []AnswerRecord) (int, bool) {
	for i, a := range answers {
		if a.Recording {
			return i, true
		}
	}
	return NoActiveRecording, false
}

// RecorderEnabled reports whether question i may hold the recording slot:
// either no recording is open anywhere, or question i is the one recording.
// Once any question starts recording, every other question's recorder is
// disabled until that session ends via SetAnswerAudio flipping the flag back.
func RecorderEnabled(answers []AnswerRecord, i int) bool {
	active, ok := ActiveRecordingIndex(answers)
	return !ok || active == i
}

// RecorderStates returns the enablement signal for every question at once,
// in question order.
func RecorderStates(answers []AnswerRecord) []bool {
	out := make([]bool, len(answers))
	for i := range answers {
		out[i] = RecorderEnabled(answers, i)
	}
	return out
}
