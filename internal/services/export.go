package services

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"time"
)

// SubmissionBrowser serves admin review: submission listings (without audio
// bytes) and on-demand audio payload retrieval.
type SubmissionBrowser interface {
	ListSubmissions() ([]*Submission, error)
	AudioPayload(submissionID string, position int) ([]byte, error)
}

// ExportSubmissionsCSV renders submissions into a long-format CSV: one row
// per answer, ordered by submission time then question position. Audio
// payloads are not exported, only their locators and sizes.
func ExportSubmissionsCSV(subs []*Submission) ([]byte, error) {
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].SubmittedAt.Equal(subs[j].SubmittedAt) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].SubmittedAt.Before(subs[j].SubmittedAt)
	})

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"submission_id", "name", "email", "submitted_at",
		"position", "question_id", "text", "audio_locator", "audio_size",
	})
	for _, sub := range subs {
		for _, a := range sub.Answers {
			rec := []string{
				sub.ID,
				sub.Name,
				sub.Email,
				sub.SubmittedAt.Format(time.RFC3339),
				strconv.Itoa(a.Position),
				a.QuestionID,
				a.Text,
				a.AudioLocator,
				strconv.FormatInt(a.AudioSize, 10),
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
