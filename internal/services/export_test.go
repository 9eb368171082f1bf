package services

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func readCSV(b []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(b)))
	return r.ReadAll()
}

func TestExportSubmissionsCSV(t *testing.T) {
	later := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	subs := []*Submission{
		{
			ID: "S2", Name: "Bea", Email: "bea@example.com", SubmittedAt: later,
			Answers: []SubmissionAnswer{
				{QuestionID: "q_hobby", Position: 0, Text: "chess"},
			},
		},
		{
			ID: "S1", Name: "Ada", Email: "ada@example.com", SubmittedAt: earlier,
			Answers: []SubmissionAnswer{
				{QuestionID: "q_hobby", Position: 0, Text: "hiking"},
				{QuestionID: "q_travel", Position: 1, AudioLocator: "blob:1", AudioSize: 2048},
			},
		},
	}

	b, err := ExportSubmissionsCSV(subs)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("rows = %d, want 4", len(recs))
	}
	if got := strings.Join(recs[0], ","); got != "submission_id,name,email,submitted_at,position,question_id,text,audio_locator,audio_size" {
		t.Fatalf("bad header: %s", got)
	}
	// Sorted by submission time: S1's rows first.
	if recs[1][0] != "S1" || recs[3][0] != "S2" {
		t.Fatalf("unexpected order: %v", recs)
	}
	audioRow := recs[2]
	if audioRow[5] != "q_travel" || audioRow[7] != "blob:1" || audioRow[8] != "2048" {
		t.Fatalf("audio row = %v", audioRow)
	}
}

func TestExportSubmissionsCSVEmpty(t *testing.T) {
	b, err := ExportSubmissionsCSV(nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected header only, got %d rows", len(recs))
	}
}
