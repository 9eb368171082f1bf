package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ederowe/voiceform/internal/middleware"
	"github.com/ederowe/voiceform/internal/services"
	"github.com/ederowe/voiceform/internal/utils"
)

type Router struct {
	store      *memoryStore
	interviews *services.InterviewService
	auth       *services.AuthService
	browser    services.SubmissionBrowser
}

// NewRouter wires the interview workflow over an in-memory session store.
// sink receives submitted snapshots and browser serves the admin review
// endpoints; pass nil for either to keep submissions in memory too.
func NewRouter(sink services.SubmissionSink, browser services.SubmissionBrowser) *Router {
	store := newMemoryStore()
	if sink == nil {
		sink = store
	}
	if browser == nil {
		browser = store
	}
	return &Router{
		store:      store,
		interviews: services.NewInterviewService(store, sink, services.DefaultQuestions()),
		auth:       services.NewAuthService(store, middleware.SignToken),
		browser:    browser,
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/questions", rt.handleQuestions)   // GET
	mux.HandleFunc("/api/sessions", rt.handleSessions)     // POST
	mux.HandleFunc("/api/sessions/", rt.handleSessionPath) // session-scoped ops
	mux.HandleFunc("/api/auth/register", rt.handleRegister)
	mux.HandleFunc("/api/auth/login", rt.handleLogin)
	mux.Handle("/api/admin/submissions", middleware.RequireAuth(http.HandlerFunc(rt.handleAdminSubmissions)))
	mux.Handle("/api/admin/submissions/", middleware.RequireAuth(http.HandlerFunc(rt.handleAdminAudio)))
	mux.Handle("/api/admin/export", middleware.RequireAuth(http.HandlerFunc(rt.handleAdminExport)))
	mux.Handle("/api/admin/sessions/cleanup", middleware.RequireAuth(http.HandlerFunc(rt.handleAdminCleanup)))
}

// GET /api/questions?lang=xx — the fixed question set plus the recorder
// configuration handed through to the recording provider.
func (rt *Router) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	type questionView struct {
		ID       string `json:"id"`
		Position int    `json:"position"`
		Prompt   string `json:"prompt"`
	}
	qs := rt.interviews.Questions()
	out := make([]questionView, 0, len(qs))
	for i, q := range qs {
		prompt := q.PromptI18n[locale]
		if prompt == "" {
			prompt = q.PromptI18n["en"]
		}
		out = append(out, questionView{ID: q.ID, Position: i, Prompt: prompt})
	}
	writeJSON(w, map[string]any{"questions": out, "recorder": rt.interviews.RecorderConfig()})
}

// POST /api/sessions — open a fresh interview session.
func (rt *Router) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, err := rt.interviews.CreateSession()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, sess)
}

// Session-scoped routes:
//
//	GET  /api/sessions/{id}
//	POST /api/sessions/{id}/identity            {field, value}
//	PUT  /api/sessions/{id}/answers/{idx}/text  {text}
//	POST /api/sessions/{id}/answers/{idx}/audio {locator, payload, recording, size}
//	GET  /api/sessions/{id}/recorder
//	POST /api/sessions/{id}/submit
//	POST /api/sessions/{id}/reset
func (rt *Router) handleSessionPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.getSession(w, id)
	case len(parts) == 2 && parts[1] == "identity":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.setIdentity(w, r, id)
	case len(parts) == 2 && parts[1] == "recorder":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.getRecorder(w, id)
	case len(parts) == 2 && parts[1] == "submit":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.submit(w, r, id)
	case len(parts) == 2 && parts[1] == "reset":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.reset(w, id)
	case len(parts) == 4 && parts[1] == "answers":
		idx, err := strconv.Atoi(parts[2])
		if err != nil {
			http.Error(w, "bad question index", http.StatusBadRequest)
			return
		}
		switch parts[3] {
		case "text":
			if r.Method != http.MethodPut {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			rt.setAnswerText(w, r, id, idx)
		case "audio":
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			rt.applyAudio(w, r, id, idx)
		default:
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) getSession(w http.ResponseWriter, id string) {
	sess, err := rt.interviews.GetSession(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, sess)
}

func (rt *Router) setIdentity(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, err := rt.interviews.SetIdentity(id, req.Field, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, sess)
}

func (rt *Router) setAnswerText(w http.ResponseWriter, r *http.Request, id string, idx int) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, err := rt.interviews.SetAnswerText(id, idx, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, sess)
}

// applyAudio is the recording provider's data event. Payload is base64 in
// JSON ([]byte marshalling), recording=true while the session is still open.
func (rt *Router) applyAudio(w http.ResponseWriter, r *http.Request, id string, idx int) {
	var req struct {
		Locator   string `json:"locator"`
		Payload   []byte `json:"payload"`
		Recording bool   `json:"recording"`
		Size      int64  `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	size := req.Size
	if size == 0 {
		size = int64(len(req.Payload))
	}
	state, err := rt.interviews.ApplyRecordingEvent(id, idx, services.RecordingEvent{
		Locator:   req.Locator,
		Payload:   req.Payload,
		Recording: req.Recording,
		Size:      size,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, state)
}

func (rt *Router) getRecorder(w http.ResponseWriter, id string) {
	state, err := rt.interviews.RecorderState(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, state)
}

func (rt *Router) submit(w http.ResponseWriter, r *http.Request, id string) {
	report, receipt, err := rt.interviews.Submit(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if receipt == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "errors": report})
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, map[string]any{
		"ok":            true,
		"submission_id": receipt.SubmissionID,
		"submitted_at":  receipt.SubmittedAt,
		"message":       utils.T(locale, "submit.thanks"),
	})
}

func (rt *Router) reset(w http.ResponseWriter, id string) {
	sess, err := rt.interviews.Reset(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, sess)
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	rt.handleAuth(w, r, rt.auth.Register)
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	rt.handleAuth(w, r, rt.auth.Login)
}

func (rt *Router) handleAuth(w http.ResponseWriter, r *http.Request, fn func(email, password string) (*services.AuthResult, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := fn(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"token": res.Token, "user_id": res.UserID})
}

// GET /api/admin/submissions
func (rt *Router) handleAdminSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	subs, err := rt.browser.ListSubmissions()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"submissions": subs, "count": len(subs)})
}

// GET /api/admin/submissions/{id}/audio/{pos} — raw audio bytes of one answer.
func (rt *Router) handleAdminAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/admin/submissions/"), "/")
	if len(parts) != 3 || parts[1] != "audio" {
		http.NotFound(w, r)
		return
	}
	pos, err := strconv.Atoi(parts[2])
	if err != nil || pos < 0 {
		http.Error(w, "bad answer position", http.StatusBadRequest)
		return
	}
	payload, err := rt.browser.AudioPayload(parts[0], pos)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(payload) == 0 {
		http.Error(w, "no audio recorded", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(payload)
}

// GET /api/admin/export — long-format CSV of all submissions.
func (rt *Router) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	subs, err := rt.browser.ListSubmissions()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	b, err := services.ExportSubmissionsCSV(subs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=submissions.csv")
	_, _ = w.Write(b)
}

// POST /api/admin/sessions/cleanup?max_age_hours=24 — drop stale unsubmitted
// sessions.
func (rt *Router) handleAdminCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	hours := 24
	if v := r.URL.Query().Get("max_age_hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "bad max_age_hours", http.StatusBadRequest)
			return
		}
		hours = n
	}
	removed := rt.store.CleanupSessionsBefore(time.Now().UTC().Add(-time.Duration(hours) * time.Hour))
	writeJSON(w, map[string]any{"ok": true, "removed": removed})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusInternalServerError
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		}
		http.Error(w, se.Message, status)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
