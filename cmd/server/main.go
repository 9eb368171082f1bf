package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ederowe/voiceform/internal/api"
	"github.com/ederowe/voiceform/internal/db"
	"github.com/ederowe/voiceform/internal/middleware"
	"github.com/ederowe/voiceform/internal/services"
	"github.com/ederowe/voiceform/internal/utils"
)

func main() {
	_ = godotenv.Load()

	addr := utils.SafeEnv("VOICEFORM_ADDR", ":8080")
	commit := os.Getenv("VOICEFORM_COMMIT")
	buildTime := os.Getenv("VOICEFORM_BUILD_TIME")

	// Submissions go to sqlite when a path is configured; otherwise they stay
	// in memory with the sessions.
	var sink services.SubmissionSink
	var browser services.SubmissionBrowser
	if path := os.Getenv("VOICEFORM_SQLITE_PATH"); path != "" {
		conn, err := sql.Open("sqlite3", path)
		if err != nil {
			log.Fatalf("open sqlite %s: %v", path, err)
		}
		if err := db.RunMigrations(conn, os.Getenv("VOICEFORM_MIGRATIONS_DIR")); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		store, err := db.NewSQLiteStore(conn)
		if err != nil {
			log.Fatalf("sqlite store: %v", err)
		}
		sink, browser = store, store
		log.Printf("submissions persisted to %s", path)
	} else {
		log.Printf("no VOICEFORM_SQLITE_PATH set, submissions kept in memory")
	}

	mux := http.NewServeMux()
	api.NewRouter(sink, browser).Register(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "VoiceForm API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Frontend serving strategy (priority):
	// 1) Static files if VOICEFORM_STATIC_DIR is set (fullstack image)
	// 2) Dev proxy if VOICEFORM_DEV_FRONTEND_URL is set
	if staticDir := os.Getenv("VOICEFORM_STATIC_DIR"); staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	} else if devURL := os.Getenv("VOICEFORM_DEV_FRONTEND_URL"); devURL != "" {
		if u, err := url.Parse(devURL); err == nil {
			rp := httputil.NewSingleHostReverseProxy(u)
			rp.ModifyResponse = func(res *http.Response) error {
				res.Header.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
				res.Header.Set("Pragma", "no-cache")
				res.Header.Set("Expires", "0")
				return nil
			}
			mux.Handle("/", rp)
		} else {
			log.Printf("invalid VOICEFORM_DEV_FRONTEND_URL=%q: %v", devURL, err)
		}
	}

	handler := middleware.CORS(middleware.SecureHeaders(middleware.NoStore(middleware.LocaleMiddleware(middleware.WithAuth(mux)))))

	log.Printf("VoiceForm server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
