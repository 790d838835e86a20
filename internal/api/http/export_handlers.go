package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/grade-mate/grademate/internal/session"
	syncx "github.com/grade-mate/grademate/internal/sync"
)

// GET /sessions/{sessionID}/export
// Streams the re-serialized gradebook CSV: original header order, original
// cells, only recorded grade/feedback values replaced.
func ExportHandler(svc *session.Service, store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		data, err := svc.Export(r.Context(), sess.ID)
		if err != nil {
			http.Error(w, "export: "+err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="gradebook-export.csv"`)
		_, _ = w.Write(data)
	}
}

// GET /sessions/{sessionID}/events?limit=100
func EventsHandler(events *syncx.EventRepo, store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		out, err := events.ListBySession(r.Context(), sess.ID, limit)
		if err != nil {
			http.Error(w, "list events: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []syncx.Event{}
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
