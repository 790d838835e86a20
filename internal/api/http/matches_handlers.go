package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/grade-mate/grademate/internal/session"
)

// matchView pairs one submission with its matched student, shaped for the
// review table in the UI.
type matchView struct {
	Folder     string  `json:"folder"`
	Candidate  string  `json:"candidate"`
	Strategy   string  `json:"strategy,omitempty"`
	Manual     bool    `json:"manual,omitempty"`
	MatchedRow *int    `json:"matched_row,omitempty"`
	Student    *string `json:"student,omitempty"`
}

// GET /sessions/{sessionID}/matches
func ListMatchesHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		subs, err := store.ListSubmissions(r.Context(), sess.ID)
		if err != nil {
			http.Error(w, "list submissions: "+err.Error(), http.StatusInternalServerError)
			return
		}
		students, err := store.ListStudents(r.Context(), sess.ID)
		if err != nil {
			http.Error(w, "list students: "+err.Error(), http.StatusInternalServerError)
			return
		}
		byRow := make(map[int]string, len(students))
		for _, st := range students {
			byRow[st.RowIndex] = st.Record.FullName
		}

		out := make([]matchView, 0, len(subs))
		unmatched := 0
		for _, sub := range subs {
			v := matchView{
				Folder:     sub.Folder,
				Candidate:  sub.Candidate.FullName,
				Strategy:   sub.Strategy,
				Manual:     sub.Manual,
				MatchedRow: sub.MatchedRow,
			}
			if sub.MatchedRow != nil {
				if name, ok := byRow[*sub.MatchedRow]; ok {
					v.Student = &name
				}
			} else {
				unmatched++
			}
			out = append(out, v)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"matches":   out,
			"unmatched": unmatched,
		})
	}
}

// POST /sessions/{sessionID}/matches/{folder}  { "matched_row": 4 }
// A null matched_row clears the assignment. Either way the submission is
// flagged manual and skipped by future rematches.
func OverrideMatchHandler(svc *session.Service, store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		folder := strings.TrimSpace(chi.URLParam(r, "folder"))
		if folder == "" {
			http.Error(w, "folder required", http.StatusBadRequest)
			return
		}
		var req struct {
			MatchedRow *int `json:"matched_row"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := svc.OverrideMatch(r.Context(), sess.ID, folder, req.MatchedRow); err != nil {
			http.Error(w, "override match: "+err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
