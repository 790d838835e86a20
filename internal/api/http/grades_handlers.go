package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/grade-mate/grademate/internal/session"
)

// GET /sessions/{sessionID}/students
func ListStudentsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		students, err := store.ListStudents(r.Context(), sess.ID)
		if err != nil {
			http.Error(w, "list students: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if students == nil {
			students = []session.Student{}
		}
		_ = json.NewEncoder(w).Encode(students)
	}
}

// POST /sessions/{sessionID}/grades/{row}  { "grade": "85", "feedback": "..." }
// Omitted fields are left untouched; an explicit empty string clears a cell.
func SetGradeHandler(svc *session.Service, store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		row, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "row")))
		if err != nil || row < 0 {
			http.Error(w, "bad row index", http.StatusBadRequest)
			return
		}
		var req struct {
			Grade    *string `json:"grade"`
			Feedback *string `json:"feedback"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Grade == nil && req.Feedback == nil {
			http.Error(w, "grade or feedback required", http.StatusBadRequest)
			return
		}
		if err := svc.SetGrade(r.Context(), sess.ID, row, req.Grade, req.Feedback); err != nil {
			http.Error(w, "set grade: "+err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// statusFor maps store sentinels to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrStudentNotFound),
		errors.Is(err, session.ErrSubmissionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
