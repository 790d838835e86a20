package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/grade-mate/grademate/internal/auth/middleware"
	"github.com/grade-mate/grademate/internal/rbac"
	"github.com/grade-mate/grademate/internal/roster"
	"github.com/grade-mate/grademate/internal/session"
)

// Uploads are whole files held in memory; Moodle gradebooks are small but
// submission ZIPs can run to a few hundred MB.
const maxUploadBytes = 512 << 20

// POST /sessions  { "title": "..." }
func CreateSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		owner := authmw.SubjectFromContext(r.Context())
		sess, err := svc.Create(r.Context(), owner, strings.TrimSpace(req.Title))
		if err != nil {
			http.Error(w, "create session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sess)
	}
}

// GET /sessions
func ListSessionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := authmw.SubjectFromContext(r.Context())
		out, err := store.ListSessions(r.Context(), owner)
		if err != nil {
			http.Error(w, "list sessions: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []session.Session{}
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		_ = json.NewEncoder(w).Encode(sess)
	}
}

// POST /sessions/{sessionID}/gradebook  (multipart, field "file")
// Parses the CSV, classifies its headers and returns roles + roster +
// warnings. Unresolved name columns are not an error: the client offers a
// manual column picker and calls the roles endpoint.
func UploadGradebookHandler(svc *session.Service, store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		data, ok := readUpload(w, r)
		if !ok {
			return
		}
		res, err := svc.ImportGradebook(r.Context(), sess.ID, data)
		if err != nil {
			http.Error(w, "import gradebook: "+err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// POST /sessions/{sessionID}/roles  { "first_name": 2, "last_name": 3 }
// Manual column override. -1 leaves a side unchanged.
func OverrideRolesHandler(svc *session.Service, store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		req := struct {
			FirstName int `json:"first_name"`
			LastName  int `json:"last_name"`
		}{FirstName: roster.NotFound, LastName: roster.NotFound}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		res, err := svc.OverrideRoles(r.Context(), sess.ID, req.FirstName, req.LastName)
		if err != nil {
			http.Error(w, "override roles: "+err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// POST /sessions/{sessionID}/submissions  (multipart, field "file")
func UploadSubmissionsHandler(svc *session.Service, store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadOwnedSession(w, r, store)
		if !ok {
			return
		}
		data, ok := readUpload(w, r)
		if !ok {
			return
		}
		subs, err := svc.ImportSubmissions(r.Context(), sess.ID, data)
		if err != nil {
			http.Error(w, "import submissions: "+err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(subs)
	}
}

// readUpload pulls the "file" part of a multipart upload into memory.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	f, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

// loadOwnedSession fetches the session from the URL and enforces that the
// caller owns it (admins see everything).
func loadOwnedSession(w http.ResponseWriter, r *http.Request, store session.Store) (session.Session, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if id == "" {
		http.Error(w, "sessionID required", http.StatusBadRequest)
		return session.Session{}, false
	}
	sess, err := store.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
		} else {
			http.Error(w, "load session: "+err.Error(), http.StatusInternalServerError)
		}
		return session.Session{}, false
	}
	sub := authmw.SubjectFromContext(r.Context())
	if sess.Owner != sub && rbac.RoleFromContext(r.Context()) != "admin" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return session.Session{}, false
	}
	return sess, true
}
