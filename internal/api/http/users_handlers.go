package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/grade-mate/grademate/internal/auth/middleware"
)

type userRow struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role"`               // instructor|assistant|admin
	Password string `json:"password,omitempty"` // plaintext, hashed on write
}

func validRole(r string) bool {
	return r == "instructor" || r == "assistant" || r == "admin"
}

// POST /users  — admin creates or updates an account.
func UpsertUserHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userRow
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" {
			http.Error(w, "username required", http.StatusBadRequest)
			return
		}
		if req.Role == "" {
			req.Role = "instructor"
		}
		if !validRole(req.Role) {
			http.Error(w, "invalid role: "+req.Role, http.StatusBadRequest)
			return
		}

		var phash string
		if req.Password != "" {
			b, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			phash = string(b)
		}

		var id string
		err := db.QueryRowContext(r.Context(),
			`SELECT id FROM users WHERE username=$1`, req.Username).Scan(&id)
		switch {
		case err == nil:
			if phash != "" {
				_, err = db.ExecContext(r.Context(),
					`UPDATE users SET role=$1, pass_hash=$2 WHERE id=$3`, req.Role, phash, id)
			} else {
				_, err = db.ExecContext(r.Context(),
					`UPDATE users SET role=$1 WHERE id=$2`, req.Role, id)
			}
		case errors.Is(err, sql.ErrNoRows):
			if phash == "" {
				http.Error(w, "password required for new user: "+req.Username, http.StatusBadRequest)
				return
			}
			id = uuid.NewString()
			_, err = db.ExecContext(r.Context(),
				`INSERT INTO users (id, username, role, pass_hash) VALUES ($1,$2,$3,$4)`,
				id, req.Username, req.Role, phash)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id, "username": req.Username, "role": req.Role})
	}
}

// GET /users?role=instructor
func ListUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		var rows *sql.Rows
		var err error
		if role == "" {
			rows, err = db.QueryContext(r.Context(), `SELECT id,username,role FROM users ORDER BY username`)
		} else {
			rows, err = db.QueryContext(r.Context(), `SELECT id,username,role FROM users WHERE role=$1 ORDER BY username`, role)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		out := []map[string]string{}
		for rows.Next() {
			var id, u, role string
			if err := rows.Scan(&id, &u, &role); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			out = append(out, map[string]string{"id": id, "username": u, "role": role})
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// POST /users/change-password
func ChangePasswordHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		if sub == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req changePasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if req.NewPassword == "" {
			http.Error(w, "new password required", http.StatusBadRequest)
			return
		}

		var storedHash string
		err := db.QueryRowContext(r.Context(),
			`SELECT pass_hash FROM users WHERE id=$1 OR username=$1`, sub).Scan(&storedHash)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.OldPassword)) != nil {
			http.Error(w, "incorrect old password", http.StatusForbidden)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := db.ExecContext(r.Context(),
			`UPDATE users SET pass_hash=$1 WHERE id=$2 OR username=$2`, hash, sub); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
