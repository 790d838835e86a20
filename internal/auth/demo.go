package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	authmw "github.com/grade-mate/grademate/internal/auth/middleware"
	"github.com/grade-mate/grademate/internal/config"
)

// DemoLoginHandler issues a throwaway instructor account so the app can be
// tried without provisioning. Demo identities live in the users table with a
// "demo|" id prefix and are pinned to this browser via cookie.
func DemoLoginHandler(a *authmw.AuthService, db *sql.DB, cfg config.Config) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.EnableDemoAuth {
			http.Error(w, "demo auth disabled", http.StatusForbidden)
			return
		}

		// 1) Try to reuse existing demo identity from cookie
		if c, err := r.Cookie("gm_demo_id"); err == nil && c.Value != "" {
			var username, role string
			err := db.QueryRow(`SELECT username, role FROM users WHERE id=$1`, c.Value).Scan(&username, &role)
			if err == nil && role == "instructor" && strings.HasPrefix(c.Value, "demo|") {
				tok, _ := a.IssueJWT(c.Value, role)
				// Refresh cookie TTL
				http.SetCookie(w, &http.Cookie{
					Name:     "gm_demo_id",
					Value:    c.Value,
					Path:     "/",
					HttpOnly: true,
					Secure:   true,
					SameSite: http.SameSiteNoneMode,
					Expires:  time.Now().Add(30 * 24 * time.Hour),
				})
				_ = json.NewEncoder(w).Encode(out{AccessToken: tok, Username: username})
				return
			}
		}

		// 2) Create a new demo identity
		sfx := strconv.FormatInt(time.Now().UnixNano(), 36)
		userID := "demo|" + sfx
		username := "demo-" + sfx[len(sfx)-6:]
		role := "instructor"

		_, _ = db.Exec(`INSERT INTO users (id, username, role) VALUES ($1,$2,$3)`,
			userID, username, role)

		tok, err := a.IssueJWT(userID, role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		// Persist demo identity for this browser
		http.SetCookie(w, &http.Cookie{
			Name:     "gm_demo_id",
			Value:    userID,
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			Expires:  time.Now().Add(30 * 24 * time.Hour),
		})
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, Username: username})
	}
}
