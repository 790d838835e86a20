package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/grade-mate/grademate/internal/rbac"
)

type AuthService struct{ hmac []byte }

func NewAuthService(secret string) *AuthService { return &AuthService{hmac: []byte(secret)} }

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // "instructor", "assistant" or "admin"
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sub, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "grademate",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// LoginConfig carries the env-provisioned admin account. It exists so a
// fresh install works before any users row does.
type LoginConfig struct {
	AdminUser     string
	AdminPassHash string // bcrypt
}

// POST /auth/login  { "username": "...", "password": "..." }
// Credentials are checked against the users table (bcrypt), then against the
// env-provisioned admin account.
func LoginHandler(a *AuthService, db *sql.DB, cfg LoginConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			http.Error(w, "username and password required", http.StatusBadRequest)
			return
		}

		role := ""
		if db != nil {
			var hash, dbRole string
			err := db.QueryRowContext(r.Context(),
				`SELECT pass_hash, role FROM users WHERE username=$1`, req.Username).Scan(&hash, &dbRole)
			if err == nil && bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) == nil {
				role = dbRole
			}
		}
		if role == "" && req.Username == cfg.AdminUser &&
			bcrypt.CompareHashAndPassword([]byte(cfg.AdminPassHash), []byte(req.Password)) == nil {
			role = "admin"
		}
		if role == "" {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		tok, err := a.IssueJWT(req.Username, role)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok, "role": role})
	}
}

// JWTMiddleware validates the bearer token and stashes subject and claimed
// role in the request context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			c, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := WithSubject(r.Context(), c.Sub)
			ctx = rbac.WithRole(ctx, c.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
