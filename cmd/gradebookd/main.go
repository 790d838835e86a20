package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/grade-mate/grademate/internal/api/http"
	demoauth "github.com/grade-mate/grademate/internal/auth"
	auth "github.com/grade-mate/grademate/internal/auth/middleware"
	"github.com/grade-mate/grademate/internal/config"
	"github.com/grade-mate/grademate/internal/db"
	"github.com/grade-mate/grademate/internal/match"
	"github.com/grade-mate/grademate/internal/rbac"
	"github.com/grade-mate/grademate/internal/session"
	"github.com/grade-mate/grademate/internal/storage"
	syncx "github.com/grade-mate/grademate/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := session.NewSQLStore(dbh, cfg.DBDriver)
	events := syncx.NewEventRepo(dbh)

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	matchCfg := match.DefaultConfig()
	if len(cfg.KnownUniqueNames) > 0 {
		matchCfg.KnownUniqueNames = cfg.KnownUniqueNames
	}
	svc := session.NewService(store, blobs, match.New(matchCfg), events)

	// --- Auth ---
	secret := getenvOr("AUTH_HMAC_SECRET", "supersecret-dev-key")
	authSvc := auth.NewAuthService(secret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second)) // ZIP uploads can be slow

	origins := cfg.CORSOriginsLocal
	if cfg.Mode == config.ModeHosted {
		origins = cfg.CORSOriginsHosted
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, auth.LoginConfig{
			AdminUser:     cfg.AdminUser,
			AdminPassHash: cfg.AdminPassHash,
		}))
	}
	if cfg.EnableDemoAuth {
		r.Post("/auth/demo", demoauth.DemoLoginHandler(authSvc, dbh, cfg))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.Mode == config.ModeLocal))

		pr.With(rbac.Require("session:create")).
			Post("/sessions", api.CreateSessionHandler(svc))
		pr.With(rbac.Require("session:view")).
			Get("/sessions", api.ListSessionsHandler(store))
		pr.With(rbac.Require("session:view")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(store))

		pr.With(rbac.Require("gradebook:upload")).
			Post("/sessions/{sessionID}/gradebook", api.UploadGradebookHandler(svc, store))
		pr.With(rbac.Require("roles:override")).
			Post("/sessions/{sessionID}/roles", api.OverrideRolesHandler(svc, store))
		pr.With(rbac.Require("submissions:upload")).
			Post("/sessions/{sessionID}/submissions", api.UploadSubmissionsHandler(svc, store))

		pr.With(rbac.Require("matches:view")).
			Get("/sessions/{sessionID}/matches", api.ListMatchesHandler(store))
		pr.With(rbac.Require("matches:override")).
			Post("/sessions/{sessionID}/matches/{folder}", api.OverrideMatchHandler(svc, store))

		pr.With(rbac.Require("session:view")).
			Get("/sessions/{sessionID}/students", api.ListStudentsHandler(store))
		pr.With(rbac.Require("grades:set")).
			Post("/sessions/{sessionID}/grades/{row}", api.SetGradeHandler(svc, store))

		pr.With(rbac.Require("export:download")).
			Get("/sessions/{sessionID}/export", api.ExportHandler(svc, store))
		pr.With(rbac.Require("session:view")).
			Get("/sessions/{sessionID}/events", api.EventsHandler(events, store))

		// Account management (admin)
		pr.With(rbac.Require("users:manage")).
			Post("/users", api.UpsertUserHandler(dbh))
		pr.With(rbac.Require("users:manage")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

func getenvOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
