package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // single-instructor, localhost front-end
	ModeHosted Mode = "hosted" // shared deployment behind TLS
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Uploaded gradebook/ZIP bytes are kept on disk so exports can re-read
	// the original file.
	BlobBasePath string

	EnableLocalAuth bool
	EnableDemoAuth  bool
	AdminUser       string
	AdminPassHash   string // bcrypt

	CORSOriginsHosted []string
	CORSOriginsLocal  []string

	// Matcher tuning. Comma-separated list of distinctive name tokens the
	// allow-list strategy may resolve on its own.
	KnownUniqueNames []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeLocal
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:              mode,
		HTTPAddr:          addr,
		DBDriver:          envOr("DB_DRIVER", "sqlite"),
		DBDSN:             envOr("DB_DSN", ""),
		BlobBasePath:      envOr("BLOB_BASE_PATH", "./data"),
		EnableLocalAuth:   envBool("ENABLE_LOCAL_AUTH", true),
		EnableDemoAuth:    envBool("ENABLE_DEMO_AUTH", mode == ModeLocal),
		AdminUser:         envOr("ADMIN_USER", "admin"),
		AdminPassHash:     envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		CORSOriginsHosted: csvOr("CORS_ORIGINS_HOSTED", "https://app.grademate.dev"),
		CORSOriginsLocal:  csvOr("CORS_ORIGINS_LOCAL", "http://localhost:3000,http://localhost:5173"),
		KnownUniqueNames:  csvOr("MATCH_KNOWN_NAMES", ""),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
