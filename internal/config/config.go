package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// DBFile is the sqlite database path. The file and its parent directory
	// are created on first boot.
	DBFile string

	// WorkDir holds generated domain-list files consumed by tool runs.
	WorkDir string
	// OutputDir holds tool output and captured stdout/stderr.
	OutputDir string

	// ExecWorkers is the system-wide cap on concurrent external processes.
	ExecWorkers int
	// ExecQueueSize bounds the trigger queue between scheduler and executor.
	ExecQueueSize int
	// ExecTimeout is the wall-clock limit for one tool run.
	ExecTimeout time.Duration

	// AdminUser and AdminPass are the single admin account. AdminPass is
	// bcrypt-hashed at startup and only the hash is kept in memory.
	AdminUser string
	AdminPass string

	JWTSecret      string
	JWTExpireHours int

	// Env is "dev" (default) or "prod".
	Env string

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json".
	LogFormat string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8899"),

		DBFile:    getEnv("DB_FILE", "target_data/assetguard.sqlite"),
		WorkDir:   getEnv("WORK_DIR", "target_data/work"),
		OutputDir: getEnv("OUTPUT_DIR", "target_data/output"),

		ExecWorkers:   getEnvInt("EXEC_WORKERS", 2),
		ExecQueueSize: getEnvInt("EXEC_QUEUE_SIZE", 16),
		ExecTimeout:   time.Duration(getEnvInt("EXEC_TIMEOUT_MINUTES", 120)) * time.Minute,

		AdminUser: getEnv("ADMIN_USER", "admin"),
		AdminPass: getEnv("ADMIN_PASS", "admin"),

		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		Env: getEnv("ENV", "dev"),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
