package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// JWTConfig defines an issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr               string
	MongoURI           string
	MongoDatabase      string
	AuditCollection    string
	SectionCollection  string
	QuestionCollection string
	AnswerCollection   string
	UserCollection     string
	Timeout            time.Duration
	ServerLog          *log.Logger
	JWTConfigs         []JWTConfig
	JWTAudience        string
	RedisAddr          string
	AllowedOrigins     []string
}

// Load reads environment variables and returns a fully populated Config.
// A local .env file is honoured when present.
func Load() Config {
	_ = godotenv.Load()

	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_JWT_ISSUER", "audit-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_MOBILE_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_MOBILE_JWT_ISSUER", "audit-mobile-auth"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_JWT_SECRET or AUTH_MOBILE_JWT_SECRET.")
	}

	cfg := Config{
		Addr:               envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:           envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:      envOrDefault("MONGO_DB", "audit-api"),
		AuditCollection:    envOrDefault("AUDIT_COLLECTION", "audits"),
		SectionCollection:  envOrDefault("SECTION_COLLECTION", "audit_sections"),
		QuestionCollection: envOrDefault("QUESTION_COLLECTION", "audit_questions"),
		AnswerCollection:   envOrDefault("ANSWER_COLLECTION", "audit_answers"),
		UserCollection:     envOrDefault("USER_COLLECTION", "users"),
		Timeout:            timeout,
		ServerLog:          log.New(os.Stdout, "[audit-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:         jwtConfigs,
		JWTAudience:        strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		AllowedOrigins:     parseList("API_ALLOWED_ORIGINS", []string{"*"}),
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
