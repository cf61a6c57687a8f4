package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret      string
	AccessTokenTTL time.Duration

	GoogleClientID      string
	GoogleAutoProvision bool

	FrontendURL string

	// SMTP (invitation + form-link mail)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// Object storage mirror for headshots (advisory-only)
	OSSEndpoint  string
	OSSKeyID     string
	OSSKeySecret string
	OSSBucket    string

	// Local media root (authoritative headshot storage)
	MediaRoot string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running on Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AccessTokenTTL = envDuration("ACCESS_TOKEN_TTL", 12*time.Hour)

	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	GoogleAutoProvision = envBool("GOOGLE_AUTO_PROVISION", true)

	FrontendURL = GetEnv("FRONTEND_URL", "http://localhost:5173")

	SMTPHost = GetEnv("SMTP_HOST")
	SMTPPort = envInt("SMTP_PORT", 587)
	SMTPUser = GetEnv("SMTP_USER")
	SMTPPassword = GetEnv("SMTP_PASSWORD")
	MailFrom = GetEnv("MAIL_FROM", "noreply@csmanager.local")

	OSSEndpoint = GetEnv("OSS_ENDPOINT")
	OSSKeyID = GetEnv("OSS_ACCESS_KEY_ID")
	OSSKeySecret = GetEnv("OSS_ACCESS_KEY_SECRET")
	OSSBucket = GetEnv("OSS_BUCKET")

	MediaRoot = GetEnv("MEDIA_ROOT", "media")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}
	if GoogleClientID == "" {
		log.Println("⚠️ GOOGLE_CLIENT_ID is not set, Google login disabled")
	}
	if OSSBucket == "" {
		log.Println("⚠️ OSS_BUCKET is not set, headshot mirroring disabled")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
