package app

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/klabast/wb-services/study-diary/internal/store"
)

// Constants
const (
	DefaultPort     = 8080
	DefaultDataPath = "data"

	// Error messages
	ErrInvalidDateFormat = "Invalid date format"
	ErrInvalidPeriod     = "Invalid period"
	ErrInvalidMonth      = "Invalid month"
	ErrInvalidFormat     = "Invalid format"
	ErrInvalidBody       = "Cannot parse JSON"
	ErrInternalServer    = "Internal server error"
	ErrUnauthorized      = "Unauthorized"
	ErrInvalidState      = "Login state mismatch, please try again"

	// Cookies
	StateCookie = "study_diary_login_state"

	// ICS constants
	ICSProductID = "-//StudyDiary//학습일지//KO"
	ICSTimezone  = "Asia/Seoul"
)

// Config holds everything read from the environment and flags
type Config struct {
	Port        int
	StoreDriver string
	DataPath    string

	KakaoRESTKey      string
	KakaoClientSecret string
	KakaoRedirectURL  string

	SessionSecret   string
	SessionLifetime time.Duration
	DevNickname     string
	SecureCookies   bool
}

// LoadConfig reads .env (if present) and the environment
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file, using environment variables: %v", err)
	}

	port := getEnvInt("PORT", DefaultPort)
	return &Config{
		Port:              port,
		StoreDriver:       getEnv("STORE_DRIVER", store.DriverFile),
		DataPath:          getEnv("DATA_PATH", DefaultDataPath),
		KakaoRESTKey:      getEnv("KAKAO_REST_KEY", ""),
		KakaoClientSecret: getEnv("KAKAO_CLIENT_SECRET", ""),
		KakaoRedirectURL:  getEnv("KAKAO_REDIRECT_URL", "http://localhost:"+strconv.Itoa(port)+"/auth/callback"),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionLifetime:   getEnvDuration("SESSION_LIFETIME", 7*24*time.Hour),
		DevNickname:       getEnv("DEV_NICKNAME", ""),
		SecureCookies:     getEnv("SECURE_COOKIES", "false") == "true",
	}
}

// DevMode reports whether logins bypass Kakao
func (c *Config) DevMode() bool {
	return c.KakaoRESTKey == ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
