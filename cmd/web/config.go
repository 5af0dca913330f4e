package main

import "time"

type config struct {
	// Addr is the address the HTTP server listens on. Use localhost:0 for a random port.
	Addr string `env:"MYOUNGJI_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the path to the database file or ":memory:".
	SqliteURL string `env:"MYOUNGJI_SQLITE_URL" envDefault:"./myoungji.sqlite"`
	// PprofAddr enables the profiling server on a loopback address such as localhost:6060 when set.
	PprofAddr   string `env:"MYOUNGJI_PPROF_ADDR" envDefault:""`
	AdminSecret string `env:"MYOUNGJI_ADMIN_SECRET"`
	// InquiryCooldown is the minimum time between two inquiries from one session.
	InquiryCooldown time.Duration `env:"MYOUNGJI_INQUIRY_COOLDOWN" envDefault:"5m"`
	// MaxImageBytes limits a single uploaded image.
	MaxImageBytes int64 `env:"MYOUNGJI_MAX_IMAGE_BYTES" envDefault:"10485760"`
	// MaxRequestBytes limits the whole request body including every upload of the editor form.
	MaxRequestBytes int64 `env:"MYOUNGJI_MAX_REQUEST_BYTES" envDefault:"67108864"`
	// InquiryRemoteURL sends inquiries to a hosted table instead of the local database when set.
	InquiryRemoteURL string `env:"MYOUNGJI_INQUIRY_REMOTE_URL" envDefault:""`
	InquiryRemoteKey string `env:"MYOUNGJI_INQUIRY_REMOTE_KEY" envDefault:""`
	AIProvider       string `env:"MYOUNGJI_AI_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY" envDefault:""`
	GeminiBaseURL    string `env:"GEMINI_BASE_URL" envDefault:""`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL" envDefault:""`
	// SecureCookies marks the session and CSRF cookies Secure. Only disable for plain HTTP development.
	SecureCookies bool `env:"MYOUNGJI_SECURE_COOKIES" envDefault:"true"`
}
