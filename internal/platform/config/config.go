package config

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server reads from the environment so main
// stays lean.
type Config struct {
	Server    Server
	OpenAI    OpenAI
	RateLimit RateLimit
	Redis     Redis
	Kafka     Kafka

	// Env selects the deployment mode. In "production" request-log events
	// are additionally forwarded to the Kafka sink.
	Env string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	RequestTimeout time.Duration

	// TrustedProxies restricts which peers may set forwarded-address
	// headers. Empty means the header is trusted from anyone, preserving
	// the original single-proxy deployment behavior.
	TrustedProxies []netip.Prefix
}

// OpenAI captures the chat-completion provider configuration.
// APIKey may be empty; its absence is surfaced per request, not at startup,
// so a misconfigured instance still serves health checks.
type OpenAI struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// RateLimit captures the per-caller fixed window policy.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Redis captures the optional shared rate-limit store configuration.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka captures the request-log sink configuration.
type Kafka struct {
	Brokers string
	Topic   string
}

// IsProduction reports whether log forwarding to the external sink is on.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:           envOr("MEETINGINTEL_ADDR", ":8080"),
			RequestTimeout: envDuration("MEETINGINTEL_REQUEST_TIMEOUT", 150*time.Second),
			TrustedProxies: parsePrefixes(os.Getenv("MEETINGINTEL_TRUSTED_PROXIES")),
		},
		OpenAI: OpenAI{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: envOr("MEETINGINTEL_OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   envOr("MEETINGINTEL_OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: envDuration("MEETINGINTEL_OPENAI_TIMEOUT", 120*time.Second),
		},
		RateLimit: RateLimit{
			Requests: envInt("MEETINGINTEL_RATE_LIMIT_REQUESTS", 10),
			Window:   envDuration("MEETINGINTEL_RATE_LIMIT_WINDOW", time.Minute),
		},
		Redis: Redis{
			URL:          os.Getenv("MEETINGINTEL_REDIS_URL"),
			PoolSize:     envInt("MEETINGINTEL_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("MEETINGINTEL_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("MEETINGINTEL_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("MEETINGINTEL_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("MEETINGINTEL_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers: os.Getenv("MEETINGINTEL_KAFKA_BROKERS"),
			Topic:   envOr("MEETINGINTEL_KAFKA_TOPIC", "meetingintel.request-log"),
		},
		Env: envOr("APP_ENV", "development"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// parsePrefixes parses a comma-separated CIDR list, skipping invalid entries.
func parsePrefixes(raw string) []netip.Prefix {
	if raw == "" {
		return nil
	}
	var prefixes []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		if p, err := netip.ParsePrefix(strings.TrimSpace(part)); err == nil {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}
