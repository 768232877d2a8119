package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Strings for identifiers and secrets, typed
// values for durations and window sizes.
type Config struct {
	Env               string        // application environment (e.g. "dev", "prod")
	Port              string        // HTTP port to listen on
	JWTSecret         string        // secret used to verify access tokens
	BackendBaseURL    string        // base URL of the Vistaro booking backend
	BackendTimeout    time.Duration // per-request timeout for backend calls
	CheckoutWindowSec int           // seat-lock reservation window in seconds
	AMQPURL           string        // RabbitMQ connection URL (optional)
	PublishSettled    bool          // publish checkout.settled events
	ConsumeSettled    bool          // run the checkout.settled log consumer
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		JWTSecret:         must("JWT_SECRET"),
		BackendBaseURL:    must("BACKEND_BASE_URL"),
		BackendTimeout:    optDur("BACKEND_TIMEOUT", 10*time.Second),
		CheckoutWindowSec: optInt("CHECKOUT_WINDOW_SECONDS", 600),
		AMQPURL:           firstEnv("RABBITMQ_URL", "AMQP_URL"),
		PublishSettled:    optBool("PUBLISH_SETTLED_EVENTS", true),
		ConsumeSettled:    optBool("CONSUME_SETTLED_EVENTS", true),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// optInt reads an optional integer variable, falling back to def when the
// variable is unset or malformed.
func optInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func optDur(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}

func optBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "":
		return def
	case "1", "true", "TRUE", "yes", "on":
		return true
	case "0", "false", "FALSE", "no", "off":
		return false
	}
	return def
}

// firstEnv returns the first non-empty value among the given variables.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
