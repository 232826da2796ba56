package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  The reservation backend
// and the movie catalog are separate services with separate base URLs
// and credentials; the catalog token is a static bearer unrelated to
// the user session.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port the front door listens on
	APIBaseURL       string        // reservation backend base URL
	CatalogBaseURL   string        // movie catalog base URL
	CatalogToken     string        // static bearer token for the catalog
	CatalogAccountID string        // catalog account whose favorites form the movie list
	HTTPTimeout      time.Duration // transport timeout for outbound calls
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		APIBaseURL:       must("API_BASE_URL"),
		CatalogBaseURL:   must("CATALOG_BASE_URL"),
		CatalogToken:     must("CATALOG_BEARER_TOKEN"),
		CatalogAccountID: must("CATALOG_ACCOUNT_ID"),
		HTTPTimeout:      time.Duration(intOr("HTTP_TIMEOUT_SEC", 30)) * time.Second,
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr retrieves an optional integer environment variable, falling
// back to def when unset.  An unparsable value is fatal rather than
// silently ignored.
func intOr(key string, def int) int {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
