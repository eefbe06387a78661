package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits and normalizes list-valued variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Strings are used for identifiers and secrets,
// ints for durations and costs.
type Config struct {
	Env             string   // application environment (e.g. "dev", "prod")
	Port            string   // HTTP port to listen on
	ClientURL       string   // allowed CORS origin of the storefront frontend (empty allows any)
	DBUser          string   // database username
	DBPass          string   // database password (optional)
	DBHost          string   // database host address
	DBPort          string   // database port number
	DBName          string   // database name
	JWTSecret       string   // secret used to sign session tokens
	SessionTTLHours int      // session cookie / token time-to-live in hours
	BcryptCost      int      // bcrypt cost for password hashing
	BootstrapAdmins []string // emails granted the admin flag at signup, lowercased

	// Blob store settings.  The storefront treats image storage as an opaque
	// S3-compatible service (MinIO in development).  Empty values leave the
	// upload path disabled and product creation will reject image uploads.
	S3Endpoint  string // base endpoint of the S3-compatible service
	S3Region    string // region passed to the SDK
	S3Bucket    string // bucket that holds product images
	S3AccessKey string // access key (MINIO_ROOT_USER in development)
	S3SecretKey string // secret key (MINIO_ROOT_PASSWORD in development)
	S3PublicURL string // public base URL prepended to object keys
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		ClientURL:       os.Getenv("CLIENT_URL"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		SessionTTLHours: mustInt("SESSION_TTL_HOURS"),
		BcryptCost:      mustInt("BCRYPT_COST"),
		BootstrapAdmins: parseEmails(os.Getenv("BOOTSTRAP_ADMIN_EMAILS")),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        os.Getenv("S3_REGION"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),
	}
}

// IsBootstrapAdmin reports whether the given email belongs to the set of
// bootstrap administrators.  Comparison is case-insensitive.
func (c Config) IsBootstrapAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range c.BootstrapAdmins {
		if a == email {
			return true
		}
	}
	return false
}

// parseEmails splits a comma separated list and lowercases every entry.
func parseEmails(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
