package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The whole struct is built once in main and
// handed to the pieces that need it; nothing reads the environment after
// startup and there is no package-level configuration state.
type Config struct {
    Env                string // application environment (e.g. "dev", "prod")
    Port               string // HTTP port to listen on
    DBUser             string // database username
    DBPass             string // database password (optional)
    DBHost             string // database host address
    DBPort             string // database port number
    DBName             string // database name
    JWTSecret          string // secret used to sign access tokens; rotating it invalidates every outstanding token
    AccessTTLMin       int    // access token time-to-live in minutes
    RecoveryCodeTTLMin int    // recovery code time-to-live in minutes
    BcryptCost         int    // bcrypt cost for password hashing
    AdminUsername      string // bootstrap admin account name (optional)
    AdminPassword      string // bootstrap admin account password (optional)
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. The bootstrap
// admin pair is optional: when unset no admin account is provisioned.
func Load() Config {
    return Config{
        Env:                must("APP_ENV"),
        Port:               must("APP_PORT"),
        DBUser:             must("DB_USER"),
        DBPass:             os.Getenv("DB_PASS"), // empty allowed
        DBHost:             must("DB_HOST"),
        DBPort:             must("DB_PORT"),
        DBName:             must("DB_NAME"),
        JWTSecret:          must("JWT_SECRET"),
        AccessTTLMin:       mustInt("ACCESS_TOKEN_TTL_MIN"),
        RecoveryCodeTTLMin: envInt("RECOVERY_CODE_TTL_MIN", 60),
        BcryptCost:         mustInt("BCRYPT_COST"),
        AdminUsername:      os.Getenv("ADMIN_USERNAME"),
        AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
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

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// envInt reads an optional integer variable, falling back to def when
// the variable is unset or unparseable.
func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return def
    }
    return n
}
