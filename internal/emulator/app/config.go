package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/service"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
)

// Config is read from the environment once at startup. Unparseable values
// fall back to the default.
type Config struct {
	ProjectID         string        // EMULATOR_PROJECT_ID (default: demo-project)
	APIKeys           []string      // EMULATOR_API_KEYS, comma separated. Unset accepts any non-empty key
	NumKeys           int           // EMULATOR_NUM_KEYS, ID token signing keys (default: 2, max: 10)
	DatabaseFile      string        // EMULATOR_DATABASE_FILE (default: emulator.db)
	PepperFile        string        // EMULATOR_PEPPER_FILE, created on first boot (default: pepper)
	IDTokenTTL        time.Duration // EMULATOR_ID_TOKEN_TTL (default: 1h)
	RefreshTokenTTL   time.Duration // EMULATOR_REFRESH_TOKEN_TTL (default: 30 days)
	OobCodeTTL        time.Duration // EMULATOR_OOB_CODE_TTL (default: 1h)
	CustomTokenSecret string        // EMULATOR_CUSTOM_TOKEN_SECRET, HS256 key. Unset disables custom token sign-in
	DisableAnonymous  bool          // EMULATOR_DISABLE_ANONYMOUS
	DisablePassword   bool          // EMULATOR_DISABLE_PASSWORD

	Env                  string        // ENV: dev, test or prod (default: dev)
	LogLevel             string        // LOG_LEVEL (default: info)
	LogFormat            string        // LOG_FORMAT: json or text (default: json)
	Port                 int           // PORT (default: 9099)
	ShutdownGracePeriod  time.Duration // SHUTDOWN_GRACE_PERIOD (default: 10s)
	HousekeepingInterval time.Duration // HOUSEKEEPING_INTERVAL (default: 1h)
}

func LoadConfig() Config {
	return Config{
		ProjectID:         env("EMULATOR_PROJECT_ID", "demo-project", parseString),
		APIKeys:           env("EMULATOR_API_KEYS", nil, parseList),
		NumKeys:           env("EMULATOR_NUM_KEYS", 2, strconv.Atoi),
		DatabaseFile:      env("EMULATOR_DATABASE_FILE", "emulator.db", parseString),
		PepperFile:        env("EMULATOR_PEPPER_FILE", "pepper", parseString),
		IDTokenTTL:        env("EMULATOR_ID_TOKEN_TTL", jwtx.DefaultIDTokenTTL, parseDuration),
		RefreshTokenTTL:   env("EMULATOR_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL, parseDuration),
		OobCodeTTL:        env("EMULATOR_OOB_CODE_TTL", service.DefaultOobCodeTTL, parseDuration),
		CustomTokenSecret: env("EMULATOR_CUSTOM_TOKEN_SECRET", "", parseString),
		DisableAnonymous:  env("EMULATOR_DISABLE_ANONYMOUS", false, strconv.ParseBool),
		DisablePassword:   env("EMULATOR_DISABLE_PASSWORD", false, strconv.ParseBool),

		Env:                  env("ENV", "dev", parseString),
		LogLevel:             env("LOG_LEVEL", "info", parseString),
		LogFormat:            env("LOG_FORMAT", "json", parseString),
		Port:                 env("PORT", 9099, strconv.Atoi),
		ShutdownGracePeriod:  env("SHUTDOWN_GRACE_PERIOD", 10*time.Second, parseDuration),
		HousekeepingInterval: env("HOUSEKEEPING_INTERVAL", service.DefaultSweepInterval, parseDuration),
	}
}

// Validate rejects settings the emulator cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.ProjectID == "" {
		errs = append(errs, errors.New("EMULATOR_PROJECT_ID must not be empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.NumKeys < 1 || c.NumKeys > 10 {
		errs = append(errs, fmt.Errorf("EMULATOR_NUM_KEYS must be between 1 and 10, got %d", c.NumKeys))
	}
	for name, d := range map[string]time.Duration{
		"EMULATOR_ID_TOKEN_TTL":      c.IDTokenTTL,
		"EMULATOR_REFRESH_TOKEN_TTL": c.RefreshTokenTTL,
		"EMULATOR_OOB_CODE_TTL":      c.OobCodeTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	return errors.Join(errs...)
}

// env parses the variable key, returning def when it is unset or invalid.
func env[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

// parseDuration accepts Go durations ("90s", "1h") and bare minutes ("15").
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	minutes, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(minutes) * time.Minute, nil
}

func parseList(s string) ([]string, error) {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}
