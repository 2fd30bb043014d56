// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lani-platform/lani/internal/money"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Config struct {
	DBPath string

	LogLevel    string
	LogFormat   string
	LogUseCases bool

	// Currency is used for project rollups that have no budgets or
	// transactions to take a currency from.
	Currency string

	// AMQPURL enables budget alerts when set.
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// MetricsAddr is the listen address for the Prometheus endpoint. Empty
	// disables it.
	MetricsAddr string
}

// DefaultConfig returns a Config with defaults for every field. Alerts and
// metrics are disabled.
func DefaultConfig() Config {
	return Config{
		DBPath:         defaultDBPath(),
		LogLevel:       "info",
		LogFormat:      LogFormatText,
		Currency:       string(money.USD),
		AMQPExchange:   "lani",
		AMQPRoutingKey: "budget.alerts",
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lani", "lani.db")
	}
	return filepath.Join(home, ".lani", "lani.db")
}

// Load reads envFiles (default ".env") when present, then environment
// variables, falling back to defaults for unset values. Variables already set
// in the environment win over file values.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	cfg := DefaultConfig()
	if v := os.Getenv("LANI_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LANI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("LANI_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("LANI_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("LANI_CURRENCY"); v != "" {
		cfg.Currency = strings.ToUpper(v)
	}
	cfg.AMQPURL = os.Getenv("LANI_AMQP_URL")
	if v := os.Getenv("LANI_AMQP_EXCHANGE"); v != "" {
		cfg.AMQPExchange = v
	}
	if v := os.Getenv("LANI_AMQP_ROUTING_KEY"); v != "" {
		cfg.AMQPRoutingKey = v
	}
	cfg.MetricsAddr = os.Getenv("LANI_METRICS_ADDR")
	return cfg
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "database path cannot be empty")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be %q or %q", c.LogFormat, LogFormatText, LogFormatJSON))
	}
	if _, err := money.NewCurrency(c.Currency); err != nil {
		problems = append(problems, fmt.Sprintf("invalid currency %q: %v", c.Currency, err))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme %q: must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange cannot be empty when an AMQP URL is set")
		}
		if c.AMQPRoutingKey == "" {
			problems = append(problems, "AMQP routing key cannot be empty when an AMQP URL is set")
		}
	}

	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			problems = append(problems, fmt.Sprintf("invalid metrics address %q: %v", c.MetricsAddr, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// AlertsEnabled reports whether budget alerts should be published.
func (c Config) AlertsEnabled() bool { return c.AMQPURL != "" }

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", s)
}

// NewLogger builds the process logger described by c. Invalid settings fall
// back to info-level text output.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
