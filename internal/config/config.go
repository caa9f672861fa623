package config

import (
	goerrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/wagiedev/agent-mcp-go/internal/errors"
)

const (
	// DefaultSessionIdleTimeout is how long an HTTP session may sit unused before it is closed.
	DefaultSessionIdleTimeout = 30 * time.Minute

	// DefaultBackendTimeout bounds a single outbound backend request.
	DefaultBackendTimeout = 120 * time.Second

	productionEnv = "production"
)

// Defaults are the per-binary settings a Config is loaded against.
type Defaults struct {
	// Service is the binary name, reported in logs, /health and usage text.
	Service string
	// Port is used when neither --port nor PORT is set.
	Port int
	// Families are the backends this binary requires.
	Families []Family
}

// Config is the process-wide configuration.
type Config struct {
	Service    string
	Port       int
	Production bool
	Stdio      bool

	// Backends maps each required family to its base URL.
	Backends map[Family]string

	// SessionIdleTimeout closes idle HTTP sessions; zero disables reaping.
	SessionIdleTimeout time.Duration
	BackendTimeout     time.Duration
	LogLevel           slog.Level
}

// Load builds a Config from command-line arguments (without the program
// name) and the environment. It returns errors.ErrHelp when --help is given,
// and a *errors.ConfigError for any missing or malformed value.
// Flag parsing happens first, so --help works without any environment.
func Load(d Defaults, args []string, getenv func(string) string) (*Config, error) {
	fs := pflag.NewFlagSet(d.Service, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	port := fs.String("port", "", "HTTP listen port")
	stdio := fs.Bool("stdio", false, "serve MCP over standard input/output instead of HTTP")
	help := fs.BoolP("help", "h", false, "show help")

	if err := fs.Parse(args); err != nil {
		if goerrors.Is(err, pflag.ErrHelp) {
			return nil, errors.ErrHelp
		}

		return nil, &errors.ConfigError{Key: "flags", Reason: "cannot parse command line", Err: err}
	}

	if *help {
		return nil, errors.ErrHelp
	}

	cfg := &Config{
		Service:    d.Service,
		Stdio:      *stdio,
		Production: isProduction(getenv),
		Backends:   make(map[Family]string, len(d.Families)),
	}

	var err error

	if cfg.Port, err = resolvePort(*port, getenv("PORT"), d.Port); err != nil {
		return nil, err
	}

	for _, f := range d.Families {
		base, err := backendURL(f.EnvVar(), getenv(f.EnvVar()))
		if err != nil {
			return nil, err
		}

		cfg.Backends[f] = base
	}

	if cfg.SessionIdleTimeout, err = duration("MCP_SESSION_IDLE_TIMEOUT", getenv, DefaultSessionIdleTimeout); err != nil {
		return nil, err
	}

	if cfg.BackendTimeout, err = duration("BACKEND_TIMEOUT", getenv, DefaultBackendTimeout); err != nil {
		return nil, err
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, &errors.ConfigError{Key: "LOG_LEVEL", Reason: "unknown level", Err: err}
		}
	}

	return cfg, nil
}

// Host is the interface to listen on: all interfaces only in production.
func (c *Config) Host() string {
	if c.Production {
		return "0.0.0.0"
	}

	return "localhost"
}

// Addr is the host:port the HTTP transport listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host(), strconv.Itoa(c.Port))
}

// PrintUsage writes the help text for a binary to w.
func PrintUsage(w io.Writer, d Defaults) {
	fmt.Fprintf(w, `%s serves agent tools over the Model Context Protocol.

Usage:
  %s [--port <int>] [--stdio] [--help]

Flags:
  --port <int>   HTTP listen port (default: $PORT, else %d)
  --stdio        serve a single client over standard input/output
  -h, --help     show this help

Environment:
`, d.Service, d.Service, d.Port)

	for _, f := range d.Families {
		fmt.Fprintf(w, "  %-26s base URL of the %s backend (required)\n", f.EnvVar(), f)
	}

	fmt.Fprintf(w, `  %-26s listen port
  %-26s "production" listens on 0.0.0.0 (NODE_ENV is also honored)
  %-26s close idle HTTP sessions after this long, 0 disables (default %s)
  %-26s per-request backend timeout (default %s)
  %-26s debug, info, warn or error (default info)
`,
		"PORT", "MCP_ENV", "MCP_SESSION_IDLE_TIMEOUT", DefaultSessionIdleTimeout,
		"BACKEND_TIMEOUT", DefaultBackendTimeout, "LOG_LEVEL")
}

func isProduction(getenv func(string) string) bool {
	env := getenv("MCP_ENV")
	if env == "" {
		env = getenv("NODE_ENV")
	}

	return strings.EqualFold(env, productionEnv)
}

func resolvePort(flagValue, envValue string, fallback int) (int, error) {
	key, value := "--port", flagValue
	if value == "" {
		key, value = "PORT", envValue
	}

	if value == "" {
		return fallback, nil
	}

	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, &errors.ConfigError{Key: key, Reason: fmt.Sprintf("%q is not a number", value), Err: err}
	}

	if port < 1 || port > 65535 {
		return 0, &errors.ConfigError{Key: key, Reason: "must be between 1 and 65535"}
	}

	return port, nil
}

func backendURL(key, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &errors.ConfigError{Key: key, Reason: "required", Err: errors.ErrMissingConfig}
	}

	u, err := url.Parse(value)
	if err != nil {
		return "", &errors.ConfigError{Key: key, Reason: "invalid URL", Err: err}
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &errors.ConfigError{Key: key, Reason: fmt.Sprintf("%q must be an absolute http(s) URL", value)}
	}

	return strings.TrimRight(value, "/"), nil
}

func duration(key string, getenv func(string) string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}

	if v == "0" {
		return 0, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, &errors.ConfigError{Key: key, Reason: fmt.Sprintf("%q is not a duration", v), Err: err}
	}

	return d, nil
}
