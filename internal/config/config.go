// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables, and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// JWTSecret is the process-wide secret used to sign session tokens.
	JWTSecret string

	// TokenTTLMinutes is the session token lifetime in minutes.
	TokenTTLMinutes int

	// FrontendURL is the origin allowed by CORS.
	FrontendURL string

	// LogLevel sets the zap logging level.
	LogLevel string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.JWTSecret, "s", "", "session token signing secret")
	flag.IntVar(&options.TokenTTLMinutes, "ttl", 30, "session token lifetime in minutes")
	flag.StringVar(&options.FrontendURL, "f", "http://localhost:3000", "frontend origin for CORS")
	flag.StringVar(&options.LogLevel, "l", "info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, an optional .env file, environment
// variables, and an optional JSON config file to set configuration values.
// It returns a pointer to the Options struct containing the parsed
// configuration values.
func Parse() *Options {
	flag.Parse()

	// Load a .env file if present; real environment variables win.
	_ = godotenv.Load()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if ttl := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); ttl != "" {
		if minutes, err := strconv.Atoi(ttl); err == nil {
			options.TokenTTLMinutes = minutes
		}
	}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		options.FrontendURL = frontend
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	// Some deployment environments inject the secret with its quoting
	// intact. Stripping it here keeps the codec contract clean.
	options.JWTSecret = strings.Trim(options.JWTSecret, `"'`)

	return options
}
