// ABOUTME: Interactive config writer for confhub-gateway init
// ABOUTME: Prompts for the essentials, hashes the admin password, and writes YAML

package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/2389/confhub/internal/auth"
	"github.com/2389/confhub/internal/config"
)

func runInit(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "confhub-gateway configuration setup")
	fmt.Fprintln(out, "===================================")
	fmt.Fprintln(out)

	defaultDbPath := filepath.Join(getDataPath(), "confhub.db")

	outputFile := prompt(reader, out, "Config file path", getConfigPath())

	if _, err := os.Stat(outputFile); err == nil {
		if !yes(prompt(reader, out, "File exists. Overwrite?", "no")) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	var cfg config.Config

	fmt.Fprintln(out, "\n--- Event ---")
	cfg.Event.Name = prompt(reader, out, "Event name", config.DefaultEventName)
	cfg.Event.Tagline = prompt(reader, out, "Tagline", "")
	cfg.Event.Date = prompt(reader, out, "Date", "")
	cfg.Event.Venue = prompt(reader, out, "Venue", "")
	cfg.Event.Address = prompt(reader, out, "Address", "")
	cfg.Event.MapURL = prompt(reader, out, "Map embed URL", "")

	fmt.Fprintln(out, "\n--- Server ---")
	cfg.Server.HTTPAddr = prompt(reader, out, "HTTP address", config.DefaultHTTPAddr)
	cfg.CORS.AllowedOrigin = prompt(reader, out, "Allowed CORS origin", config.DefaultCORSOrigin)

	fmt.Fprintln(out, "\n--- Database ---")
	cfg.Database.Path = prompt(reader, out, "SQLite database path", defaultDbPath)

	fmt.Fprintln(out, "\n--- Admin ---")
	password := prompt(reader, out, "Admin password", "")
	if password == "" {
		return fmt.Errorf("admin password is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	cfg.Auth.AdminPasswordHash = hash

	secret, err := auth.GenerateSecret()
	if err != nil {
		return fmt.Errorf("generating JWT secret: %w", err)
	}
	cfg.Auth.JWTSecret = hex.EncodeToString(secret)
	cfg.Auth.TokenTTLRaw = config.DefaultTokenTTL
	cfg.Auth.LoginWindowRaw = config.DefaultLoginWindow
	cfg.Auth.MaxLoginAttempts = config.DefaultMaxLoginAttempts

	fmt.Fprintln(out, "\n--- Logging ---")
	cfg.Logging.Level = prompt(reader, out, "Log level (debug/info/warn/error)", "info")
	cfg.Logging.Format = prompt(reader, out, "Log format (text/json)", "text")

	cfg.Metrics.Enabled = yes(prompt(reader, out, "Enable Prometheus metrics?", "no"))
	cfg.Metrics.Path = config.DefaultMetricsPath

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	content := "# confhub-gateway configuration\n# Generated by confhub-gateway init\n\n" + string(data)

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	// 0600: the file carries the JWT secret
	if err := os.WriteFile(outputFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	dataDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Fprintf(out, "\nConfig written to %s\n", outputFile)
	fmt.Fprintf(out, "Data directory: %s\n", dataDir)
	fmt.Fprintln(out, "\nTo start the server:")
	fmt.Fprintln(out, "  confhub-gateway serve")

	return nil
}

func yes(answer string) bool {
	answer = strings.ToLower(answer)
	return answer == "yes" || answer == "y"
}

func prompt(reader *bufio.Reader, out io.Writer, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, defaultVal)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		// On EOF or error, return default
		fmt.Fprintln(out)
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
