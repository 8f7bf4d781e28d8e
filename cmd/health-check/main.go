// Package main provides a standalone health check command for PantryMatch
// This command can be used for Docker health checks, monitoring scripts, and debugging
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"github.com/mealprep/pantrymatch/pkg/healthcheck"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Options holds command-line configuration
type Options struct {
	URL            string
	Timeout        time.Duration
	Verbose        bool
	OutputFormat   string
	ExpectedStatus string
	RetryCount     int
	RetryDelay     time.Duration
	ConfigPath     string
}

type readiness struct {
	Status  healthcheck.Status `json:"status"`
	Version string             `json:"version"`
	Checks  []struct {
		Name       string             `json:"name"`
		Status     healthcheck.Status `json:"status"`
		Message    string             `json:"message"`
		DurationMS float64            `json:"duration_ms"`
	} `json:"checks"`
}

func main() {
	opts := parseFlags()
	if opts.URL == "" {
		url, err := readyURL(opts.ConfigPath)
		if err != nil {
			fmt.Printf("Failed to load configuration: %v\n", err)
			os.Exit(exitCodeError)
		}
		opts.URL = url
	}
	os.Exit(run(opts))
}

// parseFlags parses command-line flags
func parseFlags() Options {
	opts := Options{}

	flag.StringVar(&opts.URL, "url", os.Getenv("HEALTH_CHECK_URL"), "Readiness endpoint URL (default: admin /ready from the config)")
	flag.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Verbose output")
	flag.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json")
	flag.StringVar(&opts.ExpectedStatus, "expect", "healthy", "Lowest acceptable status: healthy or degraded")
	flag.IntVar(&opts.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", 1*time.Second, "Delay between retries")
	flag.StringVar(&opts.ConfigPath, "config", os.Getenv("PANTRYMATCH_CONFIG"), "Configuration file path")

	flag.Parse()
	return opts
}

// readyURL points at the admin server of the configured instance
func readyURL(configPath string) (string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	if cfg.Server.AdminPort > 0 {
		return fmt.Sprintf("http://127.0.0.1:%d/ready", cfg.Server.AdminPort), nil
	}
	return fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port), nil
}

func run(opts Options) int {
	client := &http.Client{Timeout: opts.Timeout}

	var lastError error
	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		if attempt > 0 {
			if opts.Verbose {
				fmt.Printf("Retrying in %v... (attempt %d/%d)\n", opts.RetryDelay, attempt, opts.RetryCount)
			}
			time.Sleep(opts.RetryDelay)
		}

		result, err := probe(client, opts.URL)
		if err != nil {
			lastError = err
			if opts.Verbose {
				fmt.Printf("Request failed: %v\n", err)
			}
			continue
		}
		output(result, opts)
		return exitCode(result.Status, healthcheck.Status(opts.ExpectedStatus))
	}

	fmt.Printf("Health check failed after %d attempts: %v\n", opts.RetryCount+1, lastError)
	return exitCodeError
}

func probe(client *http.Client, url string) (*readiness, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result readiness
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Status == "" {
		result.Status = healthcheck.StatusUnhealthy
	}
	return &result, nil
}

func exitCode(status, expected healthcheck.Status) int {
	switch status {
	case healthcheck.StatusHealthy:
		return exitCodeSuccess
	case healthcheck.StatusDegraded:
		if expected == healthcheck.StatusDegraded {
			return exitCodeSuccess
		}
	}
	return exitCodeFailure
}

func output(result *readiness, opts Options) {
	if opts.OutputFormat == "json" {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Status: %s\n", result.Status)
	if result.Version != "" {
		fmt.Printf("Version: %s\n", result.Version)
	}
	if opts.Verbose && len(result.Checks) > 0 {
		fmt.Println("\nChecks:")
		for _, check := range result.Checks {
			fmt.Printf("  %s: %s", check.Name, check.Status)
			if check.Message != "" {
				fmt.Printf(" (%s)", check.Message)
			}
			fmt.Printf(" [%.1fms]\n", check.DurationMS)
		}
	}
}
