package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend  string
	SQLiteDBPath string
	// Directory holding seed.json for the memory backend; empty means start empty.
	SeedDir string

	// AMQP (empty URL disables ledger-changed events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets report export
	GoogleSpreadsheetID string
	GoogleReportSheet   string

	// Household rules
	MinimumSavingsRate float64
	IncomeLabel        string
	SavingsLabel       string
	SpendingLabels     []string
	BudgetLimits       string

	// Worker
	ReportInterval time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budget.db"),
		SeedDir:      getEnv("SEED_DIR", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budget"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_changes"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleReportSheet:   getEnv("GOOGLE_REPORT_SHEET", "Summary"),

		MinimumSavingsRate: getEnvFloat("MINIMUM_SAVINGS_RATE", 0.50),
		IncomeLabel:        getEnv("INCOME_LABEL", string(core.CategoryIncome)),
		SavingsLabel:       getEnv("SAVINGS_LABEL", string(core.CategorySavings)),
		SpendingLabels:     getEnvList("SPENDING_LABELS", defaultSpendingLabels()),
		BudgetLimits:       getEnv("BUDGET_LIMITS", ""),

		ReportInterval: getEnvDuration("REPORT_INTERVAL", time.Hour),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataBackend == "memory" && c.SeedDir != "" {
		if info, err := os.Stat(c.SeedDir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("seed directory '%s' does not exist", c.SeedDir))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.MinimumSavingsRate <= 0 || c.MinimumSavingsRate > 1 {
		errors = append(errors, fmt.Sprintf("invalid minimum savings rate %v: must be in (0, 1]", c.MinimumSavingsRate))
	}

	if _, err := c.Taxonomy(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid category labels: %v", err))
	}

	if _, err := ParseBudgetLimits(c.BudgetLimits); err != nil {
		errors = append(errors, fmt.Sprintf("invalid budget limits: %v", err))
	}

	if c.ReportInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid report interval %v: must be at least 1 minute", c.ReportInterval))
	} else if c.ReportInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid report interval %v: must be at most 24 hours", c.ReportInterval))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Taxonomy builds the category label set from the configured labels.
func (c *Config) Taxonomy() (core.Taxonomy, error) {
	spending := make([]core.Category, len(c.SpendingLabels))
	for i, l := range c.SpendingLabels {
		spending[i] = core.Category(l)
	}
	return core.NewTaxonomy(core.Category(c.IncomeLabel), core.Category(c.SavingsLabel), spending...)
}

// Limits returns the parsed BUDGET_LIMITS. Call Validate first.
func (c *Config) Limits() []core.BudgetLimit {
	limits, _ := ParseBudgetLimits(c.BudgetLimits)
	return limits
}

// ParseBudgetLimits reads "Food=3000,Housing=6,500" style lists. Pairs are
// separated by ';' or ',' when the next item contains '='.
func ParseBudgetLimits(s string) ([]core.BudgetLimit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var (
		out  []core.BudgetLimit
		seen = map[string]bool{}
	)
	for _, item := range splitPairs(s) {
		name, amount, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed entry %q: want Category=Amount", item)
		}
		limit, err := core.ParseAmountStrict(amount)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", name, err)
		}
		if limit.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("category %s: limit must be positive", name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("category %s listed twice", name)
		}
		seen[key] = true
		out = append(out, core.BudgetLimit{Category: name, Limit: limit})
	}
	return out, nil
}

// splitPairs splits on ';' and on ',' only when what follows starts a new
// "Name=" pair, so thousands separators inside amounts survive.
func splitPairs(s string) []string {
	var out []string
	for _, chunk := range strings.Split(s, ";") {
		parts := strings.Split(chunk, ",")
		cur := ""
		for i, p := range parts {
			if i > 0 && strings.Contains(p, "=") {
				out = append(out, cur)
				cur = p
				continue
			}
			if i > 0 {
				cur += ","
			}
			cur += p
		}
		if strings.TrimSpace(cur) != "" {
			out = append(out, cur)
		}
	}
	return out
}

func defaultSpendingLabels() []string {
	cats := core.DefaultSpending()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
