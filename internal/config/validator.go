package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single invalid setting.
type ValidationError struct {
	Field   string // config key, e.g. "sync.max_retries"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d invalid config values:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the accepted log.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config and returns every problem found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(c.Roadmap.ID) == "" {
		errs = append(errs, ValidationError{Field: "roadmap.id", Value: c.Roadmap.ID, Message: "must not be empty"})
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, ValidationError{Field: "store.path", Value: c.Store.Path, Message: "must not be empty"})
	}
	if strings.TrimSpace(c.Local.Path) == "" {
		errs = append(errs, ValidationError{Field: "local.path", Value: c.Local.Path, Message: "must not be empty"})
	}
	if c.Sync.MaxRetries < 0 || c.Sync.MaxRetries > 10 {
		errs = append(errs, ValidationError{Field: "sync.max_retries", Value: c.Sync.MaxRetries, Message: "must be between 0 and 10"})
	}
	if c.Sync.BaseDelayMs < 1 {
		errs = append(errs, ValidationError{Field: "sync.base_delay_ms", Value: c.Sync.BaseDelayMs, Message: "must be positive"})
	}
	if c.Sync.ProbeIntervalMs < 100 {
		errs = append(errs, ValidationError{Field: "sync.probe_interval_ms", Value: c.Sync.ProbeIntervalMs, Message: "must be at least 100"})
	}
	if c.History.Limit < 1 {
		errs = append(errs, ValidationError{Field: "history.limit", Value: c.History.Limit, Message: "must be at least 1"})
	}
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: "must be one of " + strings.Join(ValidLogLevels(), ", "),
		})
	}
	return errs
}
