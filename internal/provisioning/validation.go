package provisioning

import (
	"fmt"
	"strings"

	"github.com/imamik/stackplan/internal/config"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	var errs []ValidationError
	for _, ve := range Validate(ctx.Config) {
		if !ve.IsError() {
			LogValidationWarning(ctx.Observer, ve.Field, ve.Message)
			continue
		}
		errs = append(errs, ve)
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(msgs, "\n  "))
	}
	return nil
}

// Validate returns every error and warning for cfg.
func Validate(cfg *config.Config) []ValidationError {
	if cfg == nil {
		return []ValidationError{{Field: "config", Message: "configuration is required", Severity: "error"}}
	}

	var out []ValidationError
	if err := cfg.Validate(); err != nil {
		for _, e := range unjoin(err) {
			field, msg := splitField(e.Error())
			out = append(out, ValidationError{Field: field, Message: msg, Severity: "error"})
		}
	}

	for i, p := range cfg.Server.Ports {
		if p.Port == 22 && p.CIDR == "0.0.0.0/0" {
			out = append(out, ValidationError{
				Field:    fmt.Sprintf("server.ports[%d]", i),
				Message:  "SSH is open to the internet; consider restricting cidr",
				Severity: "warning",
			})
		}
	}
	if cfg.Analysis.IsEnabled() && cfg.Analysis.ModelARN == "" {
		out = append(out, ValidationError{
			Field:    "analysis.modelArn",
			Message:  "no custom model set; the stock label detector is used",
			Severity: "warning",
		})
	}
	if cfg.Frames.Defaults.RemovalPolicy == config.RemovalDestroy && cfg.Frames.Defaults.AutoDelete() {
		out = append(out, ValidationError{
			Field:    "frames.defaults",
			Message:  "frames are deleted together with the stack",
			Severity: "warning",
		})
	}
	return out
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// splitField extracts the leading dotted field name of a config error.
func splitField(msg string) (string, string) {
	head, rest, ok := strings.Cut(msg, " ")
	head = strings.TrimSuffix(head, ":")
	if !ok || (!strings.ContainsAny(head, ".[") && head != "stack" && head != "region") {
		return "config", msg
	}
	return head, strings.TrimPrefix(rest, ": ")
}
