package provisioning

// Phase defines the interface for a pipeline phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the phase.
	Provision(ctx *Context) error
}

// Logger is the minimal printf-style logger phases use for progress lines.
type Logger interface {
	Printf(format string, v ...any)
}
