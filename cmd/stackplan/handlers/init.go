package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/imamik/stackplan/internal/config"
	"github.com/imamik/stackplan/internal/config/wizard"
	"github.com/imamik/stackplan/internal/util/keygen"
)

// Factory function variables for init - can be replaced in tests.
var (
	// generateKeyPair creates the SSH key pair for --generate-key.
	generateKeyPair = keygen.GenerateRSAKeyPair

	// runWizard asks for the stack's settings when no stack is given.
	runWizard = wizard.Run

	// stdinIsTerminal reports whether the wizard can be shown.
	stdinIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
)

// InitOptions are the inputs of the init command.
type InitOptions struct {
	OutputPath  string
	Stack       string
	Force       bool
	GenerateKey bool
}

// Init writes a configuration with every default spelled out. Without a
// stack name the settings come from the interactive wizard. With
// GenerateKey it also writes an SSH key pair next to the configuration and
// references the public half.
func Init(ctx context.Context, opts InitOptions) error {
	path := configPathOrDefault(opts.OutputPath)
	if fileExists(path) && !opts.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg, generateKey, err := initConfig(ctx, opts)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid stack: %w", err)
	}

	var keyPath string
	if generateKey {
		kp, err := generateKeyPair(keygen.DefaultBits)
		if err != nil {
			return fmt.Errorf("failed to generate key pair: %w", err)
		}
		keyPath = filepath.Join(filepath.Dir(path), cfg.Stack+"-key")
		if err := writeFile(keyPath, kp.PrivateKey, 0o600); err != nil {
			return fmt.Errorf("failed to write private key: %w", err)
		}
		if err := writeFile(keyPath+".pub", kp.PublicKey, 0o600); err != nil {
			return fmt.Errorf("failed to write public key: %w", err)
		}
		cfg.Server.PublicKeyFile = filepath.Base(keyPath) + ".pub"
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := writeFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(path, cfg, keyPath)
	return nil
}

// initConfig returns the configuration to write and whether a key pair is
// wanted.
func initConfig(ctx context.Context, opts InitOptions) (*config.Config, bool, error) {
	if opts.Stack != "" {
		return config.Default(opts.Stack), opts.GenerateKey, nil
	}
	if !stdinIsTerminal() {
		return nil, false, fmt.Errorf("--stack is required when stdin is not a terminal")
	}

	printWelcome()
	result, err := runWizard(ctx, wizard.Defaults(""))
	if err != nil {
		return nil, false, err
	}
	return result.ToConfig(), opts.GenerateKey || result.GenerateKey, nil
}

func printWelcome() {
	fmt.Println()
	fmt.Println("stackplan - video stream stack planner")
	fmt.Println("======================================")
	fmt.Println()
	fmt.Println("This wizard creates a stack configuration with sensible defaults.")
	fmt.Println("Every setting can be edited in the file afterwards.")
	fmt.Println()
}

func printInitSuccess(path string, cfg *config.Config, keyPath string) {
	fmt.Printf("Created %s for stack %s in %s\n", path, cfg.Stack, cfg.Region)
	if keyPath != "" {
		fmt.Printf("SSH key pair written to %s and %s.pub\n", keyPath, keyPath)
	}
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Put the proxy code in %s\n", cfg.Artifacts.Source)
	fmt.Printf("  2. Run: stackplan plan -c %s -o plan.json\n", path)
}
