package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/stackplan/internal/provisioning"
	"github.com/imamik/stackplan/internal/topology"
)

// Validate loads a configuration, reports warnings and counts the resources
// it declares.
func Validate(_ context.Context, configPath string) error {
	path := configPathOrDefault(configPath)
	cfg, err := loadConfigFile(path)
	if err != nil {
		return err
	}

	stack, err := topology.Build(cfg)
	if err != nil {
		return fmt.Errorf("configuration does not describe a valid stack: %w", err)
	}

	for _, ve := range provisioning.Validate(cfg) {
		if !ve.IsError() {
			fmt.Printf("  warning  %s: %s\n", ve.Field, ve.Message)
		}
	}
	fmt.Printf("%s is valid: stack %s declares %d resources\n", path, cfg.Stack, len(stack.Nodes))
	return nil
}
