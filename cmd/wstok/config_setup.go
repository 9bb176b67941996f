package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wstok/internal/config"
)

// loadConfig reads --config, or the nearest config file above the working
// directory. Without one it returns an empty Config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.Discover(".")
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// setting picks the value of one option. A flag set on the command line wins,
// then a key defined in the config file, then the flag default.
func setting[T any](cmd *cobra.Command, get func(string) (T, error), flag string, cfg *config.Config, section, key string, fromFile T) (T, error) {
	value, err := get(flag)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get %s flag: %w", flag, err)
	}
	if !cmd.Flags().Changed(flag) && cfg.Defined(section, key) {
		return fromFile, nil
	}
	return value, nil
}
