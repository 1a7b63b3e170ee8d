package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"autodoxy/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Long: `Write the default settings to ` + config.FileName + ` in the working directory,
or to the path given with --config.`,
	Args: cobra.NoArgs,
	// The settings file usually does not exist yet, so it is not loaded.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString(logLevelFlagName)
		logger, err := newLogger(level)
		if err != nil {
			return err
		}
		state.logger = logger
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString(configFlagName)
		if path == "" {
			path = config.FileName
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}

		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		state.logger.Info("settings file written", zap.String("path", path))
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := state.store.Current()
		content, err := config.Marshal(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		source := state.configPath
		if source == "" {
			source = "built-in defaults"
		}
		fmt.Fprintf(out, "# source: %s\n", source)
		for _, warning := range cfg.Lint() {
			fmt.Fprintf(out, "# warning: %s\n", warning)
		}
		fmt.Fprint(out, content)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing settings file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
