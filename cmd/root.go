package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"autodoxy/pkg/codemodel"
	"autodoxy/pkg/config"
	"autodoxy/pkg/orchestrator"
)

// Version information
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	configFlagName   = "config"
	logLevelFlagName = "log-level"
	lexicalFlagName  = "lexical"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	logger     *zap.Logger
	store      *config.Store
	configPath string
	resolver   codemodel.Resolver
}

// state is filled in by rootCmd before a subcommand runs.
var state = &app{logger: zap.NewNop()}

func (a *app) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(a.store, a.resolver, orchestrator.WithLogger(a.logger))
}

// setup builds the logger, loads the settings and picks the resolver.
func (a *app) setup(cmd *cobra.Command) error {
	level, _ := cmd.Flags().GetString(logLevelFlagName)
	logger, err := newLogger(level)
	if err != nil {
		return err
	}
	a.logger = logger

	explicit, _ := cmd.Flags().GetString(configFlagName)
	workingDirectory, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, path, err := config.Load(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: explicit,
	})
	if err != nil {
		return err
	}
	a.configPath = path
	a.store = config.NewStore(cfg, logger)
	for _, warning := range cfg.Lint() {
		logger.Warn("template placeholder missing",
			zap.String("template", warning.Template),
			zap.String("placeholder", warning.Placeholder))
	}

	if lexical, _ := cmd.Flags().GetBool(lexicalFlagName); lexical {
		a.resolver = codemodel.NewLexicalResolver()
	} else {
		a.resolver = codemodel.NewDefaultResolver()
	}

	logger.Debug("configuration loaded",
		zap.String("path", path),
		zap.String("tag_style", string(cfg.TagStyle)))
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "autodoxy",
	Short: "Doxygen comment generation for C and C++ sources",
	Long: `autodoxy generates Doxygen comment blocks for C and C++ functions, continues
comment blocks on Enter and aligns text on Tab. Each command reproduces one
editor event against a file and prints the edited text or the edit list.`,
	Version:       getVersionString(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return state.setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = state.logger.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "autodoxy %s\n", getVersionString())
		fmt.Fprintf(out, "  Version: %s\n", version)
		fmt.Fprintf(out, "  Commit:  %s\n", commit)
		fmt.Fprintf(out, "  Date:    %s\n", date)
	},
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}

// SetVersionInfo records the build metadata injected at link time.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String(configFlagName, "", "Settings file (default ./"+config.FileName+")")
	rootCmd.PersistentFlags().String(logLevelFlagName, "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool(lexicalFlagName, false, "Use the lexical code model instead of tree-sitter")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(newlineCmd)
	rootCmd.AddCommand(indentCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
