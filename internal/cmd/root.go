// Package cmd contains the CLI command definitions for howto.
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/howto-cli/howto/internal/app"
	"github.com/howto-cli/howto/internal/pkg/config"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// Option customizes the application built by the root command.
type Option func(*app.Options)

// WithStateDir stores config and history under dir instead of $HOWTO_HOME or ~/.howto.
func WithStateDir(dir string) Option {
	return func(o *app.Options) { o.StateDir = dir }
}

// WithWorkDir keys project context by dir instead of the process working directory.
func WithWorkDir(dir string) Option {
	return func(o *app.Options) { o.WorkDir = dir }
}

// WithCompleterFactory replaces the remote model client.
func WithCompleterFactory(factory app.CompleterFactory) Option {
	return func(o *app.Options) { o.NewCompleter = factory }
}

// NewRootCmd creates the root command for the howto CLI.
// Arguments are dispatched by their first token, so cobra's flag parsing is off.
func NewRootCmd(version, commitHash, date string, opts ...Option) *cobra.Command {
	info := BuildInfo{Version: version, Commit: commitHash, Date: date}

	rootCmd := &cobra.Command{
		Use:   "howto [question] [OPTIONS]",
		Short: "Ask an AI model how to do something from the command line",
		Long: `howto forwards a question to a chat model and prints the answer.

Conversation history, the model, a free-form description of the user and a
context string per project directory are kept between invocations, so
repeated calls behave like one continuing conversation.`,
		Version:            version,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, info, opts)
		},
	}

	rootCmd.SetVersionTemplate(info.String())

	return rootCmd
}

// runRoot parses args, builds the app and dispatches.
// Help, version and unknown options never touch the state directory.
func runRoot(cmd *cobra.Command, args []string, info BuildInfo, opts []Option) error {
	appOpts := app.Options{
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		ErrOut: cmd.ErrOrStderr(),
	}
	for _, opt := range opts {
		opt(&appOpts)
	}

	inv := ParseArgs(args)
	switch inv.Command {
	case CommandHelp:
		printUsage(appOpts.Out, historyPath(appOpts.StateDir))
		return apperrors.NewInformational()
	case CommandVersion:
		fmt.Fprint(appOpts.Out, info.String())
		return apperrors.NewInformational()
	case CommandUnknown:
		return unknownOption(appOpts.Out, historyPath(appOpts.StateDir), inv.Flag)
	}

	a, err := app.New(appOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	return Dispatch(cmd.Context(), a, inv, info)
}

func historyPath(stateDir string) string {
	if stateDir == "" {
		dir, err := config.DefaultStateDir()
		if err != nil {
			return config.DefaultHistoryFileName
		}
		stateDir = dir
	}
	return filepath.Join(stateDir, config.DefaultHistoryFileName)
}
