// Package main is the entry point for the howto CLI application.
// howto asks a chat model how to do something and keeps the conversation
// going between invocations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/howto-cli/howto/internal/cmd"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd := cmd.NewRootCmd(version, commit, date)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}
	if apperrors.HasCode(err, apperrors.ErrInterrupted) {
		// Leave the shell prompt on a fresh line.
		fmt.Fprintln(os.Stdout)
	} else if !apperrors.IsSilent(err) {
		if apperrors.IsVerbose() {
			fmt.Fprintln(os.Stderr, apperrors.FormatErrorVerbose(err))
		} else {
			fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
		}
	}
	os.Exit(apperrors.GetExitCode(err))
}
