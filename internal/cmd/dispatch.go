package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/howto-cli/howto/internal/app"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// Command identifies one of the fixed command forms.
type Command int

const (
	CommandQuery Command = iota
	CommandHelp
	CommandVersion
	CommandClearHistory
	CommandModel
	CommandHistoryLength
	CommandPrintHistory
	CommandUserInfo
	CommandClearUserInfo
	CommandProjectContext
	CommandClearProjectContext
	CommandContinuous
	CommandUnknown
)

// String returns the command name used in logs.
func (c Command) String() string {
	switch c {
	case CommandQuery:
		return "query"
	case CommandHelp:
		return "help"
	case CommandVersion:
		return "version"
	case CommandClearHistory:
		return "clear-history"
	case CommandModel:
		return "model"
	case CommandHistoryLength:
		return "history-length"
	case CommandPrintHistory:
		return "print-history"
	case CommandUserInfo:
		return "user-info"
	case CommandClearUserInfo:
		return "clear-user-info"
	case CommandProjectContext:
		return "project-context"
	case CommandClearProjectContext:
		return "clear-project-context"
	case CommandContinuous:
		return "continuous"
	default:
		return "unknown"
	}
}

var flagCommands = map[string]Command{
	"--help":                CommandHelp,
	"-h":                    CommandHelp,
	"--version":             CommandVersion,
	"-v":                    CommandVersion,
	"--clearhistory":        CommandClearHistory,
	"-ch":                   CommandClearHistory,
	"--setmodel":            CommandModel,
	"--sethistory":          CommandHistoryLength,
	"--printhistory":        CommandPrintHistory,
	"-ph":                   CommandPrintHistory,
	"--setuserinfo":         CommandUserInfo,
	"-su":                   CommandUserInfo,
	"--clearuserinfo":       CommandClearUserInfo,
	"-cu":                   CommandClearUserInfo,
	"--setprojectcontext":   CommandProjectContext,
	"-sp":                   CommandProjectContext,
	"--clearprojectcontext": CommandClearProjectContext,
	"-cp":                   CommandClearProjectContext,
	"--continuous":          CommandContinuous,
	"-c":                    CommandContinuous,
}

// Invocation is the parsed form of one command line.
type Invocation struct {
	Command Command
	// Flag is the first token as typed, empty for a plain query.
	Flag string
	// Arg is the second token; HasArg reports whether it was given at all.
	Arg    string
	HasArg bool
	// Text is the remaining tokens joined with spaces and trimmed.
	// For a plain query it is the whole question.
	Text string
}

// ParseArgs interprets the raw arguments by their first token.
func ParseArgs(args []string) Invocation {
	if len(args) == 0 || !strings.HasPrefix(args[0], "-") {
		return Invocation{Command: CommandQuery, Text: joinArgs(args)}
	}

	inv := Invocation{Command: CommandUnknown, Flag: args[0]}
	if c, ok := flagCommands[args[0]]; ok {
		inv.Command = c
	}
	if len(args) > 1 {
		inv.Arg = args[1]
		inv.HasArg = true
		inv.Text = joinArgs(args[1:])
	}
	return inv
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// Dispatch runs inv against a. Commands that only print or update state
// return a silent informational error so the process exits non-zero.
func Dispatch(ctx context.Context, a *app.App, inv Invocation, info BuildInfo) error {
	apperrors.Debug("Dispatching %s", inv.Command)

	switch inv.Command {
	case CommandClearHistory:
		return runClearHistory(ctx, a, inv)
	case CommandModel:
		return runModel(a, inv)
	case CommandHistoryLength:
		return runHistoryLength(a, inv)
	case CommandPrintHistory:
		return runPrintHistory(a)
	case CommandUserInfo:
		return runUserInfo(a, inv)
	case CommandClearUserInfo:
		return runClearUserInfo(a)
	case CommandProjectContext:
		return runProjectContext(a, inv)
	case CommandClearProjectContext:
		return runClearProjectContext(a)
	case CommandContinuous:
		return runContinuous(ctx, a, inv.Text, info)
	case CommandQuery:
		return runQuery(ctx, a, inv.Text)
	case CommandHelp:
		printUsage(a.Out, a.ConfigMgr.GetHistoryPath())
		return apperrors.NewInformational()
	case CommandVersion:
		fmt.Fprint(a.Out, info.String())
		return apperrors.NewInformational()
	default:
		return unknownOption(a.Out, a.ConfigMgr.GetHistoryPath(), inv.Flag)
	}
}

// unknownOption prints usage and reports flag as invalid.
func unknownOption(w io.Writer, historyPath, flag string) error {
	printUsage(w, historyPath)
	return apperrors.NewInvalidArgumentsError(fmt.Sprintf("unknown option: %s", flag))
}
