package cmd

import (
	"fmt"
	"io"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// String renders the version banner.
func (b BuildInfo) String() string {
	return fmt.Sprintf("howto %s\nCommit: %s\nBuilt:  %s\n", b.Version, b.Commit, b.Date)
}

const usageTemplate = `
Usage: howto [question] [OPTIONS] [--help, -h]


Asks an AI chat model how to do something and keeps the conversation going
between invocations.

--setmodel                  Sets the model used by howto. Use without arguments
                            to query the model.

--sethistory                Sets the length of howto's history. Use without arguments
                            to query the history length.

--printhistory, -ph         Formats and prints the history.

--clearhistory, -ch         Clears the local history (located in %s).

--setuserinfo, -su          Sets the userinfo--information that is always prepended
                            to the bot's memory. Use without arguments to query it.

--clearuserinfo, -cu        Clears userinfo.

--setprojectcontext, -sp    Sets the project context for the CWD. Use without
                            arguments to query it.

--clearprojectcontext, -cp  Clears project context for the CWD.

--continuous, -c            Enters continuous mode--keeps the dialogue open until
                            'quit' is entered.

--version, -v               Prints version information.

--help, -h                  Prints this message.

Environment:
  OPENAI_HOWTO_TOKEN        API key for the OpenAI provider.
  HOWTO_PROVIDER_NAME       Provider override (openai, deepseek, ollama).
  HOWTO_HOME                State directory (default ~/.howto).
  HOWTO_VERBOSE             Enables debug logging on stderr.
`

func printUsage(w io.Writer, historyPath string) {
	fmt.Fprintf(w, usageTemplate, historyPath)
}
