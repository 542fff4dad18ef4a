// Package terminal implements the interactive command-line mode of prompter.
//
// Every line the user types is classified by a prompt.Prompt. Lines that
// start with a command prefix (":" by default) are dispatched to the command
// registry; all other lines are sent to the agent and the LLM reply is
// printed.
//
// # Usage
//
//	reader := terminal.NewLinerReader(historyFile)
//	defer reader.Close()
//
//	term := terminal.New(agent, registry, reader, os.Stdout, ':')
//	err := term.Run(ctx, initialPrompt)
//
// # Features
//
//   - Line editing and history through liner, saved between sessions
//   - Commands such as :help, :history, :save, :read, :run and :mcp
//   - :quit or :exit, Ctrl-D and Ctrl-C end the session
package terminal
