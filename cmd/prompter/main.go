package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m4xw311/prompter/agent"
	"github.com/m4xw311/prompter/agent/terminal"
	"github.com/m4xw311/prompter/commands"
	"github.com/m4xw311/prompter/commands/mcp"
	"github.com/m4xw311/prompter/config"
	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/llm"
	"github.com/m4xw311/prompter/logging"
	"github.com/m4xw311/prompter/session"
	"github.com/spf13/cobra"
)

type options struct {
	session  string
	resume   string
	llm      string
	model    string
	prefixes []string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "prompter [initial prompt]",
		Short:         "Chat with an LLM; lines starting with ':' are commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, strings.Join(args, " "))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.session, "session", "s", "", "Session name to create")
	flags.StringVarP(&opts.resume, "resume", "r", "", "Resume a session by name")
	flags.StringVar(&opts.llm, "llm", "", "LLM provider: anthropic, openai, gemini, bedrock or mock")
	flags.StringVar(&opts.model, "model", "", "Model name for the LLM provider")
	flags.StringArrayVar(&opts.prefixes, "prefix", nil, "Command prefix character (repeatable)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	return cmd
}

func run(cmd *cobra.Command, opts *options, initialPrompt string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.Wrapf(err, "error loading configuration")
	}
	applyFlags(cfg, opts)

	prefixes, err := cfg.Prefixes()
	if err != nil {
		return err
	}

	logging.Init("prompter", logging.Options{Level: cfg.LogLevel})
	defer logging.Sync()

	sess, err := openSession(cmd, opts)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(cmd.Context(), cfg.LLMClient, cfg.Model)
	if err != nil {
		return err
	}

	a, err := agent.New(sess, client, cfg.SystemPrompt)
	if err != nil {
		return errors.Wrapf(err, "error initializing agent")
	}

	var caller commands.ToolCaller
	if len(cfg.MCPServers) > 0 {
		manager := mcp.NewManager(cfg)
		defer manager.Close()
		caller = manager
	}
	registry := commands.NewDefaultRegistry(cfg, sess, caller)

	reader := terminal.NewLinerReader(historyFile(cfg))
	defer reader.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Prompter is ready. Type %shelp for commands.\n", string(prefixes[0]))
	logging.L().Infow("session started", "session", sess.Name, "llm", cfg.LLMClient, "model", cfg.Model)

	term := terminal.New(a, registry, reader, out, prefixes...)
	if err := term.Run(cmd.Context(), initialPrompt); err != nil {
		return errors.Wrapf(err, "prompter stopped with an error")
	}
	return nil
}

func applyFlags(cfg *config.Config, opts *options) {
	if opts.llm != "" {
		cfg.LLMClient = opts.llm
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if len(opts.prefixes) > 0 {
		cfg.CommandPrefixes = opts.prefixes
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
}

func openSession(cmd *cobra.Command, opts *options) (*session.Session, error) {
	out := cmd.OutOrStdout()
	if opts.resume != "" {
		sess, err := session.Load(opts.resume)
		if err != nil {
			return nil, errors.Wrapf(err, "error resuming session '%s'", opts.resume)
		}
		fmt.Fprintf(out, "Resuming session: %s\n", sess.Name)
		return sess, nil
	}

	name := opts.session
	if name == "" {
		name = defaultSessionName()
	}
	sess, err := session.New(name)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating session '%s'", name)
	}
	fmt.Fprintf(out, "Starting new session: %s\n", name)
	return sess, nil
}

func historyFile(cfg *config.Config) string {
	if cfg.HistoryFile != "" {
		return cfg.HistoryFile
	}
	return filepath.Join(config.DirName, "history")
}

func defaultSessionName() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "prompter"
	}
	dirName := filepath.Base(wd)
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return fmt.Sprintf("%s_%s", dirName, timestamp)
}
