package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/docsteer/docsteer/internal/matcher"
)

func runMatchREPL(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	m := matcher.New(cmdCtx.Store)

	// History lives next to the corpus, project-local
	historyFile := filepath.Join(cmdCtx.Config.ProjectRoot, ".docsteer_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "docsteer> ",
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "DocSteer match REPL (%d documents loaded)\n", cmdCtx.Store.Len())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Enter a file path to see its governing guidelines. Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, cmdCtx, line); quit {
				break
			}
			continue
		}

		printREPLMatches(cmd.OutOrStdout(), m, line)
	}

	return nil
}

// printREPLMatches prints matches for one queried path in plain text.
func printREPLMatches(w io.Writer, m *matcher.Matcher, path string) {
	docs := m.Match(path)
	if len(docs) == 0 {
		_, _ = fmt.Fprintln(w, "  no matching guidelines")
		_, _ = fmt.Fprintln(w)
		return
	}
	for _, doc := range docs {
		_, _ = fmt.Fprintf(w, "  %-40s %s\n", doc.Path, doc.ApplyTo)
	}
	_, _ = fmt.Fprintln(w)
}

// handleDotCommand processes a REPL dot-command; returns true to quit.
func handleDotCommand(cmd *cobra.Command, cmdCtx *CommandContext, line string) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".docs":
		for doc := range cmdCtx.Store.All() {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %-40s %s\n", doc.Path, doc.ApplyTo)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", line)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .docs           List all loaded guideline documents
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Enter any file path to list the guidelines that govern it
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter creates a readline completer for dot-commands.
func newREPLCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".docs"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
