package commands

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docsteer/docsteer/internal/cli/output"
	"github.com/docsteer/docsteer/internal/corpus"
)

// debounceWindow coalesces bursts of filesystem events into one re-check.
const debounceWindow = 250 * time.Millisecond

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool // Re-validate on filesystem changes
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate every guideline document in the corpus",
		Long: `Read every Markdown file in the guidelines directory and report all
problems: malformed or unknown-field frontmatter, invalid applyTo glob
patterns, and unreadable files.

Unlike the loader used by other commands, check does not stop at the
first problem; it reports every broken document in one pass.

With --watch, check stays running and re-validates whenever a file in
the guidelines directory changes.`,
		Example: `  # One-shot validation
  docsteer check

  # Keep validating while editing guidelines
  docsteer check --watch

  # Machine-readable report
  docsteer check --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Watch {
				return runCheckWatch(cmd)
			}
			return runCheck(cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-validate on file changes")

	return cmd
}

func runCheck(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	issues, clean, err := corpus.Verify(cmdCtx.Config.GuidelinesDir)
	if err != nil {
		return err
	}

	if err := reportCheck(cmdCtx.Renderer, issues, clean); err != nil {
		return err
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d of %d documents failed validation", len(issues), len(issues)+clean)
	}
	return nil
}

// CheckJSONOutput is the JSON output structure for the check command.
type CheckJSONOutput struct {
	Issues []corpus.Issue `json:"issues"`
	Clean  int            `json:"clean"`
	Total  int            `json:"total"`
	OK     bool           `json:"ok"`
}

func reportCheck(r *output.Renderer, issues []corpus.Issue, clean int) error {
	total := clean + len(issues)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(CheckJSONOutput{
			Issues: issues,
			Clean:  clean,
			Total:  total,
			OK:     len(issues) == 0,
		})

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Corpus Check"))
		r.Println("")
		r.Println(output.FormatKeyValue("Documents", fmt.Sprintf("%d", total)))
		r.Println(output.FormatKeyValue("Valid", fmt.Sprintf("%d", clean)))
		r.Println(output.FormatKeyValue("Issues", fmt.Sprintf("%d", len(issues))))
		r.Println("")
		for _, issue := range issues {
			r.Printf("- `%s`: %s\n", issue.Path, issue.Message)
		}
		return nil

	default:
		styles := r.Styles()
		r.Println("")
		if len(issues) == 0 {
			r.Println(styles.Success.Render(fmt.Sprintf("✓ %d documents, all valid", total)))
			r.Println("")
			return nil
		}
		r.Println(styles.Header1.Render(fmt.Sprintf("Corpus Check (%d/%d valid)", clean, total)))
		r.Println("")
		for _, issue := range issues {
			r.Printf("  %s %s\n", styles.Error.Render("✗"), issue.Message)
		}
		r.Println("")
		return nil
	}
}

// runCheckWatch validates the corpus, then re-validates whenever the
// guidelines directory changes, until interrupted.
func runCheckWatch(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	dir := cmdCtx.Config.GuidelinesDir

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirTree(watcher, dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	checkOnce := func() {
		issues, clean, err := corpus.Verify(dir)
		if err != nil {
			cmdCtx.Renderer.Errorf("check failed: %v\n", err)
			return
		}
		_ = reportCheck(cmdCtx.Renderer, issues, clean)
	}

	checkOnce()
	cmdCtx.Renderer.Errorf("watching %s for changes (Ctrl+C to stop)\n", dir)

	var debounce *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			// New directories must be picked up by the watcher too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			checkOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watch error", "error", err)
		}
	}
}

// watchDirTree registers dir and every non-hidden subdirectory.
func watchDirTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// relevantEvent filters out noise like chmod-only events and non-corpus
// files.
func relevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if strings.HasSuffix(base, ".md") {
		return true
	}
	// Directory events carry no extension; re-check to be safe.
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}
