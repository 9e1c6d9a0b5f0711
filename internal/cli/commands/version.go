package commands

import (
	"encoding/json"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/docsteer/docsteer/internal/cli/output"
)

// VersionInfo holds build-time version details.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := VersionInfo{
				Version:   version,
				BuildDate: buildDate,
				GitCommit: gitCommit,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}

			cmdCtx := NewCommandContextWithoutStore(cmd)
			r := cmdCtx.Renderer

			switch r.EffectiveMode() {
			case output.ModeJSON:
				enc := json.NewEncoder(r.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(info)

			case output.ModeMarkdown:
				r.Println(output.FormatHeader(1, "docsteer "+info.Version))
				r.Println("")
				r.Println(output.FormatKeyValue("Build Date", info.BuildDate))
				r.Println(output.FormatKeyValue("Git Commit", info.GitCommit))
				r.Println(output.FormatKeyValue("Go Version", info.GoVersion))
				r.Println(output.FormatKeyValue("Platform", info.Platform))
				return nil

			default:
				styles := r.Styles()
				r.Printf("%s %s\n", styles.Bold.Render("docsteer"), info.Version)
				r.Printf("  build date: %s\n", info.BuildDate)
				r.Printf("  git commit: %s\n", info.GitCommit)
				r.Printf("  go version: %s\n", info.GoVersion)
				r.Printf("  platform:   %s\n", info.Platform)
				return nil
			}
		},
	}
}
