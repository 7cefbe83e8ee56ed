package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Stamped by release builds with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// resolveBuild fills whatever the linker left unset from the module and VCS
// data the go tool embeds, so `go install` builds still report a revision.
func resolveBuild(bi *debug.BuildInfo) buildInfo {
	b := buildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi == nil {
		return b
	}
	if b.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		b.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "unknown" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.BuildDate == "unknown" {
				b.BuildDate = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

func currentBuild() buildInfo {
	bi, _ := debug.ReadBuildInfo()
	return resolveBuild(bi)
}

func printBuild(out io.Writer, b buildInfo, verbose bool) {
	if !verbose {
		fmt.Fprintf(out, "mixtape %s\n", b.Version)
		return
	}
	commit := b.Commit
	if b.Modified {
		commit += " (modified)"
	}
	t := NewTable(out)
	t.SetTitle("mixtape " + b.Version)
	t.AppendRow([]interface{}{"commit", commit})
	t.AppendRow([]interface{}{"built", b.BuildDate})
	t.AppendRow([]interface{}{"go", b.GoVersion})
	t.AppendRow([]interface{}{"platform", b.Platform})
	t.Render()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := currentBuild()
		if JSONOutput() {
			return PrintJSON(cmd.OutOrStdout(), b)
		}
		printBuild(cmd.OutOrStdout(), b, Verbose())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
