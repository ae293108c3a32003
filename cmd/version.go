package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// buildDetails is what the binary knows about its own build.
type buildDetails struct {
	Version   string
	Revision  string
	Time      string
	Modified  bool
	GoVersion string
}

// readBuildDetails resolves the release version: the ldflags value when
// set, else the main module version recorded by `go install`, and the VCS
// stamp when the toolchain embedded one.
func readBuildDetails(ldflags string, info *debug.BuildInfo) buildDetails {
	d := buildDetails{Version: ldflags, GoVersion: runtime.Version()}
	if info == nil {
		return d
	}
	if info.GoVersion != "" {
		d.GoVersion = info.GoVersion
	}
	if d.Version == "(devel)" && info.Main.Version != "" {
		d.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			d.Revision = s.Value
		case "vcs.time":
			d.Time = s.Value
		case "vcs.modified":
			d.Modified = s.Value == "true"
		}
	}
	return d
}

func currentBuild() buildDetails {
	info, _ := debug.ReadBuildInfo()
	return readBuildDetails(version, info)
}

// String is the one-line form served by /api/health.
func (d buildDetails) String() string {
	if d.Revision == "" {
		return d.Version
	}
	rev := d.Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if d.Modified {
		rev += "-dirty"
	}
	return d.Version + "+" + rev
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		d := currentBuild()
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Println(d.Version)
			return
		}
		fmt.Println("masterypath", d.String())
		fmt.Println("  go:      ", d.GoVersion)
		if d.Revision != "" {
			fmt.Println("  commit:  ", d.Revision)
		}
		if d.Time != "" {
			fmt.Println("  built:   ", d.Time)
		}
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version number")
}
