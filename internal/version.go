package internal

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
)

// Set with buildflag if built in pipeline and not using go install
var (
	BuildVersion  = ""
	BuildChecksum = ""
)

// PrintVersion of the binary, followed by the version of each dependency.
func PrintVersion(w io.Writer) error {
	hasPrintedVersion := false
	if BuildVersion != "" {
		hasPrintedVersion = true
		fmt.Fprintln(w, "version: "+BuildVersion)
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("failed to read build info")
	}
	if !hasPrintedVersion {
		fmt.Fprintln(w, "version: "+bi.Main.Version)
	}
	if BuildChecksum != "" {
		fmt.Fprintln(w, "checksum: "+BuildChecksum)
	}
	for _, dep := range bi.Deps {
		fmt.Fprintf(w, "%s %s\n", dep.Path, dep.Version)
	}
	return nil
}
