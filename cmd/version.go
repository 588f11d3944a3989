// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import "runtime/debug"

// Set with -ldflags "-X discoverybridge/cli/cmd.Version=... -X discoverybridge/cli/cmd.Commit=...".
var (
	Version = "0.0.0-dev"
	Commit  = ""
)

// versionLine is what --version prints. Without an injected commit it falls
// back to the VCS revision the Go toolchain stamped into the binary.
func versionLine() string {
	commit := Commit
	if commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					commit = s.Value
				}
			}
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		return "discovery-bridge " + Version
	}
	return "discovery-bridge " + Version + " (" + commit + ")"
}
