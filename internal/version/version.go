// Package version provides build version information and runtime metadata.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// These are set via ldflags at build time
	Version = ""
	Commit  = ""
	Date    = ""

	once sync.Once

	execCommand = exec.CommandContext
)

const gitTimeout = 2 * time.Second

func ensureInitialized() {
	once.Do(func() {
		if Date == "" {
			Date = time.Now().Format("2006-01-02")
		}
		if Commit == "" {
			Commit = gitOutput("unknown", "describe", "--always", "--dirty")
		}
		if Version == "" {
			Version = gitOutput("dev", "describe", "--tags", "--abbrev=0")
		}
	})
}

// gitOutput runs git with args and returns its trimmed output, or fallback
// when git fails or prints nothing.
func gitOutput(fallback string, args ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := execCommand(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return fallback
	}
	if v := strings.TrimSpace(out.String()); v != "" {
		return v
	}
	return fallback
}

// Reset clears the values derived from git so they are computed again.
func Reset() {
	Version = ""
	Commit = ""
	Date = ""
	once = sync.Once{}
}

// GetVersion returns the release tag or "dev".
func GetVersion() string {
	ensureInitialized()
	return Version
}

// GetCommit returns the short commit hash or "unknown".
func GetCommit() string {
	ensureInitialized()
	return Commit
}

// GetDate returns the build date.
func GetDate() string {
	ensureInitialized()
	return Date
}

// Info returns a one-line version string for -v and the Places tab.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("skycast %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
