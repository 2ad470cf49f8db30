//go:build basic || database

// Package integration contains end-to-end tests that run the farol binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or, with Docker available: go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedFarolPath holds the path to a shared farol binary built once for all tests.
	sharedFarolPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// sampleDataset is the dataset shipped under examples/, relative to the project root.
const sampleDataset = "examples/dataset.yaml"

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getFarolBinary returns the path to the farol binary, building it once if needed.
func getFarolBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "farol-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		farolPath := filepath.Join(tempDir, "farol")
		buildCmd := exec.Command("go", "build", "-o", farolPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build farol: %v\n%s", err, out))
		}

		sharedFarolPath = farolPath
	})

	return sharedFarolPath
}

// runFarolCommand runs the binary from the project root and returns its stdout.
// Diagnostics on stderr are logged when the command fails.
func runFarolCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getFarolBinary(), args...)
	cmd.Dir = "../" // Run from project root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
