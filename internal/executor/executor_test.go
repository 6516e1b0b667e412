//go:build !windows

package executor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	exec := New(Options{Verbose: true})
	if exec == nil {
		t.Fatal("New() returned nil")
	}
	if !exec.Options().Verbose {
		t.Error("Options() should keep Verbose")
	}
}

func TestOutput(t *testing.T) {
	exec := New(Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, code, err := exec.Output(ctx, "echo hello", false)
	if err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if code != 0 {
		t.Errorf("Output() exit code = %d, want 0", code)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("Output() = %s, want to contain 'hello'", output)
	}
}

func TestRun(t *testing.T) {
	exec := New(Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	code, err := exec.Run(ctx, "true", false)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if code != 0 {
		t.Errorf("Run() exit code = %d, want 0", code)
	}
}

func TestRunExitCode(t *testing.T) {
	exec := New(Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tests := []struct {
		command string
		want    int
	}{
		{"false", 1},
		{"exit 3", 3},
		{"true && exit 2", 2},
		{"false || true", 0},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			code, err := exec.Run(ctx, tt.command, false)
			if err != nil {
				t.Fatalf("Run(%q) error: %v", tt.command, err)
			}
			if code != tt.want {
				t.Errorf("Run(%q) = %d, want %d", tt.command, code, tt.want)
			}
		})
	}
}

func TestRunDryRun(t *testing.T) {
	var buf bytes.Buffer
	exec := New(Options{DryRun: true}).WithOutput(&buf)

	// In dry-run mode, failing commands are not executed
	code, err := exec.Run(context.Background(), "false", false)
	if err != nil {
		t.Errorf("Run() in dry-run mode should not error: %v", err)
	}
	if code != 0 {
		t.Errorf("Run() in dry-run mode = %d, want 0", code)
	}
	if !strings.Contains(buf.String(), "[dry-run] Would execute: false") {
		t.Errorf("dry-run output = %q", buf.String())
	}
}

func TestOutputDryRunQueries(t *testing.T) {
	var buf bytes.Buffer
	exec := New(Options{DryRun: true}).WithOutput(&buf)

	// Queries change nothing, so they run and report real results
	output, code, err := exec.Output(context.Background(), "echo hello", false)
	if err != nil {
		t.Fatalf("Output() in dry-run mode error: %v", err)
	}
	if code != 0 || !strings.Contains(output, "hello") {
		t.Errorf("Output() in dry-run mode = %q, %d", output, code)
	}

	_, code, err = exec.Output(context.Background(), "exit 1", false)
	if err != nil {
		t.Fatalf("Output() in dry-run mode error: %v", err)
	}
	if code != 1 {
		t.Errorf("Output() in dry-run mode exit code = %d, want 1", code)
	}
}

func TestOutputDryRunElevated(t *testing.T) {
	if isRoot() {
		t.Skip("elevation is skipped when running as root")
	}
	var buf bytes.Buffer
	exec := New(Options{DryRun: true}).WithOutput(&buf)

	_, _, err := exec.Output(context.Background(), "echo hello", true)
	if err != ErrDryRun {
		t.Errorf("Output() error = %v, want ErrDryRun", err)
	}
	if !strings.Contains(buf.String(), "[dry-run] Would execute") {
		t.Errorf("dry-run output = %q", buf.String())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repositories")
	exec := New(Options{})

	if err := exec.WriteFile(context.Background(), path, []byte("main\ncommunity\n"), false); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "main\ncommunity\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestWriteFileDryRun(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "pacman.conf")
	exec := New(Options{DryRun: true}).WithOutput(&buf)

	if err := exec.WriteFile(context.Background(), path, []byte("x"), true); err != nil {
		t.Fatalf("WriteFile() in dry-run mode error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("WriteFile() in dry-run mode should not create the file")
	}
	if !strings.Contains(buf.String(), "[dry-run] Would write "+path) {
		t.Errorf("dry-run output = %q", buf.String())
	}
}

func TestVerbose(t *testing.T) {
	var buf bytes.Buffer
	exec := New(Options{Verbose: true}).WithOutput(&buf)

	if _, err := exec.Run(context.Background(), "echo verbose", false); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(buf.String(), "Executing: echo verbose") {
		t.Errorf("verbose output = %q", buf.String())
	}
}

func TestContextCancellation(t *testing.T) {
	exec := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := exec.Output(ctx, "sleep 10", false)
	if err == nil {
		t.Error("Output() should error with cancelled context")
	}
}

func TestExists(t *testing.T) {
	exec := New(Options{})

	if !exec.Exists("sh") {
		t.Error("Exists(sh) should be true")
	}
	if exec.Exists("pwpm-definitely-not-a-command") {
		t.Error("Exists() should be false for a missing command")
	}
	if exec.Exists("") {
		t.Error("Exists(\"\") should be false")
	}
	if exec.Exists("~/pwpm-definitely-not-a-command") {
		t.Error("Exists() should be false for a missing home-relative path")
	}
	if !exec.Exists("/bin/sh") {
		t.Error("Exists(/bin/sh) should be true")
	}
}

func TestIsRoot(t *testing.T) {
	exec := New(Options{})
	if exec.IsAdmin() != IsRoot() {
		t.Error("IsAdmin() should match IsRoot()")
	}
}

func TestCheckPrivileges(t *testing.T) {
	if err := CheckPrivileges(false); err != nil {
		t.Errorf("CheckPrivileges(false) should return nil: %v", err)
	}
	if CanElevate() {
		if err := CheckPrivileges(true); err != nil {
			t.Errorf("CheckPrivileges(true) should return nil when elevation works: %v", err)
		}
	} else if err := CheckPrivileges(true); err != ErrNoPrivileges {
		t.Errorf("CheckPrivileges(true) = %v, want ErrNoPrivileges", err)
	}
}
