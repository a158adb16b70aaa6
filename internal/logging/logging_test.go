package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugfRespectsVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	SetVerbose(false)
	Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug output while quiet: %q", buf.String())
	}
	SetVerbose(true)
	Debugf("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") || !strings.Contains(buf.String(), prefix) {
		t.Fatalf("missing debug output: %q", buf.String())
	}
}

func TestSetupFileWritesLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "decode.log")
	closer, err := SetupFile(FileOptions{Path: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("SetupFile: %v", err)
	}
	defer SetOutput(os.Stderr)
	Logf("hello %s", "file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Fatalf("log file content = %q", data)
	}
}

func TestSetupFileRequiresPath(t *testing.T) {
	if _, err := SetupFile(FileOptions{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
