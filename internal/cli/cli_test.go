package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// newTestRoot builds a root command like the binary does, with output captured
func newTestRoot(t *testing.T, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	globalFlags = GlobalFlags{}
	compareFlags = CompareFlags{}

	root := &cobra.Command{Use: "dircompare", SilenceUsage: true, SilenceErrors: true}
	AddGlobalFlags(root)
	root.AddCommand(NewCompareCommand(), NewConfigCommand(), NewVersionCommand())

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	return root, &buf
}

func makeDirs(t *testing.T, left, right map[string]string) (string, string) {
	t.Helper()
	mtime := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	write := func(files map[string]string) string {
		dir := t.TempDir()
		for name, content := range files {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if err := os.Chtimes(path, mtime, mtime); err != nil {
				t.Fatal(err)
			}
		}
		return dir
	}
	return write(left), write(right)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestCompareCommand(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		left, right := makeDirs(t, map[string]string{"a.txt": "x"}, map[string]string{"a.txt": "x"})
		root, buf := newTestRoot(t, "compare", left, right)
		err := root.Execute()
		if code := exitCode(err); code != 0 {
			t.Fatalf("exit code = %d (err %v), want 0\n%s", code, err, buf.String())
		}
		if !strings.Contains(buf.String(), "Status: identical") {
			t.Errorf("unexpected output\n%s", buf.String())
		}
	})

	t.Run("different content with flags", func(t *testing.T) {
		left, right := makeDirs(t,
			map[string]string{"file1.txt": "Content 1"},
			map[string]string{"file1.txt": "Content 2"})
		root, buf := newTestRoot(t, "compare", "--left", left, "--right", right, "--algorithm", "SHA512")
		if code := exitCode(root.Execute()); code != 1 {
			t.Fatalf("exit code = %d, want 1\n%s", code, buf.String())
		}
		if !strings.Contains(buf.String(), "Files differ (1):") || !strings.Contains(buf.String(), "sha512") {
			t.Errorf("unexpected output\n%s", buf.String())
		}
	})

	t.Run("missing input", func(t *testing.T) {
		root, buf := newTestRoot(t, "compare", "--left", t.TempDir())
		if code := exitCode(root.Execute()); code != 2 {
			t.Fatalf("exit code = %d, want 2", code)
		}
		if !strings.Contains(buf.String(), "please select both directories") {
			t.Errorf("unexpected output\n%s", buf.String())
		}
	})

	t.Run("max size", func(t *testing.T) {
		left, right := makeDirs(t,
			map[string]string{"big.bin": strings.Repeat("a", 4096)},
			map[string]string{"big.bin": strings.Repeat("b", 4096)})
		root, buf := newTestRoot(t, "compare", left, right, "--max-size", "2KiB")
		if code := exitCode(root.Execute()); code != 0 {
			t.Fatalf("exit code = %d, want 0\n%s", code, buf.String())
		}
		if !strings.Contains(buf.String(), "File size exceeds the maximum limit (2.0 KiB): big.bin") {
			t.Errorf("unexpected output\n%s", buf.String())
		}
	})

	t.Run("json output and report file", func(t *testing.T) {
		left, right := makeDirs(t, map[string]string{"a": "1"}, map[string]string{"b": "2"})
		reportPath := filepath.Join(t.TempDir(), "report.json")
		root, buf := newTestRoot(t, "compare", left, right, "-o", "json", "--report", reportPath, "--report-format", "json")
		if code := exitCode(root.Execute()); code != 1 {
			t.Fatalf("exit code = %d, want 1", code)
		}

		var doc map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("stdout is not JSON: %v\n%s", err, buf.String())
		}
		if doc["status"] != "different" {
			t.Errorf("status = %v, want different", doc["status"])
		}
		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		if !json.Valid(data) {
			t.Errorf("report file is not JSON:\n%s", data)
		}
	})

	t.Run("quiet", func(t *testing.T) {
		left, right := makeDirs(t, map[string]string{"a": "1"}, map[string]string{"a": "1"})
		root, buf := newTestRoot(t, "-q", "compare", left, right)
		if code := exitCode(root.Execute()); code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if buf.Len() != 0 {
			t.Errorf("quiet mode printed output:\n%s", buf.String())
		}
	})

	t.Run("quiet failure", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing")
		root, buf := newTestRoot(t, "-q", "compare", missing, t.TempDir())
		if code := exitCode(root.Execute()); code != 2 {
			t.Fatalf("exit code = %d, want 2", code)
		}
		if !strings.Contains(buf.String(), "selected directories do not exist") {
			t.Errorf("quiet failure printed no cause: %q", buf.String())
		}
	})

	t.Run("quiet no files to compare", func(t *testing.T) {
		root, buf := newTestRoot(t, "-q", "compare", t.TempDir(), t.TempDir())
		if code := exitCode(root.Execute()); code != 2 {
			t.Fatalf("exit code = %d, want 2", code)
		}
		if !strings.Contains(buf.String(), "no files to compare") {
			t.Errorf("quiet failure printed no cause: %q", buf.String())
		}
	})

	t.Run("chunk size too large", func(t *testing.T) {
		root, _ := newTestRoot(t, "compare", t.TempDir(), t.TempDir(), "--chunk-size", "4GiB")
		if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "performance.chunk_size") {
			t.Errorf("Execute() error = %v, want chunk size validation error", err)
		}
	})

	t.Run("log file", func(t *testing.T) {
		left, right := makeDirs(t, map[string]string{"a": "1"}, map[string]string{"a": "2"})
		logPath := filepath.Join(t.TempDir(), "logs", "compare.log")
		root, _ := newTestRoot(t, "compare", left, right, "--log-file", logPath, "--log-format", "json")
		root.Execute()

		data, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("log file not written: %v", err)
		}
		if !strings.Contains(string(data), `"operation_id"`) || !strings.Contains(string(data), "Comparison completed") {
			t.Errorf("unexpected log:\n%s", data)
		}
	})

	t.Run("invalid size flag", func(t *testing.T) {
		root, _ := newTestRoot(t, "compare", t.TempDir(), t.TempDir(), "--max-size", "lots")
		err := root.Execute()
		if err == nil || exitCode(err) != -1 || !strings.Contains(err.Error(), "--max-size") {
			t.Errorf("Execute() error = %v, want flag parse error", err)
		}
	})

	t.Run("invalid algorithm", func(t *testing.T) {
		root, _ := newTestRoot(t, "compare", t.TempDir(), t.TempDir(), "--algorithm", "crc32")
		if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "compare.algorithm") {
			t.Errorf("Execute() error = %v, want algorithm validation error", err)
		}
	})
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	root, buf := newTestRoot(t, "--config", path, "config", "init")
	if err := root.Execute(); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(buf.String(), path) {
		t.Errorf("unexpected init output: %s", buf.String())
	}

	root, _ = newTestRoot(t, "--config", path, "config", "init")
	if err := root.Execute(); err == nil {
		t.Error("second config init should fail")
	}

	root, buf = newTestRoot(t, "--config", path, "config", "show")
	if err := root.Execute(); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"Algorithm: sha256", "Max Size: 100 MiB", "Chunk Size: 8.0 KiB", "Bandwidth: unlimited"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("config show missing %q\n%s", want, buf.String())
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root, buf := newTestRoot(t, "version", "--short")
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != Version {
		t.Errorf("version --short = %q, want %q", buf.String(), Version)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{"100MiB", 104857600, false},
		{"8KiB", 8192, false},
		{"10MB", 10000000, false},
		{"512", 512, false},
		{"lots", 0, true},
	}
	for _, tt := range tests {
		got, err := parseSize("max-size", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSize(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSize(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}
