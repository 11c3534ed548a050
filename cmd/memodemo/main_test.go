package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runApp(t *testing.T, configFile string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr, configFile)
	err := app.Run(context.Background(), append([]string{serviceName}, args...))
	return stdout.String(), stderr.String(), err
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func TestSquare(t *testing.T) {
	out, _, err := runApp(t, missingConfig(t), "--log-level", "error", "square", "2", "3", "2", "4", "5", "2")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := strings.Join([]string{
		"square(2) = 4",
		"square(3) = 9",
		"square(2) = 4",
		"square(4) = 16",
		"square(5) = 25",
		"square(2) = 4",
		"hits=1 misses=5 evictions=2 entries=3/3",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("stdout:\n%s\nwant:\n%s", out, want)
	}
}

func TestFactorial(t *testing.T) {
	out, _, err := runApp(t, missingConfig(t), "--log-level", "error", "factorial", "5", "4")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := "factorial(5) = 120\nfactorial(4) = 24\nhits=1 misses=5 evictions=2 entries=3/3\n"
	if out != want {
		t.Errorf("stdout:\n%s\nwant:\n%s", out, want)
	}
}

func TestPower(t *testing.T) {
	out, _, err := runApp(t, missingConfig(t), "--log-level", "error", "power", "2", "10", "3", "2", "2", "10")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := "power(2, 10) = 1024\npower(3, 2) = 9\npower(2, 10) = 1024\nhits=1 misses=2 evictions=0 entries=2/4\n"
	if out != want {
		t.Errorf("stdout:\n%s\nwant:\n%s", out, want)
	}
}

func TestPower_OddArguments(t *testing.T) {
	_, _, err := runApp(t, missingConfig(t), "power", "2")
	if err != errOddArgs {
		t.Errorf("expected errOddArgs, got %v", err)
	}
}

func TestHitsAreLoggedAtDebug(t *testing.T) {
	_, logs, err := runApp(t, missingConfig(t), "square", "7", "7")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(logs, `"msg":"memo hit"`) {
		t.Errorf("expected a memo hit log line, got:\n%s", logs)
	}
}

func TestCapacityFromEnv(t *testing.T) {
	t.Setenv("MEMODEMO_CAPACITY", "1")

	out, _, err := runApp(t, missingConfig(t), "--log-level", "error", "square", "2", "3", "2")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasSuffix(out, "hits=0 misses=3 evictions=2 entries=1/1\n") {
		t.Errorf("unexpected stats in:\n%s", out)
	}
}

func TestCapacityFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memodemo.yaml")
	if err := os.WriteFile(path, []byte("capacity: 2\nlog-level: error\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, logs, err := runApp(t, path, "square", "2", "3", "4", "2")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasSuffix(out, "hits=0 misses=4 evictions=2 entries=2/2\n") {
		t.Errorf("unexpected stats in:\n%s", out)
	}
	if logs != "" {
		t.Errorf("log level from config should silence info logs, got:\n%s", logs)
	}
}

func TestRun_InvalidArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{serviceName, "square", "x"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "argument 1") {
		t.Errorf("stderr should name the bad argument, got %q", stderr.String())
	}
}

func TestHealthReport(t *testing.T) {
	out, _, err := runApp(t, missingConfig(t), "--log-level", "error", "--health", "square", "2", "2", "2", "2")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasSuffix(out, "health=healthy (hit ratio 75.0%)\n") {
		t.Errorf("unexpected health line in:\n%s", out)
	}
}

func TestTelemetryFollowsEachRunsStderr(t *testing.T) {
	for _, name := range []string{"square", "factorial"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, logs, err := runApp(t, missingConfig(t), "--log-level", "info", "--tracing", "stdout", name, "3")
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if !strings.Contains(logs, "memo.compute."+name) {
				t.Errorf("expected %s spans on stderr, got:\n%s", name, logs)
			}
			if strings.Contains(out, "memo.compute.") {
				t.Errorf("spans leaked to stdout:\n%s", out)
			}
		})
	}
}
