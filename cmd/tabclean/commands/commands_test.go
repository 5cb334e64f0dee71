package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/tabclean/internal/logger"
	"github.com/jmylchreest/tabclean/internal/version"
)

const sampleCSV = "Name, Score\n Alice , 10\nBob,  9\n Alice , 10\n,\n"

// execRoot builds a fresh command tree, runs it with args, and returns
// stdout, stderr and the error.
func execRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { logger.Init(logger.Options{}) })

	var outBuf, errBuf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err := execute(cmd)
	return outBuf.String(), errBuf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

// --- clean ---

func TestClean(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", sampleCSV)
	out := filepath.Join(dir, "out.csv")
	pretty := filepath.Join(dir, "out.txt")

	stdout, stderr, err := execRoot(t, "clean", in, out, "--pretty", pretty)
	if err != nil {
		t.Fatalf("clean error = %v\nstderr: %s", err, stderr)
	}

	if got, want := readFile(t, out), "name,score\nAlice,10\nBob,9\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if !strings.Contains(stdout, "Cleaned CSV saved to: "+out) {
		t.Errorf("missing CSV confirmation, got %q", stdout)
	}
	if !strings.Contains(stdout, "Centered table saved to: "+pretty) {
		t.Errorf("missing table confirmation, got %q", stdout)
	}
	if _, err := os.Stat(pretty); err != nil {
		t.Errorf("pretty file not written: %v", err)
	}
}

func TestClean_NoPrettyMessageWithoutPath(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", sampleCSV)

	stdout, _, err := execRoot(t, "clean", in, filepath.Join(dir, "out.csv"))
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if strings.Contains(stdout, "Centered table") {
		t.Errorf("unexpected table confirmation: %q", stdout)
	}
}

func TestClean_Quiet(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", sampleCSV)

	stdout, stderr, err := execRoot(t, "clean", in, filepath.Join(dir, "out.csv"), "--quiet")
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output, got stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestClean_Summary(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", sampleCSV)

	stdout, _, err := execRoot(t, "clean", in, filepath.Join(dir, "out.csv"), "--summary")
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if !strings.Contains(stdout, "Rows: 4 -> 2 (1 blank, 1 duplicate removed)") {
		t.Errorf("missing summary, got %q", stdout)
	}
}

func TestClean_MissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	_, stderr, err := execRoot(t, "clean", filepath.Join(dir, "nope.csv"), out)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if !strings.HasPrefix(stderr, "Error: input not found") {
		t.Errorf("expected error message on stderr, got %q", stderr)
	}
	if lines := strings.Split(strings.TrimSpace(stderr), "\n"); len(lines) != 1 {
		t.Errorf("expected the failure reported once, got %q", stderr)
	}
	if n := strings.Count(stderr, "nope.csv"); n != 1 {
		t.Errorf("expected the path named once, got %d in %q", n, stderr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output should not be created when input is missing")
	}
}

func TestClean_WrongArgs(t *testing.T) {
	_, stderr, err := execRoot(t, "clean", "only-one.csv")
	if err == nil {
		t.Fatal("expected error for missing output argument")
	}
	if !strings.HasPrefix(stderr, "Error: ") {
		t.Errorf("expected Error: prefix, got %q", stderr)
	}
}

func TestClean_InvalidFlags(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", sampleCSV)
	out := filepath.Join(dir, "out.csv")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"size", []string{"--max-input-size", "lots"}, "invalid max-input-size"},
		{"collision", []string{"--on-duplicate-column", "merge"}, "ColumnCollision: must be one of"},
		{"delimiter", []string{"--delimiter", "ab"}, "Delimiter:"},
		{"report format", []string{"--report", filepath.Join(dir, "r.out"), "--report-format", "xml"}, "ReportFormat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"clean", in, out}, tt.args...)
			_, stderr, err := execRoot(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestClean_MaxInputSize(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", strings.Repeat("a,b\n", 100))

	_, stderr, err := execRoot(t, "clean", in, filepath.Join(dir, "out.csv"), "--max-input-size", "100B")
	if err == nil {
		t.Fatal("expected size limit error")
	}
	if !strings.Contains(stderr, "input too large") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestClean_Report(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", sampleCSV)
	report := filepath.Join(dir, "report.json")

	stdout, _, err := execRoot(t, "clean", in, filepath.Join(dir, "out.csv"), "--report", report)
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if !strings.Contains(stdout, "Report saved to: "+report) {
		t.Errorf("missing report confirmation, got %q", stdout)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(readFile(t, report)), &got); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if got["tool"] != "tabclean" {
		t.Errorf("tool = %v", got["tool"])
	}
}

func TestClean_DebugLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", sampleCSV)

	_, stderr, err := execRoot(t, "clean", in, filepath.Join(dir, "out.csv"), "--debug")
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}
	for _, want := range []string{"stage=load", "stage=normalize", "stage=write"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q", want)
		}
	}
}

func TestClean_LogJSON(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", sampleCSV)

	_, stderr, err := execRoot(t, "clean", in, filepath.Join(dir, "out.csv"), "--log-json")
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}

	line := strings.TrimSpace(stderr)
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("expected one JSON log record, got %q: %v", stderr, err)
	}
	if record["msg"] != "table cleaned" {
		t.Errorf("msg = %v", record["msg"])
	}
}

// --- configuration layering ---

func TestClean_EnvOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "Total ,total\n1,2\n")
	out := filepath.Join(dir, "out.csv")

	t.Setenv("TABCLEAN_ON_DUPLICATE_COLUMN", "rename")

	if _, stderr, err := execRoot(t, "clean", in, out); err != nil {
		t.Fatalf("clean error = %v\nstderr: %s", err, stderr)
	}
	if got, want := readFile(t, out), "total,total_2\n1,2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestClean_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "a,b\n1,2\n")
	out := filepath.Join(dir, "out.csv")
	cfg := writeFile(t, dir, "tabclean.yaml", "output_delimiter: \";\"\n")

	if _, stderr, err := execRoot(t, "--config", cfg, "clean", in, out); err != nil {
		t.Fatalf("clean error = %v\nstderr: %s", err, stderr)
	}
	if got, want := readFile(t, out), "a;b\n1;2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestClean_FlagOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "a,b\n1,2\n")
	out := filepath.Join(dir, "out.csv")
	cfg := writeFile(t, dir, "tabclean.yaml", "output_delimiter: \";\"\n")

	if _, _, err := execRoot(t, "--config", cfg, "clean", in, out, "--output-delimiter", "pipe"); err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if got, want := readFile(t, out), "a|b\n1|2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestClean_MissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", sampleCSV)

	_, stderr, err := execRoot(t, "--config", filepath.Join(dir, "absent.yaml"), "clean", in, filepath.Join(dir, "out.csv"))
	if err == nil {
		t.Fatal("expected error for missing --config file")
	}
	if !strings.Contains(stderr, "read config") {
		t.Errorf("stderr = %q", stderr)
	}
}

// --- version ---

func TestVersion(t *testing.T) {
	stdout, _, err := execRoot(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if want := "tabclean " + version.String() + "\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestVersion_Full(t *testing.T) {
	stdout, _, err := execRoot(t, "version", "--full")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(stdout, "Go version:") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestVersion_Format(t *testing.T) {
	stdout, _, err := execRoot(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}

	var info version.Info
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if info.Name != "tabclean" {
		t.Errorf("Name = %q", info.Name)
	}

	if _, _, err := execRoot(t, "version", "--format", "toml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
