package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	exportDir  string
	dbPath     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Chdir(base)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "mudra-test.toml"),
		exportDir:  filepath.Join(base, "captures"),
		dbPath:     filepath.Join(base, "mudra.db"),
	}
	content := fmt.Sprintf(`[export]
dir = %q

[store]
db_path = %q

[plugins]
dir = %q

[logging]
format = "json"
level = "error"
`, env.exportDir, env.dbPath, filepath.Join(base, "plugins"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

// writeRecording writes n identical open-palm frames followed by an
// optional end-of-session marker.
func writeRecording(t *testing.T, path string, n int, endSession bool) {
	t.Helper()
	hand := detector.OpenPalmLandmarks()
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		line, err := json.Marshal(map[string]any{"points": hand.Frame()})
		if err != nil {
			t.Fatalf("marshal frame: %v", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if endSession {
		buf.WriteString(`{"end_session": true}` + "\n")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write recording: %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(env.baseDir, "init", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse to overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "defaults were used")
}

func TestConfigShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "exists: yes")
	requireContains(t, out, "[recognizer]")
	requireContains(t, out, env.exportDir)
}

func TestConfigRejectsBadFile(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[recognizer]\nvote_size = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestReplayLearnsFromExportedSession(t *testing.T) {
	env := setupCLITestEnv(t)
	recording := filepath.Join(env.baseDir, "frames.jsonl")
	writeRecording(t, recording, 12, false)

	// Without templates nothing is confirmed; the session is saved as TAP.
	out, _, err := runCLI(t, []string{"replay", recording, "--label", "tap"}, env.configPath)
	if err != nil {
		t.Fatalf("replay --label: %v", err)
	}
	requireContains(t, out, "Frames: 12")
	requireContains(t, out, "No gestures confirmed")
	requireContains(t, out, "Exported 12 frames as TAP")
	requireContains(t, out, filepath.Join(env.exportDir, "TAP.csv"))

	// The export now serves as the TAP template: the third matching window
	// confirms on the twelfth frame.
	out, _, err = runCLI(t, []string{"replay", recording, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("replay --json: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one confirmed gesture, got %q", out)
	}
	var evt struct {
		Gesture string `json:"gesture"`
		Frames  int    `json:"frames"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &evt); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if evt.Gesture != "TAP" || evt.Frames != 12 {
		t.Errorf("unexpected event %+v", evt)
	}
}

func TestReplayRejectsNoneLabel(t *testing.T) {
	env := setupCLITestEnv(t)
	recording := filepath.Join(env.baseDir, "frames.jsonl")
	writeRecording(t, recording, 12, false)

	for _, label := range []string{"none", "NONE"} {
		out, _, err := runCLI(t, []string{"replay", recording, "--label", label}, env.configPath)
		if !errors.Is(err, gesture.ErrUnknownGesture) {
			t.Fatalf("--label %s: expected ErrUnknownGesture, got %v", label, err)
		}
		if strings.Contains(out, "Frames:") {
			t.Errorf("--label %s: recording was replayed: %q", label, out)
		}
	}
	if _, err := os.Stat(filepath.Join(env.exportDir, "NONE.csv")); !os.IsNotExist(err) {
		t.Errorf("expected no NONE.csv, stat error = %v", err)
	}
}

func TestReplayCountsRejectedFrames(t *testing.T) {
	env := setupCLITestEnv(t)
	recording := filepath.Join(env.baseDir, "frames.jsonl")
	writeRecording(t, recording, 3, true)

	f, err := os.OpenFile(recording, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open recording: %v", err)
	}
	f.WriteString("\n[{\"x\":0,\"y\":0,\"z\":0}]\n")
	f.Close()

	out, _, err := runCLI(t, []string{"replay", recording}, env.configPath)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	requireContains(t, out, "Frames: 4  Rejected: 1")
}

func TestReplayRejectsMalformedLine(t *testing.T) {
	env := setupCLITestEnv(t)
	recording := filepath.Join(env.baseDir, "frames.jsonl")
	if err := os.WriteFile(recording, []byte("{not json\n"), 0o644); err != nil {
		t.Fatalf("write recording: %v", err)
	}

	_, _, err := runCLI(t, []string{"replay", recording}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("expected line 1 error, got %v", err)
	}
}

func TestCapturesListAndDelete(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"captures", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("captures list: %v", err)
	}
	requireContains(t, out, "No captures")

	if _, _, err := runCLI(t, []string{"captures", "delete", "missing"}, env.configPath); err == nil {
		t.Fatal("expected error deleting unknown capture")
	}
	if _, _, err := runCLI(t, []string{"captures", "list", "--label", "WAVE"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown label")
	}
}
