package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const runConfig = `
setups:
  location: subaru
  start: "2024-01-01 18:00:00"
  end: "2024-01-02 06:00:00"
  interval_hrs: 1
  alt_min: 30
inputs:
  targets: targets.csv
resolver:
  enabled: false
log:
  level: error
`

const targetTable = `name,ra,dec
M42,05:35:17.3,-05:23:28
Loose,5h 35 17.3,- 5 23 28
M31,--,--
`

func writeRun(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "targets.csv"), []byte(targetTable), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte(runConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		planFormat = "text"
		configPath = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanCommandText(t *testing.T) {
	out, err := execute(t, "plan", writeRun(t))
	if err != nil {
		t.Fatalf("plan: %v\n%s", err, out)
	}

	for _, want := range []string{
		"Subaru Telescope (US/Hawaii)",
		"2024-01-01 18:00:00 -> 2024-01-02 06:00:00, 13 samples",
		"M42", "strict",
		"Loose", "permissive",
		"Skipped 1 target(s):",
		"M31: disabled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlanCommandJSON(t *testing.T) {
	out, err := execute(t, "plan", writeRun(t), "--format", "json")
	if err != nil {
		t.Fatalf("plan: %v\n%s", err, out)
	}

	var plan struct {
		Samples  int `json:"samples"`
		Resolved []struct {
			Name string `json:"name"`
		} `json:"resolved"`
		Skipped []struct {
			Name string `json:"name"`
		} `json:"skipped"`
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if plan.Samples != 13 || len(plan.Resolved) != 2 || len(plan.Skipped) != 1 {
		t.Errorf("plan = %+v", plan)
	}
}

func TestPlanCommandErrors(t *testing.T) {
	if _, err := execute(t, "plan"); err == nil {
		t.Error("expected error without a config file")
	}
	if _, err := execute(t, "plan", writeRun(t), "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSitesCommand(t *testing.T) {
	out, err := execute(t, "sites")
	if err != nil {
		t.Fatalf("sites: %v", err)
	}
	if !strings.Contains(out, "subaru") || !strings.Contains(out, "US/Hawaii") {
		t.Errorf("output = %s", out)
	}
}
