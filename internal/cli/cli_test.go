package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/backbone/pkg/displaylist"
	"github.com/matzehuels/backbone/pkg/errors"
	"github.com/matzehuels/backbone/pkg/pipeline"
)

const circuitJSON = `{
  "uri": "circuit",
  "sequence_length": 100,
  "children": [
    {"uri": "p", "kind": "sequence-feature", "locations": [{"type": "range", "start": 0, "end": 10}]},
    {"uri": "g", "kind": "sequence-feature"}
  ],
  "constraints": [{"subject": "p", "object": "g", "restriction": "precedes"}]
}`

func writeDesign(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "circuit.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestLayoutCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	input := writeDesign(t, circuitJSON)

	if err := runCLI(t, "layout", input, "--scale", "1", "-f", "json,dot"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	stem := strings.TrimSuffix(input, ".json")
	data, err := os.ReadFile(stem + ".layout.json")
	if err != nil {
		t.Fatal(err)
	}
	var dl displaylist.DisplayList
	if err := json.Unmarshal(data, &dl); err != nil {
		t.Fatal(err)
	}
	units := dl.Groups[0].Tracks[0].Units
	if len(units) != 2 || units[1].Start != 10 || units[1].End != 12 {
		t.Errorf("units = %+v", units)
	}

	dot, err := os.ReadFile(stem + ".constraints.dot")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(dot, []byte("digraph")) {
		t.Errorf("dot output = %s", dot)
	}
}

func TestLayoutCommandExplicitOutput(t *testing.T) {
	input := writeDesign(t, circuitJSON)
	out := filepath.Join(t.TempDir(), "result.json")

	if err := runCLI(t, "layout", input, "--no-cache", "-o", out); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	input := writeDesign(t, circuitJSON)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"layout", "--no-cache", filepath.Join(dir, "none.json")}, errors.ErrCodeFileNotFound},
		{"unknown extension", []string{"layout", "--no-cache", filepath.Join(dir, "design.xml")}, errors.ErrCodeInvalidFormat},
		{"output with several designs", []string{"layout", "--no-cache", "-o", "x.json", input, input}, errors.ErrCodeInvalidInput},
		{"bad format", []string{"layout", "--no-cache", "-f", "png", input}, errors.ErrCodeInvalidFormat},
		{"bad min gap", []string{"layout", "--no-cache", "--min-gap", "0.5", input}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLayoutFlagsOverrideConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "backbone.toml")
	cfg := "[layout]\nscale = 1.0\nomit_empty_space = true\nmin_gap = 4.0\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := pipeline.LoadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{Use: "layout"}
	var flags layoutFlags
	flags.register(cmd)
	if err := cmd.ParseFlags([]string{"--omit-empty-space=false", "--min-width", "3"}); err != nil {
		t.Fatal(err)
	}

	opts := loaded.Options()
	flags.apply(cmd, &opts)
	if opts.OmitEmptySpace {
		t.Error("explicit flag should override the config file")
	}
	if opts.Scale != 1 || opts.MinGap != 4 {
		t.Errorf("unset flags should keep config values: %+v", opts)
	}
	if opts.MinWidth != 3 {
		t.Errorf("MinWidth = %g, want 3", opts.MinWidth)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, format string
		multi                 bool
		want                  string
	}{
		{"d/circuit.json", "", "json", false, "d/circuit.layout.json"},
		{"d/circuit.yaml", "", "svg", true, "d/circuit.constraints.svg"},
		{"d/circuit.json", "out.json", "json", false, "out.json"},
		{"d/circuit.json", "out.json", "bson", true, "out.layout.bson"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.output, tt.format, tt.multi); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q", tt.input, tt.output, tt.format, tt.multi, got, tt.want)
		}
	}
}

func TestConstraintsCommand(t *testing.T) {
	input := writeDesign(t, circuitJSON)
	out := filepath.Join(t.TempDir(), "graph.dot")

	if err := runCLI(t, "constraints", input, "-o", out); err != nil {
		t.Fatalf("constraints: %v", err)
	}
	dot, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(dot, []byte(`"p" -> "g"`)) {
		t.Errorf("dot = %s", dot)
	}
}

func TestCompletion(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "backbone") {
		t.Error("bash completion should mention the command name")
	}
}

func TestFormatStats(t *testing.T) {
	got := formatStats(pipeline.Stats{Groups: 1, Units: 3, Tracks: 2, Ungrouped: 1}, true)
	for _, want := range []string{"1 group", "3 units", "2 tracks", "1 ungrouped", "cached"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatStats() = %q, missing %q", got, want)
		}
	}
}
