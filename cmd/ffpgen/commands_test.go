package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/ffp/settings"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsRoundTrip(t *testing.T) {
	out, err := run(t, "defaults")
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	got, err := settings.Load(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Load(defaults output) error = %v\n%s", err, out)
	}
	want := settings.Defaults()
	if !settings.Equal(&got, &want) {
		t.Error("defaults output does not load back to Defaults()")
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		args []string
		want []string
		not  []string
	}{
		{[]string{"generate"}, []string{"!!ARBvp1.0", "!!ARBfp1.0", "# Vertex:", "# Fragment:"}, nil},
		{[]string{"generate", "--stage", "vertex"}, []string{"!!ARBvp1.0"}, []string{"!!ARBfp1.0"}},
		{[]string{"generate", "--stage", "fragment", "--bindings"}, []string{"!!ARBfp1.0"}, []string{"!!ARBvp1.0", "FINAL("}},
		{[]string{"generate", "--stage", "vertex", "--bindings"}, []string{"FINAL(", "copy-state"}, nil},
	}
	for _, tt := range tests {
		out, err := run(t, tt.args...)
		if err != nil {
			t.Errorf("%v: %v", tt.args, err)
			continue
		}
		for _, w := range tt.want {
			if !strings.Contains(out, w) {
				t.Errorf("%v: output does not contain %q", tt.args, w)
			}
		}
		for _, w := range tt.not {
			if strings.Contains(out, w) {
				t.Errorf("%v: output contains %q", tt.args, w)
			}
		}
	}
}

func TestGenerateFromFile(t *testing.T) {
	path := writeFile(t, "fog.toml", "fog_enabled = true\nfog_mode = \"linear\"\n")
	out, err := run(t, "generate", path, "--stage", "fragment")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Linear Fog") {
		t.Errorf("generated fragment program has no linear fog:\n%s", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := run(t, "generate", "--stage", "geometry"); err == nil {
		t.Error("generate --stage geometry succeeded")
	}
	if _, err := run(t, "generate", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("generate with a missing file succeeded")
	}
}

func TestCompile(t *testing.T) {
	path := writeFile(t, "prog.arb", "!!ARBfp1.0\nTEMP t;\nTEX t, fragment.texcoord[1], texture[1], CUBE;\nKIL t;\nMOV result.color, t;\nEND\n")
	out, err := run(t, "compile", "-d", path)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, want := range []string{"ARBfp1.0: 3 instructions", "texture[1] Cube", "kills fragments", "TEX Cube", "KIL", "MOV"} {
		if !strings.Contains(out, want) {
			t.Errorf("compile output does not contain %q:\n%s", want, out)
		}
	}

	bad := writeFile(t, "bad.arb", "!!ARBfp1.0\nMOV result.color, nothing;\nEND\n")
	if _, err := run(t, "compile", bad); err == nil {
		t.Error("compile of an invalid program succeeded")
	}
}

func TestStats(t *testing.T) {
	a := writeFile(t, "a.toml", "")
	b := writeFile(t, "b.toml", "alpha_test = true\nalpha_func = \"greater\"\n")
	out, err := run(t, "stats", "--repeat", "3", "--memo", "4", a, b)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"requests:  6", "compiles:  4", "2/100 entries", "4 hits, 2 misses", "memo:      1 hits, 3 misses"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output does not contain %q:\n%s", want, out)
		}
	}
}
