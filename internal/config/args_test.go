package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseArgsFlags(t *testing.T) {
	ov, err := ParseArgs([]string{"-v", "--compiler", "clang++", "-I", "vendor/include", "--shared-lib", "math", "src/math.cpp", "myapp"})
	if err != nil {
		t.Fatal(err)
	}
	if ov.Verbose == nil || !*ov.Verbose {
		t.Error("expected Verbose to be true")
	}
	if ov.Compiler == nil || *ov.Compiler != "clang++" {
		t.Errorf("Compiler = %v, want clang++", ov.Compiler)
	}
	if diff := cmp.Diff([]string{"vendor/include"}, ov.IncludeDirs); diff != "" {
		t.Errorf("IncludeDirs diff (-want +got):\n%s", diff)
	}
	want := []UnitSpec{{Name: "math", Source: "src/math.cpp"}}
	if diff := cmp.Diff(want, ov.SharedLibs); diff != "" {
		t.Errorf("SharedLibs diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"myapp"}, ov.Positionals); diff != "" {
		t.Errorf("Positionals diff (-want +got):\n%s", diff)
	}
}

func TestParseArgsUnknownFlag(t *testing.T) {
	_, err := ParseArgs([]string{"--bogus"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestParseArgsMissingValue(t *testing.T) {
	_, err := ParseArgs([]string{"-I"})
	if err == nil {
		t.Fatal("expected error for missing flag value")
	}
}

func TestParseArgsDebugClearsOptimize(t *testing.T) {
	ov, err := ParseArgs([]string{"-d"})
	if err != nil {
		t.Fatal(err)
	}
	if ov.Debug == nil || !*ov.Debug {
		t.Fatal("expected Debug true")
	}
	if ov.Optimize == nil || *ov.Optimize {
		t.Fatal("expected Optimize explicitly false")
	}
}

func TestApplyPositionalsBecomeToolsAfterProjectName(t *testing.T) {
	cfg := defaults()
	ov, err := ParseArgs([]string{"myproj", "tools/extra.cpp"})
	if err != nil {
		t.Fatal(err)
	}
	Apply(&cfg, ov)
	if cfg.ProjectName != "myproj" {
		t.Errorf("ProjectName = %q, want myproj", cfg.ProjectName)
	}
	if len(cfg.Tools) != 1 || cfg.Tools[0].Name != "extra" {
		t.Fatalf("Tools = %+v, want one tool named extra", cfg.Tools)
	}
	if diff := cmp.Diff([]string{"tools/extra.cpp"}, cfg.Tools[0].Sources); diff != "" {
		t.Errorf("Tools[0].Sources diff (-want +got):\n%s", diff)
	}
}
