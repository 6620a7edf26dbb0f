package toolchain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompileCommandSharedAddsFPIC(t *testing.T) {
	tc := Gcc("")
	base := CompileSpec{
		GlobalIncludeDirs: []string{"include"},
		UnitIncludeDirs:   []string{"lib/math/include"},
		Source:            "src/math.cpp",
		Object:            "build/math/math.o",
	}

	shared := base
	shared.Shared = true
	sharedCmd := tc.CompileCommand(shared)

	exe := base
	exe.Shared = false
	exeCmd := tc.CompileCommand(exe)

	if !contains(sharedCmd, "-fPIC") {
		t.Errorf("shared compile command %v missing -fPIC", sharedCmd)
	}
	if contains(exeCmd, "-fPIC") {
		t.Errorf("executable compile command %v should not contain -fPIC", exeCmd)
	}
}

func TestCompileCommandDebugVsOptimize(t *testing.T) {
	tc := Gcc("")
	debugCmd := tc.CompileCommand(CompileSpec{Debug: true, Source: "a.cpp", Object: "a.o"})
	optCmd := tc.CompileCommand(CompileSpec{Optimize: true, Source: "a.cpp", Object: "a.o"})

	if !contains(debugCmd, "-g") || !contains(debugCmd, "-O0") {
		t.Errorf("debug compile command %v missing -g -O0", debugCmd)
	}
	if !contains(optCmd, "-O3") {
		t.Errorf("optimized compile command %v missing -O3", optCmd)
	}
}

func TestCompileCommandExactOrdering(t *testing.T) {
	tc := Gcc("g++")
	got := tc.CompileCommand(CompileSpec{
		GlobalIncludeDirs:    []string{"include"},
		GlobalLibSearchPaths: []string{"libdir"},
		UnitIncludeDirs:      []string{"unit-include"},
		Optimize:             true,
		GlobalCFlags:         []string{"-Wpedantic"},
		UnitCFlags:           []string{"-DUNIT"},
		Source:               "src/foo.cpp",
		Object:               "build/foo/foo.o",
	})
	want := []string{
		"g++", "-c",
		"-Iinclude",
		"-Llibdir",
		"-Iunit-include",
		"-O3",
		"-Wall", "-Wextra",
		"-Wpedantic",
		"-DUNIT",
		"src/foo.cpp", "-o", "build/foo/foo.o",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompileCommand diff (-want +got):\n%s", diff)
	}
}

func TestSharedLinkCommand(t *testing.T) {
	tc := Clang("")
	got := tc.SharedLinkCommand(LinkSpec{
		BinaryRoot:      "bin",
		Objects:         []string{"build/math/add.o"},
		GlobalLibraries: []string{"m"},
		UnitLibraries:   []string{"lib/helper.so"},
		OutputDir:       "bin/lib",
		BaseName:        "math",
	})
	want := []string{
		"clang++", "-shared", "-Lbin/lib",
		"build/math/add.o",
		"-lm",
		"-l:helper.so",
		"-o", "bin/lib/math.so",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SharedLinkCommand diff (-want +got):\n%s", diff)
	}
}

func TestToolLinkCommandStaticSwapsLibraryExtension(t *testing.T) {
	tc := Gcc("")
	spec := LinkSpec{
		BinaryRoot:    "bin",
		Objects:       []string{"build/cli/main.o"},
		UnitLibraries: []string{"math"},
		OutputDir:     "bin/tools",
		BaseName:      "cli",
	}

	dynamic := tc.ToolLinkCommand(spec)
	if !contains(dynamic, "-l:math.so") {
		t.Errorf("dynamic tool link %v should reference math.so", dynamic)
	}

	spec.StaticLink = true
	static := tc.ToolLinkCommand(spec)
	if !contains(static, "-l:math.a") {
		t.Errorf("static tool link %v should reference math.a", static)
	}
	if !contains(static, "-static") {
		t.Errorf("static tool link %v missing -static", static)
	}
}

func TestArchiveCommand(t *testing.T) {
	got := ArchiveCommand([]string{"build/math/add.o", "build/math/sub.o"}, "bin/lib", "math")
	want := []string{"ar", "rcs", "bin/lib/math.a", "build/math/add.o", "build/math/sub.o"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ArchiveCommand diff (-want +got):\n%s", diff)
	}
}

func TestForSelectsFamily(t *testing.T) {
	if d := For("clang", "").Description(); d != "clang (clang++)" {
		t.Errorf("For(clang) = %q", d)
	}
	if d := For("", "").Description(); d != "gcc (g++)" {
		t.Errorf("For(\"\") = %q, want gcc default", d)
	}
	if d := For("GCC", "mygcc").Description(); d != "gcc (mygcc)" {
		t.Errorf("For(GCC, mygcc) = %q", d)
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
