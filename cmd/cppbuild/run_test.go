package main

import (
	"path/filepath"
	"testing"

	"github.com/cppbuild/cppbuild/internal/config"
	"github.com/cppbuild/cppbuild/internal/directive"
)

func TestResolveToolBinaryConfiguredTool(t *testing.T) {
	cfg := &config.BuildConfig{
		BinaryRoot: "bin",
		Tools:      []config.ToolConfig{{Name: "cli"}},
	}
	got, ok := resolveToolBinary(cfg, "cli")
	if !ok {
		t.Fatal("expected cli to resolve")
	}
	if want := filepath.Join("bin", "tools", "cli"); got != want {
		t.Errorf("resolveToolBinary = %q, want %q", got, want)
	}
}

func TestResolveToolBinaryConfiguredToolCustomOutputDir(t *testing.T) {
	cfg := &config.BuildConfig{
		BinaryRoot: "bin",
		Tools:      []config.ToolConfig{{Name: "cli", OutputDir: "dist"}},
	}
	got, ok := resolveToolBinary(cfg, "cli")
	if !ok {
		t.Fatal("expected cli to resolve")
	}
	if want := filepath.Join("dist", "cli"); got != want {
		t.Errorf("resolveToolBinary = %q, want %q", got, want)
	}
}

func TestResolveToolBinaryDirectiveExecutable(t *testing.T) {
	cfg := &config.BuildConfig{
		BinaryRoot: "bin",
		Directives: []directive.Directive{
			{UnitName: "greet", OutputPath: "greet-bin"},
		},
	}
	got, ok := resolveToolBinary(cfg, "greet")
	if !ok {
		t.Fatal("expected greet to resolve")
	}
	if want := filepath.Join("bin", "greet-bin"); got != want {
		t.Errorf("resolveToolBinary = %q, want %q", got, want)
	}
}

func TestResolveToolBinaryIgnoresSharedDirectives(t *testing.T) {
	cfg := &config.BuildConfig{
		BinaryRoot: "bin",
		Directives: []directive.Directive{
			{UnitName: "math", IsShared: true},
		},
	}
	if _, ok := resolveToolBinary(cfg, "math"); ok {
		t.Error("a shared-library directive unit must not resolve as a runnable tool")
	}
}

func TestResolveToolBinaryNotFound(t *testing.T) {
	cfg := &config.BuildConfig{BinaryRoot: "bin"}
	if _, ok := resolveToolBinary(cfg, "nope"); ok {
		t.Error("expected no match")
	}
}
