// Package config loads the INI-style project file, merges it with
// built-in defaults, and applies CLI overrides, producing the
// BuildConfig the Graph Planner consumes. No filesystem access beyond
// reading the project file itself happens here; directive scanning and
// source discovery are separate components wired together by the CLI
// dispatcher.
package config

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cppbuild/cppbuild/internal/cperr"
	"github.com/cppbuild/cppbuild/internal/directive"
)

// Warning is a non-fatal diagnostic accumulated during config parsing
// (unknown section, unknown key, unparsable boolean). The CLI prints
// them, when verbose mode is on, right after the project file is loaded
// and CLI overrides are applied, before directives are scanned and
// before planning.
type Warning struct {
	Msg string
}

func (w Warning) String() string { return w.Msg }

// SharedLibConfig is a configured (non-directive) shared library unit.
type SharedLibConfig struct {
	Name        string
	OutputDir   string
	Sources     []string
	Libraries   []string
	IncludeDirs []string
	CFlags      []string
	LDFlags     []string
	Verbose     *bool
	Debug       *bool
	Optimize    *bool
}

// ToolConfig is a configured (non-directive) executable unit.
type ToolConfig struct {
	Name        string
	OutputDir   string
	Sources     []string
	Libraries   []string
	IncludeDirs []string
	CFlags      []string
	LDFlags     []string
	Verbose     *bool
	Debug       *bool
	Optimize    *bool
	StaticLink  *bool
}

// DependencyConfig is a parsed [dependencies] entry. The fetcher that
// would act on it (archive download, extract, run build commands) is
// out of scope for the core; the loader still models the section so
// the non-standard repeated-header merge behavior is exercised and so
// round-tripping a project file does not lose data.
type DependencyConfig struct {
	Name           string
	Source         string
	ExtractTargets []string
	BuildCmds      []string
}

// BuildConfig is the process-wide, normalized configuration consumed by
// the Graph Planner and Build Executor.
type BuildConfig struct {
	ProjectName string

	SourceRoot       string
	BuildRoot        string
	BinaryRoot       string
	DependenciesRoot string

	Compiler  string
	Toolchain string

	IncludeDirs    []string
	LibSearchPaths []string
	Libraries      []string
	CFlags         []string
	LDFlags        []string

	Debug      bool
	Optimize   bool
	Verbose    bool
	Parallel   bool
	StaticLink bool // default link kind for tools, absent an explicit per-tool override

	SharedLibs   []SharedLibConfig
	Tools        []ToolConfig
	Dependencies []DependencyConfig

	// Directives is populated by the caller (the CLI dispatcher) after
	// running the Directive Parser over SourceRoot; the loader itself
	// never reads source files.
	Directives []directive.Directive
}

func defaults() BuildConfig {
	return BuildConfig{
		SourceRoot:       "src",
		BuildRoot:        "build",
		BinaryRoot:       "bin",
		DependenciesRoot: "deps",
		Toolchain:        "gcc",
	}
}

// rawEntry is one INI key=value map, lower-cased keys, raw string
// values (list splitting happens at decode time).
type rawEntry map[string]string

type rawIni struct {
	global       rawEntry
	sharedLibs   []rawEntry
	tools        []rawEntry
	dependencies []rawEntry
}

var knownSections = map[string]bool{
	"global":       true,
	"shared_libs":  true,
	"tools":        true,
	"dependencies": true,
}

var knownGlobalKeys = map[string]bool{
	"project_name":      true,
	"source_root":       true,
	"build_root":        true,
	"binary_root":       true,
	"dependencies_root": true,
	"compiler":          true,
	"toolchain":         true,
	"include_dirs":      true,
	"lib_search_paths":  true,
	"libraries":         true,
	"cflags":            true,
	"ldflags":           true,
	"debug":             true,
	"optimize":          true,
	"verbose":           true,
	"parallel":          true,
	"static_link":       true,
}

var knownSharedLibKeys = map[string]bool{
	"name":         true,
	"output_dir":   true,
	"sources":      true,
	"libraries":    true,
	"include_dirs": true,
	"cflags":       true,
	"ldflags":      true,
	"verbose":      true,
	"debug":        true,
	"optimize":     true,
}

var knownToolKeys = map[string]bool{
	"name":         true,
	"output_dir":   true,
	"sources":      true,
	"libraries":    true,
	"include_dirs": true,
	"cflags":       true,
	"ldflags":      true,
	"verbose":      true,
	"debug":        true,
	"optimize":     true,
	"static_link":  true,
}

var knownDependencyKeys = map[string]bool{
	"name":       true,
	"source":     true,
	"extract":    true,
	"build_cmds": true,
}

// checkUnknownKeys warns on every key in entry absent from known,
// mirroring the unknown-section warning above. Keys are sorted so
// warning order doesn't depend on map iteration.
func checkUnknownKeys(entry rawEntry, known map[string]bool, section string, warnings *[]Warning) {
	var unknown []string
	for key := range entry {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		*warnings = append(*warnings, Warning{Msg: fmt.Sprintf("unknown key %q in [%s]", key, section)})
	}
}

// parseIni implements the project file's non-standard INI dialect: a
// new [shared_libs], [tools] or [dependencies] header begins a new
// entry rather than merging into a previous one of the same name. This
// is intentional (spec.md §9 Open Questions) and must be preserved.
func parseIni(r *bufio.Scanner) (*rawIni, []Warning) {
	ini := &rawIni{global: rawEntry{}}
	var warnings []Warning
	var current rawEntry

	for r.Scan() {
		line := strings.TrimSpace(r.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			if !knownSections[name] {
				warnings = append(warnings, Warning{Msg: fmt.Sprintf("unknown section [%s]", name)})
				current = nil
				continue
			}
			switch name {
			case "global":
				current = ini.global
			case "shared_libs":
				e := rawEntry{}
				ini.sharedLibs = append(ini.sharedLibs, e)
				current = ini.sharedLibs[len(ini.sharedLibs)-1]
			case "tools":
				e := rawEntry{}
				ini.tools = append(ini.tools, e)
				current = ini.tools[len(ini.tools)-1]
			case "dependencies":
				e := rawEntry{}
				ini.dependencies = append(ini.dependencies, e)
				current = ini.dependencies[len(ini.dependencies)-1]
			}
			continue
		}
		if current == nil {
			continue // key outside of any recognized section
		}
		key, val, ok := splitKV(line)
		if !ok {
			continue
		}
		current[strings.ToLower(key)] = val
	}
	return ini, warnings
}

func splitKV(line string) (key, val string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	val = strings.TrimSpace(line[idx+1:])
	val = unquote(val)
	return key, val, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func commaList(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func spaceList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
}

func semiList(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func decodeBoolToken(raw string) (val bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func decodeBool(entry rawEntry, key string, def bool, warnings *[]Warning) bool {
	raw, present := entry[key]
	if !present {
		return def
	}
	v, ok := decodeBoolToken(raw)
	if !ok {
		*warnings = append(*warnings, Warning{Msg: fmt.Sprintf("bad boolean for %q: %q", key, raw)})
		return def
	}
	return v
}

func decodeBoolPtr(entry rawEntry, key string, warnings *[]Warning) *bool {
	raw, present := entry[key]
	if !present {
		return nil
	}
	v, ok := decodeBoolToken(raw)
	if !ok {
		*warnings = append(*warnings, Warning{Msg: fmt.Sprintf("bad boolean for %q: %q", key, raw)})
		return nil
	}
	return &v
}

// mergeUnique returns global followed by every local token not already
// present in global, preserving insertion order on both sides.
func mergeUnique(global, local []string) []string {
	seen := make(map[string]bool, len(global))
	out := make([]string, 0, len(global)+len(local))
	for _, g := range global {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	for _, l := range local {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// Load reads and decodes the project file at path.
func Load(path string) (BuildConfig, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return BuildConfig{}, nil, &cperr.Config{Msg: "opening " + path, Err: err}
	}
	defer f.Close()
	return load(f, path)
}

func load(f *os.File, path string) (BuildConfig, []Warning, error) {
	ini, warnings := parseIni(bufio.NewScanner(f))
	cfg := defaults()

	g := ini.global
	if v, ok := g["project_name"]; ok {
		cfg.ProjectName = v
	}
	if v, ok := g["source_root"]; ok {
		cfg.SourceRoot = v
	}
	if v, ok := g["build_root"]; ok {
		cfg.BuildRoot = v
	}
	if v, ok := g["binary_root"]; ok {
		cfg.BinaryRoot = v
	}
	if v, ok := g["dependencies_root"]; ok {
		cfg.DependenciesRoot = v
	}
	if v, ok := g["compiler"]; ok {
		cfg.Compiler = v
	}
	if v, ok := g["toolchain"]; ok {
		cfg.Toolchain = strings.ToLower(v)
	}
	cfg.IncludeDirs = commaList(g["include_dirs"])
	cfg.LibSearchPaths = commaList(g["lib_search_paths"])
	cfg.Libraries = commaList(g["libraries"])
	cfg.CFlags = spaceList(g["cflags"])
	cfg.LDFlags = spaceList(g["ldflags"])
	cfg.Debug = decodeBool(g, "debug", false, &warnings)
	cfg.Optimize = decodeBool(g, "optimize", false, &warnings)
	cfg.Verbose = decodeBool(g, "verbose", false, &warnings)
	cfg.Parallel = decodeBool(g, "parallel", false, &warnings)
	cfg.StaticLink = decodeBool(g, "static_link", false, &warnings)
	checkUnknownKeys(g, knownGlobalKeys, "global", &warnings)

	for i, e := range ini.sharedLibs {
		name := e["name"]
		if name == "" {
			name = fmt.Sprintf("lib%d", i)
		}
		outDir := e["output_dir"]
		cfg.SharedLibs = append(cfg.SharedLibs, SharedLibConfig{
			Name:        name,
			OutputDir:   outDir,
			Sources:     commaList(e["sources"]),
			Libraries:   commaList(e["libraries"]),
			IncludeDirs: mergeUnique(cfg.IncludeDirs, commaList(e["include_dirs"])),
			CFlags:      mergeUnique(cfg.CFlags, spaceList(e["cflags"])),
			LDFlags:     mergeUnique(cfg.LDFlags, spaceList(e["ldflags"])),
			Verbose:     decodeBoolPtr(e, "verbose", &warnings),
			Debug:       decodeBoolPtr(e, "debug", &warnings),
			Optimize:    decodeBoolPtr(e, "optimize", &warnings),
		})
		checkUnknownKeys(e, knownSharedLibKeys, "shared_libs", &warnings)
	}

	for i, e := range ini.tools {
		name := e["name"]
		if name == "" {
			name = fmt.Sprintf("tool%d", i)
		}
		outDir := e["output_dir"]
		cfg.Tools = append(cfg.Tools, ToolConfig{
			Name:        name,
			OutputDir:   outDir,
			Sources:     commaList(e["sources"]),
			Libraries:   commaList(e["libraries"]),
			IncludeDirs: mergeUnique(cfg.IncludeDirs, commaList(e["include_dirs"])),
			CFlags:      mergeUnique(cfg.CFlags, spaceList(e["cflags"])),
			LDFlags:     mergeUnique(cfg.LDFlags, spaceList(e["ldflags"])),
			Verbose:     decodeBoolPtr(e, "verbose", &warnings),
			Debug:       decodeBoolPtr(e, "debug", &warnings),
			Optimize:    decodeBoolPtr(e, "optimize", &warnings),
			StaticLink:  decodeBoolPtr(e, "static_link", &warnings),
		})
		checkUnknownKeys(e, knownToolKeys, "tools", &warnings)
	}

	for _, e := range ini.dependencies {
		cfg.Dependencies = append(cfg.Dependencies, DependencyConfig{
			Name:           e["name"],
			Source:         e["source"],
			ExtractTargets: commaList(e["extract"]),
			BuildCmds:      semiList(e["build_cmds"]),
		})
		checkUnknownKeys(e, knownDependencyKeys, "dependencies", &warnings)
	}

	return cfg, warnings, nil
}

// EffectiveBool resolves a per-unit boolean override against the
// global default: an explicit per-unit value always wins.
func EffectiveBool(unit *bool, global bool) bool {
	if unit != nil {
		return *unit
	}
	return global
}
