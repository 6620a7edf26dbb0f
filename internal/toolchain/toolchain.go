// Package toolchain emits compile and link command lines for gcc- and
// clang-family compilers. It never touches the filesystem or spawns a
// process; it only builds argv slices for the Build Executor to run.
package toolchain

import "strings"

// Toolchain is the pluggable capability set a compiler family exposes.
// gcc and clang share a single emitter parameterized by the compiler
// binary (newFamily below); a future family implements the same interface.
type Toolchain interface {
	CompileCommand(s CompileSpec) []string
	SharedLinkCommand(s LinkSpec) []string
	ToolLinkCommand(s LinkSpec) []string
	Description() string
}

// CompileSpec is everything the compile command needs to know about
// one source/object pair.
type CompileSpec struct {
	Compiler             string
	GlobalIncludeDirs    []string
	GlobalLibSearchPaths []string
	UnitIncludeDirs      []string
	Debug                bool
	Optimize             bool
	Shared               bool
	GlobalCFlags         []string
	UnitCFlags           []string
	Source               string
	Object               string
}

// LinkSpec is everything a shared-library or executable link command
// needs. StaticLink only affects ToolLinkCommand.
type LinkSpec struct {
	Compiler        string
	BinaryRoot      string // project binary root, e.g. "bin"; shared links search <BinaryRoot>/lib
	LibSearchPaths  []string
	Debug           bool
	Objects         []string
	GlobalLibraries []string
	UnitLibraries   []string
	GlobalLDFlags   []string
	UnitLDFlags     []string
	OutputDir       string
	BaseName        string // output base name, without extension
	StaticLink      bool
}

// family names a compiler family. The shared gcc/clang emitter core,
// parameterized by family name and compiler binary, is emitter below.
type family struct {
	name string
}

// Gcc returns the gcc-family toolchain. cc defaults to "g++" when cc is
// empty.
func Gcc(cc string) Toolchain { return newFamily("gcc", cc, "g++") }

// Clang returns the clang-family toolchain. cc defaults to "clang++"
// when cc is empty.
func Clang(cc string) Toolchain { return newFamily("clang", cc, "clang++") }

// For selects a toolchain by name (case-insensitive; empty means gcc),
// with cc overriding the family's default compiler binary when set.
func For(name, cc string) Toolchain {
	switch strings.ToLower(name) {
	case "clang":
		return Clang(cc)
	default:
		return Gcc(cc)
	}
}

type emitter struct {
	familyName string
	compiler   string
}

func newFamily(familyName, cc, def string) Toolchain {
	if cc == "" {
		cc = def
	}
	return &emitter{familyName: familyName, compiler: cc}
}

func (e *emitter) Description() string { return e.familyName + " (" + e.compiler + ")" }

func (e *emitter) compilerFor(spec string) string {
	if spec != "" {
		return spec
	}
	return e.compiler
}

func (e *emitter) CompileCommand(s CompileSpec) []string {
	cc := e.compilerFor(s.Compiler)
	cmd := []string{cc, "-c"}
	for _, d := range s.GlobalIncludeDirs {
		cmd = append(cmd, "-I"+d)
	}
	for _, d := range s.GlobalLibSearchPaths {
		cmd = append(cmd, "-L"+d)
	}
	for _, d := range s.UnitIncludeDirs {
		cmd = append(cmd, "-I"+d)
	}
	switch {
	case s.Debug:
		cmd = append(cmd, "-g", "-O0")
	case s.Optimize:
		cmd = append(cmd, "-O3")
	default:
		cmd = append(cmd, "-O2")
	}
	if s.Shared {
		cmd = append(cmd, "-fPIC")
	}
	cmd = append(cmd, "-Wall", "-Wextra")
	cmd = append(cmd, s.GlobalCFlags...)
	cmd = append(cmd, s.UnitCFlags...)
	cmd = append(cmd, s.Source, "-o", s.Object)
	return cmd
}

// normalizeLib strips a leading "lib/" path component and a trailing
// ".so" suffix, yielding the base name consumers link via -l:<base>.{so,a}.
// The source keeps library tokens verbatim on disk (no "lib" prefix is
// added); this normalization only ever strips, never adds.
func normalizeLib(tok string) string {
	tok = strings.TrimPrefix(tok, "lib/")
	tok = strings.TrimSuffix(tok, ".so")
	return tok
}

func (e *emitter) SharedLinkCommand(s LinkSpec) []string {
	cc := e.compilerFor(s.Compiler)
	cmd := []string{cc, "-shared", "-L" + s.BinaryRoot + "/lib"}
	for _, d := range s.LibSearchPaths {
		cmd = append(cmd, "-L"+d)
	}
	if s.Debug {
		cmd = append(cmd, "-g")
	}
	cmd = append(cmd, s.Objects...)
	for _, l := range s.GlobalLibraries {
		cmd = append(cmd, "-l"+l)
	}
	for _, l := range s.UnitLibraries {
		cmd = append(cmd, "-l:"+normalizeLib(l)+".so")
	}
	cmd = append(cmd, s.GlobalLDFlags...)
	cmd = append(cmd, s.UnitLDFlags...)
	cmd = append(cmd, "-o", s.OutputDir+"/"+s.BaseName+".so")
	return cmd
}

// ArchiveCommand synthesizes the archiver invocation for the static
// library companion to a shared-library link step:
// `ar rcs <outdir>/<base>.a <objects...>`. The archiver is the same
// across gcc and clang families, so this is a free function rather
// than part of the Toolchain interface.
func ArchiveCommand(objects []string, outDir, baseName string) []string {
	cmd := []string{"ar", "rcs", outDir + "/" + baseName + ".a"}
	cmd = append(cmd, objects...)
	return cmd
}

func (e *emitter) ToolLinkCommand(s LinkSpec) []string {
	cc := e.compilerFor(s.Compiler)
	cmd := []string{cc, "-L" + s.BinaryRoot + "/lib"}
	for _, d := range s.LibSearchPaths {
		cmd = append(cmd, "-L"+d)
	}
	if s.Debug {
		cmd = append(cmd, "-g")
	}
	if s.StaticLink {
		cmd = append(cmd, "-static", "-static-libgcc", "-static-libstdc++")
	}
	cmd = append(cmd, s.Objects...)
	for _, l := range s.GlobalLibraries {
		cmd = append(cmd, "-l"+l)
	}
	ext := ".so"
	if s.StaticLink {
		ext = ".a"
	}
	for _, l := range s.UnitLibraries {
		cmd = append(cmd, "-l:"+normalizeLib(l)+ext)
	}
	cmd = append(cmd, s.GlobalLDFlags...)
	cmd = append(cmd, s.UnitLDFlags...)
	cmd = append(cmd, "-o", s.OutputDir+"/"+s.BaseName)
	return cmd
}
