package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cppbuild/cppbuild/internal/cperr"
)

// UnitSpec is a unit declared directly on the command line via
// --shared-lib <name> <source> or --tool <name> <source>.
type UnitSpec struct {
	Name   string
	Source string
}

// Overrides is the result of parsing CLI flags; it is applied on top of
// a BuildConfig already populated from defaults and the INI file
// (precedence: CLI > INI > defaults).
type Overrides struct {
	ProjectName *string
	Debug       *bool
	Optimize    *bool
	Verbose     *bool
	Parallel    *bool
	Compiler    *string
	Toolchain   *string

	IncludeDirs    []string
	LibSearchPaths []string
	Libraries      []string

	ConfigPath *string

	SharedLibs []UnitSpec
	Tools      []UnitSpec

	// Positionals holds every non-flag argument in order; the first
	// sets the project name, subsequent ones each append a default
	// tool (ToolConfig named after the source's basename).
	Positionals []string
}

// ParseArgs parses the shared flag set accepted by build, clean and
// plan (spec.md §6). An unrecognized flag is an error; everything else
// accumulates into Overrides for the caller to Apply.
func ParseArgs(args []string) (Overrides, error) {
	var ov Overrides
	setTrue := func(b **bool) { v := true; *b = &v }

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "-d", "--debug":
			setTrue(&ov.Debug)
			f := false
			ov.Optimize = &f
		case "-O", "--optimize":
			setTrue(&ov.Optimize)
			f := false
			ov.Debug = &f
		case "-v", "--verbose":
			setTrue(&ov.Verbose)
		case "-p", "--parallel":
			setTrue(&ov.Parallel)
		case "-c", "--compiler":
			val, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			ov.Compiler = &val
		case "--toolchain":
			val, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			lower := strings.ToLower(val)
			ov.Toolchain = &lower
		case "-o", "--output":
			val, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			ov.ProjectName = &val
		case "-I":
			val, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			ov.IncludeDirs = append(ov.IncludeDirs, val)
		case "-L":
			val, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			ov.LibSearchPaths = append(ov.LibSearchPaths, val)
		case "-l":
			val, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			ov.Libraries = append(ov.Libraries, val)
		case "--config":
			val, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			ov.ConfigPath = &val
		case "--shared-lib":
			name, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			src, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			ov.SharedLibs = append(ov.SharedLibs, UnitSpec{Name: name, Source: src})
		case "--tool":
			name, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			src, err := nextArg(args, &i, a)
			if err != nil {
				return ov, err
			}
			ov.Tools = append(ov.Tools, UnitSpec{Name: name, Source: src})
		default:
			if strings.HasPrefix(a, "-") {
				return ov, &cperr.Config{Msg: fmt.Sprintf("unknown flag %s", a)}
			}
			ov.Positionals = append(ov.Positionals, a)
		}
	}
	return ov, nil
}

func nextArg(args []string, i *int, flag string) (string, error) {
	if *i+1 >= len(args) {
		return "", &cperr.Config{Msg: fmt.Sprintf("flag %s: missing value", flag)}
	}
	*i++
	return args[*i], nil
}

// Apply merges CLI overrides onto cfg with CLI taking precedence over
// whatever was already decoded from the INI file and defaults.
func Apply(cfg *BuildConfig, ov Overrides) {
	if ov.Debug != nil {
		cfg.Debug = *ov.Debug
	}
	if ov.Optimize != nil {
		cfg.Optimize = *ov.Optimize
	}
	if ov.Verbose != nil {
		cfg.Verbose = *ov.Verbose
	}
	if ov.Parallel != nil {
		cfg.Parallel = *ov.Parallel
	}
	if ov.Compiler != nil {
		cfg.Compiler = *ov.Compiler
	}
	if ov.Toolchain != nil {
		cfg.Toolchain = *ov.Toolchain
	}
	cfg.IncludeDirs = append(cfg.IncludeDirs, ov.IncludeDirs...)
	cfg.LibSearchPaths = append(cfg.LibSearchPaths, ov.LibSearchPaths...)
	cfg.Libraries = append(cfg.Libraries, ov.Libraries...)

	for _, u := range ov.SharedLibs {
		cfg.SharedLibs = append(cfg.SharedLibs, SharedLibConfig{Name: u.Name, Sources: []string{u.Source}})
	}
	for _, u := range ov.Tools {
		cfg.Tools = append(cfg.Tools, ToolConfig{Name: u.Name, Sources: []string{u.Source}})
	}

	if len(ov.Positionals) > 0 {
		if ov.ProjectName == nil {
			cfg.ProjectName = ov.Positionals[0]
		}
		for _, src := range ov.Positionals[1:] {
			name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			cfg.Tools = append(cfg.Tools, ToolConfig{Name: name, Sources: []string{src}})
		}
	}
	if ov.ProjectName != nil {
		cfg.ProjectName = *ov.ProjectName
	}
}
