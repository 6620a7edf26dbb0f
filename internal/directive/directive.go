// Package directive scans C++ translation units for embedded
// "// build-directive:" comments and turns them into BuildDirective
// values the Graph Planner can consume.
package directive

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cppbuild/cppbuild/internal/discover"
)

// Directive is one build unit declared via build-directive comments in a
// single source file.
type Directive struct {
	Source       string // the file the directive was read from
	UnitName     string
	DependsUnits []string
	LinkLibs     []string
	OutputPath   string
	CFlags       []string
	LDFlags      []string
	IsShared     bool
	StaticLink   *bool // nil when unset; three-valued override
}

const prefix = "// build-directive:"

// Parse walks sourceRoot via discover.FindSources and returns one
// Directive per source file that declares a unit-name, in source-file
// order. Unrecognized directive types are logged as warnings (when
// verbose and logger are non-nil) and otherwise ignored. Malformed
// lines are skipped silently; no error ever escapes for a single
// malformed line.
func Parse(sourceRoot string, verbose bool, logger *log.Logger) ([]Directive, error) {
	sources, err := discover.FindSources(sourceRoot)
	if err != nil {
		return nil, err
	}
	var out []Directive
	for _, src := range sources {
		d, ok, err := parseFile(src, verbose, logger)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func parseFile(path string, verbose bool, logger *log.Logger) (Directive, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return Directive{}, false, nil // unreadable source: not fatal here
	}
	defer f.Close()

	d := Directive{Source: path}
	haveUnit := false

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		rest := strings.TrimSpace(line[len(prefix):])
		typ, val, ok := splitDirective(rest)
		if !ok {
			continue // malformed: missing parenthesis
		}
		switch typ {
		case "unit-name":
			d.UnitName = val
			haveUnit = true
		case "depends-units":
			d.DependsUnits = append(d.DependsUnits, splitCSV(val)...)
		case "link":
			d.LinkLibs = append(d.LinkLibs, splitCSV(val)...)
		case "out":
			d.OutputPath = val
		case "cflags":
			d.CFlags = append(d.CFlags, splitSpace(val)...)
		case "ldflags":
			d.LDFlags = append(d.LDFlags, splitSpace(val)...)
		case "shared":
			b, ok := parseBool(val)
			if ok {
				d.IsShared = b
			}
		case "static":
			b, ok := parseBool(val)
			if ok {
				d.StaticLink = &b
			}
		default:
			if verbose && logger != nil {
				logger.Printf("[warn] %s: unrecognized build-directive type %q", filepath.Base(path), typ)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Directive{}, false, nil
	}
	if !haveUnit || d.UnitName == "" {
		return Directive{}, false, nil
	}
	return d, true, nil
}

// splitDirective splits "type(value)" into ("type", "value", true). It
// requires an opening '(' and a trailing ')'; anything else is
// malformed.
func splitDirective(s string) (typ, val string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	typ = strings.TrimSpace(s[:open])
	val = s[open+1 : len(s)-1]
	if typ == "" {
		return "", "", false
	}
	return typ, val, true
}

func splitCSV(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func splitSpace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
}

func parseBool(s string) (bool, bool) {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return v, true
}
