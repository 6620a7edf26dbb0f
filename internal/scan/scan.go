// Package scan extracts #include targets from C++ source files. It is a
// deliberately shallow approximation: no preprocessor conditionals, no
// macro expansion, just enough to drive staleness checks and .d record
// generation.
package scan

import (
	"os"
)

// ExtractIncludes reads path and returns, in file order, every quoted or
// angle-bracketed argument to an #include directive. The path text
// between the include target delimiters is returned verbatim: system
// headers (<foo.h>) and local headers ("foo.h") are not distinguished,
// matching the rest of the pipeline, which only cares about the literal
// spelling for staleness comparisons and dependency records.
//
// An unreadable file is not an error here: it simply yields no includes,
// since a missing source is reported by the caller (the Staleness
// Oracle, or the compiler invocation itself) with better context.
func ExtractIncludes(path string) []string {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return extractIncludes(b)
}

const includeDirective = "#include"

func extractIncludes(b []byte) []string {
	var includes []string
	var inString bool
	var stringQuote byte

	n := len(b)
	for i := 0; i < n; i++ {
		c := b[i]

		if inString {
			if c == stringQuote {
				inString = false
			}
			continue
		}

		switch c {
		case '"', '\'':
			inString = true
			stringQuote = c
			continue
		case '#':
			if i+len(includeDirective) > n || string(b[i:i+len(includeDirective)]) != includeDirective {
				continue
			}
			j := i + len(includeDirective)
			for j < n && (b[j] == ' ' || b[j] == '\t') {
				j++
			}
			if j >= n {
				i = j
				continue
			}
			var open, close byte
			switch b[j] {
			case '"':
				open, close = '"', '"'
			case '<':
				open, close = '<', '>'
			default:
				i = j
				continue
			}
			_ = open
			start := j + 1
			k := start
			for k < n && b[k] != close {
				k++
			}
			if k < n {
				includes = append(includes, string(b[start:k]))
				i = k
			} else {
				i = n
			}
		}
	}
	return includes
}
