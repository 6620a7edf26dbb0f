package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractIncludes(t *testing.T) {
	for _, test := range []struct {
		desc string
		src  string
		want []string
	}{
		{
			desc: "quoted and angle-bracket",
			src: `#include "foo.h"
#include <vector>
`,
			want: []string{"foo.h", "vector"},
		},
		{
			desc: "leading whitespace before hash",
			src:  "   #include \"bar.h\"\n",
			want: []string{"bar.h"},
		},
		{
			desc: "include token inside a string literal is ignored",
			src:  "const char* s = \"fake #include token\";\n#include <real.h>\n",
			want: []string{"real.h"},
		},
		{
			desc: "include with trailing comment",
			src:  "#include <map> // ordered\n",
			want: []string{"map"},
		},
		{
			desc: "multiple includes preserve order",
			src: `#include "a.h"
#include "b.h"
#include "c.h"
`,
			want: []string{"a.h", "b.h", "c.h"},
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "source.cpp")
			if err := os.WriteFile(path, []byte(test.src), 0644); err != nil {
				t.Fatal(err)
			}
			got := ExtractIncludes(path)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("ExtractIncludes(%q) diff (-want +got):\n%s", test.src, diff)
			}
		})
	}
}

func TestExtractIncludesMissingFile(t *testing.T) {
	got := ExtractIncludes(filepath.Join(t.TempDir(), "does-not-exist.cpp"))
	if got != nil {
		t.Errorf("ExtractIncludes(missing file) = %v, want nil", got)
	}
}
