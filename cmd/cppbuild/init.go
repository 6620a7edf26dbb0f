package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cppbuild/cppbuild/internal/cperr"
)

const initHelp = `cppbuild init [project-name]

Scaffold a starter cppbuild.ini and src/<project-name>.cpp (default
src/app.cpp) in the current directory. Refuses to overwrite an existing
cppbuild.ini.
`

const initIni = `[global]
project_name = %s
source_root = src
build_root = build
binary_root = bin
toolchain = gcc
optimize = false
debug = true
`

const initMain = `// build-directive: unit-name(%s)
#include <cstdio>

int main() {
	std::printf("hello from %s\n");
	return 0;
}
`

func cmdinit(ctx context.Context, args []string) error {
	_ = ctx
	name := "app"
	if len(args) > 0 {
		name = args[0]
	}

	if _, err := os.Stat(defaultConfigPath); err == nil {
		return &cperr.Config{Msg: defaultConfigPath + " already exists"}
	}

	if err := os.MkdirAll("src", 0755); err != nil {
		return &cperr.Source{Path: "src", Err: err}
	}

	ini := fmt.Sprintf(initIni, name)
	if err := os.WriteFile(defaultConfigPath, []byte(ini), 0644); err != nil {
		return &cperr.Source{Path: defaultConfigPath, Err: err}
	}

	mainPath := filepath.Join("src", name+".cpp")
	main := fmt.Sprintf(initMain, name, name)
	if err := os.WriteFile(mainPath, []byte(main), 0644); err != nil {
		return &cperr.Source{Path: mainPath, Err: err}
	}

	fmt.Printf("scaffolded %s and %s\n", defaultConfigPath, mainPath)
	return nil
}
