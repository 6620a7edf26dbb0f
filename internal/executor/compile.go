package executor

import (
	"context"
	"io"
	"os/exec"
	"runtime"
	"sort"

	"github.com/cppbuild/cppbuild/internal/cperr"
	"github.com/cppbuild/cppbuild/internal/graph"
	"github.com/cppbuild/cppbuild/internal/stale"
	"github.com/cppbuild/cppbuild/internal/toolchain"
	"github.com/orcaman/writerseeker"
	"golang.org/x/sync/errgroup"
)

// compile runs every compile task that needs recompiling through a
// bounded worker pool (pool size min(len(tasks), NumCPU); sequential
// when cfg.Parallel is false), then collates the resulting object
// paths back into source order per node.
func (c *Ctx) compile(ctx context.Context, tasks []compileTask, works map[string]*nodeWork) (map[string][]string, error) {
	results := make([]string, len(tasks))

	run := func(i int) error {
		t := tasks[i]
		w := works[t.node.ID]
		if !stale.NeedsRecompile(t.source, t.object) {
			results[i] = t.object
			return nil
		}
		spec := toolchain.CompileSpec{
			Compiler:             c.Config.Compiler,
			GlobalIncludeDirs:    c.Config.IncludeDirs,
			GlobalLibSearchPaths: c.Config.LibSearchPaths,
			UnitIncludeDirs:      w.includes,
			Debug:                w.debug,
			Optimize:             w.optimize,
			Shared:               t.node.Kind == graph.SharedLibrary,
			GlobalCFlags:         c.Config.CFlags,
			UnitCFlags:           w.cflags,
			Source:               t.source,
			Object:               t.object,
		}
		cmd := c.Toolchain.CompileCommand(spec)
		if w.verbose && c.Log != nil {
			c.Log.Printf("compile: %s", joinCmd(cmd))
		}
		stdout, stderr, exitCode, runErr := runCommand(ctx, cmd)
		if exitCode != 0 || runErr != nil {
			return cperr.Compile(cmd, stdout, stderr, exitCode, runErr)
		}
		if err := writeDepRecord(t.object, t.source); err != nil {
			return err
		}
		results[i] = t.object
		return nil
	}

	if !c.Config.Parallel || len(tasks) < 2 {
		for i := range tasks {
			if err := run(i); err != nil {
				return nil, err
			}
		}
	} else {
		workers := len(tasks)
		if n := runtime.NumCPU(); n < workers {
			workers = n
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range tasks {
			i := i
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				return run(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	byNode := make(map[string][]indexed, len(tasks))
	for i, t := range tasks {
		byNode[t.node.ID] = append(byNode[t.node.ID], indexed{t.index, results[i]})
	}
	objects := make(map[string][]string, len(byNode))
	for id, list := range byNode {
		sort.Slice(list, func(a, b int) bool { return list[a].index < list[b].index })
		objs := make([]string, len(list))
		for i, e := range list {
			objs[i] = e.object
		}
		objects[id] = objs
	}
	return objects, nil
}

type indexed struct {
	index  int
	object string
}

// runCommand executes cmd[0] with cmd[1:] as arguments, capturing
// stdout and stderr into independent in-memory buffers so both streams
// can be attached to a cperr.Subprocess error without a temp file.
func runCommand(ctx context.Context, cmd []string) (stdout, stderr string, exitCode int, err error) {
	var outBuf, errBuf writerseeker.WriterSeeker
	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	c.Stdout = &outBuf
	c.Stderr = &errBuf

	runErr := c.Run()
	stdout = readAll(&outBuf)
	stderr = readAll(&errBuf)

	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return stdout, stderr, exitErr.ExitCode(), nil
	}
	if runErr != nil {
		return stdout, stderr, -1, runErr
	}
	return stdout, stderr, 0, nil
}

func readAll(ws *writerseeker.WriterSeeker) string {
	b, err := io.ReadAll(ws.Reader())
	if err != nil {
		return ""
	}
	return string(b)
}

func joinCmd(cmd []string) string {
	s := ""
	for i, c := range cmd {
		if i > 0 {
			s += " "
		}
		s += c
	}
	return s
}
