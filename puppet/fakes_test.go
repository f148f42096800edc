package puppet

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/zero-day-ai/facts/host"
)

type runResult struct {
	out string
	err error
}

// fakeRunner answers command lines from a table and counts invocations.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string]runResult
	calls   map[string]int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]runResult{}, calls: map[string]int{}}
}

func (r *fakeRunner) on(commandLine, out string, err error) *fakeRunner {
	r.results[commandLine] = runResult{out: out, err: err}
	return r
}

func (r *fakeRunner) Output(_ context.Context, commandLine string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[commandLine]++
	res, ok := r.results[commandLine]
	if !ok {
		return "", errors.New("binary not found")
	}
	return res.out, res.err
}

func (r *fakeRunner) count(commandLine string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[commandLine]
}

func (r *fakeRunner) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

// fakeFS is an in-memory FileSystem. Paths under a listed root are returned in lexical order.
type fakeFS struct {
	files   map[string]string
	readErr map[string]error
}

func (f fakeFS) ListRegularFiles(root string) ([]string, error) {
	var out []string
	for path := range f.files {
		if strings.HasPrefix(path, root+"/") {
			out = append(out, path)
		}
	}
	if len(out) == 0 {
		return nil, &fs.PathError{Op: "lstat", Path: root, Err: fs.ErrNotExist}
	}
	sort.Strings(out)
	return out, nil
}

func (f fakeFS) ReadFile(path string) ([]byte, error) {
	if err, ok := f.readErr[path]; ok {
		return nil, err
	}
	content, ok := f.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(content), nil
}

func (f fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

var (
	linux  = host.Static{host.AttrKernel: "Linux"}
	darwin = host.Static{host.AttrKernel: "Darwin"}
)
