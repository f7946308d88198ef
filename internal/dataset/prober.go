package dataset

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Options control how a Prober navigates each file.
type Options struct {
	DataGroup string // Top-level group holding demonstrations. Default: "data".
	SortKeys  bool   // Select the lexicographically smallest key instead of the first listed.
	Demo      string // Explicit demonstration key; overrides SortKeys.
	Load      bool   // Materialize each array before reporting its shape.
}

// Prober reports array shapes for one dataset file at a time.
type Prober struct {
	opener Opener
	opts   Options
}

// NewProber returns a Prober that opens files through o.
func NewProber(o Opener, opts Options) *Prober {
	if opts.DataGroup == "" {
		opts.DataGroup = "data"
	}
	return &Prober{opener: o, opts: opts}
}

// Probe opens the file at filePath, selects one demonstration key under the
// data group, and reports the shape of every requested array under that
// key. The file handle is released before Probe returns, on success and on
// error. Any missing group, key, or array fails the whole probe; there is no
// partial result.
func (p *Prober) Probe(filePath string, specs []ArraySpec) (res *Result, err error) {
	f, err := p.opener.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			res, err = nil, fmt.Errorf("close %s: %w", filePath, cerr)
		}
	}()

	dataPath := strings.Trim(p.opts.DataGroup, "/")
	data, err := walkGroup(f.Root(), dataPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	demo, err := p.selectDemo(data.Keys())
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", filePath, dataPath, err)
	}
	demoGroup, err := data.Group(demo)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", filePath, path.Join(dataPath, demo), err)
	}

	res = &Result{Path: filePath, Demo: demo, Arrays: make([]ArrayShape, 0, len(specs))}
	for _, spec := range specs {
		keyPath := path.Join(dataPath, demo, spec.Path)
		shape, err := p.readShape(demoGroup, spec.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", filePath, keyPath, err)
		}
		res.Arrays = append(res.Arrays, ArrayShape{Spec: spec, Shape: shape})
	}
	return res, nil
}

// selectDemo picks the demonstration key once per file.
func (p *Prober) selectDemo(keys []string) (string, error) {
	if p.opts.Demo != "" {
		for _, k := range keys {
			if k == p.opts.Demo {
				return k, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrDemoNotFound, p.opts.Demo)
	}
	if len(keys) == 0 {
		return "", ErrNoDemos
	}
	if p.opts.SortKeys {
		sorted := append([]string(nil), keys...)
		sort.Strings(sorted)
		return sorted[0], nil
	}
	return keys[0], nil
}

func (p *Prober) readShape(demo Group, arrayPath string) (Shape, error) {
	dir, name := path.Split(arrayPath)
	g, err := walkGroup(demo, strings.TrimSuffix(dir, "/"))
	if err != nil {
		return nil, err
	}
	arr, err := g.Array(name)
	if err != nil {
		return nil, err
	}
	shape, err := arr.Shape()
	if err != nil {
		return nil, err
	}
	if p.opts.Load {
		n, err := arr.Load()
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		if n != shape.Elements() {
			return nil, fmt.Errorf("%w: got %d, shape %v", ErrSizeMismatch, n, []uint64(shape))
		}
	}
	return shape, nil
}

// walkGroup descends slash-separated groupPath from g. An empty path
// returns g itself.
func walkGroup(g Group, groupPath string) (Group, error) {
	if groupPath == "" {
		return g, nil
	}
	cur := g
	for _, seg := range strings.Split(groupPath, "/") {
		next, err := cur.Group(seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
