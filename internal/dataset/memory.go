package dataset

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// MemoryOpener serves in-memory dataset trees keyed by file path. It records
// every Open and Close so tests can check which files were touched and that
// each handle was released.
type MemoryOpener struct {
	mu     sync.Mutex
	files  map[string]*MemoryGroup
	opened []string
	open   int
}

// NewMemoryOpener returns an empty MemoryOpener.
func NewMemoryOpener() *MemoryOpener {
	return &MemoryOpener{files: make(map[string]*MemoryGroup)}
}

// Add registers root as the content of the file at path.
func (m *MemoryOpener) Add(path string, root *MemoryGroup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = root
}

// Open implements Opener. Unregistered paths fail like a missing file.
func (m *MemoryOpener) Open(path string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, path)
	root, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	m.open++
	return &memoryFile{owner: m, root: root}, nil
}

// Opened returns the paths passed to Open, in call order.
func (m *MemoryOpener) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}

// OpenHandles returns the number of files opened and not yet closed.
func (m *MemoryOpener) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

type memoryFile struct {
	owner  *MemoryOpener
	root   *MemoryGroup
	closed bool
}

func (f *memoryFile) Root() Group { return f.root }

func (f *memoryFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.owner.mu.Lock()
	f.owner.open--
	f.owner.mu.Unlock()
	return nil
}

// MemoryGroup is an ordered in-memory group. Keys are listed in insertion
// order, which stands in for a store's native listing order.
type MemoryGroup struct {
	keys     []string
	children map[string]interface{}
}

// NewGroup returns an empty MemoryGroup.
func NewGroup() *MemoryGroup {
	return &MemoryGroup{children: make(map[string]interface{})}
}

// AddGroup inserts (or returns the existing) child group named key.
func (g *MemoryGroup) AddGroup(key string) *MemoryGroup {
	if existing, ok := g.children[key].(*MemoryGroup); ok {
		return existing
	}
	child := NewGroup()
	g.put(key, child)
	return child
}

// AddArray inserts an array with the given shape.
func (g *MemoryGroup) AddArray(key string, dims ...uint64) *MemoryArray {
	a := &MemoryArray{shape: Shape(dims)}
	g.put(key, a)
	return a
}

// SetPath creates every intermediate group along slash-separated p and
// places an array with dims at its last element.
func (g *MemoryGroup) SetPath(p string, dims ...uint64) *MemoryArray {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	cur := g
	for _, seg := range segs[:len(segs)-1] {
		cur = cur.AddGroup(seg)
	}
	return cur.AddArray(segs[len(segs)-1], dims...)
}

func (g *MemoryGroup) put(key string, v interface{}) {
	if _, ok := g.children[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.children[key] = v
}

// Keys implements Group.
func (g *MemoryGroup) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Group implements Group.
func (g *MemoryGroup) Group(key string) (Group, error) {
	v, ok := g.children[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, key)
	}
	child, ok := v.(*MemoryGroup)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotGroup, key)
	}
	return child, nil
}

// Array implements Group.
func (g *MemoryGroup) Array(key string) (Array, error) {
	v, ok := g.children[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrArrayNotFound, key)
	}
	a, ok := v.(*MemoryArray)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotArray, key)
	}
	return a, nil
}

// MemoryArray is an in-memory array that only carries a shape.
type MemoryArray struct {
	shape   Shape
	loadErr error
	loaded  *uint64
	loads   int
}

// FailLoad makes Load return err.
func (a *MemoryArray) FailLoad(err error) *MemoryArray {
	a.loadErr = err
	return a
}

// LoadCount overrides the element count Load reports.
func (a *MemoryArray) LoadCount(n uint64) *MemoryArray {
	a.loaded = &n
	return a
}

// Loads returns how many times Load was called.
func (a *MemoryArray) Loads() int { return a.loads }

// Shape implements Array.
func (a *MemoryArray) Shape() (Shape, error) {
	return append(Shape(nil), a.shape...), nil
}

// Load implements Array.
func (a *MemoryArray) Load() (uint64, error) {
	a.loads++
	if a.loadErr != nil {
		return 0, a.loadErr
	}
	if a.loaded != nil {
		return *a.loaded, nil
	}
	return a.shape.Elements(), nil
}
