package dataset

import (
	"errors"
	"path"
	"strings"
)

// Sentinel errors returned (wrapped) by the prober and its stores.
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrArrayNotFound = errors.New("array not found")
	ErrNotGroup      = errors.New("object is not a group")
	ErrNotArray      = errors.New("object is not an array")
	ErrNoDemos       = errors.New("no demonstrations in data group")
	ErrDemoNotFound  = errors.New("demonstration not found")
	ErrSizeMismatch  = errors.New("loaded element count does not match shape")
)

// Opener opens a dataset file for reading.
type Opener interface {
	Open(path string) (File, error)
}

// File is an open, read-only dataset file. Close releases the handle.
type File interface {
	Root() Group
	Close() error
}

// Group is a mapping from string keys to groups or arrays.
type Group interface {
	// Keys lists child names in the order the store exposes them.
	Keys() []string
	Group(key string) (Group, error)
	Array(key string) (Array, error)
}

// Array is a multi-dimensional array whose shape can be read without
// loading the data.
type Array interface {
	Shape() (Shape, error)
	// Load reads the whole array into memory and returns its element count.
	Load() (uint64, error)
}

// Shape is the ordered tuple of dimension sizes of an array. A scalar has
// an empty shape.
type Shape []uint64

// Elements returns the product of the dimensions (1 for a scalar).
func (s Shape) Elements() uint64 {
	n := uint64(1)
	for _, d := range s {
		n *= d
	}
	return n
}

// ArraySpec names one array to probe. Path is relative to the demonstration
// group, e.g. "obs/agentview_rgb" or "actions".
type ArraySpec struct {
	Label string
	Path  string
}

// SpecsFromPaths builds specs labeled with each path's last element.
func SpecsFromPaths(paths []string) []ArraySpec {
	specs := make([]ArraySpec, 0, len(paths))
	for _, p := range paths {
		p = strings.Trim(p, "/")
		specs = append(specs, ArraySpec{Label: path.Base(p), Path: p})
	}
	return specs
}

// ArrayShape is the shape reported for one ArraySpec.
type ArrayShape struct {
	Spec  ArraySpec
	Shape Shape
}

// Result is the outcome of probing one file: the demonstration key that was
// selected and one shape per requested array, in request order.
type Result struct {
	Path   string
	Demo   string
	Arrays []ArrayShape
}
