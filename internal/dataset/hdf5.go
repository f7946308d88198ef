package dataset

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/scigolib/hdf5"
)

// HDF5Opener opens HDF5 files read-only through github.com/scigolib/hdf5.
type HDF5Opener struct{}

// Open implements Opener.
func (HDF5Opener) Open(filePath string) (File, error) {
	f, err := hdf5.Open(filePath)
	if err != nil {
		return nil, err
	}
	return &hdf5File{f: f}, nil
}

type hdf5File struct {
	f *hdf5.File
}

func (f *hdf5File) Root() Group { return &hdf5Group{g: f.f.Root()} }

func (f *hdf5File) Close() error { return f.f.Close() }

type hdf5Group struct {
	g *hdf5.Group
}

// childKey reduces a child's reported name to its link name. Depending on
// how a group was loaded, scigolib names may carry the parent path or a
// trailing slash.
func childKey(name string) string {
	name = strings.TrimRight(name, "/")
	if name == "" {
		return ""
	}
	return path.Base(name)
}

func (g *hdf5Group) Keys() []string {
	children := g.g.Children()
	keys := make([]string, 0, len(children))
	for _, c := range children {
		keys = append(keys, childKey(c.Name()))
	}
	return keys
}

func (g *hdf5Group) lookup(key string) (hdf5.Object, bool) {
	for _, c := range g.g.Children() {
		if childKey(c.Name()) == key {
			return c, true
		}
	}
	return nil, false
}

func (g *hdf5Group) Group(key string) (Group, error) {
	obj, ok := g.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, key)
	}
	child, ok := obj.(*hdf5.Group)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotGroup, key)
	}
	return &hdf5Group{g: child}, nil
}

func (g *hdf5Group) Array(key string) (Array, error) {
	obj, ok := g.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrArrayNotFound, key)
	}
	ds, ok := obj.(*hdf5.Dataset)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotArray, key)
	}
	return &hdf5Array{d: ds}, nil
}

type hdf5Array struct {
	d *hdf5.Dataset
}

// Shape reads only the object header; no array data is touched.
func (a *hdf5Array) Shape() (Shape, error) {
	info, err := a.d.Info()
	if err != nil {
		return nil, fmt.Errorf("dataset info: %w", err)
	}
	return parseDataspace(info)
}

// Load materializes the dataset. scigolib converts float32, float64, int32
// and int64 element types; other types fail here.
func (a *hdf5Array) Load() (uint64, error) {
	vals, err := a.d.Read()
	if err != nil {
		return 0, err
	}
	return uint64(len(vals)), nil
}

// errDataspace is returned when a dataset summary carries no usable extent.
var errDataspace = errors.New("unsupported dataspace")

// simpleDataspace matches the extent section of a scigolib dataset summary:
// "1D array [50]", "2D array [50 x 7]", "4D array [50 128 128 3]".
var simpleDataspace = regexp.MustCompile(`(\d+)D array \[([^\]]*)\]`)

var dimToken = regexp.MustCompile(`\d+`)

// parseDataspace extracts the shape from a scigolib Dataset.Info summary of
// the form "Dataset: <datatype>, <dataspace>, <layout>". The dataspace part
// is the text of core.DataspaceMessage.String in scigolib v0.13.0; scigolib
// exports no structured accessor for it. TestHDF5Opener_WrittenFile reads a
// real file through this path and fails if that text changes.
func parseDataspace(info string) (Shape, error) {
	if m := simpleDataspace.FindStringSubmatch(info); m != nil {
		rank, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errDataspace, info)
		}
		tokens := dimToken.FindAllString(m[2], -1)
		if len(tokens) != rank {
			return nil, fmt.Errorf("%w: rank %d with %d dims in %q", errDataspace, rank, len(tokens), info)
		}
		shape := make(Shape, rank)
		for i, tok := range tokens {
			d, err := strconv.ParseUint(tok, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", errDataspace, info)
			}
			shape[i] = d
		}
		return shape, nil
	}
	if strings.Contains(info, ", scalar, ") {
		return Shape{}, nil
	}
	return nil, fmt.Errorf("%w: %q", errDataspace, info)
}
