package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// liberoFile builds a demo tree shaped like a LIBERO suite file.
func liberoFile(demos ...string) *MemoryGroup {
	root := NewGroup()
	data := root.AddGroup("data")
	for i, demo := range demos {
		steps := uint64(10 + i)
		d := data.AddGroup(demo)
		d.AddArray("actions", steps, 7)
		obs := d.AddGroup("obs")
		obs.AddArray("agentview_rgb", steps, 128, 128, 3)
		obs.AddArray("eye_in_hand_rgb", steps, 128, 128, 3)
		obs.AddArray("ee_states", steps, 6)
		obs.AddArray("gripper_states", steps, 2)
		obs.AddArray("joint_states", steps, 7)
	}
	return root
}

func cameraSpecs() []ArraySpec {
	return SpecsFromPaths([]string{"obs/agentview_rgb", "obs/eye_in_hand_rgb"})
}

func TestSpecsFromPaths(t *testing.T) {
	specs := SpecsFromPaths([]string{"obs/agentview_rgb", "/actions/"})
	assert.Equal(t, []ArraySpec{
		{Label: "agentview_rgb", Path: "obs/agentview_rgb"},
		{Label: "actions", Path: "actions"},
	}, specs)
}

func TestShape_Elements(t *testing.T) {
	assert.Equal(t, uint64(1), Shape{}.Elements())
	assert.Equal(t, uint64(50*128*128*3), Shape{50, 128, 128, 3}.Elements())
	assert.Equal(t, uint64(0), Shape{0, 7}.Elements())
}

func TestProbe_Cameras(t *testing.T) {
	m := NewMemoryOpener()
	m.Add("/d/a.hdf5", liberoFile("demo_0"))

	res, err := NewProber(m, Options{}).Probe("/d/a.hdf5", cameraSpecs())
	require.NoError(t, err)
	assert.Equal(t, "demo_0", res.Demo)
	require.Len(t, res.Arrays, 2)
	assert.Equal(t, "agentview_rgb", res.Arrays[0].Spec.Label)
	assert.Equal(t, Shape{10, 128, 128, 3}, res.Arrays[0].Shape)
	assert.Equal(t, "eye_in_hand_rgb", res.Arrays[1].Spec.Label)
	assert.Equal(t, Shape{10, 128, 128, 3}, res.Arrays[1].Shape)
	assert.Zero(t, m.OpenHandles())
}

func TestProbe_ShapeKeepsDimensionOrder(t *testing.T) {
	root := NewGroup()
	root.SetPath("data/demo_0/obs/agentview_rgb", 50, 128, 128, 3)
	m := NewMemoryOpener()
	m.Add("f.hdf5", root)

	res, err := NewProber(m, Options{}).Probe("f.hdf5", SpecsFromPaths([]string{"obs/agentview_rgb"}))
	require.NoError(t, err)
	assert.Equal(t, Shape{50, 128, 128, 3}, res.Arrays[0].Shape)
}

func TestProbe_AllArraysFromOneDemo(t *testing.T) {
	m := NewMemoryOpener()
	m.Add("f.hdf5", liberoFile("demo_1", "demo_0"))
	specs := SpecsFromPaths([]string{"actions", "obs/agentview_rgb", "obs/eye_in_hand_rgb", "obs/joint_states"})

	res, err := NewProber(m, Options{}).Probe("f.hdf5", specs)
	require.NoError(t, err)
	assert.Equal(t, "demo_1", res.Demo, "first listed key wins")
	for _, a := range res.Arrays {
		assert.Equal(t, uint64(10), a.Shape[0], "%s must come from demo_1", a.Spec.Label)
	}
}

func TestProbe_KeySelection(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"first listed", Options{}, "demo_2"},
		{"sorted", Options{SortKeys: true}, "demo_0"},
		{"explicit", Options{Demo: "demo_1"}, "demo_1"},
		{"explicit beats sorted", Options{Demo: "demo_1", SortKeys: true}, "demo_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemoryOpener()
			m.Add("f.hdf5", liberoFile("demo_2", "demo_0", "demo_1"))

			res, err := NewProber(m, tt.opts).Probe("f.hdf5", cameraSpecs())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Demo)
		})
	}
}

func TestProbe_Failures(t *testing.T) {
	tests := []struct {
		name  string
		build func() *MemoryGroup
		opts  Options
		specs []ArraySpec
		want  error
	}{
		{
			name:  "missing data group",
			build: NewGroup,
			specs: cameraSpecs(),
			want:  ErrGroupNotFound,
		},
		{
			name: "empty data group",
			build: func() *MemoryGroup {
				root := NewGroup()
				root.AddGroup("data")
				return root
			},
			specs: cameraSpecs(),
			want:  ErrNoDemos,
		},
		{
			name: "missing obs group",
			build: func() *MemoryGroup {
				root := NewGroup()
				root.SetPath("data/demo_0/actions", 10, 7)
				return root
			},
			specs: cameraSpecs(),
			want:  ErrGroupNotFound,
		},
		{
			name: "missing actions",
			build: func() *MemoryGroup {
				root := NewGroup()
				root.SetPath("data/demo_0/obs/ee_states", 10, 6)
				return root
			},
			specs: SpecsFromPaths([]string{"obs/ee_states", "actions"}),
			want:  ErrArrayNotFound,
		},
		{
			name: "array path names a group",
			build: func() *MemoryGroup {
				return liberoFile("demo_0")
			},
			specs: SpecsFromPaths([]string{"obs"}),
			want:  ErrNotArray,
		},
		{
			name: "explicit demo absent",
			build: func() *MemoryGroup {
				return liberoFile("demo_0")
			},
			opts:  Options{Demo: "demo_9"},
			specs: cameraSpecs(),
			want:  ErrDemoNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemoryOpener()
			m.Add("f.hdf5", tt.build())

			res, err := NewProber(m, tt.opts).Probe("f.hdf5", tt.specs)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, res, "no partial result")
			assert.Zero(t, m.OpenHandles(), "handle released on error")
		})
	}
}

func TestProbe_ErrorNamesKeyPath(t *testing.T) {
	root := NewGroup()
	root.SetPath("data/demo_0/obs/ee_states", 10, 6)
	m := NewMemoryOpener()
	m.Add("/d/f.hdf5", root)

	_, err := NewProber(m, Options{}).Probe("/d/f.hdf5", SpecsFromPaths([]string{"actions"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/d/f.hdf5: data/demo_0/actions")
}

func TestProbe_OpenFailure(t *testing.T) {
	m := NewMemoryOpener()
	_, err := NewProber(m, Options{}).Probe("missing.hdf5", cameraSpecs())
	require.Error(t, err)
	assert.Equal(t, []string{"missing.hdf5"}, m.Opened())
}

func TestProbe_Load(t *testing.T) {
	root := NewGroup()
	arr := root.SetPath("data/demo_0/actions", 10, 7)
	m := NewMemoryOpener()
	m.Add("f.hdf5", root)
	specs := SpecsFromPaths([]string{"actions"})

	_, err := NewProber(m, Options{}).Probe("f.hdf5", specs)
	require.NoError(t, err)
	assert.Zero(t, arr.Loads(), "shape only by default")

	_, err = NewProber(m, Options{Load: true}).Probe("f.hdf5", specs)
	require.NoError(t, err)
	assert.Equal(t, 1, arr.Loads())
}

func TestProbe_LoadFailures(t *testing.T) {
	boom := errors.New("unsupported datatype")

	root := NewGroup()
	root.SetPath("data/demo_0/actions", 10, 7).FailLoad(boom)
	m := NewMemoryOpener()
	m.Add("f.hdf5", root)
	_, err := NewProber(m, Options{Load: true}).Probe("f.hdf5", SpecsFromPaths([]string{"actions"}))
	assert.ErrorIs(t, err, boom)

	root = NewGroup()
	root.SetPath("data/demo_0/actions", 10, 7).LoadCount(69)
	m.Add("g.hdf5", root)
	_, err = NewProber(m, Options{Load: true}).Probe("g.hdf5", SpecsFromPaths([]string{"actions"}))
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.Zero(t, m.OpenHandles())
}

func TestProbe_NestedDataGroup(t *testing.T) {
	root := NewGroup()
	root.SetPath("export/data/demo_0/actions", 3, 7)
	m := NewMemoryOpener()
	m.Add("f.hdf5", root)

	res, err := NewProber(m, Options{DataGroup: "/export/data/"}).Probe("f.hdf5", SpecsFromPaths([]string{"actions"}))
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 7}, res.Arrays[0].Shape)
}
