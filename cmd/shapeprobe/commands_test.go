package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuiluyi/rlds-dataset-builder/internal/dataset"
)

// fixture lays out root/<suite>/<suite>_demo.hdf5 for each suite and serves
// an in-memory tree for every file.
func fixture(t *testing.T, suites ...string) (string, *dataset.MemoryOpener) {
	t.Helper()
	t.Chdir(t.TempDir())
	root := t.TempDir()
	m := dataset.NewMemoryOpener()
	for _, s := range suites {
		dir := filepath.Join(root, s)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		p := filepath.Join(dir, s+"_demo.hdf5")
		require.NoError(t, os.WriteFile(p, nil, 0o644))

		tree := dataset.NewGroup()
		demo := tree.AddGroup("data").AddGroup("demo_0")
		demo.AddArray("actions", 10, 7)
		obs := demo.AddGroup("obs")
		obs.AddArray("agentview_rgb", 10, 128, 128, 3)
		obs.AddArray("eye_in_hand_rgb", 10, 128, 128, 3)
		obs.AddArray("ee_states", 10, 6)
		obs.AddArray("gripper_states", 10, 2)
		obs.AddArray("joint_states", 10, 7)
		m.Add(p, tree)
	}
	return root, m
}

func execute(t *testing.T, m dataset.Opener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, m)
	cmd.SetArgs(append(args, "--color", "never"))
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCameras_PositionalFolder(t *testing.T) {
	root, m := fixture(t, "libero_spatial")

	out, err := execute(t, m, "cameras", filepath.Join(root, "libero_spatial"))
	require.NoError(t, err)
	assert.Equal(t,
		"agentview_rgb shape: (10, 128, 128, 3)\neye_in_hand_rgb shape: (10, 128, 128, 3)\n",
		out)
}

func TestAgentview_RootFlag(t *testing.T) {
	root, m := fixture(t, "libero_10", "libero_goal")

	out, err := execute(t, m, "agentview", "--root", root)
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(root, "libero_10")+" agentview_rgb shape: (10, 128, 128, 3)\n"+
			filepath.Join(root, "libero_goal")+" agentview_rgb shape: (10, 128, 128, 3)\n",
		out)
}

func TestStates_RootFromEnv(t *testing.T) {
	root, m := fixture(t, "libero_object")
	t.Setenv("SHAPEPROBE_ROOT", root)

	out, err := execute(t, m, "states")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "libero_object")+"\n"+
		"actions shape: (10, 7)\n"+
		"ee_states shape: (10, 6)\n"+
		"gripper_states shape: (10, 2)\n"+
		"joint_states shape: (10, 7)\n",
		out)
}

func TestProbe_ArraysFlag(t *testing.T) {
	root, m := fixture(t, "libero_90")

	out, err := execute(t, m, "probe", "--arrays", "actions,obs/joint_states", filepath.Join(root, "libero_90"))
	require.NoError(t, err)
	assert.Equal(t, "actions shape: (10, 7)\njoint_states shape: (10, 7)\n", out)
}

func TestProbe_NoArraysIsConfigError(t *testing.T) {
	_, m := fixture(t)

	_, err := execute(t, m, "probe")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errReported, "surfaced to main, not logged")
}

func TestProbe_MissingArrayIsReported(t *testing.T) {
	root, m := fixture(t, "libero_spatial")

	out, err := execute(t, m, "probe", "--arrays", "obs/depth", filepath.Join(root, "libero_spatial"))
	assert.ErrorIs(t, err, errReported)
	assert.Empty(t, out)
}

func TestCameras_EmptyFolderSucceeds(t *testing.T) {
	_, m := fixture(t)

	out, err := execute(t, m, "cameras", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCheck(t *testing.T) {
	root, m := fixture(t, "libero_10")

	out, err := execute(t, m, "check", root)
	require.NoError(t, err)
	assert.Contains(t, out, "|_|", "banner")

	_, err = execute(t, m, "check", filepath.Join(root, "absent"))
	assert.ErrorIs(t, err, errReported)
}
