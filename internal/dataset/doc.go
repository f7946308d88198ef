// Package dataset opens demonstration files read-only and reports the shapes
// of named arrays inside them.
//
// A file is a tree of groups and arrays. The layout probed here is the
// LIBERO one:
//
//	data/
//	  demo_0/
//	    actions
//	    obs/
//	      agentview_rgb
//	      eye_in_hand_rgb
//	      ...
//	  demo_1/
//	    ...
//
// [Prober] picks one demonstration key per file and resolves every requested
// array path under it, so all shapes in a [Result] come from the same
// demonstration. The tree is reached through the [Opener] interface;
// [HDF5Opener] backs it with github.com/scigolib/hdf5 and [MemoryOpener]
// holds an in-memory tree for tests.
package dataset
