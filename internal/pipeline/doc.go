// Package pipeline discovers dataset files, probes the first match in each
// folder, and writes one shape line per requested array.
//
// Types:
//   - Runner (Prober, Out, Log): runs one probe pass for a Config
//   - RunStats (FoldersScanned, FoldersProbed, FoldersSkipped,
//     FilesMatched, ArraysReported)
//
// Functions:
//   - Discover(dir, pattern) → []string
//     Glob dir/pattern; an empty match is not an error.
//   - Folders(root) → []string
//     Glob root/* and keep directories, in glob order.
//
// Files: runner.go, discover.go, stats.go.
package pipeline
