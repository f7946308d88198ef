package pipeline

// RunStats tracks aggregate counters across one probe pass.
type RunStats struct {
	FoldersScanned int
	FoldersProbed  int
	FoldersSkipped int // Folders with no file matching the pattern.
	FilesMatched   int
	ArraysReported int
}

// Empty reports whether the pass printed nothing.
func (s *RunStats) Empty() bool {
	return s.ArraysReported == 0
}
