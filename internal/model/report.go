package model

// FileOutcome is the result of processing a single source file.
type FileOutcome struct {
	File     Path
	Output   Path // derived path the rewritten content was written to
	Inserted int  // stub points inserted
	Message  string
	Missing  []MissingAnchor
	Err      error // read/write or unexpected processing error (per-file, non-fatal)
}

// Updated reports whether the file received at least one insertion.
func (o FileOutcome) Updated() bool {
	return o.Err == nil && o.Inserted > 0
}

// FileError pairs a file with the error message that failed it.
type FileError struct {
	File    Path
	Message string
}

// Stats aggregates counters for one directory-level run. Reset at the start
// of each run and updated incrementally per file.
type Stats struct {
	ScannedFiles  int
	UpdatedFiles  int
	InsertedStubs int
	FailedFiles   int

	Missing []MissingAnchor
	Errors  []FileError

	BackupDir  Path
	StubbedDir Path
}
