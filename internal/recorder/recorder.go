package recorder

import "time"

// FetchRun summarizes one download run.
type FetchRun struct {
	RunID     string
	Started   time.Time
	Finished  time.Time
	Requested int
	Fetched   int
	Cached    int
	Failed    int
}

// FetchFailure records one symbol that exhausted its retries.
type FetchFailure struct {
	RunID    string
	Symbol   string
	Attempts int
	Reason   string
}

// AssemblyRun summarizes one combined-table build.
type AssemblyRun struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Loaded   int
	Skipped  int
	Dropped  int
	Symbols  int
	Rows     int
	Output   string
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordFetchRun(run *FetchRun) error
	RecordFetchFailure(f *FetchFailure) error
	RecordAssemblyRun(run *AssemblyRun) error
	Close() error
}
