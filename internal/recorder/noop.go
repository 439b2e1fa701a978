package recorder

// NoopRecorder is a no-op implementation used when the ledger is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordFetchRun(_ *FetchRun) error         { return nil }
func (n *NoopRecorder) RecordFetchFailure(_ *FetchFailure) error { return nil }
func (n *NoopRecorder) RecordAssemblyRun(_ *AssemblyRun) error   { return nil }
func (n *NoopRecorder) Close() error                             { return nil }
