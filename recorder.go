package cellhasher

import "context"

// RunRecorder receives the final per-device outcomes of a fleet run for
// optional persistence. It is called once per run, after every device has
// reported.
type RunRecorder interface {
	RecordRun(ctx context.Context, artifact string, outcomes []Outcome) error
}

// NopRecorder discards run history.
type NopRecorder struct{}

func (NopRecorder) RecordRun(ctx context.Context, artifact string, outcomes []Outcome) error {
	return nil
}
