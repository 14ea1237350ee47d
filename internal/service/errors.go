package service

// PipelineError wraps a failure from any pipeline stage together with
// the last prompt built and the last raw model text, so the failure
// reporter can show what was actually sent and received instead of an
// opaque error. Empty fields mean the failure happened before that
// stage ran.
type PipelineError struct {
	Err         error
	Prompt      string
	RawResponse string
}

func (e *PipelineError) Error() string {
	return e.Err.Error()
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
