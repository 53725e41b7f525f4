package shared

// Process exit codes.
const (
	ExitOK                = 0
	ExitError             = 1
	ExitEvalFailed        = 2
	ExitPipelineUndefined = 3
	ExitPipelineFailed    = 4
)
