// Package agent provides the building blocks for one LLM round-trip with a
// fixed role: the caller, the structured-output extractor and the
// retry-until-valid runner.
package agent

import (
	"errors"
	"fmt"
)

// ErrMalformedOutput marks model output that contained no parseable JSON
// object. Retried locally with corrective feedback.
var ErrMalformedOutput = errors.New("agent: malformed model output")

// ErrSchemaValidation marks parsed output that did not match the expected
// shape. Treated exactly like a parse failure for retry purposes.
var ErrSchemaValidation = errors.New("agent: output failed schema validation")

// ErrPipelineExhausted marks a retry budget that ran out. Fatal for the
// request.
var ErrPipelineExhausted = errors.New("agent: retry budget exhausted")

// ExhaustedError carries the last underlying validation error for
// diagnostics.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("agent output invalid after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrPipelineExhausted
}
