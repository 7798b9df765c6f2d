package agent

import (
	"context"
	"fmt"
)

const correctiveTemplate = "Previous output was invalid JSON.\n%v\nReturn ONLY valid JSON."

// Validator optionally checks the extracted object's shape. A non-nil error
// is treated exactly like a parse failure: the runner re-prompts with the
// error text as corrective feedback.
type Validator func(data map[string]interface{}) error

// Runner wraps a Caller with a bounded retry loop. Retries are driven by
// content correction, not transient-fault timing, so there is no backoff:
// failures here are almost always malformed output, while network failures
// propagate immediately as provider errors.
type Runner struct {
	caller      *Caller
	maxAttempts int
}

func NewRunner(caller *Caller, maxAttempts int) *Runner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Runner{caller: caller, maxAttempts: maxAttempts}
}

// Run calls the agent until extraction (and validation, when given) succeeds.
// On each failure the next user prompt becomes a corrective instruction
// embedding the error. Exhausting the budget returns ErrPipelineExhausted
// carrying the last validation error.
func (r *Runner) Run(ctx context.Context, systemPrompt, userPrompt string, validate Validator) (map[string]interface{}, error) {
	var lastErr error
	prompt := userPrompt

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		content, err := r.caller.Call(ctx, systemPrompt, prompt)
		if err != nil {
			// Provider errors abort the loop: re-prompting cannot fix the network.
			return nil, err
		}

		data, err := ExtractJSONObject(content)
		if err == nil && validate != nil {
			if verr := validate(data); verr != nil {
				err = fmt.Errorf("%w: %v", ErrSchemaValidation, verr)
			}
		}
		if err == nil {
			return data, nil
		}

		lastErr = err
		prompt = fmt.Sprintf(correctiveTemplate, err)
	}

	return nil, &ExhaustedError{Attempts: r.maxAttempts, Last: lastErr}
}
