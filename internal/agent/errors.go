// internal/agent/errors.go
package agent

import "fmt"

// MalformedResponseError means the model's raw text contained no
// locatable JSON object, or the located span failed to parse. Excerpt
// carries the start of the original text for diagnostics.
type MalformedResponseError struct {
	Excerpt string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("no JSON found in model response: %s", e.Excerpt)
}

// VisionAnalysisError means the vision-stage call itself failed. The
// text stage is never attempted after this.
type VisionAnalysisError struct {
	Err error
}

func (e *VisionAnalysisError) Error() string {
	return fmt.Sprintf("vision analysis failed: %v", e.Err)
}

func (e *VisionAnalysisError) Unwrap() error {
	return e.Err
}
