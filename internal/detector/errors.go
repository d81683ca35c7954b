package detector

import "fmt"

// ModelLoadError is fatal for the session
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load pose model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// EstimationError is a failed single-frame estimate; callers skip the frame
type EstimationError struct {
	Err error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("pose estimation failed: %v", e.Err)
}

func (e *EstimationError) Unwrap() error {
	return e.Err
}
