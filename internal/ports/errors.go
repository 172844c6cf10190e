package ports

import "fmt"

// Error kinds separate the recoverable per-slot failures (extraction,
// synthesis) from the per-video fatal ones (encoding). Callers branch with
// errors.As rather than string matching.

// ProbeError means a media file's duration could not be read. Callers that
// only need an estimate may treat it as zero.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string { return fmt.Sprintf("probe %s: %v", e.Path, e.Err) }
func (e *ProbeError) Unwrap() error { return e.Err }

// ExtractionError means a reference window could not be extracted. The slot
// proceeds with an empty reference.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extract %s: %v", e.Path, e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// SynthesisError means the TTS service failed or returned nothing usable.
// The slot falls back to exact-duration silence.
type SynthesisError struct {
	Reason string
	Err    error
}

func (e *SynthesisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synthesis: %s: %v", e.Reason, e.Err)
	}
	return "synthesis: " + e.Reason
}
func (e *SynthesisError) Unwrap() error { return e.Err }

// EncodeError means a tempo change, concatenation or mux failed. Substituting
// silence here would silently corrupt run-wide timing, so it is fatal for the
// current video.
type EncodeError struct {
	Op  string
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode (%s): %v", e.Op, e.Err) }
func (e *EncodeError) Unwrap() error { return e.Err }
