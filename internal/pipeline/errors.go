package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyQuery          = errors.New("query must not be empty")
	ErrInvalidQuestionType = errors.New("invalid question type, use 'mcq' or 'open-ended'")
	ErrRetrievalFailed     = errors.New("passage retrieval failed")
	ErrRerankFailed        = errors.New("passage reranking failed")
	ErrInvalidScore        = errors.New("relevance score is not a number")
	ErrGenerationFailed    = errors.New("question generation failed")
	ErrGenerationTimeout   = errors.New("question generation timed out")
)

// ChunkFailure records why the chunk at Index produced no question.
type ChunkFailure struct {
	Index int
	Err   error
}

// SynthesisError reports every chunk whose generation failed. It unwraps to
// each underlying cause so errors.Is matches any of them.
type SynthesisError struct {
	Attempted int
	Failures  []ChunkFailure
}

func (e *SynthesisError) Error() string {
	if len(e.Failures) == 0 {
		return "question synthesis failed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "question synthesis failed for %d of %d chunks", len(e.Failures), e.Attempted)
	for _, failure := range e.Failures {
		fmt.Fprintf(&b, "; chunk %d: %v", failure.Index, failure.Err)
	}
	return b.String()
}

func (e *SynthesisError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, failure := range e.Failures {
		errs[i] = failure.Err
	}
	return errs
}
