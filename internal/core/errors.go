package core

import (
	"errors"
	"fmt"
)

// EmptyTextMessage is shown to users when no text was submitted
const EmptyTextMessage = "Please enter some text"

var (
	// ErrInvalidInput is returned when the text to classify is empty
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSelector is returned for an unknown model selector
	ErrInvalidSelector = errors.New("invalid model selection")
	// ErrRemoteCall matches every *RemoteCallError
	ErrRemoteCall = errors.New("remote classifier call failed")
	// ErrInvalidBatchFormat is returned when a batch cannot be parsed or has malformed labels
	ErrInvalidBatchFormat = errors.New("invalid CSV batch")
	// ErrEmptyBatch is returned when no usable rows remain after dropping incomplete ones
	ErrEmptyBatch = errors.New("batch contains no usable rows")
	// ErrProbabilityOutOfRange is wrapped in a RemoteCallError when a classifier returns a value outside [0,1]
	ErrProbabilityOutOfRange = errors.New("probability out of range [0,1]")
)

// RemoteCallError reports a failure reaching or parsing the response of one remote classifier
type RemoteCallError struct {
	Model Model
	Err   error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s classifier: %v", e.Model, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRemoteCall) hold for any RemoteCallError
func (e *RemoteCallError) Is(target error) bool {
	return target == ErrRemoteCall
}

// ErrEmptyText is the ErrInvalidInput variant carrying the user-facing message
var ErrEmptyText = fmt.Errorf("%w: %s", ErrInvalidInput, EmptyTextMessage)

// ErrMissingColumns is the ErrInvalidBatchFormat variant for a header without "sms" or "label"
var ErrMissingColumns = fmt.Errorf(`%w: CSV must contain "sms" and "label" columns`, ErrInvalidBatchFormat)
