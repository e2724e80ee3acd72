package listen

import "errors"

var (
	ErrNotFoundDevice          = errors.New("capture device not found")
	ErrAlreadyActive           = errors.New("listener already active")
	ErrNotEnoughDataToParseWav = errors.New("not enough data to parse wav header")
	ErrInvalidWav              = errors.New("invalid wav data")
	ErrFileIsNotPCM            = errors.New("wav data is not pcm")
)
