package imaging

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEncode            = errors.New("image encode failed")
	ErrDecode            = errors.New("image decode failed")
)
