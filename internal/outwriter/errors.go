package outwriter

import "errors"

var ErrUnsupportedFormat = errors.New("unsupported output format")
