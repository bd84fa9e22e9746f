package front_end

import "github.com/pkg/errors"

var ErrUnsupportedURL = errors.New("unsupported video url")
