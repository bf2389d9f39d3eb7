package lidar

import "errors"

// ErrEmptyInput is returned when a pipeline is invoked with no points.
var ErrEmptyInput = errors.New("lidar: empty point set")

// ErrBadParams is returned (wrapped) when clustering parameters are malformed.
var ErrBadParams = errors.New("lidar: invalid parameters")
