package pinhole

import "errors"

var (
	// ErrInvalidArgument is returned for non-positive measurements, unknown
	// axes and invalid construction parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrKeyNotFound is returned by DistortionTable.Lookup when neither the
	// exact nor the rounded key is present.
	ErrKeyNotFound = errors.New("distortion key not found")
)
