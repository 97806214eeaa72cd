// Package pinhole converts between real-world object size, object distance
// and pixel measurements seen through a single-axis pinhole camera.
//
// Key types: Sensor, Lens, DistortionTable, Package.
//
// A Package pairs one Lens with one Sensor. DistanceToObject and
// ObjectDimensionAtDistance are structural inverses of each other; when the
// caller supplies the pixel centre of the measured feature and the lens
// carries a DistortionTable, both results are scaled by (1 + f) where f is
// the multiplier looked up for the feature's normalised offset from the
// optical centre.
//
// Every value in this package is immutable after construction and safe for
// concurrent use without locking. Nothing here performs I/O or logs.
package pinhole
