// Package feature provides the data model for visual features extracted from
// images (corner and blob detections such as Harris, SIFT, SURF, FAST, KLT),
// the descriptor-distance and patch-similarity metrics used to compare them,
// and an ordered feature collection with nearest-neighbour spatial queries.
//
// The package does not detect features or compute descriptor values from raw
// images; extractors populate Feature values, trackers mutate position and
// track status in place, and matchers consume the distance metrics and the
// nearest-neighbour queries to establish correspondences.
//
// Collections are not internally synchronised. The intended discipline is
// single writer, multiple readers, serialised by the caller. The distance
// metrics are pure and safe to call from any number of goroutines.
package feature
