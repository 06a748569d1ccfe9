package feature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// The distance metrics are pure: they read both features and touch nothing
// else, so any number of goroutines may run them concurrently.
//
// When normalize is true, Euclidean distances are scaled by 1/sqrt(N) where N
// is the descriptor element count, giving the RMS per-element distance. This
// keeps distances comparable across descriptor kinds of different lengths.

// correlationEps guards the NCC denominator against zero-variance patches.
const correlationEps = 1e-12

// PatchCorrelation computes the normalised cross-correlation between the
// patches of f and o, mapped to [0,1] where 0 is a perfect match and 1 the
// worst. It returns ErrSizeMismatch when either patch is absent or the two
// patches differ in size. Zero-variance patches carry no structure to
// correlate and compare as 0.5.
func (f *Feature) PatchCorrelation(o *Feature) (float64, error) {
	if !f.HasPatch() || !o.HasPatch() {
		return 0, fmt.Errorf("patch correlation: patch absent: %w", ErrSizeMismatch)
	}
	if f.Patch.Size != o.Patch.Size {
		return 0, fmt.Errorf("patch correlation: sides %d vs %d: %w", f.Patch.Size, o.Patch.Size, ErrSizeMismatch)
	}

	a, b := f.Patch.Pix, o.Patch.Pix
	n := float64(len(a))
	meanA := floats.Sum(a) / n
	meanB := floats.Sum(b) / n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	denom := math.Sqrt(varA * varB)
	if denom < correlationEps {
		return 0.5, nil
	}
	ncc := cov / denom

	// Map [-1,1] correlation onto [0,1] distance-like score, 0 = best.
	score := 0.5 * (1 - ncc)
	return math.Min(1, math.Max(0, score)), nil
}

// DescriptorDistance computes the Euclidean distance between the selected
// descriptor kind of f and o. With KindAny the first descriptor present on f
// (SIFT, SURF, SpinImg, PolarImg, LogPolarImg, in that order) is used,
// provided o carries the same kind. Polar and log-polar kinds run the
// rotation search (see PolarImgDistance); use those methods directly when the
// best-alignment angle is needed.
func (f *Feature) DescriptorDistance(o *Feature, kind DescriptorKind, normalize bool) (float64, error) {
	if kind == KindAny {
		first, ok := f.Descriptors.FirstKind()
		if !ok {
			return 0, fmt.Errorf("feature %d has no descriptors: %w", f.ID, ErrMissingDescriptor)
		}
		kind = first
	}
	if !o.Descriptors.Has(kind) {
		return 0, fmt.Errorf("feature %d lacks %s: %w", o.ID, kind, ErrMissingDescriptor)
	}
	if !f.Descriptors.Has(kind) {
		return 0, fmt.Errorf("feature %d lacks %s: %w", f.ID, kind, ErrMissingDescriptor)
	}

	switch kind {
	case KindSIFT:
		return f.SIFTDistance(o, normalize)
	case KindSURF:
		return f.SURFDistance(o, normalize)
	case KindSpinImg:
		return f.SpinImgDistance(o, normalize)
	case KindPolarImg:
		d, _, err := f.PolarImgDistance(o, normalize)
		return d, err
	default:
		d, _, err := f.LogPolarImgDistance(o, normalize)
		return d, err
	}
}

// SIFTDistance is the Euclidean distance between the SIFT descriptors.
func (f *Feature) SIFTDistance(o *Feature, normalize bool) (float64, error) {
	a, b := f.Descriptors.SIFT, o.Descriptors.SIFT
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("sift lengths %d vs %d: %w", len(a), len(b), ErrSizeMismatch)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	dist := math.Sqrt(sum)
	if normalize {
		dist /= math.Sqrt(float64(len(a)))
	}
	return dist, nil
}

// SURFDistance is the Euclidean distance between the SURF descriptors.
func (f *Feature) SURFDistance(o *Feature, normalize bool) (float64, error) {
	d, err := vectorDistance(f.Descriptors.SURF, o.Descriptors.SURF, normalize)
	if err != nil {
		return 0, fmt.Errorf("surf: %w", err)
	}
	return d, nil
}

// SpinImgDistance is the Euclidean distance between the flattened spin image
// descriptors.
func (f *Feature) SpinImgDistance(o *Feature, normalize bool) (float64, error) {
	d, err := vectorDistance(f.Descriptors.SpinImg, o.Descriptors.SpinImg, normalize)
	if err != nil {
		return 0, fmt.Errorf("spin image: %w", err)
	}
	return d, nil
}

// PolarImgDistance returns the minimum Euclidean distance between the polar
// image descriptors over all cyclic angular shifts, together with the shift
// angle (radians) that achieves it. When either feature sets PolarNoRotation,
// only the zero-shift alignment is evaluated and the angle is 0.
func (f *Feature) PolarImgDistance(o *Feature, normalize bool) (dist, angle float64, err error) {
	if !f.Descriptors.HasPolarImg() || !o.Descriptors.HasPolarImg() {
		return 0, 0, fmt.Errorf("polar image: %w", ErrMissingDescriptor)
	}
	skip := f.Descriptors.PolarNoRotation || o.Descriptors.PolarNoRotation
	dist, angle, err = polarDistance(f.Descriptors.PolarImg, o.Descriptors.PolarImg, skip, normalize)
	if err != nil {
		return 0, 0, fmt.Errorf("polar image: %w", err)
	}
	return dist, angle, nil
}

// LogPolarImgDistance is PolarImgDistance over the log-polar descriptors.
func (f *Feature) LogPolarImgDistance(o *Feature, normalize bool) (dist, angle float64, err error) {
	if !f.Descriptors.HasLogPolarImg() || !o.Descriptors.HasLogPolarImg() {
		return 0, 0, fmt.Errorf("log-polar image: %w", ErrMissingDescriptor)
	}
	skip := f.Descriptors.PolarNoRotation || o.Descriptors.PolarNoRotation
	dist, angle, err = polarDistance(f.Descriptors.LogPolarImg, o.Descriptors.LogPolarImg, skip, normalize)
	if err != nil {
		return 0, 0, fmt.Errorf("log-polar image: %w", err)
	}
	return dist, angle, nil
}

// vectorDistance is the Euclidean distance between equal-length vectors.
func vectorDistance(a, b []float64, normalize bool) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("lengths %d vs %d: %w", len(a), len(b), ErrSizeMismatch)
	}
	dist := floats.Distance(a, b, 2)
	if normalize {
		dist /= math.Sqrt(float64(len(a)))
	}
	return dist, nil
}

// polarDistance evaluates the Frobenius distance between two polar descriptor
// matrices at every cyclic column shift and keeps the minimum. Columns are
// angular bins, so shifting by s models a relative orientation offset of
// 2*pi*s/cols. With skipRotation only the zero shift is evaluated.
//
// Cost is one full-matrix distance per candidate shift: O(cols*rows*cols).
func polarDistance(a, b *mat.Dense, skipRotation, normalize bool) (float64, float64, error) {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra == 0 || ca == 0 || ra != rb || ca != cb {
		return 0, 0, fmt.Errorf("shapes %dx%d vs %dx%d: %w", ra, ca, rb, cb, ErrSizeMismatch)
	}

	shifts := ca
	if skipRotation {
		shifts = 1
	}

	best := math.Inf(1)
	bestShift := 0
	for s := 0; s < shifts; s++ {
		var sum float64
		for c := 0; c < ca; c++ {
			cShifted := (c + s) % ca
			for r := 0; r < ra; r++ {
				d := a.At(r, c) - b.At(r, cShifted)
				sum += d * d
			}
		}
		if sum < best {
			best = sum
			bestShift = s
		}
	}

	dist := math.Sqrt(best)
	if normalize {
		dist /= math.Sqrt(float64(ra * ca))
	}
	angle := 2 * math.Pi * float64(bestShift) / float64(ca)
	return dist, angle, nil
}
