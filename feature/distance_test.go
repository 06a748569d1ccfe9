package feature

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func siftFeature(start int) *Feature {
	f := New()
	f.Descriptors.SIFT = make([]byte, 128)
	for i := range f.Descriptors.SIFT {
		f.Descriptors.SIFT[i] = byte(start + i)
	}
	return f
}

func TestSIFTDistanceConcrete(t *testing.T) {
	a := siftFeature(0) // [0,1,...,127]
	b := siftFeature(1) // [1,2,...,128]

	d, err := a.SIFTDistance(b, false)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(128), d, 1e-12)

	// RMS normalization divides by sqrt(len).
	dn, err := a.SIFTDistance(b, true)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, dn, 1e-12)
}

func TestDescriptorSelfDistanceIsZero(t *testing.T) {
	f := New()
	f.Descriptors.SIFT = []byte{10, 20, 30, 40}
	f.Descriptors.SURF = []float64{0.5, -1.5, 2.25}
	f.Descriptors.SpinImg = []float64{1, 2, 3, 4, 5, 6}
	f.Descriptors.SpinImgRangeRows = 2
	f.Descriptors.PolarImg = mat.NewDense(2, 4, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	f.Descriptors.LogPolarImg = mat.NewDense(3, 3, []float64{9, 8, 7, 6, 5, 4, 3, 2, 1})

	for _, kind := range []DescriptorKind{KindSIFT, KindSURF, KindSpinImg, KindPolarImg, KindLogPolarImg} {
		d, err := f.DescriptorDistance(f, kind, true)
		require.NoError(t, err, "kind %s", kind)
		assert.Equal(t, 0.0, d, "kind %s", kind)
	}
}

func TestLinearDistancesAreSymmetric(t *testing.T) {
	a, b := New(), New()
	a.Descriptors.SURF = []float64{1, 2, 3, 4}
	b.Descriptors.SURF = []float64{-2, 0, 7, 1.5}
	a.Descriptors.SpinImg = []float64{0.1, 0.9, 0.4}
	b.Descriptors.SpinImg = []float64{0.6, 0.2, 0.8}

	dab, err := a.SURFDistance(b, true)
	require.NoError(t, err)
	dba, err := b.SURFDistance(a, true)
	require.NoError(t, err)
	assert.Equal(t, dab, dba)

	sab, err := a.SpinImgDistance(b, false)
	require.NoError(t, err)
	sba, err := b.SpinImgDistance(a, false)
	require.NoError(t, err)
	assert.Equal(t, sab, sba)
}

func TestDescriptorDistanceAnyUsesPriorityOrder(t *testing.T) {
	// Both features carry SIFT and SURF; KindAny must pick SIFT.
	a, b := New(), New()
	a.Descriptors.SIFT = []byte{0, 0}
	b.Descriptors.SIFT = []byte{3, 4} // distance 5
	a.Descriptors.SURF = []float64{0}
	b.Descriptors.SURF = []float64{100} // distance 100

	d, err := a.DescriptorDistance(b, KindAny, false)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)
}

func TestDescriptorDistanceMissingKind(t *testing.T) {
	a, b := New(), New()
	a.Descriptors.SIFT = []byte{1, 2, 3}

	_, err := a.DescriptorDistance(b, KindSIFT, true)
	assert.ErrorIs(t, err, ErrMissingDescriptor)

	// KindAny with no descriptors at all on the left side.
	_, err = b.DescriptorDistance(a, KindAny, true)
	assert.ErrorIs(t, err, ErrMissingDescriptor)

	// KindAny picks SIFT from a, which b lacks.
	_, err = a.DescriptorDistance(b, KindAny, true)
	assert.ErrorIs(t, err, ErrMissingDescriptor)
}

func TestVectorDistanceSizeMismatch(t *testing.T) {
	a, b := New(), New()
	a.Descriptors.SURF = []float64{1, 2, 3}
	b.Descriptors.SURF = []float64{1, 2}
	_, err := a.SURFDistance(b, true)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	a.Descriptors.SIFT = []byte{1}
	_, err = a.SIFTDistance(b, true)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func patchOf(t *testing.T, size int, pix []float64) *Patch {
	t.Helper()
	p, err := NewPatch(size, pix)
	require.NoError(t, err)
	return p
}

func TestPatchCorrelation(t *testing.T) {
	a, b := New(), New()
	pix := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	a.Patch = patchOf(t, 3, pix)
	b.Patch = patchOf(t, 3, append([]float64(nil), pix...))

	// Identical patches correlate perfectly: score 0.
	d, err := a.PatchCorrelation(b)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d, 1e-12)

	// Inverted patch anti-correlates: score 1.
	inv := make([]float64, len(pix))
	for i, v := range pix {
		inv[i] = 10 - v
	}
	b.Patch = patchOf(t, 3, inv)
	d, err = a.PatchCorrelation(b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-12)

	// Flat patches carry no structure: uninformative 0.5.
	b.Patch = patchOf(t, 3, make([]float64, 9))
	d, err = a.PatchCorrelation(b)
	require.NoError(t, err)
	assert.Equal(t, 0.5, d)
}

func TestPatchCorrelationBounds(t *testing.T) {
	a, b := New(), New()
	a.Patch = patchOf(t, 3, []float64{4, 1, 7, 2, 9, 3, 5, 8, 6})
	b.Patch = patchOf(t, 3, []float64{2, 6, 1, 9, 4, 7, 3, 5, 8})

	d, err := a.PatchCorrelation(b)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d, 0.0)
	assert.LessOrEqual(t, d, 1.0)
}

func TestPatchCorrelationErrors(t *testing.T) {
	a, b := New(), New()

	_, err := a.PatchCorrelation(b)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	a.Patch = patchOf(t, 3, make([]float64, 9))
	b.Patch = patchOf(t, 5, make([]float64, 25))
	_, err = a.PatchCorrelation(b)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

// shiftColumns returns m with its columns cyclically shifted left by s.
func shiftColumns(m *mat.Dense, s int) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for col := 0; col < c; col++ {
		for row := 0; row < r; row++ {
			out.Set(row, col, m.At(row, (col+s)%c))
		}
	}
	return out
}

func TestPolarRotationSearchFindsShiftedIdentity(t *testing.T) {
	a, b := New(), New()
	ident := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	a.Descriptors.PolarImg = ident
	b.Descriptors.PolarImg = shiftColumns(ident, 1)

	d, angle, err := a.PolarImgDistance(b, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d, 1e-12)
	assert.Greater(t, angle, 0.0)

	// The zero-shift alignment of the same pair is strictly positive.
	a.Descriptors.PolarNoRotation = true
	dz, anglez, err := a.PolarImgDistance(b, false)
	require.NoError(t, err)
	assert.Greater(t, dz, 0.0)
	assert.Equal(t, 0.0, anglez)
}

func TestRotationSearchNeverExceedsZeroShift(t *testing.T) {
	mk := func(vals []float64) (*Feature, *Feature) {
		a, b := New(), New()
		a.Descriptors.LogPolarImg = mat.NewDense(2, 4, vals)
		b.Descriptors.LogPolarImg = mat.NewDense(2, 4, []float64{3, 1, 4, 1, 5, 9, 2, 6})
		return a, b
	}

	a, b := mk([]float64{2, 7, 1, 8, 2, 8, 1, 8})
	dSearch, _, err := a.LogPolarImgDistance(b, true)
	require.NoError(t, err)

	a2, b2 := mk([]float64{2, 7, 1, 8, 2, 8, 1, 8})
	a2.Descriptors.PolarNoRotation = true
	dZero, _, err := a2.LogPolarImgDistance(b2, true)
	require.NoError(t, err)

	assert.LessOrEqual(t, dSearch, dZero)
}

func TestPolarNoRotationHonouredFromEitherSide(t *testing.T) {
	ident := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	a, b := New(), New()
	a.Descriptors.PolarImg = ident
	b.Descriptors.PolarImg = shiftColumns(ident, 1)
	b.Descriptors.PolarNoRotation = true

	d, _, err := a.PolarImgDistance(b, false)
	require.NoError(t, err)
	assert.Greater(t, d, 0.0)
}

func TestPolarDistanceShapeMismatch(t *testing.T) {
	a, b := New(), New()
	a.Descriptors.PolarImg = mat.NewDense(2, 3, nil)
	b.Descriptors.PolarImg = mat.NewDense(3, 2, nil)

	_, _, err := a.PolarImgDistance(b, true)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, _, err = a.LogPolarImgDistance(b, true)
	assert.ErrorIs(t, err, ErrMissingDescriptor)
	assert.True(t, errors.Is(err, ErrMissingDescriptor))
}
