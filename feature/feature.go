package feature

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FeatureID uniquely identifies a feature. IDs are assigned monotonically by
// the extractor that creates the feature and are immutable after creation.
type FeatureID uint64

// Type identifies the detector that produced a feature. It is independent of
// which descriptors the feature carries.
type Type int

const (
	TypeNotDefined Type = iota - 1 // no detector recorded
	TypeKLT                        // Kanade-Lucas-Tomasi corner
	TypeHarris                     // Harris corner
	TypeBCD                        // binary corner detector
	TypeSIFT                       // scale-invariant feature transform blob
	TypeSURF                       // speeded-up robust feature blob
	TypeBeacon                     // 2D/3D beacon, not an image feature
	TypeFAST                       // FAST corner
)

// String returns a short lowercase name for the type.
func (t Type) String() string {
	switch t {
	case TypeKLT:
		return "klt"
	case TypeHarris:
		return "harris"
	case TypeBCD:
		return "bcd"
	case TypeSIFT:
		return "sift"
	case TypeSURF:
		return "surf"
	case TypeBeacon:
		return "beacon"
	case TypeFAST:
		return "fast"
	default:
		return "undefined"
	}
}

// TrackStatus is the outcome of a feature's most recent tracking attempt.
//
// Historically some tracker-specific codes were duplicated under separate
// names with identical values (generic "out of bounds" vs the KLT one, and
// likewise "tracked"). They are the same logical state and are represented
// here by a single constant each. The numeric values are preserved for text
// round trips with older tooling.
type TrackStatus int

const (
	StatusIdle             TrackStatus = 0  // detected, not yet tracked
	StatusOutOfBounds      TrackStatus = 1  // feature left the image bounds
	StatusSmallDeterminant TrackStatus = 2  // tracker matrix determinant too small
	StatusLargeResidue     TrackStatus = 3  // residue over the acceptance bound
	StatusMaxResidue       TrackStatus = 4  // residue at the hard maximum
	StatusTracked          TrackStatus = 5  // tracked successfully
	StatusMaxIterations    TrackStatus = 6  // tracker iteration limit reached
	StatusLost             TrackStatus = 10 // unable to track
)

// String returns a short lowercase name for the status.
func (s TrackStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusOutOfBounds:
		return "out_of_bounds"
	case StatusSmallDeterminant:
		return "small_determinant"
	case StatusLargeResidue:
		return "large_residue"
	case StatusMaxResidue:
		return "max_residue"
	case StatusTracked:
		return "tracked"
	case StatusMaxIterations:
		return "max_iterations"
	case StatusLost:
		return "lost"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether the status ends the current tracking attempt.
// Idle and Tracked may transition further; every failure state is terminal.
func (s TrackStatus) Terminal() bool {
	return s != StatusIdle && s != StatusTracked
}

// DescriptorKind selects a descriptor for distance computations.
type DescriptorKind int

const (
	// KindAny selects the first descriptor present on the left-hand feature,
	// checked in the order SIFT, SURF, SpinImg, PolarImg, LogPolarImg.
	KindAny DescriptorKind = iota
	KindSIFT
	KindSURF
	KindSpinImg
	KindPolarImg
	KindLogPolarImg
)

// String returns a short lowercase name for the kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindSIFT:
		return "sift"
	case KindSURF:
		return "surf"
	case KindSpinImg:
		return "spin_img"
	case KindPolarImg:
		return "polar_img"
	case KindLogPolarImg:
		return "log_polar_img"
	default:
		return "any"
	}
}

// Patch is a square grayscale image region centred on a feature. Pix holds
// Size*Size intensities in row-major order. Size is always odd.
type Patch struct {
	Size int
	Pix  []float64
}

// NewPatch builds a patch from row-major intensities. size must be a positive
// odd number and pix must hold exactly size*size values.
func NewPatch(size int, pix []float64) (*Patch, error) {
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("patch side %d: %w", size, ErrInvalidPatchSize)
	}
	if len(pix) != size*size {
		return nil, fmt.Errorf("patch pixels %d for side %d: %w", len(pix), size, ErrSizeMismatch)
	}
	return &Patch{Size: size, Pix: pix}, nil
}

// At returns the intensity at row r, column c.
func (p *Patch) At(r, c int) float64 { return p.Pix[r*p.Size+c] }

// Descriptors bundles the optional descriptor variants a feature may carry.
// Each field is independently optional; "present" means non-empty.
type Descriptors struct {
	// SIFT is a fixed-length byte vector (128 elements for standard SIFT).
	SIFT []byte
	// SURF is a fixed-length float vector (64 or 128 elements).
	SURF []float64
	// SpinImg is an intensity-domain spin image: a 2D histogram flattened
	// row-major into a single vector. SpinImgRangeRows records the row count
	// of the original histogram so it can be reshaped.
	SpinImg          []float64
	SpinImgRangeRows int
	// PolarImg and LogPolarImg are 2D descriptors centred on the feature;
	// rows are range bins, columns are angular bins.
	PolarImg    *mat.Dense
	LogPolarImg *mat.Dense
	// PolarNoRotation disables the rotation search when comparing the polar
	// and log-polar descriptors: only the zero-shift alignment is evaluated.
	PolarNoRotation bool
}

// HasSIFT reports whether a SIFT descriptor is present.
func (d *Descriptors) HasSIFT() bool { return len(d.SIFT) > 0 }

// HasSURF reports whether a SURF descriptor is present.
func (d *Descriptors) HasSURF() bool { return len(d.SURF) > 0 }

// HasSpinImg reports whether a spin image descriptor is present.
func (d *Descriptors) HasSpinImg() bool { return len(d.SpinImg) > 0 }

// HasPolarImg reports whether a polar image descriptor is present.
func (d *Descriptors) HasPolarImg() bool {
	if d.PolarImg == nil {
		return false
	}
	r, c := d.PolarImg.Dims()
	return r > 0 && c > 0
}

// HasLogPolarImg reports whether a log-polar image descriptor is present.
func (d *Descriptors) HasLogPolarImg() bool {
	if d.LogPolarImg == nil {
		return false
	}
	r, c := d.LogPolarImg.Dims()
	return r > 0 && c > 0
}

// Has reports whether the given descriptor kind is present. KindAny reports
// whether any descriptor is present.
func (d *Descriptors) Has(kind DescriptorKind) bool {
	switch kind {
	case KindSIFT:
		return d.HasSIFT()
	case KindSURF:
		return d.HasSURF()
	case KindSpinImg:
		return d.HasSpinImg()
	case KindPolarImg:
		return d.HasPolarImg()
	case KindLogPolarImg:
		return d.HasLogPolarImg()
	default:
		_, ok := d.FirstKind()
		return ok
	}
}

// FirstKind returns the first present descriptor kind in the fixed priority
// order SIFT, SURF, SpinImg, PolarImg, LogPolarImg.
func (d *Descriptors) FirstKind() (DescriptorKind, bool) {
	switch {
	case d.HasSIFT():
		return KindSIFT, true
	case d.HasSURF():
		return KindSURF, true
	case d.HasSpinImg():
		return KindSpinImg, true
	case d.HasPolarImg():
		return KindPolarImg, true
	case d.HasLogPolarImg():
		return KindLogPolarImg, true
	}
	return KindAny, false
}

// Feature is a single 2D feature detected in an image. Extractors create
// features, trackers update X, Y, TrackStatus and Response in place, and
// matchers compare features through the distance metrics.
//
// Features are shared by pointer between collections: the same *Feature may
// sit in a detection List and in any number of MatchedLists at once.
type Feature struct {
	ID            FeatureID
	X, Y          float64 // image-plane coordinates, updated by trackers
	Type          Type
	TrackStatus   TrackStatus
	Response      float64 // detector "goodness" score
	Orientation   float64 // main orientation, radians
	Scale         float64 // scale-space scale
	SourceImageID int     // image the feature was extracted from

	// Patch is the optional image region around the feature. Blob detectors
	// (SIFT, SURF) commonly omit it.
	Patch *Patch

	Descriptors Descriptors
}

// New returns a feature with idle track status and an undefined type.
func New() *Feature {
	return &Feature{Type: TypeNotDefined, TrackStatus: StatusIdle}
}

// HasPatch reports whether the feature carries an image patch.
func (f *Feature) HasPatch() bool { return f.Patch != nil && len(f.Patch.Pix) > 0 }

// IsPointFeature reports whether the feature comes from a point detector.
// It is false only for the blob detectors (SIFT, SURF).
func (f *Feature) IsPointFeature() bool {
	return f.Type != TypeSIFT && f.Type != TypeSURF
}

// FirstDescriptorMatrix renders the first present descriptor as a matrix:
// linear descriptors become single-row matrices (spin images are reshaped to
// their original row count), polar descriptors are returned as-is. It returns
// ErrMissingDescriptor when the feature carries no descriptor.
func (f *Feature) FirstDescriptorMatrix() (*mat.Dense, error) {
	d := &f.Descriptors
	kind, ok := d.FirstKind()
	if !ok {
		return nil, fmt.Errorf("feature %d: %w", f.ID, ErrMissingDescriptor)
	}
	switch kind {
	case KindSIFT:
		row := make([]float64, len(d.SIFT))
		for i, v := range d.SIFT {
			row[i] = float64(v)
		}
		return mat.NewDense(1, len(row), row), nil
	case KindSURF:
		return mat.NewDense(1, len(d.SURF), append([]float64(nil), d.SURF...)), nil
	case KindSpinImg:
		rows := d.SpinImgRangeRows
		if rows <= 0 || len(d.SpinImg)%rows != 0 {
			return mat.NewDense(1, len(d.SpinImg), append([]float64(nil), d.SpinImg...)), nil
		}
		return mat.NewDense(rows, len(d.SpinImg)/rows, append([]float64(nil), d.SpinImg...)), nil
	case KindPolarImg:
		return mat.DenseCopyOf(d.PolarImg), nil
	default:
		return mat.DenseCopyOf(d.LogPolarImg), nil
	}
}
