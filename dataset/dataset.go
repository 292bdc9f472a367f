package dataset

import (
	"gonum.org/v1/gonum/mat"
)

// Dataset is an N-dimensional float64 array with the leading navAxes
// dimensions designated as navigation and the remaining ones as signal.
// The flattened navigation × signal view shares the underlying buffer;
// mutations through the view are visible to the dataset and vice versa.
//
// Dataset is not safe for concurrent use; callers must serialize
// operations against the same instance.
type Dataset struct {
	shape    []int
	navAxes  int
	data     []float64
	src      *Deferred
	unfolded bool
}

// New builds an eager dataset from shape and a row-major buffer. The
// buffer is adopted, not copied. navAxes designates how many leading
// dimensions of shape are navigation axes.
func New(shape []int, navAxes int, data []float64) (*Dataset, error) {
	size, err := checkShape(shape, navAxes)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, ErrSizeMismatch
	}
	return &Dataset{shape: append([]int(nil), shape...), navAxes: navAxes, data: data}, nil
}

// NewLazy builds a dataset whose buffer is produced on first Force.
// The producer must return a buffer of exactly the shape's size;
// a mismatched buffer surfaces as ErrSizeMismatch at the first forcing
// operation.
func NewLazy(shape []int, navAxes int, src *Deferred) (*Dataset, error) {
	if _, err := checkShape(shape, navAxes); err != nil {
		return nil, err
	}
	if src == nil || src.produce == nil {
		return nil, ErrNilProducer
	}
	return &Dataset{shape: append([]int(nil), shape...), navAxes: navAxes, src: src}, nil
}

func checkShape(shape []int, navAxes int) (int, error) {
	if len(shape) < 2 {
		return 0, ErrBadShape
	}
	size := 1
	for _, n := range shape {
		if n <= 0 {
			return 0, ErrBadShape
		}
		size *= n
	}
	if navAxes < 1 || navAxes >= len(shape) {
		return 0, ErrBadNavAxes
	}
	return size, nil
}

// Shape returns a copy of the full N-D shape, navigation axes first.
func (d *Dataset) Shape() []int { return append([]int(nil), d.shape...) }

// NavShape returns a copy of the navigation part of the shape.
func (d *Dataset) NavShape() []int { return append([]int(nil), d.shape[:d.navAxes]...) }

// SigShape returns a copy of the signal part of the shape.
func (d *Dataset) SigShape() []int { return append([]int(nil), d.shape[d.navAxes:]...) }

// NavSize returns the flattened navigation extent.
func (d *Dataset) NavSize() int { return product(d.shape[:d.navAxes]) }

// SigSize returns the flattened signal extent.
func (d *Dataset) SigSize() int { return product(d.shape[d.navAxes:]) }

// Lazy reports whether the buffer has not been materialized yet.
func (d *Dataset) Lazy() bool { return d.data == nil && d.src != nil }

// Unfolded reports whether the dataset is currently unfolded.
func (d *Dataset) Unfolded() bool { return d.unfolded }

// force materializes the buffer. This is the only blocking suspension
// point of the package.
func (d *Dataset) force() error {
	if d.data != nil {
		return nil
	}
	buf := d.src.Force()
	if len(buf) != product(d.shape) {
		return ErrSizeMismatch
	}
	d.data = buf
	return nil
}

// Unfold exposes the flattened navigation × signal view. The returned
// matrix shares the dataset buffer. The second result reports whether
// this call performed the transition (false when already unfolded), so
// callers can pair it with Fold exactly once. Forces evaluation of lazy
// datasets.
func (d *Dataset) Unfold() (*mat.Dense, bool, error) {
	if err := d.force(); err != nil {
		return nil, false, err
	}
	first := !d.unfolded
	d.unfolded = true
	return mat.NewDense(d.NavSize(), d.SigSize(), d.data), first, nil
}

// Fold restores the original shape bookkeeping. Folding a folded
// dataset is a no-op; fold after unfold restores the original state
// exactly (the buffer is never reordered).
func (d *Dataset) Fold() { d.unfolded = false }

// Snapshot returns a copy of the materialized buffer, forcing
// evaluation if needed. Used by the engine to guarantee pre-treatment
// rollback.
func (d *Dataset) Snapshot() ([]float64, error) {
	if err := d.force(); err != nil {
		return nil, err
	}
	return append([]float64(nil), d.data...), nil
}

// Restore overwrites the buffer with a previously taken snapshot.
func (d *Dataset) Restore(snap []float64) error {
	if err := d.force(); err != nil {
		return err
	}
	if len(snap) != len(d.data) {
		return ErrSizeMismatch
	}
	copy(d.data, snap)
	return nil
}

func product(dims []int) int {
	p := 1
	for _, n := range dims {
		p *= n
	}
	return p
}
