package hdf5

import (
	"fmt"

	"github.com/PrincetonUniversity/particlelife"
	"gonum.org/v1/hdf5"
)

// A Loader sequentially loads recorded positions from an HDF5 file.
type Loader struct {
	i uint // index of current step
	n uint // total number of steps
	m uint // number of particles

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens the position dataset of a recording and returns an initialized loader.
func NewLoader(filepath string) (*Loader, error) {
	l := new(Loader)
	var err error
	l.file, err = hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	l.dset, err = l.file.OpenDataset(PositionDataset)
	if err != nil {
		checkClose(&err, l.file)
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	if len(dims) != 2 {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, fmt.Errorf("hdf5: expected 2 dimensions in %s, got %d", PositionDataset, len(dims))
	}
	l.n, l.m = dims[0], dims[1]

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		l.Close()
		return nil, err
	}

	return l, nil
}

// Len returns the number of recorded particles.
func (l *Loader) Len() int {
	return int(l.m)
}

// Steps returns the number of recorded steps.
func (l *Loader) Steps() int {
	return int(l.n)
}

// Extents returns the world size recorded in the Width and Height
// attributes of the config dataset.
func (l *Loader) Extents() (w, h float64, err error) {
	dset, err := l.file.OpenDataset(ConfigDataset)
	if err != nil {
		return 0, 0, err
	}
	defer checkClose(&err, dset)

	if w, err = readFloat(dset, "Width"); err != nil {
		return 0, 0, err
	}
	if h, err = readFloat(dset, "Height"); err != nil {
		return 0, 0, err
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("hdf5: bad recorded world size %gx%g", w, h)
	}
	return w, h, nil
}

// readFloat reads a scalar float64 attribute of dset.
func readFloat(dset *hdf5.Dataset, name string) (v float64, err error) {
	attr, err := dset.OpenAttribute(name)
	if err != nil {
		return 0, fmt.Errorf("hdf5: attribute %s: %w", name, err)
	}
	defer checkClose(&err, attr)

	dtype, err := hdf5.NewDatatypeFromValue(v)
	if err != nil {
		return 0, err
	}
	defer checkClose(&err, dtype)

	err = attr.Read(&v, dtype)
	return v, err
}

// Colors loads the recorded colors into s.
func (l *Loader) Colors(s *particlelife.Simulation) (err error) {
	if err := l.check(s); err != nil {
		return err
	}
	dset, err := l.file.OpenDataset(ColorDataset)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)
	return dset.Read(&s.Col)
}

// Load loads the next recorded positions into s
// and cycles when everything has already been loaded.
func (l *Loader) Load(s *particlelife.Simulation) error {
	if err := l.check(s); err != nil {
		return err
	}
	if err := l.fspace.SetOffset([]uint{l.i, 0}); err != nil {
		return err
	}
	l.i = (l.i + 1) % l.n

	return l.dset.ReadSubset(&s.Pos, l.mspace, l.fspace)
}

// check verifies that s can hold a recorded step.
func (l *Loader) check(s *particlelife.Simulation) error {
	if uint(s.Len()) != l.m {
		return fmt.Errorf("hdf5: recording has %d particles, simulation has %d", l.m, s.Len())
	}
	if l.n == 0 {
		return fmt.Errorf("hdf5: empty recording")
	}
	return nil
}

// Close closes the underlying HDF5 objects.
func (l *Loader) Close() (err error) {
	if l.mspace != nil {
		checkClose(&err, l.mspace)
	}
	checkClose(&err, l.fspace)
	checkClose(&err, l.dset)
	checkClose(&err, l.file)
	return err
}
