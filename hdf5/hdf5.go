// Package hdf5 records particlelife simulations to HDF5 files
// and loads them back for replay.
package hdf5

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/PrincetonUniversity/particlelife"
	"go.uber.org/zap"
	"gonum.org/v1/hdf5"
)

// Names of the datasets written by the default recording.
const (
	PositionDataset = "position"
	VelocityDataset = "velocity"
	ColorDataset    = "color"
	ConfigDataset   = "config"
)

// A Dataset stipulates how to generate data and where to store them in the HDF5 file.
type Dataset struct {
	// Name the name of the dataset in the HDF5 file.
	Name string

	// Val is a value of the same concrete type as the underlying type of the data.
	Val interface{}

	// Dims are the dimensions of the data for a single step.
	Dims []int

	// Static data are written once before the first step
	// instead of once per step.
	Static bool

	// Data is a function that produces the data as a pointer
	// to a slice of row-major concrete values.
	Data func(s *particlelife.Simulation) interface{}

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// Config holds the parameters of the HDF5 driver.
type Config struct {
	Output   string      // path of output file
	Steps    int         // total number of steps
	Step     func()      // go to next step
	Attrs    interface{} // pointer to a struct saved as attributes of the config dataset
	Datasets []*Dataset  // list of datasets
	Log      *zap.Logger // defaults to a no-op logger
}

// Trajectories returns the datasets of a full recording of s:
// positions and velocities at every step, and colors once.
func Trajectories(s *particlelife.Simulation) []*Dataset {
	n := s.Len()
	return []*Dataset{
		{
			Name: PositionDataset,
			Val:  particlelife.Vec2{},
			Dims: []int{n},
			Data: func(s *particlelife.Simulation) interface{} { return &s.Pos },
		},
		{
			Name: VelocityDataset,
			Val:  particlelife.Vec2{},
			Dims: []int{n},
			Data: func(s *particlelife.Simulation) interface{} { return &s.Vel },
		},
		{
			Name:   ColorDataset,
			Val:    color.RGBA{},
			Dims:   []int{n},
			Static: true,
			Data:   func(s *particlelife.Simulation) interface{} { return &s.Col },
		},
	}
}

// Run runs a simulation and saves data to an HDF5 file.
// The data of step k are recorded before the k-th call to conf.Step.
func Run(s *particlelife.Simulation, conf *Config) (err error) {
	log := conf.Log
	if log == nil {
		log = zap.NewNop()
	}
	if s.Len() == 0 {
		return fmt.Errorf("hdf5: nothing to record")
	}
	if conf.Step == nil {
		conf.Step = s.Step
	}
	if conf.Datasets == nil {
		conf.Datasets = Trajectories(s)
	}

	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer checkClose(&err, file)

	if err := saveConfig(file, conf); err != nil {
		return err
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf); err != nil {
			return err
		}
		defer checkClose(&err, d)
		if d.Static {
			if err := d.dset.WriteSubset(d.Data(s), d.mspace, d.fspace); err != nil {
				return err
			}
		}
	}

	log.Info("recording", zap.String("output", conf.Output), zap.Int("steps", conf.Steps), zap.Int("particles", s.Len()))
	start := time.Now()
	for k := uint(0); k < uint(conf.Steps); k++ {
		// show progress every tenth of the run
		if conf.Steps >= 10 && k%uint(conf.Steps/10) == 0 && k > 0 {
			log.Info("progress", zap.Uint("percent", 100*k/uint(conf.Steps)), zap.Duration("elapsed", time.Since(start)))
		}

		for _, d := range conf.Datasets {
			if d.Static {
				continue
			}
			offset := make([]uint, len(d.Dims)+1)
			offset[0] = k
			if err := d.fspace.SetOffset(offset); err != nil {
				return err
			}
			if err := d.dset.WriteSubset(d.Data(s), d.mspace, d.fspace); err != nil {
				return err
			}
		}

		conf.Step()
	}
	log.Info("recording done", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// saveConfig creates a "config" dataset with a null dataspace whose attributes
// reflect the whole configuration plus some other appropriate metadata.
func saveConfig(file *hdf5.File, conf *Config) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}
	defer checkClose(&err, null)

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset(ConfigDataset, anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer checkClose(&err, scalar)

	now := time.Now().String()
	if err := writeAttr(dset, scalar, "Time", &now); err != nil {
		return err
	}

	if conf.Attrs == nil {
		return nil
	}
	v := reflect.ValueOf(conf.Attrs).Elem()
	for i := 0; i < v.NumField(); i++ {
		if err := writeAttr(dset, scalar, v.Type().Field(i).Name, v.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("hdf5: attribute %s: %w", v.Type().Field(i).Name, err)
		}
	}
	return nil
}

// writeAttr writes the scalar pointed to by ptr as an attribute of dset.
func writeAttr(dset *hdf5.Dataset, scalar *hdf5.Dataspace, name string, ptr interface{}) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(reflect.ValueOf(ptr).Elem().Interface())
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	attr, err := dset.CreateAttribute(name, dtype, scalar)
	if err != nil {
		return err
	}
	defer checkClose(&err, attr)

	return attr.Write(ptr, dtype)
}

// init creates the dataset and selects the slab written at each step.
func (d *Dataset) init(file *hdf5.File, conf *Config) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	udims := make([]uint, len(d.Dims)+1)
	udims[0] = uint(conf.Steps)
	for i, n := range d.Dims {
		udims[i+1] = uint(n)
	}
	if d.Static {
		udims = udims[1:]
	}

	d.fspace, err = hdf5.CreateSimpleDataspace(udims, nil)
	if err != nil {
		return err
	}

	if !d.Static {
		start := make([]uint, len(udims))
		count := make([]uint, len(udims))
		copy(count, udims)
		count[0] = 1

		if err := d.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
			checkClose(&err, d.fspace)
			return err
		}
	}

	mdims := udims
	if !d.Static {
		mdims = udims[1:]
	}
	if len(mdims) == 0 {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	} else {
		d.mspace, err = hdf5.CreateSimpleDataspace(mdims, nil)
	}
	if err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace)
	if err != nil {
		checkClose(&err, d.fspace)
		checkClose(&err, d.mspace)
	}

	return err
}

// Close closes the HDF5 dataset and Dataspaces.
func (d *Dataset) Close() error {
	if err := d.dset.Close(); err != nil {
		return err
	}
	if err := d.mspace.Close(); err != nil {
		return err
	}
	if err := d.fspace.Close(); err != nil {
		return err
	}
	return nil
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
