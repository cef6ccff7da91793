// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"os"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/pkg/errors"
)

// spike.Monitor records one neuron variable for every neuron of a layer at
// every cycle of a Run, into a steps x neurons tensor.  Monitors are
// (re)allocated by Run; after it returns, the recorded values can be read
// directly or exported as etable tables.
type Monitor struct {
	Lay    string           `desc:"name of the layer to record from"`
	Var    string           `desc:"neuron variable to record (e.g. Vm, Spike, Ge)"`
	Dt     float32          `inactive:"+" desc:"time per recorded step, in msec -- set by Run"`
	Values *etensor.Float32 `view:"no-inline" desc:"recorded values, steps x neurons -- allocated by Run"`

	ly     *Layer
	varIdx int
}

// NewMonitor returns a monitor for the given layer name and neuron
// variable name.  Name and variable are resolved when a Run starts.
func NewMonitor(lay, varNm string) *Monitor {
	return &Monitor{Lay: lay, Var: varNm}
}

// Init resolves the layer and variable and allocates storage for the given
// number of steps.  Called by Run.
func (mn *Monitor) Init(nt *Network, steps int, dt float32) error {
	ly, err := nt.LayerByNameTry(mn.Lay)
	if err != nil {
		return err
	}
	vidx, err := NeuronVarIdxByName(mn.Var)
	if err != nil {
		return err
	}
	if len(ly.Neurons) == 0 {
		return errors.Errorf("monitor: layer %v has not been built", mn.Lay)
	}
	mn.ly = ly
	mn.varIdx = vidx
	mn.Dt = dt
	mn.Values = etensor.NewFloat32([]int{steps, len(ly.Neurons)}, nil, []string{"Time", "Neuron"})
	return nil
}

// Record records the current value of the monitored variable for all
// neurons at the given step
func (mn *Monitor) Record(step int) {
	nn := len(mn.ly.Neurons)
	off := step * nn
	for ni := range mn.ly.Neurons {
		mn.Values.Values[off+ni] = mn.ly.Neurons[ni].VarByIndex(mn.varIdx)
	}
}

// NSteps returns the number of recorded steps
func (mn *Monitor) NSteps() int {
	if mn.Values == nil {
		return 0
	}
	return mn.Values.Dim(0)
}

// Value returns the recorded value for given step and neuron index
func (mn *Monitor) Value(step, ni int) float32 {
	return mn.Values.Value([]int{step, ni})
}

// TraceTable returns the recording as an etable.Table with a Time column
// (msec) and a tensor cell column named after the variable, one row per
// step.
func (mn *Monitor) TraceTable() (*etable.Table, error) {
	if mn.Values == nil {
		return nil, errors.New("monitor: no recorded values -- run first")
	}
	steps := mn.Values.Dim(0)
	nn := mn.Values.Dim(1)
	dt := &etable.Table{}
	dt.SetFromSchema(etable.Schema{
		{Name: "Time", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: mn.Var, Type: etensor.FLOAT32, CellShape: []int{nn}, DimNames: []string{"Neuron"}},
	}, steps)
	for step := 0; step < steps; step++ {
		dt.SetCellFloat("Time", step, float64(step+1)*float64(mn.Dt))
	}
	vl := dt.ColByName(mn.Var).(*etensor.Float32)
	copy(vl.Values, mn.Values.Values)
	return dt, nil
}

// RasterTable returns the recording as a spike raster table with one row
// per event where the recorded value is > 0, with Neuron and Time (msec)
// columns.  Record the Spike variable to get an actual spike raster.
func (mn *Monitor) RasterTable() (*etable.Table, error) {
	if mn.Values == nil {
		return nil, errors.New("monitor: no recorded values -- run first")
	}
	steps := mn.Values.Dim(0)
	nn := mn.Values.Dim(1)
	nev := 0
	for _, v := range mn.Values.Values {
		if v > 0 {
			nev++
		}
	}
	dt := &etable.Table{}
	dt.SetFromSchema(etable.Schema{
		{Name: "Neuron", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Time", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}, nev)
	row := 0
	for step := 0; step < steps; step++ {
		off := step * nn
		for ni := 0; ni < nn; ni++ {
			if mn.Values.Values[off+ni] <= 0 {
				continue
			}
			dt.SetCellFloat("Neuron", row, float64(ni))
			dt.SetCellFloat("Time", row, float64(step+1)*float64(mn.Dt))
			row++
		}
	}
	return dt, nil
}

// SaveTable writes given table to a tab-separated file with headers
func SaveTable(dt *etable.Table, fname string) error {
	fp, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "SaveTable")
	}
	defer fp.Close()
	return dt.WriteCSV(fp, etable.Tab, etable.Headers)
}
