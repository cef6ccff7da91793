// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"github.com/emer/emergent/params"
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/ki"
	"github.com/goki/ki/kit"
	"github.com/pkg/errors"
)

// spike.Layer is a population of neurons sharing one set of activation
// parameters, with pathways connecting it to other layers (or itself).
type Layer struct {
	Net      *Network       `copy:"-" json:"-" xml:"-" view:"-" desc:"our parent network, in case we need to use it to find other layers etc -- set when added by network"`
	Nm       string         `desc:"Name of the layer -- this must be unique within the network, which has a map for quick lookup"`
	Cls      string         `desc:"Class is for applying parameter styles, can be space separated multiple tags"`
	Off      bool           `desc:"inactivate this layer -- allows for easy experimentation"`
	Shp      etensor.Shape  `desc:"shape of the layer -- can be 2D for basic layers and 4D for layers with sub-groups (hypercolumns)"`
	Idx      int            `view:"-" inactive:"-" desc:"the index of this layer in the layers list in the network"`
	RcvPaths []*Path        `desc:"list of receiving pathways into this layer from other layers"`
	SndPaths []*Path        `desc:"list of sending pathways from this layer to other layers"`
	Act      ActParams      `view:"add-fields" desc:"Activation parameters and methods for computing neuron state"`
	Neurons  []Neuron       `desc:"slice of neuron state for this layer -- flat list of len = Shp.Len()"`
}

var KiT_Layer = kit.Types.AddType(&Layer{}, LayerProps)

var LayerProps = ki.Props{}

func (ly *Layer) Name() string           { return ly.Nm }
func (ly *Layer) SetName(nm string)      { ly.Nm = nm }
func (ly *Layer) Label() string          { return ly.Nm }
func (ly *Layer) Class() string          { return ly.Cls }
func (ly *Layer) SetClass(cls string)    { ly.Cls = cls }
func (ly *Layer) TypeName() string       { return "Layer" } // type category, for params..
func (ly *Layer) IsOff() bool            { return ly.Off }
func (ly *Layer) SetOff(off bool)        { ly.Off = off }
func (ly *Layer) Shape() *etensor.Shape  { return &ly.Shp }
func (ly *Layer) Index() int             { return ly.Idx }
func (ly *Layer) NNeurons() int          { return len(ly.Neurons) }

// SetShape sets the layer shape and also uses default dim names
func (ly *Layer) SetShape(shape []int) {
	var dnms []string
	if len(shape) == 2 {
		dnms = []string{"Y", "X"}
	} else if len(shape) == 4 {
		dnms = []string{"GroupY", "GroupX", "NeurY", "NeurX"}
	}
	ly.Shp.SetShape(shape, nil, dnms)
}

func (ly *Layer) Defaults() {
	ly.Act.Defaults()
	for _, pj := range ly.RcvPaths {
		pj.Defaults()
	}
}

// UpdateParams updates all params given any changes that might have been
// made to individual values, including all the receiving pathways of this
// layer
func (ly *Layer) UpdateParams() {
	ly.Act.Update()
	for _, pj := range ly.RcvPaths {
		pj.UpdateParams()
	}
}

// ApplyParams applies given parameter style Sheet to this layer and its
// recv pathways.  Calls UpdateParams on anything set to ensure derived
// parameters are all updated.  If setMsg is true, then a message is printed
// to confirm each parameter that is set.  Returns true if any params were
// set, and error if there were any errors.
func (ly *Layer) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	app, err := pars.Apply(ly, setMsg)
	if app {
		ly.UpdateParams()
		applied = true
	}
	if err != nil {
		rerr = err
	}
	for _, pj := range ly.RcvPaths {
		app, err = pars.Apply(pj, setMsg)
		if app {
			pj.UpdateParams()
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// RecvPathBySendName returns the receiving pathway from the layer of given
// name, nil if none
func (ly *Layer) RecvPathBySendName(sender string) *Path {
	for _, pj := range ly.RcvPaths {
		if pj.Send.Name() == sender {
			return pj
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Build

// Build constructs the layer state, including neurons.  Pathways are built
// by the network after all layers are built, so their index structures can
// reference final layer shapes.
func (ly *Layer) Build() error {
	nu := ly.Shp.Len()
	if nu == 0 {
		return errors.Errorf("build layer %v: no units specified in Shape", ly.Nm)
	}
	if err := ly.Act.Validate(); err != nil {
		return errors.Wrapf(err, "layer %v", ly.Nm)
	}
	ly.Neurons = make([]Neuron, nu)
	return nil
}

// BuildPaths builds the receiving pathways into this layer
func (ly *Layer) BuildPaths() error {
	for _, pj := range ly.RcvPaths {
		if err := pj.Build(); err != nil {
			return err
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init

// InitActs initializes all neuron state to the Act.Init resting values,
// and zeroes pathway accumulators and kinetic state.
func (ly *Layer) InitActs() {
	for ni := range ly.Neurons {
		ly.Act.InitActs(&ly.Neurons[ni])
	}
	for _, pj := range ly.RcvPaths {
		pj.InitGInc()
		for si := range pj.Syns {
			sy := &pj.Syns[si]
			sy.S = 0
			sy.G = 0
		}
	}
}

// SteadyGates sets each neuron's gating variables to their voltage-clamped
// steady-state values at the neuron's current Vm, removing the initial
// transient when starting from an arbitrary potential.
func (ly *Layer) SteadyGates() {
	for ni := range ly.Neurons {
		ly.Act.SteadyGates(&ly.Neurons[ni])
	}
}

// ApplyExt applies the given external input current to all neurons in the
// layer (overwrites any previous value this cycle).
func (ly *Layer) ApplyExt(val float32) {
	for ni := range ly.Neurons {
		ly.Neurons[ni].Ext = val
	}
}

// ApplyExts applies per-neuron external input currents.  Length must match
// the number of neurons.
func (ly *Layer) ApplyExts(vals []float32) error {
	if len(vals) != len(ly.Neurons) {
		return errors.Errorf("layer %v: ApplyExts with %v values for %v neurons", ly.Nm, len(vals), len(ly.Neurons))
	}
	for ni := range ly.Neurons {
		ly.Neurons[ni].Ext = vals[ni]
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Cycle

// ActFromG computes one integration step for every neuron in the layer from
// the conductances and currents accumulated through the previous cycle:
// conductance decay, gating update, voltage update, spike detection.
func (ly *Layer) ActFromG(ctx *Time) {
	for ni := range ly.Neurons {
		ly.Act.CycleNeuron(&ly.Neurons[ni], ctx.Time)
	}
}

// SendSpike propagates this cycle's output to the sending pathways of this
// layer: direct pathways scatter the weights of spiking neurons into their
// GInc buffers, kinetic pathways advance their synapse gating state from
// the freshly updated membrane potentials.
func (ly *Layer) SendSpike(ctx *Time) {
	hasSpike := false
	for ni := range ly.Neurons {
		if ly.Neurons[ni].Spike > 0 {
			hasSpike = true
			break
		}
	}
	for _, pj := range ly.SndPaths {
		if pj.IsOff() {
			continue
		}
		if pj.Kin.On {
			pj.SynFromV(ctx)
			continue
		}
		if !hasSpike {
			continue
		}
		for ni := range ly.Neurons {
			if ly.Neurons[ni].Spike > 0 {
				pj.SendSpike(ni)
			}
		}
	}
}

// GFromInc commits this cycle's synaptic deliveries on the receiving side:
// direct pathways add their GInc buffers into Ge / Gi, kinetic pathways
// aggregate their conductances into the input current accumulator.
func (ly *Layer) GFromInc(ctx *Time) {
	for _, pj := range ly.RcvPaths {
		if pj.IsOff() {
			continue
		}
		if pj.Kin.On {
			pj.RecvCurrent(ctx)
		} else {
			pj.RecvGInc()
		}
	}
}

// CheckFinite returns an error identifying the first neuron whose state is
// NaN, infinite, or outside the plausible voltage range, for aborting a run
// at the cycle where state corruption first appears.
func (ly *Layer) CheckFinite(ctx *Time) error {
	for ni := range ly.Neurons {
		if err := ly.Act.CheckFinite(&ly.Neurons[ni]); err != nil {
			return errors.Wrapf(err, "layer %v neuron %v at cycle %v (t=%v msec)", ly.Nm, ni, ctx.Cycle, ctx.Time)
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Unit access

// UnitVals fills in values of given variable name on unit for each unit in
// the layer, into given float32 slice (only resized if not big enough).
// Returns error on invalid var name.
func (ly *Layer) UnitVals(vals *[]float32, varNm string) error {
	vidx, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return err
	}
	nn := len(ly.Neurons)
	if *vals == nil || cap(*vals) < nn {
		*vals = make([]float32, nn)
	} else if len(*vals) < nn {
		*vals = (*vals)[0:nn]
	}
	for ni := range ly.Neurons {
		(*vals)[ni] = ly.Neurons[ni].VarByIndex(vidx)
	}
	return nil
}

// UnitVal1D returns value of given variable index on given unit, using
// flat, 1-dimensional index.
func (ly *Layer) UnitVal1D(varIdx int, idx int) float32 {
	if idx < 0 || idx >= len(ly.Neurons) {
		return 0
	}
	return ly.Neurons[idx].VarByIndex(varIdx)
}
