// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/goki/ki/ki"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
	"github.com/pkg/errors"
)

// spike.Network holds the layers and the time-stepping driver that advances
// them.  All updates within a cycle are deterministic and single-threaded:
// identical initial state and inputs produce identical trajectories.
type Network struct {
	Nm         string            `desc:"overall name of network -- helps discriminate if there are multiple"`
	Layers     []*Layer          `desc:"list of layers in added order"`
	LayMap     map[string]*Layer `view:"-" desc:"map of name to layers -- layer names must be unique"`
	FiniteIntv int               `def:"10" desc:"interval in cycles between checks for NaN / infinite / out-of-range neuron state -- 0 disables checking"`
}

var KiT_Network = kit.Types.AddType(&Network{}, NetworkProps)

var NetworkProps = ki.Props{}

// NewNetwork returns a new network with given name and default parameters
func NewNetwork(name string) *Network {
	nt := &Network{Nm: name}
	nt.Defaults()
	return nt
}

func (nt *Network) Name() string  { return nt.Nm }
func (nt *Network) Label() string { return nt.Nm }
func (nt *Network) NLayers() int  { return len(nt.Layers) }

func (nt *Network) Defaults() {
	nt.FiniteIntv = 10
	for _, ly := range nt.Layers {
		ly.Defaults()
	}
}

// UpdateParams updates all params given any changes that might have been
// made to individual values
func (nt *Network) UpdateParams() {
	for _, ly := range nt.Layers {
		ly.UpdateParams()
	}
}

// ApplyParams applies given parameter style Sheet to layers and paths in
// this network.  Calls UpdateParams to ensure derived parameters are all
// updated.  If setMsg is true, then a message is printed to confirm each
// parameter that is set.  Returns true if any params were set, and error if
// there were any errors.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, ly := range nt.Layers {
		app, err := ly.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// AddLayer adds a new layer with given name and shape to the network, with
// default parameters.
func (nt *Network) AddLayer(name string, shape []int) *Layer {
	ly := &Layer{Nm: name, Net: nt, Idx: len(nt.Layers)}
	ly.SetShape(shape)
	ly.Act.Defaults()
	nt.Layers = append(nt.Layers, ly)
	if nt.LayMap == nil {
		nt.LayMap = make(map[string]*Layer)
	}
	nt.LayMap[name] = ly
	return ly
}

// AddLayer2D adds a new layer with given name and 2D shape to the network
func (nt *Network) AddLayer2D(name string, shapeY, shapeX int) *Layer {
	return nt.AddLayer(name, []int{shapeY, shapeX})
}

// LayerByName returns a layer by looking it up by name in the layer map,
// nil if not found
func (nt *Network) LayerByName(name string) *Layer {
	if nt.LayMap == nil {
		return nil
	}
	return nt.LayMap[name]
}

// LayerByNameTry returns a layer by looking it up by name, returning an
// error if the layer is not found
func (nt *Network) LayerByNameTry(name string) (*Layer, error) {
	ly := nt.LayerByName(name)
	if ly == nil {
		return nil, errors.Errorf("layer named: %v not found in network %v", name, nt.Nm)
	}
	return ly, nil
}

// ConnectLayers establishes a pathway between two layers, referenced by
// name, with the given connectivity pattern and type, adding to the recv
// and send pathway lists on each side of the connection.  Does not yet
// actually connect the units within the layers -- that is done in Build.
func (nt *Network) ConnectLayers(send, recv *Layer, pat prjn.Pattern, typ PathTypes) *Path {
	pj := &Path{}
	pj.Defaults()
	pj.Connect(send, recv, pat, typ)
	recv.RcvPaths = append(recv.RcvPaths, pj)
	send.SndPaths = append(send.SndPaths, pj)
	return pj
}

// Build constructs the layer and pathway state based on the layer shapes
// and patterns of interconnectivity.  Any configuration error (duplicate
// layer names, invalid parameters, inconsistent connectivity) is fatal.
func (nt *Network) Build() error {
	nt.LayMap = make(map[string]*Layer, len(nt.Layers))
	for li, ly := range nt.Layers {
		ly.Idx = li
		ly.Net = nt
		if _, has := nt.LayMap[ly.Nm]; has {
			return errors.Errorf("network %v: duplicate layer name: %v", nt.Nm, ly.Nm)
		}
		nt.LayMap[ly.Nm] = ly
		if ly.Off {
			continue
		}
		if err := ly.Build(); err != nil {
			return err
		}
	}
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		if err := ly.BuildPaths(); err != nil {
			return err
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init

// InitActs fully initializes neuron activation state, pathway accumulators,
// and kinetic synapse state
func (nt *Network) InitActs() {
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		ly.InitActs()
	}
}

// SteadyGates sets all gating variables to their steady-state values at
// each neuron's current Vm
func (nt *Network) SteadyGates() {
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		ly.SteadyGates()
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Cycle

// Cycle runs one cycle of integration over the whole network, in three
// phases: neuron update (gates, voltage, spikes) from the previous cycle's
// conductances, then spike propagation into pathway buffers, then the
// commit of those buffers on the receiving side.  Increments the time
// counters.
func (nt *Network) Cycle(ctx *Time) {
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		ly.ActFromG(ctx)
	}
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		ly.SendSpike(ctx)
	}
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		ly.GFromInc(ctx)
	}
	ctx.CycleInc()
}

// CheckFinite returns an error identifying the first layer / neuron whose
// state is NaN, infinite, or outside the plausible voltage range
func (nt *Network) CheckFinite(ctx *Time) error {
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		if err := ly.CheckFinite(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Run advances the network for dur msec of simulated time, applying the
// given external inputs at each cycle and recording into the given
// monitors.  The time context's TimePerCyc must match the integration step
// size of every layer.  Returns an error immediately if neuron state
// becomes non-finite, identifying the layer, neuron, and cycle.
func (nt *Network) Run(ctx *Time, dur float32, inputs []ExtInput, mons []*Monitor) error {
	if ctx == nil || ctx.TimePerCyc <= 0 {
		return errors.New("Run: time context is nil or has TimePerCyc <= 0")
	}
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		if ly.Act.Dt.Dt != ctx.TimePerCyc {
			return errors.Errorf("Run: layer %v integration step %v != time context TimePerCyc %v", ly.Nm, ly.Act.Dt.Dt, ctx.TimePerCyc)
		}
	}
	for _, in := range inputs {
		if _, err := nt.LayerByNameTry(in.Lay); err != nil {
			return errors.Wrap(err, "Run: input target")
		}
	}
	steps := int(mat32.Ceil(dur / ctx.TimePerCyc))
	for _, mn := range mons {
		if err := mn.Init(nt, steps, ctx.TimePerCyc); err != nil {
			return errors.Wrap(err, "Run: monitor")
		}
	}
	for step := 0; step < steps; step++ {
		for _, in := range inputs {
			in.Apply(nt.LayerByName(in.Lay), step)
		}
		nt.Cycle(ctx)
		for _, mn := range mons {
			mn.Record(step)
		}
		if nt.FiniteIntv > 0 && ctx.Cycle%nt.FiniteIntv == 0 {
			if err := nt.CheckFinite(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  ExtInput

// ExtInput specifies an external input current applied to all neurons of a
// named layer during Run.  If Wave is non-nil it supplies a per-cycle
// current (cycles past its end get 0), otherwise the constant Val is
// applied every cycle.
type ExtInput struct {
	Lay  string    `desc:"name of the layer to apply input to"`
	Val  float32   `desc:"constant input current, used when Wave is nil"`
	Wave []float32 `desc:"per-cycle input current -- cycles beyond the end of the wave get 0"`
}

// Apply sets the external input on the layer for the given cycle
func (in *ExtInput) Apply(ly *Layer, cyc int) {
	if ly == nil {
		return
	}
	if in.Wave != nil {
		if cyc < len(in.Wave) {
			ly.ApplyExt(in.Wave[cyc])
		} else {
			ly.ApplyExt(0)
		}
		return
	}
	ly.ApplyExt(in.Val)
}
