// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/minmax"
	"github.com/emer/hhnet/chans"
	"github.com/emer/hhnet/gates"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the neuron-level integration params and kernels

// spike.ActParams contains all the parameters and update kernels for the
// conductance-based neuron model, at the neuron level.
// This is included in spike.Layer to drive the computation.
// Defaults configures the Traub-Miles model (COBA-HH benchmark constants);
// WangBuzsakiDefaults configures the fast-spiking interneuron model.
type ActParams struct {
	Init    ActInitParams   `view:"inline" desc:"initial values for key state variables"`
	Dt      DtParams        `view:"inline" desc:"timestep, integration method, and synaptic conductance time constants"`
	Gbar    chans.Chans     `view:"inline" desc:"maximal conductances for each channel -- E and I scale the ge / gi accumulators (default 1: weights carry the conductance)"`
	Erev    chans.Chans     `view:"inline" desc:"reversal potentials for each channel, in mV"`
	Cm      float32         `min:"0" desc:"membrane capacitance -- same conductance-consistent units as Gbar"`
	Spike   SpikeParams     `view:"inline" desc:"spike detection parameters"`
	VmRange minmax.F32      `view:"inline" desc:"plausible range for Vm -- excursions outside indicate an unstable timestep and fail the finite-state check"`
	MGate   gates.Kinetics  `desc:"sodium activation gate kinetics (m)"`
	HGate   gates.Kinetics  `desc:"sodium inactivation gate kinetics (h)"`
	NGate   gates.Kinetics  `desc:"potassium activation gate kinetics (n)"`
	MInst   bool            `desc:"treat the m gate as instantaneous (always at steady state for the current Vm) instead of integrating it -- the Wang-Buzsaki model"`
}

// Defaults sets the Traub-Miles model with the COBA-HH benchmark network
// constants (Brette et al, 2007): conductances in uS, capacitance in nF,
// potentials in mV, time in msec.
func (ac *ActParams) Defaults() {
	ac.Dt.Defaults()
	ac.Gbar.SetAll(0.02, 0.006, 1.0e-5, 1, 1)
	ac.Erev.SetAll(50, -90, -60, 0, -80)
	ac.Cm = 2.0e-4
	ac.Spike.Thr = -20
	ac.VmRange.Set(-120, 70)
	ac.Init.Vm = -60
	ac.Init.Ge = 0
	ac.Init.Gi = 0
	m := &gates.TraubMilesM{}
	m.Defaults()
	h := &gates.TraubMilesH{}
	h.Defaults()
	n := &gates.TraubMilesN{}
	n.Defaults()
	ac.MGate, ac.HGate, ac.NGate = m, h, n
	ac.MInst = false
	ac.Update()
}

// WangBuzsakiDefaults sets the Wang-Buzsaki fast-spiking interneuron model
// (Wang & Buzsaki, 1996): instantaneous m, temperature factor 5 on h and n.
func (ac *ActParams) WangBuzsakiDefaults() {
	ac.Dt.Defaults()
	ac.Dt.Dt = 0.05
	ac.Gbar.SetAll(35, 9, 0.1, 1, 1)
	ac.Erev.SetAll(55, -90, -65, 0, -75)
	ac.Cm = 1
	ac.Spike.Thr = 0
	ac.VmRange.Set(-120, 70)
	ac.Init.Vm = -55
	ac.Init.Ge = 0
	ac.Init.Gi = 0
	m := &gates.WangBuzsakiM{}
	m.Defaults()
	h := &gates.WangBuzsakiH{}
	h.Defaults()
	n := &gates.WangBuzsakiN{}
	n.Defaults()
	ac.MGate, ac.HGate, ac.NGate = m, h, n
	ac.MInst = true
	ac.Update()
}

// Update must be called after any changes to parameters
func (ac *ActParams) Update() {
	ac.Dt.Update()
}

// Validate returns an error for configuration values that would corrupt the
// simulation -- called from Layer.Build before any cycling.
func (ac *ActParams) Validate() error {
	if ac.Cm <= 0 {
		return errors.Errorf("Cm must be > 0, is: %v", ac.Cm)
	}
	if !ac.Gbar.AllNonNeg() {
		return errors.Errorf("Gbar conductances must all be >= 0, are: %+v", ac.Gbar)
	}
	if err := ac.Dt.Validate(); err != nil {
		return err
	}
	if ac.MGate == nil || ac.HGate == nil || ac.NGate == nil {
		return errors.New("gate kinetics (MGate, HGate, NGate) must all be set")
	}
	if ac.VmRange.Min >= ac.VmRange.Max {
		return errors.Errorf("VmRange is empty: %v", ac.VmRange)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////
//  Init

// InitActs initializes activation state in neuron, gates at 0
// (use SteadyGates after for equilibrium gate initialization)
func (ac *ActParams) InitActs(nrn *Neuron) {
	nrn.Vm = ac.Init.Vm
	nrn.Inet = 0
	nrn.M = 0
	nrn.H = 0
	nrn.N = 0
	nrn.Ge = ac.Init.Ge
	nrn.Gi = ac.Init.Gi
	nrn.Inp = 0
	nrn.Ext = 0
	nrn.Spike = 0
	nrn.SpikeT = -1
}

// SteadyGates sets the gating variables to their steady-state values for the
// neuron's current membrane potential.
func (ac *ActParams) SteadyGates(nrn *Neuron) {
	nrn.M = gates.SteadyState(ac.MGate, nrn.Vm)
	nrn.H = gates.SteadyState(ac.HGate, nrn.Vm)
	nrn.N = gates.SteadyState(ac.NGate, nrn.Vm)
}

///////////////////////////////////////////////////////////////////////
//  Cycle

// GDecay decays the synaptic conductance accumulators by their per-step
// factors (exact exponential under the Exponential method).
func (ac *ActParams) GDecay(nrn *Neuron) {
	nrn.Ge *= ac.Dt.GeDcy
	nrn.Gi *= ac.Dt.GiDcy
}

// GatesFromVm advances the gating variables from the neuron's current
// (previous-step) membrane potential.  Under MInst the m gate goes directly
// to its steady state instead of integrating.
func (ac *ActParams) GatesFromVm(nrn *Neuron) {
	vm := nrn.Vm
	dt := ac.Dt.Dt
	mth := ac.Dt.Method
	if ac.MInst {
		nrn.M = gates.SteadyState(ac.MGate, vm)
	} else {
		nrn.M = gates.Next(nrn.M, ac.MGate.Alpha(vm), ac.MGate.Beta(vm), dt, mth)
	}
	nrn.H = gates.Next(nrn.H, ac.HGate.Alpha(vm), ac.HGate.Beta(vm), dt, mth)
	nrn.N = gates.Next(nrn.N, ac.NGate.Alpha(vm), ac.NGate.Beta(vm), dt, mth)
}

// VmFromG advances the membrane potential from the freshly updated gating
// variables and conductances, consuming the synaptic + external input
// current (Inp + Ext).  Must be called after GatesFromVm (staggered update:
// gates see the old Vm, Vm sees the new gates).  Under the Exponential
// method the voltage equation, which is linear in V for fixed gates, is
// solved in closed form over the step.
func (ac *ActParams) VmFromG(nrn *Neuron) {
	m, h, n := nrn.M, nrn.H, nrn.N
	gNa := ac.Gbar.Na * m * m * m * h
	gK := ac.Gbar.K * n * n * n * n
	gE := ac.Gbar.E * nrn.Ge
	gI := ac.Gbar.I * nrn.Gi
	gTot := ac.Gbar.L + gNa + gK + gE + gI
	iTot := ac.Gbar.L*ac.Erev.L + gNa*ac.Erev.Na + gK*ac.Erev.K +
		gE*ac.Erev.E + gI*ac.Erev.I + nrn.Inp + nrn.Ext
	nrn.Inet = iTot - gTot*nrn.Vm
	if ac.Dt.Method == gates.Euler || gTot == 0 {
		nrn.Vm += ac.Dt.Dt * nrn.Inet / ac.Cm
	} else {
		vinf := iTot / gTot
		nrn.Vm = vinf + (nrn.Vm-vinf)*math32.Exp(-ac.Dt.Dt*gTot/ac.Cm)
	}
}

// SpikeFromVm detects an upward threshold crossing between the previous
// step's membrane potential vmPrev and the just-updated Vm, recording the
// spike time.  The boundary is inclusive on the upper side: rising to
// exactly Thr counts as a spike; a neuron already at or above threshold
// does not spike again until it first falls below.
func (ac *ActParams) SpikeFromVm(nrn *Neuron, vmPrev, time float32) {
	if vmPrev < ac.Spike.Thr && nrn.Vm >= ac.Spike.Thr {
		nrn.Spike = 1
		nrn.SpikeT = time
	} else {
		nrn.Spike = 0
	}
}

// CycleNeuron runs one full timestep of the neuron-level kernels in their
// required order: conductance decay, gating variables (from old Vm), Vm
// (from new gates), spike detection, input-accumulator reset.
func (ac *ActParams) CycleNeuron(nrn *Neuron, time float32) {
	ac.GDecay(nrn)
	vmPrev := nrn.Vm
	ac.GatesFromVm(nrn)
	ac.VmFromG(nrn)
	ac.SpikeFromVm(nrn, vmPrev, time)
	nrn.Inp = 0
}

// CheckFinite returns an error if any neuron state variable is NaN or Inf,
// or Vm has left VmRange -- the signature of an unstable timestep or a
// malformed parameter, reported rather than silently continued.
func (ac *ActParams) CheckFinite(nrn *Neuron) error {
	for i, vn := range NeuronVars {
		v := nrn.VarByIndex(i)
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return errors.Errorf("neuron variable %s is not finite: %v", vn, v)
		}
	}
	if nrn.Vm < ac.VmRange.Min || nrn.Vm > ac.VmRange.Max {
		return errors.Errorf("neuron Vm %v outside plausible range %v -- timestep too large?", nrn.Vm, ac.VmRange)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  SpikeParams

// SpikeParams are spike detection parameters
type SpikeParams struct {
	Thr float32 `desc:"spike threshold in mV -- a spike is the upward crossing of this value"`
}

//////////////////////////////////////////////////////////////////////////////////////
//  ActInitParams

// ActInitParams are initial values for key neuron state variables, set by
// InitActs at the start of a run.
type ActInitParams struct {
	Vm float32 `desc:"initial membrane potential in mV"`
	Ge float32 `def:"0" desc:"initial excitatory synaptic conductance"`
	Gi float32 `def:"0" desc:"initial inhibitory synaptic conductance"`
}

//////////////////////////////////////////////////////////////////////////////////////
//  DtParams

// DtParams are the timestep, integration method, and synaptic conductance
// time constants.  All time constants are in msec.
type DtParams struct {
	Dt     float32       `def:"0.1" min:"0" desc:"integration timestep in msec -- MUST equal the Time.TimePerCyc of the run (validated by Network.Run)"`
	Method gates.Methods `desc:"numerical integration method, selected once at setup and applied uniformly -- Exponential (default) is required for stability at typical timesteps"`
	TauE   float32       `def:"5" min:"1" desc:"decay time constant for the excitatory conductance ge"`
	TauI   float32       `def:"10" min:"1" desc:"decay time constant for the inhibitory conductance gi"`

	GeDcy float32 `view:"-" json:"-" xml:"-" desc:"derived per-step decay factor for Ge"`
	GiDcy float32 `view:"-" json:"-" xml:"-" desc:"derived per-step decay factor for Gi"`
}

func (dp *DtParams) Update() {
	dp.GeDcy = gates.DecayFact(dp.Dt, dp.TauE, dp.Method)
	dp.GiDcy = gates.DecayFact(dp.Dt, dp.TauI, dp.Method)
}

func (dp *DtParams) Defaults() {
	dp.Dt = 0.1
	dp.Method = gates.Exponential
	dp.TauE = 5
	dp.TauI = 10
	dp.Update()
}

// Validate returns an error for non-positive timestep or time constants.
func (dp *DtParams) Validate() error {
	if dp.Dt <= 0 {
		return errors.Errorf("Dt timestep must be > 0, is: %v", dp.Dt)
	}
	if dp.TauE <= 0 || dp.TauI <= 0 {
		return errors.Errorf("TauE and TauI must be > 0, are: %v, %v", dp.TauE, dp.TauI)
	}
	if dp.Method < 0 || dp.Method >= gates.MethodsN {
		return errors.Errorf("Method is not a valid integration method: %d", dp.Method)
	}
	return nil
}
