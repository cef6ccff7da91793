// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
)

// spike.Neuron holds all of the neuron (unit) level state variables.
// All variables must be float32 and listed in NeuronVars in field order,
// which enables the generic VarByName / VarByIndex monitor access.
type Neuron struct {

	// membrane potential in mV -- integrates all channel currents over time
	Vm float32

	// net current from all channels at the last update -- drives Vm
	Inet float32

	// sodium activation gate (m^3 factor of the Na conductance), in [0,1]
	M float32

	// sodium inactivation gate (h factor of the Na conductance), in [0,1]
	H float32

	// potassium activation gate (n^4 factor of the K conductance), in [0,1]
	N float32

	// excitatory synaptic conductance -- decays exponentially with Dt.TauE,
	// incremented by spikes arriving over Exc pathways
	Ge float32

	// inhibitory synaptic conductance -- decays exponentially with Dt.TauI,
	// incremented by spikes arriving over Inh pathways
	Gi float32

	// synaptic input current accumulator, filled by kinetic synapse pathways
	// each cycle and consumed (then zeroed) by the next Vm update
	Inp float32

	// external injected current, applied every cycle until changed
	Ext float32

	// whether the neuron spiked this cycle (0 or 1): Vm crossed the spike
	// threshold from below to at-or-above
	Spike float32

	// time of the most recent spike in msec -- -1 if never spiked
	SpikeT float32
}

var NeuronVars = []string{"Vm", "Inet", "M", "H", "N", "Ge", "Gi", "Inp", "Ext", "Spike", "SpikeT"}

var NeuronVarsMap map[string]int

var NeuronVarProps = map[string]string{
	"Vm":     `min:"-100" max:"60"`,
	"Inet":   `auto-scale:"+"`,
	"Inp":    `auto-scale:"+"`,
	"Ext":    `auto-scale:"+"`,
	"SpikeT": `min:"-1"`,
}

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIdxByName returns the index of the variable in the Neuron, or error
func NeuronVarIdxByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return math32.NaN(), err
	}
	return nrn.VarByIndex(i), nil
}
