// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
)

// spike.Synapse holds state for the synaptic connection between two neurons.
// Direct conductance pathways use only Wt; kinetic pathways also carry the
// continuous gating state S and conductance G.
type Synapse struct {
	Wt float32 `desc:"synaptic weight: the conductance increment delivered per presynaptic spike (direct pathways), or a multiplier on the kinetic conductance"`
	S  float32 `desc:"kinetic synapse gating fraction in [0,1], driven by the sigmoidal transmitter function of presynaptic voltage"`
	G  float32 `desc:"kinetic synapse conductance = Kin.Gbar * Wt * S, aggregated over fan-in onto the postsynaptic neuron"`
}

var SynapseVars = []string{"Wt", "S", "G"}

var SynapseVarsMap map[string]int

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// SynapseVarByName returns the index of the variable in the Synapse, or error
func SynapseVarByName(varNm string) (int, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(sy)) + uintptr(4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return math32.NaN(), err
	}
	return sy.VarByIndex(i), nil
}
