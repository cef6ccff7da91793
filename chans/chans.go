// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the standard set of ion channels for conductance-based
spiking neuron models of the Hodgkin-Huxley family: fast sodium, delayed
rectifier potassium, constant leak, and the excitatory / inhibitory synaptic
channels.  The same Chans struct is used both for maximal conductances (Gbar)
and reversal potentials (Erev).
*/
package chans

// Chans are the ion channels for a conductance-based spiking neuron.
type Chans struct {
	Na float32 `desc:"fast voltage-gated sodium channels, gated by m^3 h -- drives the action potential upstroke"`
	K  float32 `desc:"delayed rectifier potassium channels, gated by n^4 -- repolarizes after a spike"`
	L  float32 `desc:"constant leak channels -- determines the resting potential together with the other channels"`
	E  float32 `desc:"excitatory synaptic channels driven by presynaptic spikes (AMPA-like)"`
	I  float32 `desc:"inhibitory synaptic channels driven by presynaptic spikes (GABAa-like)"`
}

// SetAll sets all the values
func (ch *Chans) SetAll(na, k, l, e, i float32) {
	ch.Na, ch.K, ch.L, ch.E, ch.I = na, k, l, e, i
}

// AllNonNeg returns true if all channel values are >= 0 -- required for
// conductances (but not reversal potentials, which are in mV).
func (ch *Chans) AllNonNeg() bool {
	return ch.Na >= 0 && ch.K >= 0 && ch.L >= 0 && ch.E >= 0 && ch.I >= 0
}
