// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spike implements conductance-based spiking neural networks of the
Hodgkin-Huxley family: per-neuron gating and membrane-potential integration
kernels, threshold-crossing spike detection, and event-driven synaptic
delivery through precomputed fan-out / fan-in connectivity.

The network advances in fixed timesteps, each cycle running in strict order:

 1. External input currents are applied to layers (Network.Run).
 2. Neuron phase (Layer.ActFromG): synaptic conductances ge / gi decay,
    gating variables advance from the previous step's membrane potential,
    the membrane potential advances from the freshly computed gates
    (staggered update, load-bearing for numerical behavior), and spikes are
    detected as upward threshold crossings.
 3. Send phase (Layer.SendSpike): spiking neurons scatter-add their synaptic
    weights into per-pathway receiver buffers (direct conductance paths),
    and kinetic synapse paths integrate per-synapse gating state and
    aggregate conductance onto postsynaptic input currents.
 4. Commit phase (Layer.GFromInc): receiver buffers are added into
    postsynaptic ge / gi, completing all of this cycle's deliveries before
    the next cycle's neuron phase reads them.

Everything is single-threaded and deterministic: exactly one writer touches
each state array per phase.

Two neuron models are configured through ActParams: Traub-Miles
(ActParams.Defaults, the COBA-HH benchmark network model) and Wang-Buzsaki
fast-spiking interneurons (ActParams.WangBuzsakiDefaults).  Synaptic delivery
likewise supports both the direct conductance-increment model (PathTypes
Exc / Inh, conductances decaying with TauE / TauI) and the continuous kinetic
synapse model (KineticParams, sigmoidal presynaptic drive with per-synapse
gating state).

Units are mV for potentials, msec for time and rate constants; conductance,
current and capacitance units need only be mutually consistent.
*/
package spike
