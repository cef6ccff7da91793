// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/prjn"
	"github.com/emer/hhnet/gates"
)

// makePairNet returns a built 2-layer network with a full excitatory
// pathway from Send to Recv, identical weights wt.
func makePairNet(t *testing.T, nsend, nrecv int, wt float32) (*Network, *Path) {
	nt := NewNetwork("PairNet")
	sl := nt.AddLayer("Send", []int{1, nsend})
	rl := nt.AddLayer("Recv", []int{1, nrecv})
	pj := nt.ConnectLayers(sl, rl, prjn.NewFull(), Exc)
	pj.WtInit.Mean = float64(wt)
	pj.WtInit.Var = 0
	if err := nt.Build(); err != nil {
		t.Fatalf("build failed: %v\n", err)
	}
	nt.InitActs()
	return nt, pj
}

func TestBuildCons(t *testing.T) {
	nt, pj := makePairNet(t, 3, 4, 0.1)
	if len(pj.Syns) != 12 {
		t.Errorf("full 3x4 should have 12 synapses, got: %v\n", len(pj.Syns))
	}
	if len(pj.GInc) != 4 {
		t.Errorf("GInc should have one slot per recv neuron, got: %v\n", len(pj.GInc))
	}
	if pj.SConNAvgMax.Max != 4 || pj.RConNAvgMax.Max != 3 {
		t.Errorf("full fan-out max: %v (cor 4), fan-in max: %v (cor 3)\n", pj.SConNAvgMax.Max, pj.RConNAvgMax.Max)
	}
	for si := range pj.Syns {
		if pj.Syns[si].Wt != 0.1 {
			t.Errorf("synapse %v Wt: %v, cor: 0.1\n", si, pj.Syns[si].Wt)
		}
	}
	if err := pj.ConsCheck(); err != nil {
		t.Errorf("ConsCheck on clean build failed: %v\n", err)
	}
	_ = nt
}

func TestConsCheckTamper(t *testing.T) {
	_, pj := makePairNet(t, 3, 4, 0.1)
	save := pj.SConIdx[0]
	pj.SConIdx[0] = (save + 1) % 4
	if err := pj.ConsCheck(); err == nil {
		t.Errorf("ConsCheck should fail after fan-out tamper\n")
	}
	pj.SConIdx[0] = save

	save = pj.RSynIdx[0]
	pj.RSynIdx[0] = int32(len(pj.Syns)) + 10
	if err := pj.ConsCheck(); err == nil {
		t.Errorf("ConsCheck should fail on out-of-range synapse index\n")
	}
	pj.RSynIdx[0] = save
	if err := pj.ConsCheck(); err != nil {
		t.Errorf("ConsCheck should pass after restore: %v\n", err)
	}
}

// TestScatterOrder verifies that direct delivery accumulation is
// order-independent across senders.
func TestScatterOrder(t *testing.T) {
	_, pj := makePairNet(t, 3, 4, 0)
	for si := range pj.Syns {
		pj.Syns[si].Wt = 0.01 * float32(si+1)
	}
	pj.SendSpike(0)
	pj.SendSpike(1)
	pj.SendSpike(2)
	fwd := make([]float32, len(pj.GInc))
	copy(fwd, pj.GInc)

	pj.InitGInc()
	pj.SendSpike(2)
	pj.SendSpike(0)
	pj.SendSpike(1)
	for ri := range pj.GInc {
		if pj.GInc[ri] != fwd[ri] {
			t.Errorf("recv %v: GInc order-dependent: %v vs %v\n", ri, pj.GInc[ri], fwd[ri])
		}
	}
}

func TestDirectDelivery(t *testing.T) {
	nt, pj := makePairNet(t, 1, 1, 0.05)
	rl := nt.LayerByName("Recv")
	sl := nt.LayerByName("Send")
	rn := &rl.Neurons[0]

	sl.Neurons[0].Spike = 1
	ctx := NewTime()
	sl.SendSpike(ctx)
	if rn.Ge != 0 {
		t.Errorf("Ge must not change before commit, got: %v\n", rn.Ge)
	}
	rl.GFromInc(ctx)
	if math32.Abs(rn.Ge-0.05) > difTol {
		t.Errorf("Ge after commit: %v, cor: 0.05\n", rn.Ge)
	}
	if pj.GInc[0] != 0 {
		t.Errorf("GInc must be zeroed by commit, got: %v\n", pj.GInc[0])
	}

	// no further spikes: conductance decays by the per-step factor
	sl.Neurons[0].Spike = 0
	ge := rn.Ge
	rl.Act.GDecay(rn)
	cor := ge * rl.Act.Dt.GeDcy
	if math32.Abs(rn.Ge-cor) > difTol {
		t.Errorf("Ge after decay: %v, cor: %v\n", rn.Ge, cor)
	}
}

func TestInhDelivery(t *testing.T) {
	nt := NewNetwork("InhNet")
	sl := nt.AddLayer("Send", []int{1, 1})
	rl := nt.AddLayer("Recv", []int{1, 1})
	pj := nt.ConnectLayers(sl, rl, prjn.NewFull(), Inh)
	pj.WtInit.Mean = 0.67
	pj.WtInit.Var = 0
	if err := nt.Build(); err != nil {
		t.Fatalf("build failed: %v\n", err)
	}
	nt.InitActs()

	sl.Neurons[0].Spike = 1
	ctx := NewTime()
	sl.SendSpike(ctx)
	rl.GFromInc(ctx)
	rn := &rl.Neurons[0]
	if math32.Abs(rn.Gi-0.67) > difTol {
		t.Errorf("Gi after inhibitory commit: %v, cor: 0.67\n", rn.Gi)
	}
	if rn.Ge != 0 {
		t.Errorf("Ge must be untouched by inhibitory path, got: %v\n", rn.Ge)
	}
}

func TestKineticSynapse(t *testing.T) {
	nt, pj := makePairNet(t, 1, 1, 1)
	pj.Kin.Defaults()
	pj.Kin.On = true
	sl := nt.LayerByName("Send")
	rl := nt.LayerByName("Recv")
	sn := &sl.Neurons[0]
	rn := &rl.Neurons[0]
	ctx := NewTime()

	// presynaptic neuron far below threshold: drive ~ 0, s stays ~ 0
	sn.Vm = -65
	sl.SendSpike(ctx)
	if pj.Syns[0].S > 1e-3 {
		t.Errorf("subthreshold presynaptic Vm should leave s near 0, got: %v\n", pj.Syns[0].S)
	}

	// presynaptic neuron held depolarized: s rises toward its saturation
	// alpha*T / (alpha*T + beta), monotonically, bounded in [0,1]
	sn.Vm = 20
	tdrv := gates.Sigmoid(sn.Vm, pj.Kin.Thr, pj.Kin.Slope)
	ssat := pj.Kin.Alpha * tdrv / (pj.Kin.Alpha*tdrv + pj.Kin.Beta)
	prev := pj.Syns[0].S
	for i := 0; i < 500; i++ {
		sl.SendSpike(ctx)
		s := pj.Syns[0].S
		if s < prev-difTol {
			t.Errorf("step %v: s should rise monotonically under constant drive: %v -> %v\n", i, prev, s)
		}
		if s < 0 || s > 1 {
			t.Errorf("step %v: s out of [0,1]: %v\n", i, s)
		}
		prev = s
	}
	if math32.Abs(prev-ssat) > 1e-3 {
		t.Errorf("s should converge to %v, got: %v\n", ssat, prev)
	}
	corG := pj.Kin.Gbar * pj.Syns[0].Wt * pj.Syns[0].S
	if math32.Abs(pj.Syns[0].G-corG) > difTol {
		t.Errorf("synapse G: %v, cor: %v\n", pj.Syns[0].G, corG)
	}

	// postsynaptic above the reversal potential: inhibitory current
	rn.Vm = -50
	rn.Inp = 0
	rl.GFromInc(ctx)
	cor := -pj.Syns[0].G * (rn.Vm - pj.Kin.Erev)
	if cor >= 0 {
		t.Fatalf("test setup: current should be negative above Erev\n")
	}
	if math32.Abs(rn.Inp-cor) > difTol {
		t.Errorf("Inp after kinetic commit: %v, cor: %v\n", rn.Inp, cor)
	}
}

func TestSynVals(t *testing.T) {
	_, pj := makePairNet(t, 2, 2, 0.25)
	var vals []float32
	if err := pj.SynVals(&vals, "Wt"); err != nil {
		t.Fatalf("SynVals: %v\n", err)
	}
	if len(vals) != 4 {
		t.Errorf("SynVals len: %v, cor: 4\n", len(vals))
	}
	for i, v := range vals {
		if v != 0.25 {
			t.Errorf("SynVals[%v]: %v, cor: 0.25\n", i, v)
		}
	}
	if err := pj.SynVals(&vals, "NoSuchVar"); err == nil {
		t.Errorf("SynVals with bad name should error\n")
	}
	sy := pj.Syn(1, 0)
	if sy == nil || sy.Wt != 0.25 {
		t.Errorf("Syn(1,0) should find the synapse, got: %v\n", sy)
	}
}
