// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/emer/hhnet/gates"
	"github.com/goki/ki/ki"
	"github.com/goki/ki/kit"
	"github.com/pkg/errors"
)

// spike.Path is a pathway of synaptic connections between two layers,
// maintaining the fan-out / fan-in connection indexes and all synapse-level
// state, and implementing both synaptic delivery modes: direct conductance
// increment (SendSpike / RecvGInc) and the continuous kinetic synapse model
// (SynFromV / RecvCurrent, enabled by Kin.On).
type Path struct {
	Off    bool           `desc:"inactivate this pathway -- allows for easy experimentation"`
	Cls    string         `desc:"Class is for applying parameter styles, can be space separated multiple tags"`
	Send   *Layer         `desc:"sending layer for this pathway"`
	Recv   *Layer         `desc:"receiving layer for this pathway -- can be the same as Send for recurrent pathways"`
	Pat    prjn.Pattern   `desc:"pattern of connectivity -- built once, static for the run"`
	Typ    PathTypes      `desc:"Exc targets the receiver's Ge accumulator, Inh targets Gi (direct delivery mode)"`
	WtInit WtInitParams   `view:"inline" desc:"initial synaptic weight distribution"`
	Kin    KineticParams  `view:"inline" desc:"continuous kinetic synapse model parameters -- when On, replaces direct delivery for this pathway"`
	Syns   []Synapse      `desc:"synapse state values, ordered by the sending layer units which own them -- one-to-one with SConIdx array"`
	GInc   []float32      `desc:"per-recv-unit conductance increment accumulator for direct delivery -- scatter target of SendSpike, committed to neuron Ge/Gi by RecvGInc"`

	// connection-level indexes (fan-in then fan-out ordering):

	RConN       []int32         `view:"-" desc:"number of recv connections for each neuron in the receiving layer, as a flat list"`
	RConNAvgMax minmax.AvgMax32 `inactive:"+" view:"inline" desc:"average and maximum number of recv connections in the receiving layer"`
	RConIdxSt   []int32         `view:"-" desc:"starting index into ConIdx list for each neuron in receiving layer -- just a list incremented by ConN"`
	RConIdx     []int32         `view:"-" desc:"index of sending neuron for each recv unit x connection, ordered by recv unit then within by send order"`
	RSynIdx     []int32         `view:"-" desc:"index into the sender-ordered Syns list for each recv unit x connection -- the fan-in view of the synapses"`
	SConN       []int32         `view:"-" desc:"number of sending connections for each neuron in the sending layer, as a flat list"`
	SConNAvgMax minmax.AvgMax32 `inactive:"+" view:"inline" desc:"average and maximum number of sending connections in the sending layer"`
	SConIdxSt   []int32         `view:"-" desc:"starting index into ConIdx list for each neuron in sending layer -- just a list incremented by ConN"`
	SConIdx     []int32         `view:"-" desc:"index of receiving neuron for each send unit x connection, ordered by send unit then within by recv order"`
}

var KiT_Path = kit.Types.AddType(&Path{}, PathProps)

var PathProps = ki.Props{}

func (pj *Path) Defaults() {
	pj.WtInit.Defaults()
	pj.Kin.Defaults()
	pj.Kin.On = false
}

// UpdateParams updates all params given any changes that might have been made to individual values
func (pj *Path) UpdateParams() {
	pj.Kin.Update()
}

func (pj *Path) TypeName() string { return "Path" } // always, for params..
func (pj *Path) Class() string    { return pj.Typ.String() + " " + pj.Cls }
func (pj *Path) Name() string {
	return pj.Send.Name() + "To" + pj.Recv.Name()
}
func (pj *Path) Label() string { return pj.Name() }

func (pj *Path) IsOff() bool {
	return pj.Off || pj.Recv.IsOff() || pj.Send.IsOff()
}

// Connect sets the connectivity between two layers and the pattern to use in
// interconnecting them
func (pj *Path) Connect(slay, rlay *Layer, pat prjn.Pattern, typ PathTypes) {
	pj.Send = slay
	pj.Recv = rlay
	pj.Pat = pat
	pj.Typ = typ
}

// Validate tests for non-nil settings for the pathway -- returns error
// message or nil if no problems
func (pj *Path) Validate() error {
	emsg := ""
	if pj.Pat == nil {
		emsg += "Pat is nil; "
	}
	if pj.Recv == nil {
		emsg += "Recv is nil; "
	}
	if pj.Send == nil {
		emsg += "Send is nil; "
	}
	if emsg != "" {
		return errors.New(emsg)
	}
	if pj.Kin.On {
		if err := pj.Kin.Validate(); err != nil {
			return errors.Wrapf(err, "path %s", pj.String())
		}
	}
	return nil
}

// BuildStru constructs the full connectivity among the layers as specified
// in this pathway: Pat.Connect is called to get the pattern of connections,
// then the fan-out and fan-in indexes are configured from it.  Any
// inconsistency in the pattern's connection counts is a fatal configuration
// error.
func (pj *Path) BuildStru() error {
	if pj.Off {
		return nil
	}
	if err := pj.Validate(); err != nil {
		return err
	}
	ssh := pj.Send.Shape()
	rsh := pj.Recv.Shape()
	sendn, recvn, cons := pj.Pat.Connect(ssh, rsh, pj.Recv == pj.Send)
	slen := ssh.Len()
	rlen := rsh.Len()
	tcons := pj.SetNIdxSt(&pj.SConN, &pj.SConNAvgMax, &pj.SConIdxSt, sendn)
	tconr := pj.SetNIdxSt(&pj.RConN, &pj.RConNAvgMax, &pj.RConIdxSt, recvn)
	if tconr != tcons {
		return errors.Errorf("%v total recv cons %v != total send cons %v", pj.String(), tconr, tcons)
	}
	pj.RConIdx = make([]int32, tconr)
	pj.RSynIdx = make([]int32, tconr)
	pj.SConIdx = make([]int32, tcons)

	sconN := make([]int32, slen) // temporary mem needed to tracks cur n of sending cons

	cbits := cons.Values
	for ri := 0; ri < rlen; ri++ {
		rbi := ri * slen     // recv bit index
		rtcn := pj.RConN[ri] // number of cons
		rst := pj.RConIdxSt[ri]
		rci := int32(0)
		for si := 0; si < slen; si++ {
			if !cbits.Index(rbi + si) { // no connection
				continue
			}
			sst := pj.SConIdxSt[si]
			if rci >= rtcn {
				return errors.Errorf("%v recv target total con number: %v exceeded at recv idx: %v, send idx: %v", pj.String(), rtcn, ri, si)
			}
			pj.RConIdx[rst+rci] = int32(si)

			sci := sconN[si]
			stcn := pj.SConN[si]
			if sci >= stcn {
				return errors.Errorf("%v send target total con number: %v exceeded at recv idx: %v, send idx: %v", pj.String(), stcn, ri, si)
			}
			pj.SConIdx[sst+sci] = int32(ri)
			pj.RSynIdx[rst+rci] = sst + sci
			(sconN[si])++
			rci++
		}
	}
	return nil
}

// SetNIdxSt sets the *ConN and *ConIdxSt values given n tensor from Pat.
// Returns total number of connections for this direction.
func (pj *Path) SetNIdxSt(n *[]int32, avgmax *minmax.AvgMax32, idxst *[]int32, tn *etensor.Int32) int32 {
	ln := tn.Len()
	tnv := tn.Values
	*n = make([]int32, ln)
	*idxst = make([]int32, ln)
	idx := int32(0)
	avgmax.Init()
	for i := 0; i < ln; i++ {
		nv := tnv[i]
		(*n)[i] = nv
		(*idxst)[i] = idx
		idx += nv
		avgmax.UpdateVal(float32(nv), i)
	}
	avgmax.CalcAvg()
	return idx
}

// ConsCheck verifies the fan-out / fan-in round trip after BuildStru: every
// synapse in the fan-in list of a receiving neuron must map back, through the
// sender-ordered synapse index, to a fan-out entry naming that same neuron,
// and all indexes must be in range.  Any violation is a fatal configuration
// error.
func (pj *Path) ConsCheck() error {
	if pj.Off {
		return nil
	}
	slen := int32(pj.Send.Shape().Len())
	rlen := int32(pj.Recv.Shape().Len())
	ns := int32(len(pj.SConIdx))
	for _, ri := range pj.SConIdx {
		if ri < 0 || ri >= rlen {
			return errors.Errorf("%v fan-out entry references out-of-range recv id: %v (recv n: %v)", pj.String(), ri, rlen)
		}
	}
	for ri := int32(0); ri < rlen; ri++ {
		nc := pj.RConN[ri]
		st := pj.RConIdxSt[ri]
		for ci := int32(0); ci < nc; ci++ {
			si := pj.RConIdx[st+ci]
			if si < 0 || si >= slen {
				return errors.Errorf("%v fan-in entry references out-of-range send id: %v (send n: %v)", pj.String(), si, slen)
			}
			rsi := pj.RSynIdx[st+ci]
			if rsi < 0 || rsi >= ns {
				return errors.Errorf("%v fan-in synapse index out of range: %v (n syns: %v)", pj.String(), rsi, ns)
			}
			if pj.SConIdx[rsi] != ri {
				return errors.Errorf("%v fan-out / fan-in mismatch: synapse %v from send id %v targets recv id %v, not %v", pj.String(), rsi, si, pj.SConIdx[rsi], ri)
			}
		}
	}
	return nil
}

// Build constructs the full connectivity and all the synapse and buffer
// state for this pathway.
func (pj *Path) Build() error {
	if err := pj.BuildStru(); err != nil {
		return err
	}
	if pj.Off {
		return nil
	}
	if err := pj.ConsCheck(); err != nil {
		return err
	}
	pj.Syns = make([]Synapse, len(pj.SConIdx))
	pj.GInc = make([]float32, pj.Recv.Shape().Len())
	pj.InitWts()
	return nil
}

// String satisfies fmt.Stringer for path
func (pj *Path) String() string {
	str := ""
	if pj.Recv == nil {
		str += "recv=nil; "
	} else {
		str += pj.Recv.Name() + " <- "
	}
	if pj.Send == nil {
		str += "send=nil"
	} else {
		str += pj.Send.Name()
	}
	if pj.Pat == nil {
		str += " Pat=nil"
	} else {
		str += " Pat=" + pj.Pat.Name()
	}
	return str
}

///////////////////////////////////////////////////////////////////////
//  Init

// InitWts initializes synapse weights from the WtInit distribution, and
// zeros the kinetic state.
func (pj *Path) InitWts() {
	for si := range pj.Syns {
		sy := &pj.Syns[si]
		sy.Wt = float32(pj.WtInit.Gen(-1))
		sy.S = 0
		sy.G = 0
	}
	pj.InitGInc()
}

// InitGInc zeroes the per-recv conductance increment accumulator
func (pj *Path) InitGInc() {
	for ri := range pj.GInc {
		pj.GInc[ri] = 0
	}
}

///////////////////////////////////////////////////////////////////////
//  Synapse access

// SynVals sets values of given variable name for each synapse, using the
// natural (sender-based) ordering of the synapses, into given float32 slice
// (only resized if not big enough).  Returns error on invalid var name.
func (pj *Path) SynVals(vals *[]float32, varNm string) error {
	vidx, err := SynapseVarByName(varNm)
	if err != nil {
		return err
	}
	ns := len(pj.Syns)
	if *vals == nil || cap(*vals) < ns {
		*vals = make([]float32, ns)
	} else if len(*vals) < ns {
		*vals = (*vals)[0:ns]
	}
	for i := range pj.Syns {
		sy := &pj.Syns[i]
		(*vals)[i] = sy.VarByIndex(vidx)
	}
	return nil
}

// Syn returns the synapse between given send, recv unit indexes (1D, flat
// indexes).  Returns nil if not connected.
func (pj *Path) Syn(sidx, ridx int) *Synapse {
	nc := int(pj.RConN[ridx])
	st := int(pj.RConIdxSt[ridx])
	for ci := 0; ci < nc; ci++ {
		si := int(pj.RConIdx[st+ci])
		if si != sidx {
			continue
		}
		rsi := pj.RSynIdx[st+ci]
		return &pj.Syns[rsi]
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Act methods: synaptic delivery

// SendSpike delivers a spike from sending neuron index si through the
// fan-out list, scatter-adding each synapse's weight into the per-recv GInc
// buffer.  Increments from multiple spiking senders accumulate additively
// and order-independently; nothing reads GInc until RecvGInc commits it.
func (pj *Path) SendSpike(si int) {
	nc := pj.SConN[si]
	st := pj.SConIdxSt[si]
	syns := pj.Syns[st : st+nc]
	scons := pj.SConIdx[st : st+nc]
	for ci := range syns {
		ri := scons[ci]
		pj.GInc[ri] += syns[ci].Wt
	}
}

// RecvGInc increments the receivers' Ge or Gi (depending on path type) from
// the accumulated GInc buffer, which is then zeroed.  This commit completes
// the cycle's direct deliveries before the next cycle's voltage update
// reads the conductances.
func (pj *Path) RecvGInc() {
	rlay := pj.Recv
	if pj.Typ == Inh {
		for ri := range rlay.Neurons {
			rn := &rlay.Neurons[ri]
			rn.Gi += pj.GInc[ri]
			pj.GInc[ri] = 0
		}
	} else {
		for ri := range rlay.Neurons {
			rn := &rlay.Neurons[ri]
			rn.Ge += pj.GInc[ri]
			pj.GInc[ri] = 0
		}
	}
}

// SynFromV advances the kinetic gating state of every synapse from its
// sending neuron's current membrane potential: the transmitter drive
// T = sigmoid(Vpre) multiplies the opening rate, and the per-synapse
// conductance is G = Kin.Gbar * Wt * S.  Runs after the neuron phase, so
// Vpre is this cycle's potential.
func (pj *Path) SynFromV(ctx *Time) {
	kp := &pj.Kin
	dt := pj.Recv.Act.Dt.Dt
	mth := pj.Recv.Act.Dt.Method
	slay := pj.Send
	for si := range slay.Neurons {
		tdrv := gates.Sigmoid(slay.Neurons[si].Vm, kp.Thr, kp.Slope)
		alpha := kp.Alpha * tdrv
		nc := pj.SConN[si]
		st := pj.SConIdxSt[si]
		syns := pj.Syns[st : st+nc]
		for ci := range syns {
			sy := &syns[ci]
			sy.S = gates.Next(sy.S, alpha, kp.Beta, dt, mth)
			sy.G = kp.Gbar * sy.Wt * sy.S
		}
	}
}

// RecvCurrent aggregates the kinetic synapse conductances over each
// receiving neuron's fan-in (gather-sum keyed by target, the inverse of the
// fan-out scatter) and subtracts gSum * (Vpost - Erev) from the neuron's
// input current accumulator, to be consumed by the next cycle's voltage
// update.
func (pj *Path) RecvCurrent(ctx *Time) {
	kp := &pj.Kin
	rlay := pj.Recv
	for ri := range rlay.Neurons {
		nc := pj.RConN[ri]
		st := pj.RConIdxSt[ri]
		gSum := float32(0)
		for ci := int32(0); ci < nc; ci++ {
			gSum += pj.Syns[pj.RSynIdx[st+ci]].G
		}
		rn := &rlay.Neurons[ri]
		rn.Inp -= gSum * (rn.Vm - kp.Erev)
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  WtInitParams

// WtInitParams are initial synaptic weight parameters -- the random
// distribution the weights are drawn from at build time.
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 1
	wp.Var = 0
	wp.Dist = erand.Mean
}

//////////////////////////////////////////////////////////////////////////////////////
//  KineticParams

// KineticParams are the continuous kinetic synapse model parameters
// (first-order transmitter kinetics): per-synapse gating state s follows
// ds/dt = Alpha * T * (1-s) - Beta * s, with transmitter drive
// T = 1 / (1 + exp(-(Vpre-Thr)/Slope)).  Defaults are the GABAa synapse of
// the interneuron gamma model.
type KineticParams struct {
	On    bool    `desc:"use the kinetic synapse model for this pathway instead of direct conductance increments"`
	Gbar  float32 `def:"0.1" min:"0" desc:"maximal conductance per synapse (scaled by synapse Wt)"`
	Erev  float32 `def:"-75" desc:"reversal potential of the synaptic channel in mV"`
	Alpha float32 `def:"12" min:"0" desc:"opening (binding) rate constant, scaled by transmitter drive T"`
	Beta  float32 `def:"0.1" min:"0" desc:"closing (unbinding) rate constant"`
	Thr   float32 `def:"0" desc:"presynaptic voltage at which transmitter drive T = 0.5 -- the spike threshold"`
	Slope float32 `def:"2" min:"0" desc:"slope (mV) of the sigmoidal transmitter drive"`
}

func (kp *KineticParams) Defaults() {
	kp.Gbar = 0.1
	kp.Erev = -75
	kp.Alpha = 12
	kp.Beta = 0.1
	kp.Thr = 0
	kp.Slope = 2
	kp.Update()
}

func (kp *KineticParams) Update() {
}

// Validate returns an error for parameter values that would corrupt the
// simulation.
func (kp *KineticParams) Validate() error {
	if kp.Gbar < 0 {
		return errors.Errorf("Kin.Gbar must be >= 0, is: %v", kp.Gbar)
	}
	if kp.Alpha < 0 || kp.Beta < 0 {
		return errors.Errorf("Kin.Alpha and Kin.Beta must be >= 0, are: %v, %v", kp.Alpha, kp.Beta)
	}
	if kp.Slope <= 0 {
		return errors.Errorf("Kin.Slope must be > 0, is: %v", kp.Slope)
	}
	return nil
}
