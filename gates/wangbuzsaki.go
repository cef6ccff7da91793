// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gates

import "github.com/chewxy/math32"

// Wang-Buzsaki kinetics for the fast-spiking interneuron model
// (Wang & Buzsaki, 1996).  The sodium activation gate m is treated as
// instantaneous (always at its steady state), so only h and n carry state;
// their rates are scaled by the temperature factor Phi (default 5).

// WangBuzsakiM is the sodium activation gate m.  It is used only through
// SteadyState (instantaneous activation) -- it carries no temperature factor
// since Phi cancels in Alpha/(Alpha+Beta).  Alpha has its x/(exp(x)-1)
// singularity at v = -35.
type WangBuzsakiM struct {
}

func (wm *WangBuzsakiM) Defaults() {
}

func (wm *WangBuzsakiM) Alpha(v float32) float32 {
	return ExpM1Ratio(-0.1 * (v + 35))
}

func (wm *WangBuzsakiM) Beta(v float32) float32 {
	return 4 * math32.Exp(-(v+60)/18)
}

// WangBuzsakiH is the sodium inactivation gate h.
type WangBuzsakiH struct {
	Phi float32 `def:"5" desc:"temperature scaling factor on both rates"`
}

func (wh *WangBuzsakiH) Defaults() {
	wh.Phi = 5
}

func (wh *WangBuzsakiH) Alpha(v float32) float32 {
	return wh.Phi * 0.07 * math32.Exp(-(v+58)/20)
}

func (wh *WangBuzsakiH) Beta(v float32) float32 {
	return wh.Phi / (math32.Exp(-0.1*(v+28)) + 1)
}

// WangBuzsakiN is the potassium activation gate n, with its Alpha
// singularity at v = -34.
type WangBuzsakiN struct {
	Phi float32 `def:"5" desc:"temperature scaling factor on both rates"`
}

func (wn *WangBuzsakiN) Defaults() {
	wn.Phi = 5
}

func (wn *WangBuzsakiN) Alpha(v float32) float32 {
	return wn.Phi * 0.1 * ExpM1Ratio(-0.1*(v+34))
}

func (wn *WangBuzsakiN) Beta(v float32) float32 {
	return wn.Phi * 0.125 * math32.Exp(-(v+44)/80)
}
