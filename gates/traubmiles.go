// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gates

import "github.com/chewxy/math32"

// Traub-Miles kinetics for the m, h, n gates, as used in the COBA
// Hodgkin-Huxley benchmark network (Brette et al, 2007).  All three gates
// share an adjustable threshold parameter VT that shifts the voltage
// dependence of the rates (default -63 mV).

// TraubMilesM is the sodium activation gate m (contributes m^3 to the Na
// conductance).  Both rates have x/(exp(x)-1) singularities: Alpha at
// v = VT+13, Beta at v = VT+40.
type TraubMilesM struct {
	VT float32 `def:"-63" desc:"adjustable spike threshold shift (mV)"`
}

func (tm *TraubMilesM) Defaults() {
	tm.VT = -63
}

func (tm *TraubMilesM) Alpha(v float32) float32 {
	return 1.28 * ExpM1Ratio((13-v+tm.VT)/4)
}

func (tm *TraubMilesM) Beta(v float32) float32 {
	return 1.4 * ExpM1Ratio((v-tm.VT-40)/5)
}

// TraubMilesH is the sodium inactivation gate h (contributes the h factor to
// the Na conductance).
type TraubMilesH struct {
	VT float32 `def:"-63" desc:"adjustable spike threshold shift (mV)"`
}

func (th *TraubMilesH) Defaults() {
	th.VT = -63
}

func (th *TraubMilesH) Alpha(v float32) float32 {
	return 0.128 * math32.Exp((17-v+th.VT)/18)
}

func (th *TraubMilesH) Beta(v float32) float32 {
	return 4 / (1 + math32.Exp(-(v-th.VT-40)/5))
}

// TraubMilesN is the potassium activation gate n (contributes n^4 to the K
// conductance).  Alpha has its singularity at v = VT+15.
type TraubMilesN struct {
	VT float32 `def:"-63" desc:"adjustable spike threshold shift (mV)"`
}

func (tn *TraubMilesN) Defaults() {
	tn.VT = -63
}

func (tn *TraubMilesN) Alpha(v float32) float32 {
	return 0.16 * ExpM1Ratio((15-v+tn.VT)/5)
}

func (tn *TraubMilesN) Beta(v float32) float32 {
	return 0.5 * math32.Exp((10-v+tn.VT)/40)
}
