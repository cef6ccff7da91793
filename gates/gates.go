// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gates implements the voltage-dependent kinetics of Hodgkin-Huxley
style ion channel gating variables (activation / inactivation fractions m, h,
n in [0,1]), along with the numerical integration methods for advancing them
in discrete time.

A gating variable x evolves as:

	dx/dt = Alpha(V) * (1-x) - Beta(V) * x

where Alpha and Beta are nonlinear rate functions of the membrane potential V.
Several of these rate functions contain terms of the form x / (exp(x) - 1)
with a removable singularity at x = 0, which falls at physiologically relevant
voltages -- ExpM1Ratio evaluates this form with the singular point handled
explicitly via its series expansion, so rates are finite everywhere.

Two integration methods are provided: standard forward Euler, and the
Exponential method which uses the exact closed-form solution of the linear
gating ODE over one step (holding V fixed), and is stable at step sizes where
Euler diverges for gates with large rate constants.  The method is selected
once at setup and applied uniformly.
*/
package gates

import (
	"github.com/chewxy/math32"
	"github.com/goki/ki/kit"
)

// Kinetics specifies the voltage-dependent opening (Alpha) and closing (Beta)
// rate functions for one gating variable.  Rates are per msec, voltages in mV.
type Kinetics interface {
	// Alpha is the opening rate at membrane potential v
	Alpha(v float32) float32

	// Beta is the closing rate at membrane potential v
	Beta(v float32) float32
}

// SteadyState returns the equilibrium value of a gating variable at fixed
// membrane potential v: Alpha / (Alpha + Beta).
func SteadyState(k Kinetics, v float32) float32 {
	a := k.Alpha(v)
	s := a + k.Beta(v)
	if s == 0 {
		return 0
	}
	return a / s
}

// Next advances gating variable x by one timestep dt given the current
// alpha, beta rates, using the given integration method.
// For Exponential, the update is the exact solution of the linear ODE over
// the step: x relaxes toward alpha/(alpha+beta) with rate alpha+beta, which
// is contractive and keeps x in [0,1] for any dt.
func Next(x, alpha, beta, dt float32, mth Methods) float32 {
	if mth == Euler {
		return x + dt*(alpha*(1-x)-beta*x)
	}
	sum := alpha + beta
	if sum == 0 {
		return x
	}
	xs := alpha / sum
	return xs + (x-xs)*math32.Exp(-dt*sum)
}

// DecayFact returns the per-step multiplicative decay factor for a variable
// following dx/dt = -x / tau, for the given integration method.
// Exponential gives the exact factor exp(-dt/tau).
func DecayFact(dt, tau float32, mth Methods) float32 {
	if mth == Euler {
		return 1 - dt/tau
	}
	return math32.Exp(-dt / tau)
}

// ExpM1Ratio returns x / (exp(x) - 1), the ratio arising in several channel
// rate functions.  The removable singularity at x = 0 is evaluated via the
// series expansion 1 - x/2 + x^2/12, which is also used in a small
// neighborhood of 0 where the direct form loses precision.
func ExpM1Ratio(x float32) float32 {
	if math32.Abs(x) < 1e-4 {
		return 1 - x/2 + x*x/12
	}
	return x / math32.Expm1(x)
}

// Sigmoid returns the logistic function 1 / (1 + exp(-(v-thr)/slope)),
// used for the presynaptic transmitter drive in kinetic synapse models.
func Sigmoid(v, thr, slope float32) float32 {
	return 1 / (1 + math32.Exp(-(v-thr)/slope))
}

//////////////////////////////////////////////////////////////////////////////////////
//  Methods

// Methods are the numerical integration methods for advancing gating state.
type Methods int32

//go:generate stringer -type=Methods

var KiT_Methods = kit.Enums.AddEnum(MethodsN, kit.NotBitFlag, nil)

func (ev Methods) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Methods) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Euler is first-order forward Euler integration: x += dt * dx/dt.
	// Can diverge for gating variables with large rate constants unless
	// dt is small.
	Euler Methods = iota

	// Exponential integrates via the closed-form solution of the linear
	// (in x) gating equation over one step, with V held at its start-of-step
	// value.  Unconditionally stable for the gating and decay equations.
	Exponential

	MethodsN
)
