// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

// spike.Time contains the current simulation time.  One cycle advances the
// network by TimePerCyc msec, which must equal the integration step size of
// every layer in the network (validated in Run).
type Time struct {
	Time       float32 `desc:"accumulated amount of time the network has been running, in simulation-time (msec)"`
	Cycle      int     `desc:"cycle counter: number of iterations of integration performed since last Reset"`
	TimePerCyc float32 `def:"0.1" desc:"amount of time simulated per cycle, in msec"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.TimePerCyc = 0.1
}

// Reset resets the counters back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Cycle = 0
}

// CycleInc increments at the cycle level
func (tm *Time) CycleInc() {
	tm.Cycle++
	tm.Time += tm.TimePerCyc
}
