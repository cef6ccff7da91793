// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import "github.com/goki/ki/kit"

// PathTypes is the type of a pathway, which determines the conductance
// accumulator that direct spike deliveries target on the receiving neurons.
type PathTypes int

//go:generate stringer -type=PathTypes

var KiT_PathTypes = kit.Enums.AddEnum(PathTypesN, kit.NotBitFlag, nil)

func (ev PathTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *PathTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The path types
const (
	// Exc is an excitatory pathway -- direct deliveries increment Ge
	Exc PathTypes = iota

	// Inh is an inhibitory pathway -- direct deliveries increment Gi
	Inh

	PathTypesN
)
