// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hypeq bundles a hyperbolic system with the indicator, limiter and
// approximate Riemann solver that advance it into a single Equation value
// and provides an explicitly-constructed registry of named
// equations for configuration-driven dispatch.
package hypeq

import (
	"github.com/cpmech/hypexpl/hypsys"
	"github.com/cpmech/hypexpl/indicator"
	"github.com/cpmech/hypexpl/limiter"
	"github.com/cpmech/hypexpl/riemann"
)

// ParabolicCollaborator is the implicit diffusion operator a Navier-Stokes
// style equation couples after the explicit hyperbolic update. The explicit
// step never calls it; an outer operator-splitting driver does.
type ParabolicCollaborator interface {
	Name() string
	// Substep advances U by the parabolic (viscous) part over dt.
	Substep(U [][]float64, dt float64) error
}

// Equation is the complete set of per-equation strategies the step
// controller and stencil kernel drive; everything a single conservation law
// needs beyond the mesh and the configuration-level tunables. Parabolic is
// nil for purely hyperbolic equations.
type Equation struct {
	Name      string
	System    hypsys.System
	Limiter   *limiter.Limiter
	Indicator indicator.Indicator
	Riemann   *riemann.Solver
	Parabolic ParabolicCollaborator
}

// Registry maps equation names to Equation values. Every entry is added by
// an explicit call to Register from the configuration layer that constructs
// the Equation (hypcfg), so a Registry's contents are fully determined by
// what the caller assembled, not by which files happened to be compiled
// into the binary.
type Registry struct {
	equations map[string]*Equation
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{equations: make(map[string]*Equation)}
}

// Register adds eq under its own Name, overwriting any previous entry with
// that name.
func (o *Registry) Register(eq *Equation) {
	o.equations[eq.Name] = eq
}

// Get looks up a registered Equation by name; ok is false if nothing was
// registered under that name.
func (o *Registry) Get(name string) (eq *Equation, ok bool) {
	eq, ok = o.equations[name]
	return
}

// Names returns every registered equation name, in no particular order.
func (o *Registry) Names() []string {
	names := make([]string, 0, len(o.equations))
	for name := range o.equations {
		names = append(names, name)
	}
	return names
}
