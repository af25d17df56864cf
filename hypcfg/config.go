// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hypcfg implements the configuration layer: JSON-decoded structs
// with SetDefault/Build methods that assemble a hypeq.Equation (and the
// hypstep.Config/limiter.Config/riemann.Solver tunables that ride alongside
// it) from a single decoded configuration file.
package hypcfg

import (
	"encoding/json"

	"github.com/cpmech/hypexpl/hypeq"
	"github.com/cpmech/hypexpl/hypstep"
	"github.com/cpmech/hypexpl/hypsys"
	"github.com/cpmech/hypexpl/hypsys/euler"
	"github.com/cpmech/hypexpl/hypsys/shallow"
	"github.com/cpmech/hypexpl/indicator"
	"github.com/cpmech/hypexpl/limiter"
	"github.com/cpmech/hypexpl/riemann"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// EOSConfig selects and parameterizes an equation of state for the euler
// system; Kind is one of "polytropic", "vanderwaals", "nasg".
type EOSConfig struct {
	Kind      string  `json:"kind"`
	Gamma     float64 `json:"gamma"`
	A         float64 `json:"a"`
	CovolumeB float64 `json:"covolumeb"`
	PInfty    float64 `json:"pinfty"`
	Q         float64 `json:"q"`
	GasConstR float64 `json:"gasconstr"`
}

// SetDefault fills the polytropic-air default used when Kind is left empty.
func (o *EOSConfig) SetDefault() {
	if o.Kind == "" {
		o.Kind = "polytropic"
	}
	if o.Gamma == 0 {
		o.Gamma = 1.4
	}
}

// Build constructs the euler.EOS this configuration describes.
func (o *EOSConfig) Build() euler.EOS {
	switch o.Kind {
	case "polytropic":
		return euler.Polytropic{Gamma: o.Gamma}
	case "vanderwaals":
		return euler.VanDerWaals{Gamma: o.Gamma, A: o.A, CovolumeB: o.CovolumeB, GasConstantR: o.GasConstR}
	case "nasg":
		return euler.NobleAbelStiffenedGas{Gamma: o.Gamma, CovolumeB: o.CovolumeB, PInfty: o.PInfty, Q: o.Q}
	default:
		chk.Panic("hypcfg: unknown eos kind %q (accepted: polytropic, vanderwaals, nasg)", o.Kind)
		return nil
	}
}

// SystemConfig selects the hyperbolic system: "euler" (with EOS) or
// "shallow" (with Gravity).
type SystemConfig struct {
	Kind                string    `json:"kind"`
	Dim                 int       `json:"dim"`
	EOS                 EOSConfig `json:"eos"`
	Gravity             float64   `json:"gravity"`
	ReferenceDensity    float64   `json:"referencedensity"`
	VacuumSmall         float64   `json:"vacuumsmall"`
	VacuumLarge         float64   `json:"vacuumlarge"`
	ComputeStrictBounds bool      `json:"strictbounds"`
}

// SetDefault fills Dim=1 and delegates to EOSConfig.SetDefault.
func (o *SystemConfig) SetDefault() {
	if o.Dim == 0 {
		o.Dim = 1
	}
	if o.Kind == "" {
		o.Kind = "euler"
	}
	if o.Gravity == 0 {
		o.Gravity = 9.81
	}
	o.EOS.SetDefault()
}

// Build constructs the hypsys.System this configuration describes.
func (o *SystemConfig) Build() hypsys.System {
	switch o.Kind {
	case "euler":
		sys := euler.NewSystem(o.Dim, o.EOS.Build())
		sys.ReferenceDensity = o.ReferenceDensity
		if o.VacuumSmall > 0 {
			sys.VacuumSmall = o.VacuumSmall
		}
		if o.VacuumLarge > 0 {
			sys.VacuumLarge = o.VacuumLarge
		}
		sys.ComputeStrictBounds = o.ComputeStrictBounds
		return sys
	case "shallow":
		return shallow.NewSystem(o.Dim, o.Gravity)
	default:
		chk.Panic("hypcfg: unknown system kind %q (accepted: euler, shallow)", o.Kind)
		return nil
	}
}

// IndicatorConfig selects the smoothness indicator: "commutator",
// "smoothness", "zero", "one".
type IndicatorConfig struct {
	Kind      string  `json:"kind"`
	Threshold float64 `json:"threshold"`
	Exponent  float64 `json:"exponent"`
}

// SetDefault fills the reference entropy-viscosity-commutator default.
func (o *IndicatorConfig) SetDefault() {
	if o.Kind == "" {
		o.Kind = "commutator"
	}
	if o.Threshold == 0 {
		o.Threshold = 1.0
	}
	if o.Exponent == 0 {
		o.Exponent = 2.0
	}
}

// Build constructs the indicator.Indicator this configuration describes.
func (o *IndicatorConfig) Build() indicator.Indicator {
	switch o.Kind {
	case "commutator":
		return indicator.EntropyViscosityCommutator{Threshold: o.Threshold}
	case "smoothness":
		return indicator.Smoothness{Exponent: o.Exponent}
	case "zero":
		return indicator.Zero{}
	case "one":
		return indicator.One{}
	default:
		chk.Panic("hypcfg: unknown indicator kind %q", o.Kind)
		return nil
	}
}

// LimiterConfig wraps limiter.Config with its own JSON tags.
type LimiterConfig struct {
	NewtonMaxIter int     `json:"newtonmaxiter"`
	NewtonTol     float64 `json:"newtontol"`
	RelaxBounds   float64 `json:"relaxbounds"`
	RelaxOrder    int     `json:"relaxorder"`
}

// SetDefault delegates to limiter.Config.SetDefault via a throwaway value.
func (o *LimiterConfig) SetDefault() {
	cfg := o.Build()
	cfg.SetDefault()
	o.NewtonMaxIter, o.NewtonTol, o.RelaxOrder = cfg.NewtonMaxIter, cfg.NewtonTol, cfg.RelaxOrder
}

// Build returns the limiter.Config this configuration describes.
func (o *LimiterConfig) Build() limiter.Config {
	return limiter.Config{NewtonMaxIter: o.NewtonMaxIter, NewtonTol: o.NewtonTol, RelaxBounds: o.RelaxBounds, RelaxOrder: o.RelaxOrder}
}

// RiemannConfig wraps riemann.Solver's two tunables.
type RiemannConfig struct {
	NewtonMaxIter int     `json:"newtonmaxiter"`
	NewtonEps     float64 `json:"newtoneps"`
}

// SetDefault fills the double-precision reference defaults.
func (o *RiemannConfig) SetDefault() {
	if o.NewtonMaxIter == 0 {
		o.NewtonMaxIter = 2
	}
	if o.NewtonEps == 0 {
		o.NewtonEps = 1e-10
	}
}

// Build constructs the riemann.Solver this configuration describes.
func (o *RiemannConfig) Build() *riemann.Solver {
	return riemann.NewSolver(o.NewtonMaxIter, o.NewtonEps)
}

// StepConfig wraps hypstep.Config with its own JSON tags. IDViolation and
// TauViolation are each "raise" (reject the step, return Restart to the
// caller) or "warn" (count and continue); the TauViolation default is
// "warn", the clamping mode a tfinal-driven time loop needs, while
// IDViolation defaults to "raise", the safe choice for admissibility.
// LimiterIters is the number of limiter passes per step.
type StepConfig struct {
	CFL          float64 `json:"cfl"`
	MaxRestarts  int     `json:"maxrestarts"`
	ShrinkFactor float64 `json:"shrinkfactor"`
	IDViolation  string  `json:"idviolation"`
	TauViolation string  `json:"tauviolation"`
	LimiterIters int     `json:"limiteriters"`
	Verbose      bool    `json:"verbose"`
}

// SetDefault delegates to hypstep.Config.SetDefault.
func (o *StepConfig) SetDefault() {
	cfg := hypstep.Config{CFL: o.CFL, MaxRestarts: o.MaxRestarts, ShrinkFactor: o.ShrinkFactor, Verbose: o.Verbose}
	cfg.SetDefault()
	o.CFL, o.MaxRestarts, o.ShrinkFactor = cfg.CFL, cfg.MaxRestarts, cfg.ShrinkFactor
	if o.IDViolation == "" {
		o.IDViolation = "raise"
	}
	if o.TauViolation == "" {
		o.TauViolation = "warn"
	}
	if o.LimiterIters == 0 {
		o.LimiterIters = 2
	}
}

func parseStrategy(name, option string) hypstep.Strategy {
	switch name {
	case "raise":
		return hypstep.RaiseRestart
	case "warn":
		return hypstep.WarnAndContinue
	}
	chk.Panic("hypcfg: unknown %s strategy %q (accepted: raise, warn)", option, name)
	return hypstep.RaiseRestart
}

// Build returns the hypstep.Config this configuration describes.
func (o *StepConfig) Build() hypstep.Config {
	idStrategy := hypstep.RaiseRestart
	if o.IDViolation != "" {
		idStrategy = parseStrategy(o.IDViolation, "id violation")
	}
	tauStrategy := hypstep.WarnAndContinue
	if o.TauViolation != "" {
		tauStrategy = parseStrategy(o.TauViolation, "tau violation")
	}
	return hypstep.Config{
		CFL:          o.CFL,
		MaxRestarts:  o.MaxRestarts,
		ShrinkFactor: o.ShrinkFactor,
		TauStrategy:  tauStrategy,
		IDStrategy:   idStrategy,
		Verbose:      o.Verbose,
	}
}

// EquationConfig names and assembles one hypeq.Equation.
type EquationConfig struct {
	Name      string          `json:"name"`
	System    SystemConfig    `json:"system"`
	Indicator IndicatorConfig `json:"indicator"`
	Limiter   LimiterConfig   `json:"limiter"`
	Riemann   RiemannConfig   `json:"riemann"`
	Initial   InitialConfig   `json:"initial"`
}

// SetDefault cascades SetDefault across every nested config.
func (o *EquationConfig) SetDefault() {
	o.System.SetDefault()
	o.Indicator.SetDefault()
	o.Limiter.SetDefault()
	o.Riemann.SetDefault()
	o.Initial.SetDefault()
}

// Build assembles the hypeq.Equation this configuration describes. The
// limiter needs the concrete system cast down to limiter.System (Density,
// InternalEnergyDensity, EntropyFromState), which every hypsys.System
// implementation in this module satisfies.
func (o *EquationConfig) Build() *hypeq.Equation {
	sys := o.System.Build()
	limSys, ok := sys.(limiter.System)
	if !ok {
		chk.Panic("hypcfg: system %q does not implement limiter.System", o.Name)
	}
	limCfg := o.Limiter.Build()
	if o.System.ComputeStrictBounds {
		limCfg.RelaxBounds = 0
	}
	return &hypeq.Equation{
		Name:      o.Name,
		System:    sys,
		Limiter:   limiter.NewLimiter(limSys, limCfg),
		Indicator: o.Indicator.Build(),
		Riemann:   o.Riemann.Build(),
	}
}

// Config is the top-level configuration file: one or more named
// equations plus the shared step-controller tunables.
type Config struct {
	Equations []EquationConfig `json:"equations"`
	Step      StepConfig       `json:"step"`
}

// ReadConfig reads and decodes a JSON configuration file, cascading
// SetDefault after decoding (decoded zero values are indistinguishable
// from "left unset").
func ReadConfig(path string) *Config {
	b, err := utl.ReadFile(path)
	if err != nil {
		chk.Panic("hypcfg: cannot read %q: %v", path, err)
	}
	cfg := new(Config)
	if err := json.Unmarshal(b, cfg); err != nil {
		chk.Panic("hypcfg: cannot parse %q: %v", path, err)
	}
	cfg.Step.SetDefault()
	for i := range cfg.Equations {
		cfg.Equations[i].SetDefault()
	}
	return cfg
}

// BuildRegistry assembles every configured equation into a hypeq.Registry.
func (o *Config) BuildRegistry() *hypeq.Registry {
	reg := hypeq.NewRegistry()
	for i := range o.Equations {
		reg.Register(o.Equations[i].Build())
	}
	return reg
}
