// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hypstep implements the explicit step controller and update module
// of the solver: the precompute -> d_ij+tau_max -> low-order ->
// high-order+limiter -> accept/restart state machine that advances one time
// step of a hyperbolic system. The divergence-control loop shrinks the
// step, retries, counts failures, and bails out once the retry budget is
// exhausted.
package hypstep

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ErrRestart is returned by Controller.Step when the call must be repeated
// with a smaller step: immediately, when the proposed dt exceeds
// CFL*tau_max under the RaiseRestart strategy (the call is terminal; retry
// with dt <= CFL*TauMax), or after the invariant-domain retry budget is
// exhausted. It is a sentinel, not a fatal error, so callers can
// distinguish it from a genuine solver failure.
var ErrRestart = chk.Err("hypstep: step rejected, retry with a smaller step")

// Strategy selects how the controller reacts when a check fails:
// RaiseRestart rejects the attempt (an oversized proposed dt is bounced
// straight back to the caller as ErrRestart; an inadmissible state is
// retried internally with a reduced step); WarnAndContinue counts the
// occurrence and continues.
type Strategy int

const (
	RaiseRestart Strategy = iota
	WarnAndContinue
)

// Stage is the caller-supplied hook set invoked once per step attempt; it is
// the seam between the controller's state machine and the mesh-shaped work
// (precompute sweep, d_ij/tau_max reduction, low-order update, high-order
// update with limiting) that the Module actually performs.
type Stage struct {
	// Precompute runs the node precompute cycles for the current solution.
	Precompute func() error
	// MaxWaveSpeed returns tau_max at CFL=1 for the current solution
	// (computed from d_ij, the graph viscosity, and the lumped mass).
	MaxWaveSpeed func() (tauMax float64, err error)
	// LowOrder advances the solution by dt using only the low-order,
	// invariant-domain-preserving update.
	LowOrder func(dt float64) error
	// HighOrderAndLimit applies the limited antidiffusive correction on top
	// of the low-order state already written by LowOrder.
	HighOrderAndLimit func(dt float64) error
	// IsAdmissible reports whether the state produced by HighOrderAndLimit
	// satisfies the invariant-domain bounds; false triggers the configured
	// IDStrategy.
	IsAdmissible func() bool
	// Backup and Restore save/recover the pre-step state.
	Backup  func()
	Restore func()
}

// Config collects the controller's tunables.
type Config struct {
	CFL          float64  // CFL number multiplying tau_max
	MaxRestarts  int      // restarts allowed before Step gives up
	ShrinkFactor float64  // dt *= ShrinkFactor on every invariant-domain restart
	TauStrategy  Strategy // reaction when the proposed dt exceeds CFL*tau_max
	IDStrategy   Strategy // reaction when the stepped state is inadmissible
	Verbose      bool
}

// SetDefault fills unset (zero) fields with conservative defaults. The zero
// Strategy is RaiseRestart for both checks, the safe choice.
func (o *Config) SetDefault() {
	if o.CFL == 0 {
		o.CFL = 0.5
	}
	if o.MaxRestarts == 0 {
		o.MaxRestarts = 10
	}
	if o.ShrinkFactor == 0 {
		o.ShrinkFactor = 0.5
	}
}

// Controller drives one Stage through the accept/Restart state machine and
// keeps running counters across the whole simulation.
type Controller struct {
	Config    Config
	NRestarts int     // total restarts taken across every Step call
	NWarnings int     // non-fatal admissibility warnings raised across every Step call
	TauMax    float64 // CFL=1 tau_max of the last attempt, for retries after ErrRestart
}

// NewController returns a Controller with a validated Config.
func NewController(cfg Config) *Controller {
	cfg.SetDefault()
	return &Controller{Config: cfg}
}

// Step advances stage by one accepted step starting from a proposed dt and
// returns the dt that was actually accepted.
//
// Two checks can reject an attempt. First, a proposed dt above CFL*tau_max:
// with TauStrategy == RaiseRestart this records one restart and returns
// ErrRestart immediately (the call is terminal; the caller retries with
// dt <= CFL*TauMax); with WarnAndContinue the dt is clamped with only the
// warning counter recording the event. Second, an inadmissible state after
// the limited high-order update: with IDStrategy == RaiseRestart the
// pre-step state is restored and the attempt repeats with dt*ShrinkFactor,
// up to Config.MaxRestarts times before ErrRestart is returned; with
// WarnAndContinue the state is accepted and the warning counted.
//
// Any error from the Stage hooks themselves propagates directly: those
// indicate a configuration or arithmetic failure, not a rejected step.
func (o *Controller) Step(stage Stage, dtProposed float64) (dtAccepted float64, err error) {
	dt := dtProposed
	for restart := 0; ; restart++ {
		if restart > o.Config.MaxRestarts {
			return 0, ErrRestart
		}

		if stage.Backup != nil {
			stage.Backup()
		}

		if err = stage.Precompute(); err != nil {
			return 0, err
		}

		tauMax, err := stage.MaxWaveSpeed()
		if err != nil {
			return 0, err
		}
		o.TauMax = tauMax
		cflDt := o.Config.CFL * tauMax
		if cflDt > 0 && dt > cflDt {
			if o.Config.TauStrategy == RaiseRestart {
				o.NRestarts++
				if o.Config.Verbose {
					io.Pfred(". . . dt=%g exceeds CFL*tau_max=%g, restart required . . .\n", dt, cflDt)
				}
				return 0, ErrRestart
			}
			o.NWarnings++
			dt = cflDt
		}

		if err = stage.LowOrder(dt); err != nil {
			return 0, err
		}
		if err = stage.HighOrderAndLimit(dt); err != nil {
			return 0, err
		}

		if stage.IsAdmissible == nil || stage.IsAdmissible() {
			return dt, nil
		}

		if o.Config.IDStrategy == WarnAndContinue {
			o.NWarnings++
			if o.Config.Verbose {
				io.Pfyel(". . . inadmissible state accepted (warning %d) . . .\n", o.NWarnings)
			}
			return dt, nil
		}

		o.NRestarts++
		if o.Config.Verbose {
			io.Pfred(". . . step rejected (restart %d), shrinking dt %g -> %g . . .\n", restart+1, dt, dt*o.Config.ShrinkFactor)
		}
		if stage.Restore != nil {
			stage.Restore()
		}
		dt *= o.Config.ShrinkFactor
	}
}
