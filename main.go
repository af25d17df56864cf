// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/hypexpl/ensemble"
	"github.com/cpmech/hypexpl/hypcfg"
	"github.com/cpmech/hypexpl/hypstep"
	"github.com/cpmech/hypexpl/offline"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/gosl/utl"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "data/sod", ".json", true)
	verbose := io.ArgToBool(1, true)
	npoints := io.ArgToInt(2, 401)
	tfinal := io.ArgToFloat(3, 0.2)
	eqname := io.ArgToString(4, "")

	// message
	if mpi.Rank() == 0 && verbose {
		io.PfWhite("\nhypexpl -- explicit invariant-domain-preserving hyperbolic solver\n\n")

		io.Pf("\n%v\n", io.ArgsTable(
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"number of mesh points", "npoints", npoints,
			"final time", "tfinal", tfinal,
			"equation name (empty means first in file)", "eqname", eqname,
		))
	}

	// profiling?
	defer utl.DoProf(false)()

	// configuration and equation registry
	cfg := hypcfg.ReadConfig(fnamepath)
	if len(cfg.Equations) == 0 {
		chk.Panic("configuration %q defines no equations", fnamepath)
	}
	if eqname == "" {
		eqname = cfg.Equations[0].Name
	}
	reg := cfg.BuildRegistry()
	eq, ok := reg.Get(eqname)
	if !ok {
		chk.Panic("equation %q is not defined in %q (have: %v)", eqname, fnamepath, reg.Names())
	}

	// offline data: a uniform 1-D mesh over [0,1]
	off := offline.NewUniform1D(npoints, 1.0/float64(npoints-1))

	// module and initial state
	red := ensemble.NewReducer()
	ctrl := hypstep.NewController(cfg.Step.Build())
	mod := hypstep.NewModule(eq, off, red, ctrl, cfg.Step.LimiterIters)
	U := cfg.InitialState(eqname, npoints)
	mod.PrepareStateVector(U)

	// time loop
	t := 0.0
	cycle := 0
	for t < tfinal {
		dt, err := mod.Step(U, tfinal-t, nil)
		if err == hypstep.ErrRestart {
			// the proposed step was rejected; retry at the admissible
			// step the controller reported
			dt, err = mod.Step(U, ctrl.Config.CFL*ctrl.TauMax, nil)
		}
		if err != nil {
			chk.Panic("step failed at t=%g (cycle %d):\n%v", t, cycle, err)
		}
		t += dt
		cycle++
		if mpi.Rank() == 0 && verbose {
			io.PfWhite("%30.15f\r", t)
		}
	}

	// summary
	if mpi.Rank() == 0 && verbose {
		io.Pf("\n\nfinished: %d cycles, %d restarts, %d warnings\n", cycle, ctrl.NRestarts, ctrl.NWarnings)
	}
}
