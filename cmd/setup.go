package cmd

import (
	"log"
	"os"

	"github.com/sarchlab/jbodsim/config"
	"github.com/sarchlab/jbodsim/datarecording"
	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/mdadm"
	"github.com/sarchlab/jbodsim/sim"
	"github.com/sarchlab/jbodsim/tracing"
	"github.com/tebeka/atexit"
)

// simulation is an array with the hooks requested on the command line.
type simulation struct {
	cfg     config.Config
	array   *mdadm.Array
	bank    *jbod.Bank
	counter *tracing.OpCounter
}

func loadConfig() (config.Config, error) {
	if envFile != "" {
		return config.Load(envFile)
	}

	return config.Load()
}

func buildSimulation(name string) (*simulation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	signer, err := cfg.Signer()
	if err != nil {
		return nil, err
	}

	bank := jbod.MakeBuilder().
		WithGeometry(cfg.Geometry()).
		WithSigner(signer).
		Build(name + ".Bank")

	builder, err := cfg.ArrayBuilder()
	if err != nil {
		return nil, err
	}

	array := builder.WithDevice(bank).Build(name)

	s := &simulation{
		cfg:     cfg,
		array:   array,
		bank:    bank,
		counter: tracing.NewOpCounter(),
	}

	bank.AcceptHook(s.counter)

	if verbose || cfg.Verbose {
		array.AcceptHook(mdadm.NewLogHook(log.New(os.Stderr, "", log.LstdFlags)))
	}

	if traceName != "" || cfg.Trace {
		dbName := traceName
		if dbName == "" {
			dbName = cfg.TraceDB
		}

		recorder := datarecording.New(dbName)
		tracer := tracing.NewDBTracer(recorder, sim.NewParallelIDGenerator())
		bank.AcceptHook(tracer)
		array.AcceptHook(tracer)

		exec := datarecording.NewExecRecorder(recorder)
		exec.Start()
		exec.Record("Geometry", cfg.Geometry().String())
		atexit.Register(exec.End)
	}

	if jsonTrace != "" {
		tracer := tracing.NewJSONFileTracer(jsonTrace)
		bank.AcceptHook(tracer)
		array.AcceptHook(tracer)
	}

	return s, nil
}
