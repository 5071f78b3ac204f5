package cmd

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spiffcs/maintkit/internal/log"
)

// Profiler manages CPU, memory, and trace profiling for one command run.
// Empty paths disable the corresponding profile.
type Profiler struct {
	cpuProfile string
	memProfile string
	tracePath  string

	cpuFile   *os.File
	traceFile *os.File
}

// NewProfiler creates a new profiler with the specified profile paths.
func NewProfiler(cpuProfile, memProfile, tracePath string) *Profiler {
	return &Profiler{cpuProfile: cpuProfile, memProfile: memProfile, tracePath: tracePath}
}

// Start begins CPU profiling and execution tracing if configured.
func (p *Profiler) Start() error {
	if p.cpuProfile != "" {
		f, err := os.Create(p.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		p.cpuFile = f
		log.Debug("cpu profiling started", "path", p.cpuProfile)
	}

	if p.tracePath != "" {
		f, err := os.Create(p.tracePath)
		if err != nil {
			p.stopCPU()
			return fmt.Errorf("could not create trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			f.Close()
			p.stopCPU()
			return fmt.Errorf("could not start trace: %w", err)
		}
		p.traceFile = f
		log.Debug("execution trace started", "path", p.tracePath)
	}

	return nil
}

// Stop ends all profiling and writes the heap profile if configured.
// Failures are logged since the command itself has already finished.
func (p *Profiler) Stop() {
	if p.traceFile != nil {
		trace.Stop()
		closeLogged(p.traceFile, "trace")
		p.traceFile = nil
	}

	p.stopCPU()

	if p.memProfile == "" {
		return
	}
	f, err := os.Create(p.memProfile)
	if err != nil {
		log.Warn("could not create memory profile", "error", err)
		return
	}
	defer closeLogged(f, "memory profile")

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Warn("could not write memory profile", "error", err)
	}
}

func (p *Profiler) stopCPU() {
	if p.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	closeLogged(p.cpuFile, "CPU profile")
	p.cpuFile = nil
}

func closeLogged(f *os.File, what string) {
	if err := f.Close(); err != nil {
		log.Warn("could not close "+what+" file", "error", err)
	}
}
