// SPDX-License-Identifier: Apache-2.0

// Package profiling writes CPU and memory profiles of a command run.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
)

const (
	cpuProfileFile    = "cpu.prof"
	memoryProfileFile = "mem.prof"
)

// Start starts a CPU profile written to dir. The returned stop function ends
// it and writes an allocations profile next to it.
func Start(dir string) (stop func() error, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating profile directory: %w", err)
	}

	cpuFile, err := os.Create(filepath.Join(dir, cpuProfileFile))
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		cpuFile.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}

	return func() error {
		pprof.StopCPUProfile()
		return errors.Join(cpuFile.Close(), writeMemoryProfile(filepath.Join(dir, memoryProfileFile)))
	}, nil
}

func writeMemoryProfile(fileName string) error {
	memFile, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("could not create memory profile file: %w", err)
	}
	defer memFile.Close()

	// up-to-date statistics
	runtime.GC()
	if err := pprof.Lookup("allocs").WriteTo(memFile, 0); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return nil
}
