package install

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/atom-check-updates/internal/logger"
)

// Process is the part of a process table entry the installer looks at.
type Process struct {
	PID        int
	Executable string
}

// ProcessLister returns the current process table.
type ProcessLister func() ([]Process, error)

// SystemProcesses lists processes of the host with go-ps.
func SystemProcesses() ([]Process, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	result := make([]Process, 0, len(processList))
	for _, process := range processList {
		result = append(result, Process{
			PID:        process.Pid(),
			Executable: process.Executable(),
		})
	}

	return result, nil
}

// RunningInstances returns the PIDs of processes whose executable is binary.
// Lookup failures are logged and reported as no instances.
func (i *Installer) RunningInstances(ctx context.Context, binary string) []int {
	if i.processes == nil || binary == "" {
		return nil
	}

	processList, err := i.processes()
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return nil
	}

	name := filepath.Base(binary)
	thisProcessID := os.Getpid()

	var pids []int

	for _, process := range processList {
		if process.PID == thisProcessID || process.Executable != name {
			continue
		}

		pids = append(pids, process.PID)
	}

	return pids
}
