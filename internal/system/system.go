package system

import (
	"fmt"
	"log"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Workers resolves a configured worker count. Zero or less means one worker
// per logical CPU, capped at jobs when jobs > 0.
func Workers(configured, jobs int) int {
	n := configured
	if n <= 0 {
		n = LogicalCPUs()
	}
	if jobs > 0 && n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// LogicalCPUs asks the OS for the logical CPU count and falls back to the
// Go runtime when that fails.
func LogicalCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Resources is a snapshot of the host used in performance reports.
type Resources struct {
	LogicalCPUs   int
	PhysicalCPUs  int
	TotalMemory   uint64
	AvailMemory   uint64
	MemoryPercent float64
}

// Snapshot collects host resources. Fields that cannot be read stay zero.
func Snapshot() Resources {
	r := Resources{LogicalCPUs: LogicalCPUs()}

	if n, err := cpu.Counts(false); err == nil {
		r.PhysicalCPUs = n
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("[!] Не удалось получить данные о памяти: %v", err)
		return r
	}
	r.TotalMemory = vm.Total
	r.AvailMemory = vm.Available
	r.MemoryPercent = vm.UsedPercent
	return r
}

func (r Resources) String() string {
	return fmt.Sprintf("CPU: %d logical / %d physical | RAM: %s free of %s (%.1f%% used)",
		r.LogicalCPUs, r.PhysicalCPUs, FormatBytes(r.AvailMemory), FormatBytes(r.TotalMemory), r.MemoryPercent)
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
