package probe

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemStats is the host utilization sample rendered in the health payload.
// When sampling a dimension fails, its percentage stays zero and Err carries
// the first error message; the caller still gets a payload.
type SystemStats struct {
	CPUPercent      float64 `json:"cpu_percent"`
	MemoryPercent   float64 `json:"memory_percent"`
	MemoryAvailable uint64  `json:"memory_available"`
	DiskPercent     float64 `json:"disk_percent"`
	DiskFree        uint64  `json:"disk_free"`
	Err             string  `json:"error,omitempty"`
}

// CollectSystemStats samples CPU, memory and disk utilization. It never
// returns an error: probe failures are folded into the Err field so the
// health handler always has something to report.
func CollectSystemStats() SystemStats {
	var st SystemStats

	if percents, err := cpu.Percent(0, false); err != nil {
		st.Err = err.Error()
	} else if len(percents) > 0 {
		st.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		if st.Err == "" {
			st.Err = err.Error()
		}
	} else {
		st.MemoryPercent = vm.UsedPercent
		st.MemoryAvailable = vm.Available
	}

	if du, err := disk.Usage("/"); err != nil {
		if st.Err == "" {
			st.Err = err.Error()
		}
	} else {
		st.DiskPercent = du.UsedPercent
		st.DiskFree = du.Free
	}

	return st
}
