package contextdoc

import (
	"fmt"
	"strings"
	"time"

	"github.com/ctxkeeper/ctxkeeper/internal/scanner"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
)

// Mode selects which sections the builder emits.
type Mode string

const (
	// ModeFull includes empty placeholder sections (servers, projects, ...)
	// for the assistant to fill in over time.
	ModeFull Mode = "full"
	// ModeMinimal omits the placeholder sections and keeps only scanned facts.
	ModeMinimal Mode = "minimal"
)

// Paths tells the builder where the installed pieces live, so the document
// can describe its own update procedure.
type Paths struct {
	ContextFile   string
	ChangelogFile string
}

// Build merges scanned facts into the context document schema. The result
// is deterministic for identical inputs: the clock is an argument, and
// serialization through Canonical sorts all keys.
func Build(scan *scanner.ScanResult, mode Mode, now time.Time, paths Paths) map[string]any {
	doc := map[string]any{
		"_instructions_for_claude": map[string]any{
			"purpose": "Persistent infrastructure configuration for continuity across sessions.",
			"update_procedure": "NEVER use Edit/Write directly on this file. " +
				"Pipe the complete updated JSON through `ctxkeeper update` to preserve the audit trail. " +
				"Example: cat " + paths.ContextFile + " | jq '.servers.web.ip = \"10.0.0.5\"' | ctxkeeper update",
			"maintenance_policy": "Update when infrastructure changes. Facts only, no explanations. " +
				"You are the consumer of this file. Keep actionable, delete stale.",
		},
		"context_backup": map[string]any{
			"changelog":      paths.ChangelogFile,
			"update_command": "ctxkeeper update",
		},
		"schema_version": SchemaVersion,
		"last_updated":   now.UTC().Format("2006-01-02T15:04:05Z"),
		"infrastructure_overview": map[string]any{
			"hostname":   valueOrUnknown(scan.Hostname),
			"platform":   valueOrUnknown(scan.Platform),
			"primary_ip": primaryIP(scan.Network),
		},
		"hardware": map[string]any{
			"cpu":     formatCPU(scan.CPU),
			"memory":  formatMemory(scan.Memory),
			"gpus":    formatGPUs(scan.GPUs),
			"storage": formatStorage(scan.Storage),
		},
		"network": map[string]any{
			"interfaces": formatInterfaces(scan.Network),
		},
		"ssh_keys": formatSSHKeys(scan.SSHKeys),
	}

	if mode == ModeFull {
		doc["servers"] = map[string]any{}
		doc["credentials"] = map[string]any{}
		doc["key_paths"] = map[string]any{}
		doc["active_projects"] = map[string]any{}
		doc["pending_tasks"] = []any{}
		doc["important_notes"] = []any{}
	}

	return doc
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// primaryIP picks the most likely primary address: the first IPv4 that is
// neither loopback nor link-local.
func primaryIP(network scanner.NetworkInfo) string {
	for _, iface := range network.Interfaces {
		for _, ip := range iface.IPv4 {
			if !strings.HasPrefix(ip, "127.") && !strings.HasPrefix(ip, "169.254.") {
				return ip
			}
		}
	}
	return "Unknown"
}

func formatCPU(cpu scanner.CPUInfo) string {
	model := valueOrUnknown(cpu.Model)
	if cpu.Cores > 0 && cpu.Threads > 0 {
		return fmt.Sprintf("%s (%dc/%dt)", model, cpu.Cores, cpu.Threads)
	}
	return model
}

func formatMemory(mem scanner.MemoryInfo) string {
	if mem.TotalBytes == 0 {
		return "Unknown"
	}
	return humanize.IBytes(mem.TotalBytes)
}

func formatGPUs(gpus []scanner.GPUInfo) map[string]any {
	if len(gpus) == 0 {
		return map[string]any{"note": "No GPUs detected"}
	}

	result := map[string]any{}
	for _, gpu := range gpus {
		info := map[string]any{
			"vendor": valueOrUnknown(gpu.Vendor),
			"model":  gpu.Model,
		}
		if gpu.VRAMMB > 0 {
			info["vram"] = humanize.IBytes(gpu.VRAMMB * 1024 * 1024)
		}
		if gpu.PCIeBus != "" {
			info["pcie_bus"] = gpu.PCIeBus
		}
		if gpu.UUID != "" {
			info["uuid"] = gpu.UUID
		}

		// Fallback probes (lspci, wmic) report no index, so entries from
		// different sources can claim the same slot. Reassign by running
		// count rather than dropping the earlier GPU.
		key := fmt.Sprintf("gpu%d", gpu.Index)
		for n := len(result); ; n++ {
			if _, taken := result[key]; !taken {
				break
			}
			key = fmt.Sprintf("gpu%d", n)
		}
		result[key] = info
	}
	return result
}

func formatStorage(devices []scanner.StorageDevice) map[string]any {
	if len(devices) == 0 {
		return map[string]any{"note": "No storage devices detected"}
	}

	result := map[string]any{}
	for i, disk := range devices {
		key := storageKey(disk, i)
		result[key] = map[string]any{
			"device": disk.Device,
			"size":   disk.Size,
			"model":  disk.Model,
		}
	}
	return result
}

// storageKey derives a readable map key from the device model, falling back
// to a positional name.
func storageKey(disk scanner.StorageDevice, index int) string {
	model := strings.ReplaceAll(disk.Model, " ", "_")
	if len(model) > 20 {
		model = model[:20]
	}
	if model == "" || model == "Unknown" {
		return fmt.Sprintf("disk%d", index)
	}
	return model
}

// formatInterfaces keeps interfaces that carry an IPv4 address, mapping a
// single address to a string and multiple addresses to a list.
func formatInterfaces(network scanner.NetworkInfo) map[string]any {
	withIPv4 := lo.Filter(network.Interfaces, func(iface scanner.NetworkInterface, _ int) bool {
		return len(iface.IPv4) > 0
	})

	result := map[string]any{}
	for _, iface := range withIPv4 {
		if len(iface.IPv4) == 1 {
			result[iface.Name] = iface.IPv4[0]
		} else {
			result[iface.Name] = iface.IPv4
		}
	}
	return result
}

func formatSSHKeys(keys []scanner.SSHKey) map[string]any {
	if len(keys) == 0 {
		return map[string]any{"note": "No SSH keys found in ~/.ssh/"}
	}

	return lo.SliceToMap(keys, func(key scanner.SSHKey) (string, any) {
		return key.Name, map[string]any{
			"type":        lo.Ternary(key.Type != "", key.Type, "unknown"),
			"has_private": key.HasPrivate,
		}
	})
}
