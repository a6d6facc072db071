package scanner

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var lspciModelPattern = regexp.MustCompile(`:\s*(.+?)\s*\[`)

// scanGPUs detects GPUs across vendors. Vendor tools are preferred;
// lspci / system_profiler / wmic act as fallbacks.
func (s *Scanner) scanGPUs(ctx context.Context) []GPUInfo {
	var gpus []GPUInfo

	if s.runner.LookPath("nvidia-smi") {
		if out, ok := s.run(ctx, "nvidia-smi",
			"--query-gpu=index,name,memory.total,pci.bus_id,uuid",
			"--format=csv,noheader,nounits"); ok {
			gpus = append(gpus, parseNvidiaSMI(out)...)
		}
	}

	if s.runner.LookPath("rocm-smi") {
		if out, ok := s.run(ctx, "rocm-smi", "--showproductname", "--showmeminfo", "vram", "--json"); ok {
			gpus = append(gpus, parseRocmSMI(out)...)
		}
	}

	if s.platform == "linux" {
		hasAMD := lo.SomeBy(gpus, func(g GPUInfo) bool { return g.Vendor == "AMD" })
		if out, ok := s.run(ctx, "lspci", "-nn"); ok {
			gpus = append(gpus, parseLspciGPUs(out, hasAMD)...)
		}
	}

	if s.platform == "macos" {
		if out, ok := s.run(ctx, "system_profiler", "SPDisplaysDataType", "-json"); ok {
			gpus = append(gpus, parseSystemProfilerGPUs(out)...)
		}
	}

	if s.platform == "windows" && len(gpus) == 0 {
		if out, ok := s.run(ctx, "wmic", "path", "win32_videocontroller", "get", "name,adapterram", "/format:csv"); ok {
			gpus = append(gpus, parseWmicGPUs(out)...)
		}
	}

	return gpus
}

// parseNvidiaSMI parses `nvidia-smi --query-gpu=... --format=csv,noheader,nounits`.
func parseNvidiaSMI(out string) []GPUInfo {
	var gpus []GPUInfo
	for _, line := range strings.Split(out, "\n") {
		parts := lo.Map(strings.Split(line, ","), func(p string, _ int) string {
			return strings.TrimSpace(p)
		})
		if len(parts) < 5 || parts[0] == "" {
			continue
		}
		gpu := GPUInfo{
			Vendor:  "NVIDIA",
			Model:   parts[1],
			PCIeBus: parts[3],
			UUID:    parts[4],
		}
		if idx, err := strconv.Atoi(parts[0]); err == nil {
			gpu.Index = idx
		}
		if vram, err := strconv.ParseUint(parts[2], 10, 64); err == nil {
			gpu.VRAMMB = vram
		}
		gpus = append(gpus, gpu)
	}
	return gpus
}

// parseRocmSMI parses `rocm-smi --showproductname --showmeminfo vram --json`.
func parseRocmSMI(out string) []GPUInfo {
	var data map[string]map[string]any
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		return nil
	}

	var gpus []GPUInfo
	for cardID, cardInfo := range data {
		if !strings.HasPrefix(cardID, "card") {
			continue
		}
		gpu := GPUInfo{Vendor: "AMD", Model: "Unknown AMD GPU"}
		if idx, err := strconv.Atoi(strings.TrimPrefix(cardID, "card")); err == nil {
			gpu.Index = idx
		}
		if model, ok := cardInfo["Card series"].(string); ok {
			gpu.Model = model
		}
		if vram, ok := cardInfo["VRAM Total Memory (B)"].(string); ok {
			if b, err := strconv.ParseUint(vram, 10, 64); err == nil {
				gpu.VRAMMB = b / (1024 * 1024)
			}
		}
		gpus = append(gpus, gpu)
	}
	return gpus
}

// parseLspciGPUs extracts AMD/Intel display controllers from `lspci -nn`.
// AMD entries are skipped when a vendor tool already reported them.
func parseLspciGPUs(out string, hasAMD bool) []GPUInfo {
	var gpus []GPUInfo
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "VGA") && !strings.Contains(line, "3D controller") {
			continue
		}

		isAMD := strings.Contains(line, "AMD") || strings.Contains(line, "ATI") || strings.Contains(line, "Radeon")
		isIntel := strings.Contains(line, "Intel")

		switch {
		case isAMD && !hasAMD:
			gpus = append(gpus, GPUInfo{
				Vendor: "AMD",
				Model:  lspciModel(line, "AMD GPU"),
				Source: "lspci",
			})
		case isIntel:
			gpus = append(gpus, GPUInfo{
				Vendor: "Intel",
				Model:  lspciModel(line, "Intel GPU"),
				Source: "lspci",
			})
		}
	}
	return gpus
}

func lspciModel(line string, fallback string) string {
	if m := lspciModelPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return fallback
}

// parseSystemProfilerGPUs parses `system_profiler SPDisplaysDataType -json`.
func parseSystemProfilerGPUs(out string) []GPUInfo {
	var data struct {
		Displays []struct {
			Vendor string `json:"sppci_vendor"`
			Model  string `json:"sppci_model"`
			VRAM   string `json:"spdisplays_vram"`
		} `json:"SPDisplaysDataType"`
	}
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		return nil
	}

	var gpus []GPUInfo
	for i, d := range data.Displays {
		gpu := GPUInfo{Index: i, Model: d.Model, Vendor: d.Vendor}
		if gpu.Model == "" {
			gpu.Model = "Unknown"
		}
		if strings.Contains(strings.ToLower(d.Vendor), "apple") {
			gpu.Vendor = "Apple"
		} else if gpu.Vendor == "" {
			gpu.Vendor = "Unknown"
		}
		// Unified memory on Apple Silicon reports no VRAM figure.
		if vram, found := strings.CutSuffix(d.VRAM, "MB"); found {
			if n, err := strconv.ParseUint(strings.TrimSpace(vram), 10, 64); err == nil {
				gpu.VRAMMB = n
			}
		} else if vram, found := strings.CutSuffix(d.VRAM, "GB"); found {
			if f, err := strconv.ParseFloat(strings.TrimSpace(vram), 64); err == nil {
				gpu.VRAMMB = uint64(f * 1024)
			}
		}
		gpus = append(gpus, gpu)
	}
	return gpus
}

// parseWmicGPUs parses `wmic path win32_videocontroller get name,adapterram`.
func parseWmicGPUs(out string) []GPUInfo {
	var gpus []GPUInfo
	for i, line := range wmicDataLines(out) {
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		model := strings.TrimSpace(parts[2])
		gpu := GPUInfo{
			Index:  i,
			Model:  model,
			Vendor: gpuVendorFromModel(model),
		}
		if b, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64); err == nil {
			gpu.VRAMMB = b / (1024 * 1024)
		}
		gpus = append(gpus, gpu)
	}
	return gpus
}

func gpuVendorFromModel(model string) string {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "nvidia"):
		return "NVIDIA"
	case strings.Contains(lower, "amd"), strings.Contains(lower, "radeon"):
		return "AMD"
	case strings.Contains(lower, "intel"):
		return "Intel"
	default:
		return "Unknown"
	}
}
