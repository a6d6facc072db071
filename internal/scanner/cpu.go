package scanner

import (
	"context"
	"strconv"
	"strings"
)

// scanCPU detects CPU model, core count, and thread count.
func (s *Scanner) scanCPU(ctx context.Context) CPUInfo {
	info := CPUInfo{Model: "Unknown"}

	switch s.platform {
	case "linux":
		if out, ok := s.run(ctx, "lscpu"); ok {
			info = parseLscpu(out)
		}
	case "macos":
		if model, ok := s.run(ctx, "sysctl", "-n", "machdep.cpu.brand_string"); ok && model != "" {
			info.Model = model
		}
		if cores, ok := s.run(ctx, "sysctl", "-n", "hw.physicalcpu"); ok {
			if n, err := strconv.Atoi(cores); err == nil {
				info.Cores = n
			}
		}
		if threads, ok := s.run(ctx, "sysctl", "-n", "hw.logicalcpu"); ok {
			if n, err := strconv.Atoi(threads); err == nil {
				info.Threads = n
			}
		}
	case "windows":
		if out, ok := s.run(ctx, "wmic", "cpu", "get", "name,numberofcores,numberoflogicalprocessors", "/format:csv"); ok {
			if parsed, ok := parseWmicCPU(out); ok {
				info = parsed
			}
		}
	}

	return info
}

// parseLscpu extracts model, cores, and threads from `lscpu` output.
func parseLscpu(out string) CPUInfo {
	info := CPUInfo{Model: "Unknown"}
	coresPerSocket := 0
	sockets := 0

	for _, line := range strings.Split(out, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Model name":
			info.Model = value
		case "CPU(s)":
			if n, err := strconv.Atoi(value); err == nil {
				info.Threads = n
			}
		case "Core(s) per socket":
			if n, err := strconv.Atoi(value); err == nil {
				coresPerSocket = n
			}
		case "Socket(s)":
			if n, err := strconv.Atoi(value); err == nil {
				sockets = n
			}
		}
	}

	if coresPerSocket > 0 && sockets > 0 {
		info.Cores = coresPerSocket * sockets
	}

	return info
}

// parseWmicCPU extracts CPU facts from `wmic cpu get ... /format:csv` output.
func parseWmicCPU(out string) (CPUInfo, bool) {
	for _, line := range wmicDataLines(out) {
		parts := strings.Split(line, ",")
		if len(parts) < 4 {
			continue
		}
		info := CPUInfo{Model: strings.TrimSpace(parts[1])}
		if n, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			info.Cores = n
		}
		if n, err := strconv.Atoi(strings.TrimSpace(parts[3])); err == nil {
			info.Threads = n
		}
		return info, true
	}
	return CPUInfo{}, false
}

// wmicDataLines filters wmic CSV output down to data rows.
func wmicDataLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Node") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
