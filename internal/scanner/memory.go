package scanner

import (
	"context"
	"os"
	"strconv"
	"strings"
)

// scanMemory detects total physical memory.
func (s *Scanner) scanMemory(ctx context.Context) MemoryInfo {
	info := MemoryInfo{}

	switch s.platform {
	case "linux":
		data, err := os.ReadFile("/proc/meminfo")
		if err != nil {
			s.logger.Debug("failed to read /proc/meminfo")
			return info
		}
		info.TotalBytes = parseMeminfo(string(data))
	case "macos":
		if out, ok := s.run(ctx, "sysctl", "-n", "hw.memsize"); ok {
			if n, err := strconv.ParseUint(out, 10, 64); err == nil {
				info.TotalBytes = n
			}
		}
	case "windows":
		if out, ok := s.run(ctx, "wmic", "computersystem", "get", "totalphysicalmemory", "/format:csv"); ok {
			for _, line := range wmicDataLines(out) {
				parts := strings.Split(line, ",")
				if len(parts) < 2 {
					continue
				}
				if n, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64); err == nil {
					info.TotalBytes = n
					break
				}
			}
		}
	}

	return info
}

// parseMeminfo extracts MemTotal from /proc/meminfo content, in bytes.
func parseMeminfo(out string) uint64 {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb * 1024
	}
	return 0
}
