package scanner

import (
	"context"
	"strconv"
	"strings"
)

// scanStorage detects physical storage devices.
func (s *Scanner) scanStorage(ctx context.Context) []StorageDevice {
	switch s.platform {
	case "linux":
		if out, ok := s.run(ctx, "lsblk", "-d", "-o", "NAME,SIZE,TYPE,MODEL", "-n"); ok {
			return parseLsblk(out)
		}
	case "macos":
		if out, ok := s.run(ctx, "diskutil", "list"); ok {
			return parseDiskutilList(out)
		}
	case "windows":
		if out, ok := s.run(ctx, "wmic", "diskdrive", "get", "model,size", "/format:csv"); ok {
			return parseWmicDisks(out)
		}
	}
	return nil
}

// parseLsblk extracts disk rows from `lsblk -d -o NAME,SIZE,TYPE,MODEL -n`.
func parseLsblk(out string) []StorageDevice {
	var devices []StorageDevice
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 3 || parts[2] != "disk" {
			continue
		}
		model := "Unknown"
		if len(parts) > 3 {
			model = strings.Join(parts[3:], " ")
		}
		devices = append(devices, StorageDevice{
			Device: "/dev/" + parts[0],
			Size:   parts[1],
			Model:  model,
		})
	}
	return devices
}

// parseDiskutilList extracts physical disks from `diskutil list` output.
func parseDiskutilList(out string) []StorageDevice {
	var devices []StorageDevice
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "/dev/disk") || !strings.Contains(strings.ToLower(line), "physical") {
			continue
		}
		parts := strings.Fields(line)
		devices = append(devices, StorageDevice{
			Device: strings.TrimSuffix(parts[0], ":"),
			Size:   "Unknown",
			Model:  "Unknown",
		})
	}
	return devices
}

// parseWmicDisks extracts disks from `wmic diskdrive get model,size /format:csv`.
func parseWmicDisks(out string) []StorageDevice {
	var devices []StorageDevice
	for _, line := range wmicDataLines(out) {
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		size := "Unknown"
		if b, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 64); err == nil {
			size = strconv.FormatUint(b/(1024*1024*1024), 10) + "G"
		}
		devices = append(devices, StorageDevice{
			Device: "N/A",
			Size:   size,
			Model:  strings.TrimSpace(parts[1]),
		})
	}
	return devices
}
