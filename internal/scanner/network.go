package scanner

import (
	"context"
	"strings"

	"github.com/samber/lo"
)

// scanNetwork detects network interfaces and their addresses.
func (s *Scanner) scanNetwork(ctx context.Context) NetworkInfo {
	switch s.platform {
	case "linux":
		if out, ok := s.run(ctx, "ip", "-o", "addr", "show"); ok {
			return NetworkInfo{Interfaces: parseIPAddr(out)}
		}
	case "macos":
		if out, ok := s.run(ctx, "ifconfig"); ok {
			return NetworkInfo{Interfaces: parseIfconfig(out)}
		}
	case "windows":
		if out, ok := s.run(ctx, "ipconfig"); ok {
			return NetworkInfo{Interfaces: parseIpconfig(out)}
		}
	}
	return NetworkInfo{}
}

// parseIPAddr parses `ip -o addr show` one-line-per-address output.
func parseIPAddr(out string) []NetworkInterface {
	interfaces := map[string]*NetworkInterface{}
	var order []string

	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 4 || (parts[2] != "inet" && parts[2] != "inet6") {
			continue
		}
		name := parts[1]
		addr, _, _ := strings.Cut(parts[3], "/")

		iface, ok := interfaces[name]
		if !ok {
			iface = &NetworkInterface{Name: name, IPv4: []string{}, IPv6: []string{}}
			interfaces[name] = iface
			order = append(order, name)
		}
		if parts[2] == "inet" {
			iface.IPv4 = append(iface.IPv4, addr)
		} else {
			iface.IPv6 = append(iface.IPv6, addr)
		}
	}

	return lo.Map(order, func(name string, _ int) NetworkInterface {
		return *interfaces[name]
	})
}

// parseIfconfig parses BSD-style `ifconfig` output, keeping interfaces
// that carry at least one address.
func parseIfconfig(out string) []NetworkInterface {
	interfaces := map[string]*NetworkInterface{}
	var order []string
	var current *NetworkInterface

	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "\t") && !strings.HasPrefix(line, " ") && strings.Contains(line, ":") {
			name, _, _ := strings.Cut(line, ":")
			current = &NetworkInterface{Name: name, IPv4: []string{}, IPv6: []string{}}
			interfaces[name] = current
			order = append(order, name)
			continue
		}
		if current == nil {
			continue
		}

		fields := strings.Fields(line)
		for i, f := range fields {
			if f == "inet" && i+1 < len(fields) {
				current.IPv4 = append(current.IPv4, fields[i+1])
			}
			if f == "inet6" && i+1 < len(fields) {
				addr, _, _ := strings.Cut(fields[i+1], "%")
				current.IPv6 = append(current.IPv6, addr)
			}
		}
	}

	var result []NetworkInterface
	for _, name := range order {
		iface := interfaces[name]
		if len(iface.IPv4) > 0 || len(iface.IPv6) > 0 {
			result = append(result, *iface)
		}
	}
	return result
}

// parseIpconfig parses Windows `ipconfig` output, keeping adapters with an
// IPv4 address.
func parseIpconfig(out string) []NetworkInterface {
	interfaces := map[string]*NetworkInterface{}
	var order []string
	var current *NetworkInterface

	for _, line := range strings.Split(out, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "adapter") && strings.Contains(line, ":") {
			name, _, _ := strings.Cut(line, ":")
			name = strings.TrimSpace(name)
			current = &NetworkInterface{Name: name, IPv4: []string{}, IPv6: []string{}}
			interfaces[name] = current
			order = append(order, name)
			continue
		}
		if current == nil || !strings.Contains(line, ":") {
			continue
		}

		_, value, _ := strings.Cut(line, ":")
		value = strings.TrimSpace(value)
		if strings.Contains(lower, "ipv4") {
			current.IPv4 = append(current.IPv4, value)
		} else if strings.Contains(lower, "ipv6") {
			current.IPv6 = append(current.IPv6, value)
		}
	}

	var result []NetworkInterface
	for _, name := range order {
		iface := interfaces[name]
		if len(iface.IPv4) > 0 {
			result = append(result, *iface)
		}
	}
	return result
}
