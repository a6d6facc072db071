package scanner

// ScanResult is the best-effort snapshot of local hardware, network, and
// SSH key facts. Probes that fail leave their section at its zero value.
type ScanResult struct {
	Platform string          `json:"platform"`
	Hostname string          `json:"hostname"`
	CPU      CPUInfo         `json:"cpu"`
	Memory   MemoryInfo      `json:"memory"`
	GPUs     []GPUInfo       `json:"gpus"`
	Storage  []StorageDevice `json:"storage"`
	Network  NetworkInfo     `json:"network"`
	SSHKeys  []SSHKey        `json:"ssh_keys"`
}

type CPUInfo struct {
	Model   string `json:"model"`
	Cores   int    `json:"cores"`
	Threads int    `json:"threads"`
}

type MemoryInfo struct {
	TotalBytes uint64 `json:"total_bytes"`
}

type GPUInfo struct {
	Vendor  string `json:"vendor"`
	Index   int    `json:"index"`
	Model   string `json:"model"`
	VRAMMB  uint64 `json:"vram_mb,omitempty"`
	PCIeBus string `json:"pcie_bus,omitempty"`
	UUID    string `json:"uuid,omitempty"`
	Source  string `json:"source,omitempty"`
}

type StorageDevice struct {
	Device string `json:"device"`
	Size   string `json:"size"`
	Model  string `json:"model"`
}

type NetworkInfo struct {
	Interfaces []NetworkInterface `json:"interfaces"`
}

type NetworkInterface struct {
	Name string   `json:"name"`
	IPv4 []string `json:"ipv4"`
	IPv6 []string `json:"ipv6"`
}

type SSHKey struct {
	Name       string `json:"name"`
	PublicKey  string `json:"public_key"`
	Type       string `json:"type,omitempty"`
	HasPrivate bool   `json:"has_private"`
}
