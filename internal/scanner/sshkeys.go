package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// scanSSHKeys enumerates key pairs under ~/.ssh by their public halves.
func (s *Scanner) scanSSHKeys() []SSHKey {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		s.logger.Warn("failed to determine home directory", zap.Error(err))
		return nil
	}
	return ScanSSHKeysIn(filepath.Join(homeDir, ".ssh"))
}

// ScanSSHKeysIn enumerates key pairs in the given directory. A missing or
// unreadable directory yields no keys.
func ScanSSHKeysIn(sshDir string) []SSHKey {
	pubKeys, err := filepath.Glob(filepath.Join(sshDir, "*.pub"))
	if err != nil {
		return nil
	}

	var keys []SSHKey
	for _, pubKey := range pubKeys {
		name := strings.TrimSuffix(filepath.Base(pubKey), ".pub")

		key := SSHKey{
			Name:      name,
			PublicKey: pubKey,
		}
		if _, err := os.Stat(filepath.Join(sshDir, name)); err == nil {
			key.HasPrivate = true
		}

		if content, err := os.ReadFile(pubKey); err == nil {
			trimmed := strings.TrimSpace(string(content))
			if strings.HasPrefix(trimmed, "ssh-") {
				key.Type = strings.Fields(trimmed)[0]
			}
		}

		keys = append(keys, key)
	}
	return keys
}
