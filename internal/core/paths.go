package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	HomeDir       string
	DataDir       string
	HooksDir      string
	ContextFile   string
	ChangelogFile string
	SettingsFile  string
	HookScript    string
	ConfigFile    string
	LogFile       string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		dataDir := filepath.Join(homeDir, ".claude")
		defaultPaths = &Paths{
			HomeDir:       homeDir,
			DataDir:       dataDir,
			HooksDir:      filepath.Join(dataDir, "hooks"),
			ContextFile:   filepath.Join(homeDir, "claude_context.json"),
			ChangelogFile: filepath.Join(dataDir, "context_changelog.diff"),
			SettingsFile:  filepath.Join(dataDir, "settings.json"),
			HookScript:    filepath.Join(dataDir, "hooks", "load_context.sh"),
			ConfigFile:    filepath.Join(dataDir, "ctxkeeper.yaml"),
			LogFile:       filepath.Join(dataDir, "ctxkeeper.log"),
		}

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func HooksDir() string {
	ensureDefaultPaths()
	return defaultPaths.HooksDir
}

func ContextFile() string {
	ensureDefaultPaths()
	return defaultPaths.ContextFile
}

func ChangelogFile() string {
	ensureDefaultPaths()
	return defaultPaths.ChangelogFile
}

func SettingsFile() string {
	ensureDefaultPaths()
	return defaultPaths.SettingsFile
}

func HookScript() string {
	ensureDefaultPaths()
	return defaultPaths.HookScript
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
