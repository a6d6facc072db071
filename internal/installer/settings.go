package installer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

const sessionStartKey = "SessionStart"

// registerHook inserts our hook script into the assistant's settings file
// under the SessionStart key. Unrelated settings and pre-existing hook
// entries are preserved; a corrupt settings file is treated as empty.
func (i *Installer) registerHook() error {
	settings := map[string]any{}

	content, err := os.ReadFile(i.opts.SettingsPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	if err == nil {
		if jsonErr := json.Unmarshal(content, &settings); jsonErr != nil {
			i.logger.Warn("settings file is invalid JSON, starting fresh",
				zap.String("path", i.opts.SettingsPath))
			settings = map[string]any{}
		}
	}

	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}

	sessionHooks, _ := hooks[sessionStartKey].([]any)

	if hookAlreadyRegistered(sessionHooks, i.opts.HookScript) {
		i.logger.Info("hook already registered, skipping",
			zap.String("path", i.opts.SettingsPath))
		return nil
	}

	sessionHooks = append(sessionHooks, map[string]any{
		"matcher": "",
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": i.opts.HookScript,
			},
		},
	})
	hooks[sessionStartKey] = sessionHooks

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	if err := os.WriteFile(i.opts.SettingsPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	i.logger.Info("registered session hook", zap.String("path", i.opts.SettingsPath))
	return nil
}

// hookAlreadyRegistered reports whether any SessionStart entry already
// invokes the given command.
func hookAlreadyRegistered(sessionHooks []any, command string) bool {
	for _, entry := range sessionHooks {
		entryMap, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		entryHooks, _ := entryMap["hooks"].([]any)
		for _, h := range entryHooks {
			hookMap, ok := h.(map[string]any)
			if !ok {
				continue
			}
			if hookMap["command"] == command {
				return true
			}
		}
	}
	return false
}
