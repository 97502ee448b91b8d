package config

import (
	"github.com/knadh/koanf/v2"
)

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"engine.shell":         "posix",
		"engine.task_type":     "encoding",
		"engine.encoding":      "utf-8",
		"engine.temp_attempts": 10,

		"history.enabled": true,

		"logging.level":  "info",
		"logging.format": "pretty",
	}

	for key, val := range defaults {
		k.Set(key, val)
	}
	return nil
}
