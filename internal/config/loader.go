package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix marks environment overrides. A double underscore separates
// nesting levels: SYNTHPREP_INPUT__PATH sets input.path.
const EnvPrefix = "SYNTHPREP_"

// flagKeys maps flags whose names differ from their config key.
var flagKeys = map[string]string{
	"input":          "input.path",
	"output":         "output.path",
	"inverse-output": "inverse_output.path",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// findConfigFile returns explicit, or synthprep.yaml / synthprep.yml from
// the working directory if present.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"synthprep.yaml", "synthprep.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads settings from defaults, the config file, environment
// variables and flags. Precedence (highest to lowest): flags > env vars >
// config file > defaults. It returns the config file used, if any.
func Load(cfgFile string, flags *pflag.FlagSet) (*Settings, string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"input.has_header":          true,
		"output.has_header":         true,
		"inverse_output.has_header": true,
		"sample_rows":               DefaultSampleRows,
		"top_k":                     DefaultTopK,
		"log.level":                 DefaultLogLevel,
		"log.format":                DefaultLogFormat,
	}, "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}
	// Unmarshal flattens and rebuilds maps; take processors verbatim so
	// list entries keep their shape.
	if raw, ok := k.Get("processors").(map[string]any); ok {
		s.Processors = raw
	}
	if s.SampleRows <= 0 {
		s.SampleRows = DefaultSampleRows
	}
	return &s, used, nil
}
