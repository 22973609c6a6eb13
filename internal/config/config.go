package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the declarative project description read from hdlbench.toml.
// The CI flag deliberately has no file representation: it comes in through
// the command line and is threaded through explicit structs.
type Config struct {
	Paths       Paths            `toml:"paths"`
	Libraries   []LibraryEntry   `toml:"libraries"`
	TestBenches []TestBenchEntry `toml:"testbenches"`
	Simulator   Simulator        `toml:"simulator"`
	Output      Output           `toml:"output"`
	Globs       Globs            `toml:"globs"`
	Watch       Watch            `toml:"watch"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
}

type LibraryEntry struct {
	Name     string   `toml:"name"`
	Patterns []string `toml:"patterns"`
}

type TestBenchEntry struct {
	Library string `toml:"library"`
	Unit    string `toml:"unit"`
	// Generics holds scalar bindings (bool, integer or string values).
	Generics map[string]interface{} `toml:"generics"`
	// CIModeGeneric controls whether the --ci-mode flag is bound to this
	// bench as the ci_mode generic.
	CIModeGeneric *bool `toml:"ci_mode_generic"`
}

type Simulator struct {
	Name     string                 `toml:"name"`
	Builtins []string               `toml:"builtins"`
	Options  map[string]interface{} `toml:"options"`
}

type Output struct {
	VHDLLS string `toml:"vhdl_ls"`
}

type Globs struct {
	Lenient bool `toml:"lenient"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Dirs     []string      `toml:"dirs"`
}

func (tb TestBenchEntry) CIModeGenericEnabled() bool {
	if tb.CIModeGeneric == nil {
		return true
	}
	return *tb.CIModeGeneric
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateLibraries(&cfg); err != nil {
		return nil, err
	}
	if err := validateTestBenches(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Paths.ProjectRoot) == "" {
		cfg.Paths.ProjectRoot = "."
	}
	if strings.TrimSpace(cfg.Simulator.Name) == "" {
		cfg.Simulator.Name = "ghdl"
	}
	if strings.TrimSpace(cfg.Output.VHDLLS) == "" {
		cfg.Output.VHDLLS = "vhdl_ls.toml"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if len(cfg.Watch.Dirs) == 0 {
		cfg.Watch.Dirs = []string{".git"}
	}
}

func validateLibraries(cfg *Config) error {
	if len(cfg.Libraries) == 0 {
		return fmt.Errorf("at least one [[libraries]] entry is required")
	}

	seen := make(map[string]bool, len(cfg.Libraries))
	for i, lib := range cfg.Libraries {
		ref := fmt.Sprintf("libraries[%d]", i)
		name := strings.TrimSpace(lib.Name)
		if name == "" {
			return fmt.Errorf("%s.name must not be empty", ref)
		}
		if seen[name] {
			return fmt.Errorf("duplicate library name %q", name)
		}
		seen[name] = true

		if len(lib.Patterns) == 0 {
			return fmt.Errorf("%s (%s) must define at least one pattern", ref, name)
		}
		for _, pattern := range lib.Patterns {
			if strings.TrimSpace(pattern) == "" {
				return fmt.Errorf("%s (%s) contains an empty pattern", ref, name)
			}
		}
	}
	return nil
}

func validateTestBenches(cfg *Config) error {
	libraries := make(map[string]bool, len(cfg.Libraries))
	for _, lib := range cfg.Libraries {
		libraries[strings.TrimSpace(lib.Name)] = true
	}

	for i, tb := range cfg.TestBenches {
		ref := fmt.Sprintf("testbenches[%d]", i)
		if strings.TrimSpace(tb.Unit) == "" {
			return fmt.Errorf("%s.unit must not be empty", ref)
		}
		if !libraries[strings.TrimSpace(tb.Library)] {
			return fmt.Errorf("%s references unknown library %q", ref, tb.Library)
		}
		for key := range tb.Generics {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("%s.generics must not contain empty names", ref)
			}
			if key == "ci_mode" {
				return fmt.Errorf("%s.generics: ci_mode is reserved, it is bound from the --ci-mode flag", ref)
			}
		}
	}
	return nil
}
