package razed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// LimitsConfig fixes the table allocations. Buffers are sized once at
// startup; the tables never grow past these row counts.
type LimitsConfig struct {
	Entities  int `yaml:"entities"`
	Meshes    int `yaml:"meshes"`
	Vertices  int `yaml:"vertices"`
	Nodes     int `yaml:"nodes"`
	Links     int `yaml:"links"`
	Fragments int `yaml:"fragments"`
	Commands  int `yaml:"commands"`
}

type LogConfig struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"`
}

type Config struct {
	Window WindowConfig `yaml:"window"`
	Limits LimitsConfig `yaml:"limits"`
	Log    LogConfig    `yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "razed",
			Width:  1280,
			Height: 720,
		},
		Limits: LimitsConfig{
			Entities:  1024,
			Meshes:    512,
			Vertices:  2048,
			Nodes:     4096,
			Links:     8192,
			Fragments: 4096,
			Commands:  1024,
		},
		Log: LogConfig{
			Debug: false,
		},
	}
}

// LoadConfig reads a yaml config file. A missing file is not an error;
// it yields the defaults. Fields absent from the file keep their default
// values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ConfigModule loads the config file and installs it as a resource.
type ConfigModule struct {
	Path string
}

func (m ConfigModule) Install(app *App) {
	cfg, err := LoadConfig(m.Path)
	if err != nil {
		panic(err)
	}
	app.AddResources(&cfg)
}
