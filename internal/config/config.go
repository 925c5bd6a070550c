package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

var configDirFunc = configDir

var ErrConfigExists = errors.New("config file already exists")

type Profile struct {
	Name    string `yaml:"name"`
	ConnStr string `yaml:"conn_str"`
}

// Config is the on-disk file. Zero values mean "not set" so flags and
// built-in defaults take over.
type Config struct {
	Default  string    `yaml:"default,omitempty"`
	Width    int       `yaml:"width,omitempty"`
	Color    string    `yaml:"color,omitempty"`
	MaxDepth int       `yaml:"max_depth,omitempty"`
	Profiles []Profile `yaml:"profiles"`
}

const template = `# pgpev configuration

# Column budget for wrapped descriptions and outputs.
width: 60

# auto, always or never.
color: auto

# Deepest plan nesting accepted before giving up.
max_depth: 1000

# Profile used when neither --db nor --profile is given.
# default: local

profiles:
  # - name: local
  #   conn_str: postgres://postgres@localhost:5432/postgres
`

// Load returns the config file contents, or an empty Config when the file
// does not exist yet.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func Path() (string, error) {
	return configPath()
}

func Resolve(name string) (string, error) {
	cfg, err := load()
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no profiles configured")
		}
		return "", err
	}

	for _, p := range cfg.Profiles {
		if p.Name == name {
			return p.ConnStr, nil
		}
	}

	return "", fmt.Errorf("profile %q not found", name)
}

func List() ([]Profile, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	return cfg.Profiles, nil
}

func Add(name, connStr string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	for i, p := range cfg.Profiles {
		if p.Name == name {
			cfg.Profiles[i].ConnStr = connStr
			return save(cfg)
		}
	}

	cfg.Profiles = append(cfg.Profiles, Profile{
		Name:    name,
		ConnStr: connStr,
	})
	return save(cfg)
}

func Remove(name string) error {
	cfg, err := load()
	if err != nil {
		return err
	}

	i := slices.IndexFunc(cfg.Profiles, func(p Profile) bool { return p.Name == name })
	if i < 0 {
		return fmt.Errorf("profile %q not found", name)
	}

	cfg.Profiles = slices.Delete(cfg.Profiles, i, i+1)
	if cfg.Default == name {
		cfg.Default = ""
	}
	return save(cfg)
}

// ResolveConnStr picks the connection string: an explicit one, then the
// named profile, then the default profile. Empty means no database.
func ResolveConnStr(db, profileName string) (string, error) {
	if db != "" {
		return db, nil
	}
	if profileName != "" {
		return Resolve(profileName)
	}

	cfg, err := Load()
	if err != nil {
		return "", err
	}
	if cfg.Default != "" {
		return Resolve(cfg.Default)
	}

	return "", nil
}

func GetDefault() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.Default, nil
}

func SetDefault(name string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	if !slices.ContainsFunc(cfg.Profiles, func(p Profile) bool { return p.Name == name }) {
		return fmt.Errorf("profile %q not found", name)
	}

	cfg.Default = name
	return save(cfg)
}

func ClearDefault() error {
	cfg, err := load()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cfg.Default = ""
	return save(cfg)
}

// WriteTemplate creates the config file with commented defaults and returns
// its path. An existing file is kept unless force is set.
func WriteTemplate(force bool) (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
		}
	}

	if err := ensureConfigDir(); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(template), 0600); err != nil {
		return "", fmt.Errorf("writing config %s: %w", path, err)
	}

	return path, nil
}

func load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &cfg, nil
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(base, "pgpev"), nil
}

func configPath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func ensureConfigDir() error {
	dir, err := configDirFunc()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

func save(cfg *Config) error {
	if err := ensureConfigDir(); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	return nil
}
