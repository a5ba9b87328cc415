package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"taskman/internal/task"
)

const (
	AppName               = "taskman"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasks.db"
	DefaultLogName        = "taskman.log"
	DefaultNotifySeconds  = 3
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Edit           string `toml:"edit"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	NextField      string `toml:"next_field"`
	PrevField      string `toml:"prev_field"`
	Filter         string `toml:"filter"`
	Category       string `toml:"category"`
	Sort           string `toml:"sort"`
	ClearCompleted string `toml:"clear_completed"`
	Theme          string `toml:"theme"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	LogPath         string `toml:"log_path"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultCategory string `toml:"default_category"`
	DefaultSort     string `toml:"default_sort"`
	NotifySeconds   int    `toml:"notify_seconds"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath returns <user config dir>/taskman/config.toml, or config.toml in the
// working directory when the platform has no config dir.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there first if it does not exist.
// Relative db and log paths are resolved against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg.resolve(filepath.Dir(path)), nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyDefaults() {
	def := defaultConfig()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if _, err := task.ParseFilter(c.DefaultFilter); err != nil {
		c.DefaultFilter = def.DefaultFilter
	}
	if _, err := task.ParseCategoryFilter(c.DefaultCategory); err != nil {
		c.DefaultCategory = def.DefaultCategory
	}
	if _, err := task.ParseSort(c.DefaultSort); err != nil {
		c.DefaultSort = def.DefaultSort
	}
	if c.NotifySeconds <= 0 {
		c.NotifySeconds = def.NotifySeconds
	}
	c.Keys = c.Keys.withDefaults(def.Keys)
}

func (c Config) resolve(dir string) Config {
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

func (k Keymap) withDefaults(def Keymap) Keymap {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&k.Quit, def.Quit)
	fill(&k.Add, def.Add)
	fill(&k.Up, def.Up)
	fill(&k.Down, def.Down)
	fill(&k.Toggle, def.Toggle)
	fill(&k.Delete, def.Delete)
	fill(&k.Edit, def.Edit)
	fill(&k.Confirm, def.Confirm)
	fill(&k.Cancel, def.Cancel)
	fill(&k.NextField, def.NextField)
	fill(&k.PrevField, def.PrevField)
	fill(&k.Filter, def.Filter)
	fill(&k.Category, def.Category)
	fill(&k.Sort, def.Sort)
	fill(&k.ClearCompleted, def.ClearCompleted)
	fill(&k.Theme, def.Theme)
	return k
}

// Default is the configuration written on first launch.
func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		LogPath:         DefaultLogName,
		DefaultFilter:   string(task.FilterAll),
		DefaultCategory: string(task.CategoryAll),
		DefaultSort:     string(task.SortNewest),
		NotifySeconds:   DefaultNotifySeconds,
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Edit:           "e",
			Confirm:        "enter",
			Cancel:         "esc",
			NextField:      "tab",
			PrevField:      "shift+tab",
			Filter:         "f",
			Category:       "c",
			Sort:           "s",
			ClearCompleted: "X",
			Theme:          "t",
		},
	}
}
