package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"mahami/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "mahami.db"
	appDir                = "mahami"
	envConfig             = "MAHAMI_CONFIG"
	// memoryDB keeps tasks in memory for the life of the process.
	memoryDB = ":memory:"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	Remind         string `toml:"remind"`
	ClearReminder  string `toml:"clear_reminder"`
	Search         string `toml:"search"`
	CycleCategory  string `toml:"cycle_category"`
	CycleStatus    string `toml:"cycle_status"`
	CycleSort      string `toml:"cycle_sort"`
	ClearFilters   string `toml:"clear_filters"`
	NextField      string `toml:"next_field"`
	PrevField      string `toml:"prev_field"`
	OptionNext     string `toml:"option_next"`
	OptionPrevious string `toml:"option_previous"`
}

type Config struct {
	DBPath          string   `toml:"db_path"`
	DefaultFilter   string   `toml:"default_filter"`
	DefaultSort     string   `toml:"default_sort"`
	DefaultPriority string   `toml:"default_priority"`
	Categories      []string `toml:"categories"`
	Notifications   bool     `toml:"notifications"`
	WatchDB         bool     `toml:"watch_db"`
	LogLevel        string   `toml:"log_level"`
	LogFile         string   `toml:"log_file"`
	Keys            Keymap   `toml:"keys"`
}

// ResolveConfigPath picks the config file: explicit flag, then
// $MAHAMI_CONFIG, then the user config directory.
func ResolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(envConfig); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDir, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		cfg.resolvePaths(path)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = Default().Categories
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolvePaths(path)
	return cfg, nil
}

// resolvePaths anchors relative db and log paths at the config directory.
func (c *Config) resolvePaths(configPath string) {
	base := filepath.Dir(configPath)
	if c.DBPath != "" && c.DBPath != memoryDB && !filepath.IsAbs(c.DBPath) && !strings.HasPrefix(c.DBPath, "file:") {
		c.DBPath = filepath.Join(base, c.DBPath)
	}
	if c.LogFile != "" && !filepath.IsAbs(c.LogFile) {
		c.LogFile = filepath.Join(base, c.LogFile)
	}
}

func (c Config) Validate() error {
	if _, err := task.ParseStatus(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if _, err := task.ParseSortKey(c.DefaultSort); err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	if c.DefaultPriority != "" {
		if _, err := task.ParsePriority(c.DefaultPriority); err != nil {
			return fmt.Errorf("default_priority: %w", err)
		}
	}
	return nil
}

func (c Config) Filter() task.Status {
	s, _ := task.ParseStatus(c.DefaultFilter)
	return s
}

func (c Config) Sort() task.SortKey {
	k, _ := task.ParseSortKey(c.DefaultSort)
	return k
}

func (c Config) Priority() task.Priority {
	p, err := task.ParsePriority(c.DefaultPriority)
	if err != nil {
		return task.PriorityMedium
	}
	return p
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

func Default() Config {
	return Config{
		DBPath:          DefaultDBName,
		DefaultFilter:   string(task.StatusAll),
		DefaultSort:     string(task.SortCreatedAt),
		DefaultPriority: string(task.PriorityMedium),
		Categories:      []string{"شخصي", "عمل", "تسوق", "دراسة", "صحة", "أخرى"},
		Notifications:   true,
		WatchDB:         true,
		LogLevel:        "info",
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			Edit:           "e",
			Remind:         "r",
			ClearReminder:  "R",
			Search:         "/",
			CycleCategory:  "c",
			CycleStatus:    "f",
			CycleSort:      "s",
			ClearFilters:   "x",
			NextField:      "tab",
			PrevField:      "shift+tab",
			OptionNext:     "ctrl+n",
			OptionPrevious: "ctrl+p",
		},
	}
}
