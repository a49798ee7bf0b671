package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CavaJ/ImagingInterview/internal/model"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "camdedup.toml"

// Config holds every tunable of a deduplication run.
type Config struct {
	ImageDirectory string       `toml:"image_dir"`
	Action         model.Action `toml:"action"`
	Extensions     []string     `toml:"extensions"`
	DryRun         bool         `toml:"dry_run"`
	LogDirectory   string       `toml:"log_dir"`
	LogLevel       string       `toml:"log_level"`
	Quiet          bool         `toml:"quiet"`
	DatabasePath   string       `toml:"db_path"`     // empty disables the run ledger
	ListenAddr     string       `toml:"listen_addr"` // empty disables the event stream
	Mask           Mask         `toml:"mask"`
	Tiers          Tiers        `toml:"tiers"`
}

// Mask is the border, in percent of width/height, blacked out before comparison.
type Mask struct {
	Left   float64 `toml:"left"`
	Top    float64 `toml:"top"`
	Right  float64 `toml:"right"`
	Bottom float64 `toml:"bottom"`
}

// TierSettings are the comparison parameters of one resolution tier.
type TierSettings struct {
	Kernels             []int   `toml:"kernels"`
	MinRegionFraction   float64 `toml:"min_region_fraction"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// Tiers groups the settings of the tiers that take part in scoring.
type Tiers struct {
	Low  TierSettings `toml:"low"`
	Mid  TierSettings `toml:"mid"`
	High TierSettings `toml:"high"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ImageDirectory: filepath.Join(".", "dataset"),
		Action:         model.ActionMove,
		Extensions:     []string{".png", ".jpg", ".jpeg"},
		LogDirectory:   filepath.Join(".", "logs"),
		LogLevel:       "info",
		Mask:           Mask{Left: 5, Top: 10, Right: 5, Bottom: 0},
		Tiers: Tiers{
			Low:  TierSettings{Kernels: []int{1, 3}, MinRegionFraction: 0.00025, SimilarityThreshold: 500},
			Mid:  TierSettings{Kernels: []int{3, 5}, MinRegionFraction: 0.0005, SimilarityThreshold: 1000},
			High: TierSettings{Kernels: []int{5, 7, 9}, MinRegionFraction: 0.001, SimilarityThreshold: 2000},
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional TOML file and environment variables, in that order.
// An explicit path that does not exist is an error; the default file is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = getEnv("CONFIG_PATH", DefaultConfigFile)
	}
	if err := decodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ImageDirectory = getEnv("IMAGE_DIR", c.ImageDirectory)
	c.Action = model.Action(getEnv("DEDUP_ACTION", string(c.Action)))
	c.LogDirectory = getEnv("LOG_DIR", c.LogDirectory)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DatabasePath = getEnv("DB_PATH", c.DatabasePath)
	c.ListenAddr = getEnv("LISTEN_ADDR", c.ListenAddr)
	c.DryRun = getEnvAsBool("DRY_RUN", c.DryRun)
	if exts := getEnv("IMAGE_EXTENSIONS", ""); exts != "" {
		c.Extensions = strings.Split(exts, ",")
	}
}

// Validate normalizes the action and extensions and checks numeric ranges.
func (c *Config) Validate() error {
	action, err := model.ParseAction(string(c.Action))
	if err != nil {
		return err
	}
	c.Action = action

	if strings.TrimSpace(c.ImageDirectory) == "" {
		return errors.New("image directory must be set")
	}

	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		return errors.New("at least one image extension is required")
	}
	c.Extensions = exts

	if err := c.Mask.validate(); err != nil {
		return err
	}

	tiers := []struct {
		name string
		s    TierSettings
	}{{"low", c.Tiers.Low}, {"mid", c.Tiers.Mid}, {"high", c.Tiers.High}}
	for _, t := range tiers {
		if err := t.s.validate(); err != nil {
			return fmt.Errorf("tiers.%s: %w", t.name, err)
		}
	}
	return nil
}

func (m Mask) validate() error {
	for name, v := range map[string]float64{"left": m.Left, "top": m.Top, "right": m.Right, "bottom": m.Bottom} {
		if v < 0 || v >= 100 {
			return fmt.Errorf("mask.%s must be in [0, 100), got %v", name, v)
		}
	}
	if m.Left+m.Right >= 100 {
		return fmt.Errorf("mask.left + mask.right must be below 100, got %v", m.Left+m.Right)
	}
	if m.Top+m.Bottom >= 100 {
		return fmt.Errorf("mask.top + mask.bottom must be below 100, got %v", m.Top+m.Bottom)
	}
	return nil
}

func (s TierSettings) validate() error {
	for _, k := range s.Kernels {
		if k <= 0 || k%2 == 0 {
			return fmt.Errorf("blur kernel sizes must be odd and positive, got %d", k)
		}
	}
	if s.MinRegionFraction < 0 {
		return fmt.Errorf("min_region_fraction must not be negative, got %v", s.MinRegionFraction)
	}
	if s.SimilarityThreshold <= 0 {
		return fmt.Errorf("similarity_threshold must be positive, got %v", s.SimilarityThreshold)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
