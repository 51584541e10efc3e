package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultOperations        = 100000
	defaultTagBits           = 64
	defaultGroupSize         = 16
	defaultMergeThreshold    = 8
	defaultValueRange        = 1 << 20
	defaultStatsWindowSecond = 60
	defaultReportFrequencyMs = 1000
	defaultCheckEvery        = 1000
)

var validate = validator.New()

// WorkloadConfig drives the randomized workload. Zero values fall back to
// defaults through the getters.
type WorkloadConfig struct {
	Seed              int64        `yaml:"seed"`
	Operations        int          `yaml:"operations" validate:"gte=0"`
	TagBits           int          `yaml:"tag_bits" validate:"omitempty,gte=8,lte=64"`
	GroupSize         int          `yaml:"group_size" validate:"omitempty,gte=2"`
	MergeThreshold    int          `yaml:"merge_threshold" validate:"gte=0"`
	ValueRange        int64        `yaml:"value_range" validate:"gte=0"`
	CheckEvery        int          `yaml:"check_every" validate:"gte=0"`
	StatsWindowSecond int          `yaml:"stats_window_seconds" validate:"gte=0"`
	ReportFrequencyMs int          `yaml:"report_frequency_ms" validate:"gte=0"`
	Mix               *OpMixConfig `yaml:"mix"`
}

// OpMixConfig weights the operations the workload picks from. All zero means
// the default mix.
type OpMixConfig struct {
	Insert  int `yaml:"insert" validate:"gte=0"`
	Remove  int `yaml:"remove" validate:"gte=0"`
	Lookup  int `yaml:"lookup" validate:"gte=0"`
	View    int `yaml:"view" validate:"gte=0"`
	Reverse int `yaml:"reverse" validate:"gte=0"`
	Sort    int `yaml:"sort" validate:"gte=0"`
}

func (m *OpMixConfig) total() int {
	return m.Insert + m.Remove + m.Lookup + m.View + m.Reverse + m.Sort
}

// Load reads and validates the config at path. A missing file yields the
// default config.
func Load(path string) (*WorkloadConfig, error) {
	cfg := &WorkloadConfig{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *WorkloadConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.MergeThreshold > c.GetGroupSize() {
		return fmt.Errorf("merge_threshold %d exceeds group_size %d", c.MergeThreshold, c.GetGroupSize())
	}
	return nil
}

func (c *WorkloadConfig) GetOperations() int {
	if c.Operations == 0 {
		return defaultOperations
	}
	return c.Operations
}

func (c *WorkloadConfig) GetTagBits() int {
	if c.TagBits == 0 {
		return defaultTagBits
	}
	return c.TagBits
}

func (c *WorkloadConfig) GetGroupSize() int {
	if c.GroupSize == 0 {
		return defaultGroupSize
	}
	return c.GroupSize
}

func (c *WorkloadConfig) GetMergeThreshold() int {
	if c.MergeThreshold == 0 {
		return min(defaultMergeThreshold, c.GetGroupSize())
	}
	return c.MergeThreshold
}

func (c *WorkloadConfig) GetValueRange() int64 {
	if c.ValueRange == 0 {
		return defaultValueRange
	}
	return c.ValueRange
}

func (c *WorkloadConfig) GetCheckEvery() int {
	if c.CheckEvery == 0 {
		return defaultCheckEvery
	}
	return c.CheckEvery
}

func (c *WorkloadConfig) GetStatsWindowSeconds() int {
	if c.StatsWindowSecond == 0 {
		return defaultStatsWindowSecond
	}
	return c.StatsWindowSecond
}

func (c *WorkloadConfig) GetReportFrequencyMs() int {
	if c.ReportFrequencyMs == 0 {
		return defaultReportFrequencyMs
	}
	return c.ReportFrequencyMs
}

func (c *WorkloadConfig) GetMix() OpMixConfig {
	if c.Mix == nil || c.Mix.total() == 0 {
		return OpMixConfig{Insert: 50, Remove: 25, Lookup: 15, View: 8, Reverse: 1, Sort: 1}
	}
	return *c.Mix
}
