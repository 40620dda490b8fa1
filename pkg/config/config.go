package config

import (
	"fmt"
	"strings"
)

type Feature int

const (
	FeatFloat Feature = iota
	FeatNewline
	FeatCount
)

type Warning int

const (
	WarnUnknownForm Warning = iota
	WarnDroppedToken
	WarnDataOverlap
	WarnDuplicateMapKey
	WarnCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

type Config struct {
	Features   map[Feature]Info
	Warnings   map[Warning]Info
	FeatureMap map[string]Feature
	WarningMap map[string]Warning
}

func New() *Config {
	cfg := &Config{
		FeatureMap: make(map[string]Feature),
		WarningMap: make(map[string]Warning),
	}

	features := map[Feature]Info{
		FeatFloat:   {"float", false, "Recognize fractional number literals (scanned, never emitted)."},
		FeatNewline: {"newline", true, "Append a trailing newline to string data segments."},
	}

	warnings := map[Warning]Info{
		WarnUnknownForm:     {"unknown-form", true, "Warn when a list form emits no instructions."},
		WarnDroppedToken:    {"dropped-token", false, "Warn when a token is converted to the null node."},
		WarnDataOverlap:     {"data-overlap", true, "Warn when multiple data segments share the fixed base offset."},
		WarnDuplicateMapKey: {"duplicate-map-key", false, "Warn when a map literal repeats a key."},
	}

	cfg.Features, cfg.Warnings = features, warnings
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	for wt, info := range warnings {
		cfg.WarningMap[info.Name] = wt
	}

	return cfg
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

func (c *Config) SetWarning(wt Warning, enabled bool) {
	if info, ok := c.Warnings[wt]; ok {
		info.Enabled = enabled
		c.Warnings[wt] = info
	}
}

func (c *Config) IsWarningEnabled(wt Warning) bool { return c.Warnings[wt].Enabled }

// ApplyFlag handles one -F/-W style flag, e.g. "-Ffloat", "-Wno-unknown-form",
// "-Wall". Unknown names are reported as an error so the driver can surface
// them.
func (c *Config) ApplyFlag(flag string) error {
	trimmed := strings.TrimPrefix(flag, "-")
	if len(trimmed) < 2 {
		return fmt.Errorf("unrecognized flag '%s'", flag)
	}

	kind, name := trimmed[0], trimmed[1:]
	enable := true
	if strings.HasPrefix(name, "no-") {
		enable = false
		name = strings.TrimPrefix(name, "no-")
	}

	switch kind {
	case 'W':
		if name == "all" {
			for i := Warning(0); i < WarnCount; i++ {
				c.SetWarning(i, enable)
			}
			return nil
		}
		if w, ok := c.WarningMap[name]; ok {
			c.SetWarning(w, enable)
			return nil
		}
		return fmt.Errorf("unrecognized warning '-W%s'", name)
	case 'F':
		if f, ok := c.FeatureMap[name]; ok {
			c.SetFeature(f, enable)
			return nil
		}
		return fmt.Errorf("unrecognized feature '-F%s'", name)
	}
	return fmt.Errorf("unrecognized flag '%s'", flag)
}
