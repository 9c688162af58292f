package config

import (
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/paths"
)

// Config is the effective configuration
type Config struct {
	Game    Game    `koanf:"game" toml:"game"`
	Fix     Fix     `koanf:"fix" toml:"fix"`
	Trigger Trigger `koanf:"trigger" toml:"trigger"`
}

// Game locates saves inside the game directory
type Game struct {
	Dir              string `koanf:"dir" toml:"dir"`
	Properties       string `koanf:"properties" toml:"properties"`
	Saves            string `koanf:"saves" toml:"saves"`
	LevelFile        string `koanf:"level_file" toml:"level_file"`
	DefaultLevelName string `koanf:"default_level_name" toml:"default_level_name"`
}

// Fix describes the defect signature and the replacement generator
type Fix struct {
	Dimension         string `koanf:"dimension" toml:"dimension"`
	DimensionType     string `koanf:"dimension_type" toml:"dimension_type"`
	BadGenerator      string `koanf:"bad_generator" toml:"bad_generator"`
	GeneratorType     string `koanf:"generator_type" toml:"generator_type"`
	GeneratorSettings string `koanf:"generator_settings" toml:"generator_settings"`
	DataDir           string `koanf:"data_dir" toml:"data_dir"`
	BackupSuffix      string `koanf:"backup_suffix" toml:"backup_suffix"`
	TempSuffix        string `koanf:"temp_suffix" toml:"temp_suffix"`
	ArchiveSuffix     string `koanf:"archive_suffix" toml:"archive_suffix"`
	Marker            string `koanf:"marker" toml:"marker"`
}

// Trigger configures the deferred corrective command
type Trigger struct {
	Command        string `koanf:"command" toml:"command"`
	RetryOnFailure bool   `koanf:"retry_on_failure" toml:"retry_on_failure"`
}

// Layout returns the per-world file naming derived from the configuration
func (c *Config) Layout() paths.Layout {
	return paths.Layout{
		LevelFile:     c.Game.LevelFile,
		BackupSuffix:  c.Fix.BackupSuffix,
		TempSuffix:    c.Fix.TempSuffix,
		DataDir:       c.Fix.DataDir,
		ArchiveSuffix: c.Fix.ArchiveSuffix,
		Marker:        c.Fix.Marker,
	}
}

// Validate rejects configurations the fixer cannot act on safely
func (c *Config) Validate() error {
	if err := c.Layout().Validate(); err != nil {
		return err
	}

	required := map[string]string{
		"game.properties":         c.Game.Properties,
		"game.saves":              c.Game.Saves,
		"game.default_level_name": c.Game.DefaultLevelName,
		"fix.dimension":           c.Fix.Dimension,
		"fix.dimension_type":      c.Fix.DimensionType,
		"fix.bad_generator":       c.Fix.BadGenerator,
		"fix.generator_type":      c.Fix.GeneratorType,
		"fix.generator_settings":  c.Fix.GeneratorSettings,
		"trigger.command":         c.Trigger.Command,
	}
	for key, value := range required {
		if value == "" {
			return errors.Newf(errors.ErrConfigValid, "%s must not be empty", key)
		}
	}

	if c.Fix.BadGenerator == c.Fix.GeneratorType {
		return errors.New(errors.ErrConfigValid,
			"fix.bad_generator equals fix.generator_type; repaired saves would be detected again")
	}
	return nil
}
