/*
 * config.go, part of goqsar.
 *
 * Copyright 2024 The goqsar Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package qsar

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

var ErrConfigNotFound = errors.New("config file is not found")
var ErrConfigInvalid = errors.New("config is invalid")

//Config contains the settings for a goqsar project. It is read from YAML,
//and it is treated as a read-only snapshot once a phase starts: workers
//receive it by reference and never modify it.
type Config struct {
	//Number of worker threads for field computation. 0 or less means all logical CPUs.
	Threads int `yaml:"threads"`

	//Directory under which the temporary directory of each project is created.
	WorkDir string `yaml:"workdir"`

	//One of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	PLS    PLSConfig    `yaml:"pls"`
	CV     CVConfig     `yaml:"cv"`
	Engine EngineConfig `yaml:"engine"`
	Grid   GridConfig   `yaml:"grid"`
}

type PLSConfig struct {
	PCs     int     `yaml:"pcs"`
	Scaling string  `yaml:"scaling"` //none, auto or buw
	MinYSD  float64 `yaml:"min_y_sd"`

	//Where the model file and the coefficient archive are written. Empty means
	//the temporary directory of the project.
	ModelFile   string `yaml:"model_file"`
	ArchiveFile string `yaml:"archive_file"`
}

type CVConfig struct {
	Kind    string `yaml:"kind"` //loo, lto or lmo
	Groups  int    `yaml:"groups"`
	Runs    int    `yaml:"runs"`
	Seed    int64  `yaml:"seed"`
	Threads int    `yaml:"threads"`
}

//EngineConfig describes an external program that computes a field.
//Args and Output may contain the placeholders {name}, {xyz}, {grid}, {kind} and {dir}.
type EngineConfig struct {
	Command           string   `yaml:"command"`
	Args              []string `yaml:"args"`
	TerminationMarker string   `yaml:"termination_marker"`
	Output            string   `yaml:"output"` //file with the values, relative to the task directory. Empty means the captured stdout.
	RetrySignature    string   `yaml:"retry_signature"`
	MaxAttempts       int      `yaml:"max_attempts"`
}

type GridConfig struct {
	Origin [3]float64 `yaml:"origin"`
	Step   float64    `yaml:"step"`
	Nodes  [3]int     `yaml:"nodes"`
}

//DefaultConfig returns reasonable settings: all CPUs, 5 PCs, leave-one-out, and for
//leave-many-out, 5 groups and 20 runs.
func DefaultConfig() *Config {
	c := new(Config)
	c.Threads = runtime.NumCPU()
	c.WorkDir = os.TempDir()
	c.LogLevel = "info"
	c.PLS = PLSConfig{PCs: 5, Scaling: "none", MinYSD: 1.0e-04}
	c.CV = CVConfig{Kind: "loo", Groups: 5, Runs: 20, Seed: 1, Threads: 1}
	c.Engine = EngineConfig{MaxAttempts: 5}
	c.Grid = GridConfig{Step: 1.0}
	return c
}

//Verify checks the configuration, and returns nil if it is valid. Otherwise, an error
//wrapping ErrConfigInvalid.
func (c *Config) Verify() error {
	if c.PLS.PCs < 1 {
		return fmt.Errorf("%w: pls.pcs must be at least 1, got %d", ErrConfigInvalid, c.PLS.PCs)
	}
	switch strings.ToLower(c.PLS.Scaling) {
	case "", "none", "auto", "buw":
	default:
		return fmt.Errorf("%w: unknown pls.scaling %q", ErrConfigInvalid, c.PLS.Scaling)
	}
	switch strings.ToLower(c.CV.Kind) {
	case "loo", "lto", "lmo":
	default:
		return fmt.Errorf("%w: unknown cv.kind %q", ErrConfigInvalid, c.CV.Kind)
	}
	//zero groups or runs take the defaults of the cross-validation
	if strings.ToLower(c.CV.Kind) == "lmo" && (c.CV.Groups == 1 || c.CV.Groups < 0 || c.CV.Runs < 0) {
		return fmt.Errorf("%w: lmo needs at least 2 groups and 1 run", ErrConfigInvalid)
	}
	if c.Engine.MaxAttempts < 1 {
		return fmt.Errorf("%w: engine.max_attempts must be at least 1", ErrConfigInvalid)
	}
	if c.Grid.Step < 0 {
		return fmt.Errorf("%w: grid.step can't be negative", ErrConfigInvalid)
	}
	for _, n := range c.Grid.Nodes {
		if n < 0 {
			return fmt.Errorf("%w: grid.nodes can't be negative", ErrConfigInvalid)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %s", ErrConfigInvalid, err.Error())
	}
	return nil
}

//LoadConfig reads a YAML configuration from filepath. Keys absent from the file
//keep the values from DefaultConfig. The result is verified.
func LoadConfig(filepath string) (*Config, error) {
	buf, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrConfigNotFound, filepath)
		}
		return nil, err
	}
	return UnmarshalConfig(buf)
}

//UnmarshalConfig parses a YAML configuration on top of the defaults, and verifies it.
func UnmarshalConfig(buf []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigInvalid, err.Error())
	}
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

//Marshal returns the YAML representation of the configuration.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
