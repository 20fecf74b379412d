//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Flags are the compression options accepted on the command line. Empty or
// negative values leave the setting to the config file and the environment.
type Flags struct {
	ConfigFile      string `long:"config-file" description:"path to a yaml or json config file"`
	Scheme          string `short:"s" long:"scheme" description:"compression scheme: cgr, hybrid or fallback"`
	ZetaK           int    `short:"z" long:"zeta-k" default:"-1" description:"zeta block size of the residual code, 1 selects gamma (default: 3)"`
	UseInterval     bool   `short:"i" long:"use-interval" description:"collapse runs of consecutive neighbors into intervals"`
	Permutate       bool   `short:"p" long:"permutate" description:"reverse the bytes of every word (word alignment only)"`
	Alignment       string `short:"a" long:"alignment" description:"record alignment: none, byte or word (0, 1, 2)"`
	DegreeThreshold int    `short:"d" long:"degree-threshold" default:"-1" description:"largest degree that is CGR encoded in the hybrid scheme (default: 32)"`
	Workers         int    `short:"w" long:"workers" description:"number of worker goroutines (default: GOMAXPROCS)"`
}

// Load builds the run configuration: defaults, then the config file, then
// the environment, then the flags. The result is validated.
func Load(flags *Flags, logger logrus.FieldLogger) (Compression, error) {
	cfg := DefaultCompression()

	if flags != nil && flags.ConfigFile != "" {
		file, err := os.ReadFile(flags.ConfigFile)
		if err != nil {
			return cfg, configErr(err)
		}

		cfg, err = parseConfigFile(file, flags.ConfigFile, cfg)
		if err != nil {
			return cfg, configErr(err)
		}

		logger.WithFields(logrus.Fields{
			"action": "config_load",
			"file":   flags.ConfigFile,
		}).Debug("loaded config file")
	}

	if err := FromEnv(&cfg); err != nil {
		return cfg, configErr(err)
	}

	if flags != nil {
		if err := fromFlags(&cfg, flags); err != nil {
			return cfg, configErr(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, configErr(err)
	}
	return cfg, nil
}

// parseConfigFile decodes file on top of base, keeping every setting the
// file does not mention.
func parseConfigFile(file []byte, name string, base Compression) (Compression, error) {
	config := base

	m := regexp.MustCompile(`.*\.(\w+)$`).FindStringSubmatch(name)
	if len(m) < 2 {
		return config, fmt.Errorf("config file does not have a file ending, got '%s'", name)
	}

	switch m[1] {
	case "json":
		err := json.Unmarshal(file, &config)
		if err != nil {
			return config, fmt.Errorf("error unmarshalling the json config file: %w", err)
		}
	case "yaml", "yml":
		err := yaml.Unmarshal(file, &config)
		if err != nil {
			return config, fmt.Errorf("error unmarshalling the yaml config file: %w", err)
		}
	default:
		return config, fmt.Errorf("unsupported config file extension '%s', use .yaml or .json", m[1])
	}

	return config, nil
}

// fromFlags overrides the values that were explicitly given on the command
// line.
func fromFlags(cfg *Compression, flags *Flags) error {
	if flags.Scheme != "" {
		scheme, err := ParseScheme(flags.Scheme)
		if err != nil {
			return err
		}
		cfg.Scheme = scheme
	}
	if flags.ZetaK >= 0 {
		cfg.ZetaK = flags.ZetaK
	}
	if flags.UseInterval {
		cfg.UseInterval = true
	}
	if flags.Permutate {
		cfg.Permutate = true
	}
	if flags.Alignment != "" {
		alignment, err := ParseAlignment(flags.Alignment)
		if err != nil {
			return err
		}
		cfg.Alignment = alignment
	}
	if flags.DegreeThreshold >= 0 {
		cfg.DegreeThreshold = uint32(flags.DegreeThreshold)
	}
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
	return nil
}

func configErr(err error) error {
	return fmt.Errorf("invalid config: %w", err)
}
