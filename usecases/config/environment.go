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
	"os"
	"strconv"

	"github.com/pkg/errors"

	entcfg "github.com/weaviate/cgr/entities/config"
)

// FromEnv takes a *Compression as it will respect initial config that has
// been provided by other means (e.g. a config file) and will only extend
// those that are set
func FromEnv(config *Compression) error {
	if v := os.Getenv("CGR_SCHEME"); v != "" {
		scheme, err := ParseScheme(v)
		if err != nil {
			return errors.Wrap(err, "parse CGR_SCHEME")
		}
		config.Scheme = scheme
	}

	if v := os.Getenv("CGR_ZETA_K"); v != "" {
		asInt, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse CGR_ZETA_K as int")
		}
		config.ZetaK = asInt
	}

	if entcfg.Enabled(os.Getenv("CGR_USE_INTERVAL")) {
		config.UseInterval = true
	}

	if v := os.Getenv("CGR_ALIGNMENT"); v != "" {
		alignment, err := ParseAlignment(v)
		if err != nil {
			return errors.Wrap(err, "parse CGR_ALIGNMENT")
		}
		config.Alignment = alignment
	}

	if entcfg.Enabled(os.Getenv("CGR_PERMUTATE")) {
		config.Permutate = true
	}

	if v := os.Getenv("CGR_DEGREE_THRESHOLD"); v != "" {
		asUint, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "parse CGR_DEGREE_THRESHOLD as uint32")
		}
		config.DegreeThreshold = uint32(asUint)
	}

	if v := os.Getenv("CGR_WORKERS"); v != "" {
		asInt, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse CGR_WORKERS as int")
		}
		if asInt <= 0 {
			return errors.Errorf("CGR_WORKERS must be positive, got %d", asInt)
		}
		config.Workers = asInt
	}

	return nil
}
