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
	"runtime"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const (
	DefaultZetaK           = 3
	DefaultDegreeThreshold = uint32(32)
	MaxZetaK               = 32
)

// Scheme selects how neighbor lists are encoded for a whole run.
type Scheme int

const (
	// SchemeCGR bit-encodes every vertex.
	SchemeCGR Scheme = iota
	// SchemeHybrid bit-encodes vertices up to the degree threshold and uses
	// the word aligned fallback codec above it.
	SchemeHybrid
	// SchemeFallback uses the fallback codec for every vertex.
	SchemeFallback
)

func (s Scheme) String() string {
	switch s {
	case SchemeCGR:
		return "cgr"
	case SchemeHybrid:
		return "hybrid"
	case SchemeFallback:
		return "fallback"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

// UsesCGR is true for the schemes that write bit records.
func (s Scheme) UsesCGR() bool {
	return s == SchemeCGR || s == SchemeHybrid
}

func ParseScheme(in string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "cgr":
		return SchemeCGR, nil
	case "hybrid":
		return SchemeHybrid, nil
	case "fallback", "streamvbyte":
		return SchemeFallback, nil
	default:
		return 0, fmt.Errorf("unknown compression scheme %q, use cgr, hybrid or fallback", in)
	}
}

func (s Scheme) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Scheme) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseScheme(value.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Scheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Scheme) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseScheme(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Alignment is the padding applied after every vertex record. It is also
// the unit row pointers are expressed in.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignByte
	AlignWord
)

func (a Alignment) String() string {
	switch a {
	case AlignNone:
		return "none"
	case AlignByte:
		return "byte"
	case AlignWord:
		return "word"
	default:
		return fmt.Sprintf("alignment(%d)", int(a))
	}
}

// UnitBits is the size of one row pointer unit in bits.
func (a Alignment) UnitBits() uint64 {
	switch a {
	case AlignByte:
		return 8
	case AlignWord:
		return 32
	default:
		return 1
	}
}

// ParseAlignment accepts the names as well as the numeric levels 0, 1 and 2.
func ParseAlignment(in string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "none", "0", "":
		return AlignNone, nil
	case "byte", "1":
		return AlignByte, nil
	case "word", "2":
		return AlignWord, nil
	default:
		return 0, fmt.Errorf("unknown alignment %q, use none, byte or word", in)
	}
}

func (a Alignment) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

func (a *Alignment) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseAlignment(value.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Alignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Alignment) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseAlignment(str)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Compression is the configuration of one compression or decompression run.
type Compression struct {
	// Scheme is fixed for the whole run.
	// Default: cgr
	Scheme Scheme `json:"scheme" yaml:"scheme"`

	// ZetaK selects the residual code: 1 is gamma, 2..32 is zeta(k).
	// Default: 3
	ZetaK int `json:"zeta_k" yaml:"zeta_k"`

	// UseInterval collapses runs of consecutive ids into intervals.
	UseInterval bool `json:"use_interval" yaml:"use_interval"`

	// Alignment pads every record to a byte or word boundary.
	// Default: none
	Alignment Alignment `json:"alignment" yaml:"alignment"`

	// Permutate reverses the bytes of every word of a CGR record so that the
	// blob can be read as native little endian words. Word alignment only.
	Permutate bool `json:"permutate" yaml:"permutate"`

	// DegreeThreshold is the largest degree that is still CGR encoded in the
	// hybrid scheme.
	// Default: 32
	DegreeThreshold uint32 `json:"degree_threshold" yaml:"degree_threshold"`

	// Workers bounds the goroutines of the parallel phases.
	// Default: GOMAXPROCS
	Workers int `json:"workers" yaml:"workers"`
}

func DefaultCompression() Compression {
	return Compression{
		Scheme:          SchemeCGR,
		ZetaK:           DefaultZetaK,
		Alignment:       AlignNone,
		DegreeThreshold: DefaultDegreeThreshold,
		Workers:         runtime.GOMAXPROCS(0),
	}
}

// UnitBits is the row pointer unit of the run. Fallback words are word
// aligned whatever the alignment setting says.
func (c Compression) UnitBits() uint64 {
	if c.Scheme == SchemeCGR {
		return c.Alignment.UnitBits()
	}
	return 32
}

// Validate rejects inconsistent combinations before any work starts. All
// problems are reported at once.
func (c Compression) Validate() error {
	var errs *multierror.Error

	switch c.Scheme {
	case SchemeCGR, SchemeHybrid, SchemeFallback:
	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown scheme %d", int(c.Scheme)))
	}

	switch c.Alignment {
	case AlignNone, AlignByte, AlignWord:
	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown alignment %d", int(c.Alignment)))
	}

	if c.Scheme.UsesCGR() && (c.ZetaK < 1 || c.ZetaK > MaxZetaK) {
		errs = multierror.Append(errs, fmt.Errorf("zeta_k must be between 1 and %d, got %d", MaxZetaK, c.ZetaK))
	}

	if c.Permutate && c.Alignment != AlignWord {
		errs = multierror.Append(errs, fmt.Errorf("byte permutation requires word alignment, got %s", c.Alignment))
	}

	if c.Scheme == SchemeHybrid {
		if c.Alignment != AlignWord {
			errs = multierror.Append(errs, fmt.Errorf("hybrid scheme must be word aligned, got %s", c.Alignment))
		}
		if !c.Permutate {
			errs = multierror.Append(errs, fmt.Errorf("hybrid scheme must be permutated"))
		}
	}

	if c.Workers < 0 {
		errs = multierror.Append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}

	return errs.ErrorOrNil()
}
