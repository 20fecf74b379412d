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

package cgr

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/weaviate/cgr/entities/diskio"
	"github.com/weaviate/cgr/usecases/config"
	"github.com/weaviate/cgr/usecases/monitoring"
)

const (
	VertexFileSuffix = ".vertex.bin"
	EdgeFileSuffix   = ".edge.bin"
	DegreeFileSuffix = ".degree.bin"
	MetaFileSuffix   = ".meta.msgpack"

	MetaVersion = uint32(1)
)

// Meta is the sidecar of a compressed graph. The three binary files carry
// no header, the sidecar records how they were written.
type Meta struct {
	Version         uint32 `msgpack:"version"`
	Scheme          string `msgpack:"scheme"`
	ZetaK           int    `msgpack:"zeta_k"`
	UseInterval     bool   `msgpack:"use_interval"`
	Alignment       string `msgpack:"alignment"`
	Permutate       bool   `msgpack:"permutate"`
	DegreeThreshold uint32 `msgpack:"degree_threshold"`
	Codec           string `msgpack:"codec"`
	Vertices        uint32 `msgpack:"vertices"`
	Edges           uint64 `msgpack:"edges"`
	EdgeBytes       uint64 `msgpack:"edge_bytes"`
	Fingerprint     uint64 `msgpack:"fingerprint"`
}

func newMeta(c *Compressed) Meta {
	return Meta{
		Version:         MetaVersion,
		Scheme:          c.Config.Scheme.String(),
		ZetaK:           c.Config.ZetaK,
		UseInterval:     c.Config.UseInterval,
		Alignment:       c.Config.Alignment.String(),
		Permutate:       c.Config.Permutate,
		DegreeThreshold: c.Config.DegreeThreshold,
		Codec:           c.Codec,
		Vertices:        c.NumVertices(),
		Edges:           c.NumEdges,
		EdgeBytes:       uint64(len(c.Edges)),
		Fingerprint:     c.Fingerprint,
	}
}

// Compression rebuilds the configuration the files were written with.
// Workers is left at its default.
func (m Meta) Compression() (config.Compression, error) {
	cfg := config.DefaultCompression()
	if m.Version != MetaVersion {
		return cfg, fmt.Errorf("unsupported meta version %d", m.Version)
	}

	scheme, err := config.ParseScheme(m.Scheme)
	if err != nil {
		return cfg, err
	}
	alignment, err := config.ParseAlignment(m.Alignment)
	if err != nil {
		return cfg, err
	}

	cfg.Scheme = scheme
	cfg.ZetaK = m.ZetaK
	cfg.UseInterval = m.UseInterval
	cfg.Alignment = alignment
	cfg.Permutate = m.Permutate
	cfg.DegreeThreshold = m.DegreeThreshold
	return cfg, cfg.Validate()
}

// WriteFiles writes the row pointers, the edge blob, the degrees of a hybrid
// run and the sidecar, then syncs the directory. The first failing write
// aborts, files written before it are left in place.
func WriteFiles(prefix string, c *Compressed, metrics *monitoring.CompressionMetrics) error {
	err := diskio.WriteFile(prefix+VertexFileSuffix, metrics.WriteCallback("vertex"), func(w *bufio.Writer) error {
		return binary.Write(w, binary.LittleEndian, c.RowPtr)
	})
	if err != nil {
		return errors.Wrap(err, "write row pointers")
	}

	err = diskio.WriteFile(prefix+EdgeFileSuffix, metrics.WriteCallback("edge"), func(w *bufio.Writer) error {
		_, err := w.Write(c.Edges)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "write edges")
	}

	if c.Config.Scheme == config.SchemeHybrid {
		err = diskio.WriteFile(prefix+DegreeFileSuffix, metrics.WriteCallback("degree"), func(w *bufio.Writer) error {
			return binary.Write(w, binary.LittleEndian, c.Degrees)
		})
		if err != nil {
			return errors.Wrap(err, "write degrees")
		}
	}

	meta, err := msgpack.Marshal(newMeta(c))
	if err != nil {
		return errors.Wrap(err, "marshal meta")
	}
	err = diskio.WriteFile(prefix+MetaFileSuffix, metrics.WriteCallback("meta"), func(w *bufio.Writer) error {
		_, err := w.Write(meta)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "write meta")
	}

	return errors.Wrap(diskio.Fsync(filepath.Dir(prefix)), "fsync output directory")
}

// ReadMeta reads the sidecar of prefix. It returns nil without an error when
// there is none.
func ReadMeta(prefix string) (*Meta, error) {
	path := prefix + MetaFileSuffix
	exists, err := diskio.FileExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read meta")
	}
	var meta Meta
	if err := msgpack.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(err, "unmarshal meta")
	}
	return &meta, nil
}

func uint64sFromLE(data []byte) ([]uint64, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("%d bytes are not a whole number of uint64", len(data))
	}
	out := make([]uint64, len(data)/8)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	return out, nil
}

func uint32sFromLE(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%d bytes are not a whole number of uint32", len(data))
	}
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out, nil
}
