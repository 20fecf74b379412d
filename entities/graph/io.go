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

package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/weaviate/cgr/entities/diskio"
)

// Format is the on-disk layout of an input graph.
type Format int

const (
	// FormatCSR is a little endian binary file: n and m as uint64, n+1
	// uint64 offsets, then m uint32 neighbor ids.
	FormatCSR Format = iota
	// FormatEdgeList is a text file with one "src dst" pair per line. Lines
	// starting with '#' or '%' are comments.
	FormatEdgeList
)

func (f Format) String() string {
	switch f {
	case FormatCSR:
		return "csr"
	case FormatEdgeList:
		return "edgelist"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat accepts "csr", "edgelist" and "auto". Auto picks csr for the
// .csr and .bin extensions and edgelist otherwise.
func ParseFormat(in, path string) (Format, error) {
	switch strings.ToLower(in) {
	case "csr":
		return FormatCSR, nil
	case "edgelist", "edges", "txt":
		return FormatEdgeList, nil
	case "", "auto":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csr", ".bin":
			return FormatCSR, nil
		default:
			return FormatEdgeList, nil
		}
	default:
		return 0, fmt.Errorf("unknown graph format %q, use csr, edgelist or auto", in)
	}
}

// LoadFile reads the graph at path. symmetrize only applies to edge lists;
// every loaded graph is sorted and free of duplicate neighbors.
func LoadFile(path string, format Format, symmetrize bool, cb diskio.MeteredReaderCallback) (*CSR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open graph %q", path)
	}
	defer f.Close()

	r := bufio.NewReaderSize(diskio.NewMeteredReader(f, cb), 1<<20)

	var g *CSR
	switch format {
	case FormatCSR:
		g, err = ReadCSRBinary(r)
	case FormatEdgeList:
		g, err = ReadEdgeList(r, symmetrize)
	default:
		err = fmt.Errorf("unknown graph format %s", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read graph %q", path)
	}
	return g, nil
}

// ReadCSRBinary reads the FormatCSR layout. Lists that are not strictly
// ascending are normalized.
func ReadCSRBinary(r io.Reader) (*CSR, error) {
	var header [2]uint64
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	n, m := header[0], header[1]
	if n > uint64(^uint32(0)) {
		return nil, fmt.Errorf("%d vertices exceed the 32 bit id space", n)
	}

	offsets := make([]uint64, n+1)
	if err := binary.Read(r, binary.LittleEndian, offsets); err != nil {
		return nil, errors.Wrap(err, "read offsets")
	}
	edges := make([]uint32, m)
	if err := binary.Read(r, binary.LittleEndian, edges); err != nil {
		return nil, errors.Wrap(err, "read edges")
	}

	g, err := NewCSR(offsets, edges)
	if err != nil {
		return nil, err
	}
	for i, e := range edges {
		if uint64(e) >= n {
			return nil, fmt.Errorf("edge %d points to vertex %d, graph has %d vertices", i, e, n)
		}
	}
	if _, ok := g.Sorted(); !ok {
		g.Normalize()
	}
	return g, nil
}

// WriteCSRBinary writes g in the FormatCSR layout.
func WriteCSRBinary(w io.Writer, g *CSR) error {
	header := [2]uint64{uint64(g.NumVertices()), g.NumEdges()}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return errors.Wrap(err, "write header")
	}
	if err := binary.Write(w, binary.LittleEndian, g.Offsets()); err != nil {
		return errors.Wrap(err, "write offsets")
	}
	if err := binary.Write(w, binary.LittleEndian, g.Edges()); err != nil {
		return errors.Wrap(err, "write edges")
	}
	return nil
}

// ReadEdgeList reads "src dst" pairs. The vertex count is one more than the
// largest id seen. With symmetrize every edge is added in both directions.
func ReadEdgeList(r io.Reader, symmetrize bool) (*CSR, error) {
	var src, dst []uint32
	maxID := int64(-1)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' || text[0] == '%' {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected two vertex ids, got %q", line, text)
		}
		s, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: source id", line)
		}
		d, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: target id", line)
		}

		src = append(src, uint32(s))
		dst = append(dst, uint32(d))
		maxID = max(maxID, int64(s), int64(d))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan edge list")
	}
	if maxID >= int64(^uint32(0)) {
		return nil, fmt.Errorf("vertex id %d exceeds the 32 bit id space", maxID)
	}

	n := uint64(maxID + 1)
	offsets := make([]uint64, n+1)
	for i := range src {
		offsets[src[i]+1]++
		if symmetrize {
			offsets[dst[i]+1]++
		}
	}
	for v := uint64(1); v <= n; v++ {
		offsets[v] += offsets[v-1]
	}

	edges := make([]uint32, offsets[n])
	fill := make([]uint64, n)
	copy(fill, offsets[:n])
	for i := range src {
		edges[fill[src[i]]] = dst[i]
		fill[src[i]]++
		if symmetrize {
			edges[fill[dst[i]]] = src[i]
			fill[dst[i]]++
		}
	}

	g := &CSR{offsets: offsets, edges: edges}
	g.Normalize()
	return g, nil
}
