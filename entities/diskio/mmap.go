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

package diskio

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MappedFile is a read-only memory mapping of a whole file. Empty files are
// not mapped, Bytes returns an empty slice for them.
type MappedFile struct {
	path string
	data mmap.MMap
}

func MapFile(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.Size() == 0 {
		return &MappedFile{path: path}, nil
	}

	data, err := mmap.MapRegion(f, int(info.Size()), mmap.RDONLY, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap %q: %w", path, err)
	}
	return &MappedFile{path: path, data: data}, nil
}

func (m *MappedFile) Path() string {
	return m.path
}

// Bytes is only valid until Close.
func (m *MappedFile) Bytes() []byte {
	return m.data
}

func (m *MappedFile) Len() int {
	return len(m.data)
}

func (m *MappedFile) Close() error {
	if m.data == nil {
		return nil
	}
	err := m.data.Unmap()
	m.data = nil
	return err
}
