package fstindex

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// mappedFile owns a read-only memory map of a records file, following the
// same approach the corpus's text-search engines (zoekt-style) use to avoid
// paging the whole corpus into the process's resident set.
type mappedFile struct {
	f    *os.File
	data mmap.MMap
}

func openMapped(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.Size() == 0 {
		// mmap.Map refuses to map a zero-length file; an empty corpus is a
		// valid (if useless) index.
		return &mappedFile{f: f, data: nil}, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &mappedFile{f: f, data: data}, nil
}

func (m *mappedFile) bytes() []byte {
	return []byte(m.data)
}

func (m *mappedFile) Close() error {
	var err error
	if m.data != nil {
		err = m.data.Unmap()
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
