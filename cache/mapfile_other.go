//go:build !linux

package cache

import "os"

// mappedFile falls back to a plain read on platforms without the mmap
// backend wired up; the Cache contract (stat-based revalidation,
// at-most-one-build-per-key) is unaffected by how the bytes are sourced.
type mappedFile struct {
	data []byte
}

func mapFile(path string) (mappedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mappedFile{}, err
	}
	return mappedFile{data: data}, nil
}

func (m mappedFile) bytes() []byte { return m.data }
func (m mappedFile) close() error  { return nil }
