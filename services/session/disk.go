package sessionsvc

import (
	"context"
	"os"

	"github.com/peterbourgon/diskv/v3"
	"github.com/pkg/errors"
)

// DiskStore keeps values in files under a base directory, one file per key.
type DiskStore struct {
	d *diskv.Diskv
}

var _ Store = (*DiskStore)(nil)

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
		FilePerm:     0600,
		PathPerm:     0700,
	})}
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, error) {
	val, err := s.d.Read(key)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "reading %q", key)
	}
	return val, nil
}

func (s *DiskStore) Set(_ context.Context, key string, val []byte) error {
	return errors.Wrapf(s.d.Write(key, val), "writing %q", key)
}

// Delete erases `key`; a missing key is not an error.
func (s *DiskStore) Delete(_ context.Context, key string) error {
	if !s.d.Has(key) {
		return nil
	}
	return errors.Wrapf(s.d.Erase(key), "erasing %q", key)
}
