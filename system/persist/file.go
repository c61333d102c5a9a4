package persist

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/projecthelios/HeliosManager/system/profile"
)

// DefaultPath is where the daemon keeps the desired profile between
// restarts.
const DefaultPath = "/var/lib/helios-manager/desired_profile"

// FileStore keeps the desired profile in one small text file. Writes go
// through a temp file and rename, so readers always see either the old or
// the new value, never a torn one.
type FileStore struct {
	path string
}

var _ Store = &FileStore{}

// NewFileStore returns a store at the given path, creating the parent
// directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if len(path) == 0 {
		return nil, errors.New("persist: path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "persist: cannot create state directory")
	}
	return &FileStore{
		path: path,
	}, nil
}

// Read returns the stored profile. A store that has never been written
// reads as Balanced.
func (s *FileStore) Read() (profile.Level, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return profile.Balanced, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "persist: cannot read desired profile")
	}
	return profile.ParseLevel(strings.TrimSpace(string(b)))
}

// Write replaces the stored profile atomically.
func (s *FileStore) Write(level profile.Level) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".desired_profile-*")
	if err != nil {
		return errors.Wrap(err, "persist: cannot create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(level.String() + "\n"); err != nil {
		tmp.Close()
		return errors.Wrap(err, "persist: cannot write desired profile")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "persist: cannot close temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "persist: cannot replace desired profile")
}
