package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-hijri/internal/config"
	"gopkg.in/yaml.v3"
)

// FileStore keeps the record in a YAML file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store at path, or at the default location in the
// user config directory when path is empty.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrConfigDir, err)
		}
		path = filepath.Join(dir, config.AppDirName, config.StateFileName)
	}
	return &FileStore{Path: path}, nil
}

// Load reads the record. A missing file yields the default record.
func (s *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug(config.MsgStateDefault,
				config.LogKeyComponent, config.CompStore,
				config.LogKeyFile, s.Path,
			)
			return DefaultRecord(), nil
		}
		return Record{}, fmt.Errorf("%s: %w", config.ErrStateRead, err)
	}

	r := DefaultRecord()
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("%s: %w", config.ErrStateParse, err)
	}
	if err := Validate(r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Save validates r and replaces the file atomically.
func (s *FileStore) Save(r Record) error {
	if err := Validate(r); err != nil {
		return err
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStateEncode, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	tmp := s.Path + config.ExtTemp
	if err := os.WriteFile(tmp, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStateWrite, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", config.ErrStateWrite, err)
	}

	slog.Debug(config.MsgStateSaved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyFile, s.Path,
		config.LogKeyCount, len(r.Corrections),
	)
	return nil
}
