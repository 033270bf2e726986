package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotSet is returned by FileStore.Get for a variable that is not set.
var ErrNotSet = errors.New("variable not set")

// FileStore is a VarStore kept in a YAML file of name: value pairs. Every Set
// rewrites the file through a temporary file and a rename, so a reader sees
// either the old or the new set of variables.
type FileStore struct {
	path string
	vars map[string]string
}

var _ VarStore = (*FileStore)(nil)

// OpenFileStore returns an Opener for the variable file at path. A missing
// file is an empty store when flags contains os.O_CREATE.
func OpenFileStore(path string) Opener {
	return func(flags int) (VarStore, error) {
		s := &FileStore{path: path, vars: map[string]string{}}
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && flags&os.O_CREATE != 0:
			return s, nil
		case err != nil:
			return nil, err
		}
		if err := yaml.Unmarshal(data, &s.vars); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if s.vars == nil {
			s.vars = map[string]string{}
		}
		return s, nil
	}
}

func (s *FileStore) Get(name string) (string, error) {
	v, ok := s.vars[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrNotSet)
	}
	return v, nil
}

func (s *FileStore) Set(name, value string) error {
	s.vars[name] = value
	data, err := yaml.Marshal(s.vars)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Close() error { return nil }
