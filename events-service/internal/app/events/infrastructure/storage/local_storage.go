package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"eventhub/events-service/internal/app/events/infrastructure"
)

// LocalStorage хранит изображения в каталоге на диске
type LocalStorage struct {
	dir          string
	publicPrefix string
}

func NewLocalStorage(dir, publicPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, publicPrefix: publicPrefix}, nil
}

// Save пишет во временный файл и переименовывает его, чтобы недописанный файл не был виден по имени
func (s *LocalStorage) Save(ctx context.Context, name string, _ string, content io.Reader) (string, error) {
	if !ValidName(name) {
		return "", infrastructure.ErrUnsupportedImage
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return s.publicPrefix + "/" + name, nil
}

func (s *LocalStorage) Open(_ context.Context, name string) (*infrastructure.ImageObject, error) {
	if !ValidName(name) {
		return nil, infrastructure.ErrImageNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, infrastructure.ErrImageNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &infrastructure.ImageObject{
		Body:        f,
		ContentType: contentTypeFor(name),
		Size:        info.Size(),
	}, nil
}

func (s *LocalStorage) Delete(_ context.Context, path string) error {
	name, ok := nameFromPath(s.publicPrefix, path)
	if !ok {
		return fmt.Errorf("%w: %s", infrastructure.ErrImageNotFound, path)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return infrastructure.ErrImageNotFound
		}
		return err
	}
	return nil
}
