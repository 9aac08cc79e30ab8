package infrastructure

import (
	"context"
	"errors"
	"io"
)

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
	ErrUnsupportedImage = errors.New("only jpeg, jpg, png and gif images are allowed")
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ImageObject - открытое изображение для отдачи клиенту. Body закрывает вызывающий.
type ImageObject struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ImageStorage - долговременное хранилище изображений мероприятий
type ImageStorage interface {
	// Save сохраняет файл под именем name и возвращает публичный путь к нему
	Save(ctx context.Context, name string, contentType string, content io.Reader) (string, error)
	Open(ctx context.Context, name string) (*ImageObject, error)
	// Delete удаляет файл по публичному пути, который вернул Save
	Delete(ctx context.Context, path string) error
}

// TokenBlacklist проверяет отозванные access-токены (их записывает Auth Service при logout)
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
