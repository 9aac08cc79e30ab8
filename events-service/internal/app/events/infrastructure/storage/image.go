package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"eventhub/events-service/internal/app/events/infrastructure"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen - сколько байт читаем для определения типа содержимого
const sniffLen = 512

var allowedExtensions = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Image - проверенное изображение, готовое к сохранению
type Image struct {
	Ext         string
	ContentType string
	Content     io.Reader
}

// PrepareImage проверяет размер, расширение и реальный тип содержимого.
// Расширение и содержимое должны одновременно входить в список jpeg/jpg/png/gif.
func PrepareImage(filename string, size, limit int64, content io.Reader) (*Image, error) {
	if size > limit {
		return nil, infrastructure.ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	expected, ok := allowedExtensions[ext]
	if !ok {
		return nil, infrastructure.ErrUnsupportedImage
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read image header: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !detected.Is(expected) {
		return nil, infrastructure.ErrUnsupportedImage
	}

	// Заявленному размеру не доверяем: тело ограничиваем лимитом,
	// превышение обнаружит limitedReader при сохранении.
	body := &limitedReader{r: io.MultiReader(bytes.NewReader(head), content), remaining: limit}

	return &Image{
		Ext:         ext,
		ContentType: expected,
		Content:     body,
	}, nil
}

type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, infrastructure.ErrImageTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, infrastructure.ErrImageTooLarge
	}
	return n, err
}

// ValidName проверяет имя файла из URL: только базовое имя с разрешенным расширением
func ValidName(name string) bool {
	if name == "" || name != path.Base(name) || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// nameFromPath достает имя файла из публичного пути /prefix/<name>
func nameFromPath(prefix, p string) (string, bool) {
	name := strings.TrimPrefix(p, strings.TrimRight(prefix, "/")+"/")
	if name == p || !ValidName(name) {
		return "", false
	}
	return name, true
}

func contentTypeFor(name string) string {
	if ct, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
