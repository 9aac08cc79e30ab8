package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"eventhub/events-service/internal/app/events/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

func TestPrepareImage_Allowed(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		wantType string
	}{
		{"png", "photo.png", pngHeader, "image/png"},
		{"gif uppercase ext", "anim.GIF", gifHeader, "image/gif"},
		{"jpg", "pic.jpg", jpegHeader, "image/jpeg"},
		{"jpeg", "pic.jpeg", jpegHeader, "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := PrepareImage(tt.filename, int64(len(tt.content)), 1024, bytes.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, img.ContentType)

			body, err := io.ReadAll(img.Content)
			require.NoError(t, err)
			assert.Equal(t, tt.content, body, "sniffed header must be replayed")
		})
	}
}

func TestPrepareImage_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		content  []byte
		wantErr  error
	}{
		{"declared size over limit", "photo.png", 2048, pngHeader, infrastructure.ErrImageTooLarge},
		{"extension not allowed", "photo.bmp", 10, pngHeader, infrastructure.ErrUnsupportedImage},
		{"no extension", "photo", 10, pngHeader, infrastructure.ErrUnsupportedImage},
		{"content is not an image", "notes.png", 10, []byte("just some text"), infrastructure.ErrUnsupportedImage},
		{"content does not match extension", "photo.gif", 10, pngHeader, infrastructure.ErrUnsupportedImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := PrepareImage(tt.filename, tt.size, 1024, bytes.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, img)
		})
	}
}

func TestPrepareImage_StreamLongerThanLimit(t *testing.T) {
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...)

	// Заявленный размер занижен, реальный поток больше лимита
	img, err := PrepareImage("photo.png", 10, 1024, bytes.NewReader(content))
	require.NoError(t, err)

	_, err = io.ReadAll(img.Content)
	assert.ErrorIs(t, err, infrastructure.ErrImageTooLarge)
}

func TestPrepareImage_ExactlyAtLimit(t *testing.T) {
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)

	img, err := PrepareImage("photo.png", int64(len(content)), int64(len(content)), bytes.NewReader(content))
	require.NoError(t, err)

	body, err := io.ReadAll(img.Content)
	require.NoError(t, err)
	assert.Len(t, body, len(content))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("event-1.png"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("../secret.png"))
	assert.False(t, ValidName("dir/event.png"))
	assert.False(t, ValidName(".hidden.png"))
	assert.False(t, ValidName("event.txt"))
	assert.False(t, ValidName(strings.Repeat(".", 2)))
}

func TestNameFromPath(t *testing.T) {
	name, ok := nameFromPath("/events/images", "/events/images/event-1.png")
	assert.True(t, ok)
	assert.Equal(t, "event-1.png", name)

	_, ok = nameFromPath("/events/images", "/other/event-1.png")
	assert.False(t, ok)

	_, ok = nameFromPath("/events/images", "/events/images/../x.png")
	assert.False(t, ok)
}
