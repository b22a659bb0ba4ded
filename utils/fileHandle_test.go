package utils

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadedFile builds the header Fiber would hand over for a multipart upload.
func uploadedFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("profile_pic", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["profile_pic"], 1)
	return form.File["profile_pic"][0]
}

func TestCheckImageUpload(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 32)...)
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

	tests := []struct {
		name    string
		content []byte
		ok      bool
	}{
		{"avatar.png", png, true},
		{"avatar.JPG", jpeg, true},
		{"avatar.gif", gif, true},
		{"avatar.jpg", png, true},
		{"avatar.png", []byte("just some text, not an image"), false},
		{"avatar.png", []byte("%PDF-1.4\n%âãÏÓ\n"), false},
		{"avatar.png", []byte{}, false},
		{"avatar.txt", png, false},
		{"avatar", png, false},
	}
	for _, tt := range tests {
		err := CheckImageUpload(uploadedFile(t, tt.name, tt.content))
		if tt.ok {
			assert.NoError(t, err, tt.name)
		} else {
			assert.Error(t, err, tt.name)
		}
	}
}
