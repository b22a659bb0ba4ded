package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

var allowedImageMIME = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// SaveUploadedFile stores file under mediaDir/subDir with a random name and
// returns the path relative to mediaDir, using forward slashes.
func SaveUploadedFile(file *multipart.FileHeader, mediaDir, subDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	destDir := filepath.Join(mediaDir, subDir)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	newFilename := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(destDir, newFilename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return path.Join(subDir, newFilename), nil
}

// CheckImageUpload rejects uploads whose name or content is not one of the
// supported image formats.
func CheckImageUpload(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return fmt.Errorf("unsupported image type %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), allowedImageMIME...) {
		return fmt.Errorf("upload content is %s, not an image", mtype.String())
	}
	return nil
}

// GetFileURL maps a stored media path to its public URL.
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	if strings.HasPrefix(filePath, "http://") || strings.HasPrefix(filePath, "https://") {
		return filePath
	}
	return "/media/" + strings.TrimPrefix(filePath, "/")
}
