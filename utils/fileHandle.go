package utils

import (
	"fmt"
	"image"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	ThumbnailWidth  = 1280
	ThumbnailHeight = 720
	MaxImageBytes   = 5 << 20
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// SaveThumbnail decodes an uploaded image, fits it into the thumbnail box and
// stores it as JPEG under destDir/subdir. It returns the path relative to destDir.
func SaveThumbnail(file *multipart.FileHeader, destDir, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	if file.Size > MaxImageBytes {
		return "", fmt.Errorf("image larger than %d bytes", MaxImageBytes)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	thumb := fit(img)

	dir := filepath.Join(destDir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ".jpg"
	if err := imaging.Save(thumb, filepath.Join(dir, name), imaging.JPEGQuality(85)); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}

func fit(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= ThumbnailWidth && b.Dy() <= ThumbnailHeight {
		return img
	}
	return imaging.Fit(img, ThumbnailWidth, ThumbnailHeight, imaging.Lanczos)
}

// RemoveFile deletes a previously stored upload, ignoring missing files.
func RemoveFile(destDir, rel string) {
	if rel == "" {
		return
	}
	_ = os.Remove(filepath.Join(destDir, filepath.FromSlash(rel)))
}

func GetFileURL(baseURL, rel string) string {
	if rel == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/uploads/" + rel
}
