package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "curso-de-gestao-basica", Slugify("  Curso de Gestão Básica! "))
	assert.Equal(t, "go-101", Slugify("Go -- 101"))
	assert.Equal(t, "", Slugify("!!!"))
}

func uploadHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveThumbnailResizesLargeImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2560, 1440))
	for x := 0; x < 2560; x += 7 {
		img.Set(x, x%1440, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	dir := t.TempDir()
	rel, err := SaveThumbnail(uploadHeader(t, "cover.png", buf.Bytes()), dir, "trainings")
	require.NoError(t, err)
	assert.Equal(t, "trainings", filepath.Dir(rel))

	stored, err := imaging.Open(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailWidth, stored.Bounds().Dx())
	assert.Equal(t, ThumbnailHeight, stored.Bounds().Dy())

	RemoveFile(dir, rel)
	_, err = os.Stat(filepath.Join(dir, rel))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveThumbnailRejectsOtherTypes(t *testing.T) {
	_, err := SaveThumbnail(uploadHeader(t, "notes.txt", []byte("hello")), t.TempDir(), "trainings")
	assert.Error(t, err)
}

func TestGetFileURL(t *testing.T) {
	assert.Equal(t, "http://cdn.local/uploads/a/b.jpg", GetFileURL("http://cdn.local/", "a/b.jpg"))
	assert.Equal(t, "", GetFileURL("http://cdn.local", ""))
}
