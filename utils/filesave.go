package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

func ValidateImageFileType(header *multipart.FileHeader) bool {
	return SupportedImageTypes[header.Header.Get("Content-Type")]
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// SaveImage decodes the uploaded image, writes a web-sized copy plus a
// thumbnail under folder, and returns the stored filename.
func SaveImage(file multipart.File, header *multipart.FileHeader, folder string, maxWidth int) (string, error) {
	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	if err := EnsureDir(folder); err != nil {
		return "", err
	}
	if err := EnsureDir(filepath.Join(folder, "thumb")); err != nil {
		return "", err
	}

	filename := GetUUID() + ".jpg"

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	if err := imaging.Save(img, filepath.Join(folder, filename), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	thumb := imaging.Resize(img, 200, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(folder, "thumb", filename), imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}

	return filename, nil
}
