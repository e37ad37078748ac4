package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format 是栅格图像的编码格式。
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ParseFormat accepts the format names and common aliases (jpg, tif).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: image format %q", ErrUnsupportedMode, s)
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Encode writes img in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: image format %q", ErrUnsupportedMode, f)
}

// SaveImage 将图像写入 base+扩展名，返回最终路径。
func SaveImage(base string, img image.Image, f Format) (string, error) {
	path := base + f.Extension()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建图像文件失败: %w", err)
	}
	defer file.Close()
	if err := Encode(file, img, f); err != nil {
		return "", fmt.Errorf("编码图像 %s 失败: %w", path, err)
	}
	return path, file.Close()
}

// SavePDF writes an already rendered PDF to base.pdf.
func SavePDF(base string, data []byte) (string, error) {
	path := base + ".pdf"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return path, nil
}
