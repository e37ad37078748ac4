package export

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/draw"

	"github.com/ByLCY/ocrsynth/content"
)

// Framing 决定字符裁剪如何变成正方形。
type Framing int

const (
	// FramingStretch scales the tight box to the square, distorting it.
	FramingStretch Framing = iota
	// FramingInflateSquare grows the shorter side around the centre first,
	// then resizes without distortion.
	FramingInflateSquare
)

func (f Framing) String() string {
	if f == FramingInflateSquare {
		return "inflate"
	}
	return "stretch"
}

// ParseFraming accepts "stretch" and "inflate" (or "inflate-square").
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stretch":
		return FramingStretch, nil
	case "inflate", "inflate-square", "square":
		return FramingInflateSquare, nil
	}
	return FramingStretch, fmt.Errorf("%w: framing %q", ErrUnsupportedMode, s)
}

// CropOptions configures per-character crop export.
type CropOptions struct {
	Dir     string
	Framing Framing
	Size    int // 正方形边长
	Max     int // 每个类别的文件上限；0 表示不限
	Format  Format
}

// Cropper writes character crops into one sub-directory per class. The
// per-class counters are shared by all runs of a batch.
type Cropper struct {
	opts   CropOptions
	mu     sync.Mutex
	counts map[string]int
}

// NewCropper 创建裁剪导出器；Size 缺省为 32，Format 缺省为 PNG。
func NewCropper(opts CropOptions) *Cropper {
	if opts.Size <= 0 {
		opts.Size = 32
	}
	if opts.Format == "" {
		opts.Format = PNG
	}
	return &Cropper{opts: opts, counts: make(map[string]int)}
}

// Count returns how many crops of class were written so far.
func (c *Cropper) Count(class string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[class]
}

// reserve claims the next file index of class, or reports false once the
// class is full.
func (c *Cropper) reserve(class string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.counts[class]
	if c.opts.Max > 0 && n >= c.opts.Max {
		return 0, false
	}
	c.counts[class] = n + 1
	return n, true
}

// FrameRect returns the source rectangle for a character's tight box.
func FrameRect(cropped content.Rect, framing Framing) image.Rectangle {
	if framing == FramingInflateSquare {
		w, h := cropped.Width(), cropped.Height()
		if w < h {
			cropped = cropped.Inflate((h-w)/2, 0)
		} else {
			cropped = cropped.Inflate(0, (w-h)/2)
		}
	}
	return cropped.Image()
}

// Crop cuts one character out of img and resizes it to a size×size square.
func Crop(img image.Image, cropped content.Rect, framing Framing, size int) *image.RGBA {
	src := FrameRect(cropped, framing).Intersect(img.Bounds())
	if src.Empty() {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

// Export writes the crops of every classified character in model. prefix
// names the files; it returns the number written.
func (c *Cropper) Export(img image.Image, model *content.Model, prefix string) (int, error) {
	written := 0
	for _, ch := range model.Characters() {
		class, ok := ClassName(ch.Symbol)
		if !ok {
			continue
		}
		sq := Crop(img, ch.Cropped, c.opts.Framing, c.opts.Size)
		if sq == nil {
			continue
		}
		n, ok := c.reserve(class)
		if !ok {
			continue
		}
		base := filepath.Join(c.opts.Dir, class, fmt.Sprintf("%s_%05d", prefix, n))
		if _, err := SaveImage(base, sq, c.opts.Format); err != nil {
			return written, err
		}
		written++
	}
	tracer().Debugf("export: %d character crops for %s", written, prefix)
	return written, nil
}
