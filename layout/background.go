package layout

import (
	"fmt"
	"image"
	_ "image/jpeg" // 纹理解码
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// 平均红色通道不超过该值的纹理视为深色背景。
const darkTextureThreshold = 240

// Background 记录本次运行铺设的背景纹理。
type Background struct {
	Applied bool    `json:"applied"`
	Dark    bool    `json:"dark,omitempty"`
	Source  string  `json:"source,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
	Mirror  bool    `json:"mirror,omitempty"`

	tile *image.RGBA
}

// Textures is a directory of background images shared by all runs. The
// listing is read once; decoded images are cached.
type Textures struct {
	dir string

	once  sync.Once
	files []string

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewTextures returns a texture source over dir. A missing directory simply
// yields no textures.
func NewTextures(dir string) *Textures {
	return &Textures{dir: dir, cache: map[string]image.Image{}}
}

var textureExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

// Files lists the usable images in name order.
func (t *Textures) Files() []string {
	if t == nil {
		return nil
	}
	t.once.Do(func() {
		entries, err := os.ReadDir(t.dir)
		if err != nil {
			tracer().Infof("texture directory %q unavailable: %v", t.dir, err)
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if slices.Contains(textureExts, strings.ToLower(filepath.Ext(e.Name()))) {
				t.files = append(t.files, filepath.Join(t.dir, e.Name()))
			}
		}
		slices.Sort(t.files)
	})
	return t.files
}

func (t *Textures) load(path string) (image.Image, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if img, ok := t.cache[path]; ok {
		return img, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码纹理 %s 失败: %w", path, err)
	}
	t.cache[path] = img
	return img, nil
}

// prepareTexture 随机挑选纹理、缩放 0.5–1.5 倍并平铺到整张画布；
// 没有可用纹理时静默跳过。
func (r *Run) prepareTexture() {
	files := r.Options.Textures.Files()
	if len(files) == 0 {
		return
	}
	path := files[r.Rand.IntN(len(files))]
	scale := r.Rand.Float64() + 0.5
	mirror := r.between(1, 100) > 50

	img, err := r.Options.Textures.load(path)
	if err != nil {
		tracer().Infof("skip texture: %v", err)
		return
	}
	scaled := scaleImage(img, scale)
	if scaled == nil {
		return
	}
	r.Background = Background{
		Applied: true,
		Dark:    averageRed(scaled) <= darkTextureThreshold,
		Source:  path,
		Scale:   scale,
		Mirror:  mirror,
		tile:    tileImage(scaled, r.Options.Width, r.Options.Height, mirror),
	}
}

func scaleImage(src image.Image, scale float64) *image.RGBA {
	b := src.Bounds()
	w := int(math.Round(float64(b.Dx()) * scale))
	h := int(math.Round(float64(b.Dy()) * scale))
	if w <= 0 || h <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func averageRed(img *image.RGBA) int {
	total, n := 0, 0
	for i := 0; i < len(img.Pix); i += 4 {
		total += int(img.Pix[i])
		n++
	}
	if n == 0 {
		return 255
	}
	return total / n
}

// tileImage 以重复或镜像方式把 src 铺满 width×height。
func tileImage(src *image.RGBA, width, height int, mirror bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	tw, th := src.Bounds().Dx(), src.Bounds().Dy()
	variants := [4]*image.RGBA{src, src, src, src}
	if mirror {
		variants[1] = flip(src, true, false)
		variants[2] = flip(src, false, true)
		variants[3] = flip(src, true, true)
	}
	for iy, y := 0, 0; y < height; iy, y = iy+1, y+th {
		for ix, x := 0, 0; x < width; ix, x = ix+1, x+tw {
			v := variants[(ix%2)+(iy%2)*2]
			draw.Draw(dst, image.Rect(x, y, x+tw, y+th), v, image.Point{}, draw.Src)
		}
	}
	return dst
}

func flip(src *image.RGBA, horizontal, vertical bool) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		sy := y
		if vertical {
			sy = b.Dy() - 1 - y
		}
		for x := 0; x < b.Dx(); x++ {
			sx := x
			if horizontal {
				sx = b.Dx() - 1 - x
			}
			dst.SetRGBA(x, y, src.RGBAAt(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}
