// Package layout fills a run's content model with one of the supported
// layouts and draws that model onto a surface. Every random decision is
// drawn from the run's own source, in a fixed order, during Generate.
package layout

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/renderer"
)

func tracer() tracing.Trace {
	return tracing.Select("ocrsynth.layout")
}

// ErrMeasurement 表示后端返回的位置/宽度数组与文本长度不一致，属于契约错误，运行随之中止。
var ErrMeasurement = errors.New("layout: measurement length mismatch")

// TextProvider supplies the random strings a layout places.
type TextProvider interface {
	Word() string
	TextLine(min, max int, font content.Font) string
	RandomText(font content.Font) string
	Date(layout string) string
	DateLayout() string
	Number() string
	Quantity() string
	Email() string
	WebAddress() string
	Code() string
	Font(size float64) content.Font
}

// Kind selects a layout strategy.
type Kind int

const (
	KindScattered Kind = iota
	KindParagraph
	KindTable
)

var kindNames = [...]string{"scattered", "paragraph", "table"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds lists every supported layout kind.
func Kinds() []Kind { return []Kind{KindScattered, KindParagraph, KindTable} }

// ParseKind 解析布局名称（不区分大小写，允许 scattered-text 这类写法）。
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "-text")
	name = strings.TrimSuffix(name, "text")
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("未知布局 %q", s)
}

// Strategy is one layout family. Generate only builds geometry and text;
// Draw renders exactly what Generate committed.
type Strategy interface {
	Kind() Kind
	Generate(r *Run) error
	Draw(r *Run, s renderer.Surface) error
}

// New returns the strategy for kind.
func New(kind Kind) (Strategy, error) {
	switch kind {
	case KindScattered:
		return scattered{}, nil
	case KindParagraph:
		return paragraph{}, nil
	case KindTable:
		return table{}, nil
	default:
		return nil, fmt.Errorf("未知布局 %d", kind)
	}
}

// Run 是一次生成的全部状态：随机源、后端、文本来源、参数、内容模型与背景状态。
// 不同运行之间不共享 Run。
type Run struct {
	Seed    uint64
	Rand    *rand.Rand
	Backend renderer.Backend
	Text    TextProvider
	Options Options

	Model      content.Model
	Background Background
}

// NewRun prepares a run. rng must not be shared with another run.
func NewRun(rng *rand.Rand, backend renderer.Backend, text TextProvider, opts Options) *Run {
	return &Run{
		Rand:    rng,
		Backend: backend,
		Text:    text,
		Options: opts.normalized(),
	}
}

// Width returns the canvas width in pixels.
func (r *Run) Width() float64 { return float64(r.Options.Width) }

// Height returns the canvas height in pixels.
func (r *Run) Height() float64 { return float64(r.Options.Height) }

// Bounds returns the canvas rectangle.
func (r *Run) Bounds() content.Rect { return content.R(0, 0, r.Width(), r.Height()) }

// between returns a random int in [min, max).
func (r *Run) between(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Rand.IntN(max-min)
}

// chance 以百分比门限判断：probability >= rnd[1,100)。
func (r *Run) chance(probability int) bool {
	return probability >= r.between(1, 100)
}

// Generate resets the model, prepares the background and runs the
// strategy's content pass.
func (r *Run) Generate(s Strategy) error {
	r.Model.Reset()
	r.Background = Background{}
	if r.chance(r.Options.TextureProbability) {
		r.prepareTexture()
	}
	if err := s.Generate(r); err != nil {
		return fmt.Errorf("生成 %s 布局失败: %w", s.Kind(), err)
	}
	tracer().Debugf("%s: %d areas committed", s.Kind(), len(r.Model.Areas))
	return nil
}

// Draw paints the page background and the strategy's content.
func (r *Run) Draw(s Strategy, surf renderer.Surface) error {
	surf.Clear(color.White)
	if r.Background.tile != nil {
		surf.Image(r.Background.tile, 0, 0)
	}
	if err := s.Draw(r, surf); err != nil {
		return fmt.Errorf("绘制 %s 布局失败: %w", s.Kind(), err)
	}
	return nil
}
