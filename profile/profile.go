// Package profile loads generation profiles. A profile is written either in
// the profile DSL (see package dsl) or as YAML; both map onto Config and
// are checked against the same key tables.
package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"

	"github.com/ByLCY/ocrsynth/binding"
	"github.com/ByLCY/ocrsynth/export"
	"github.com/ByLCY/ocrsynth/labels"
	"github.com/ByLCY/ocrsynth/layout"
	"github.com/ByLCY/ocrsynth/pipeline"
	"github.com/ByLCY/ocrsynth/post"
)

func tracer() tracing.Trace {
	return tracing.Select("ocrsynth.profile")
}

// ErrUnknownKey is returned for keys no profile section defines.
var ErrUnknownKey = errors.New("unknown profile key")

// Config 是配置文件的原始形态，字段与 DSL/YAML 键一一对应。
type Config struct {
	Name        string         `yaml:"name,omitempty"`
	Version     string         `yaml:"version,omitempty"`
	Canvas      Canvas         `yaml:"canvas"`
	Layouts     map[string]int `yaml:"layouts"`
	Probability Probability    `yaml:"probability"`
	Fonts       []string       `yaml:"fonts"`
	Textures    string         `yaml:"textures"`
	Output      Output         `yaml:"output"`
	Debug       bool           `yaml:"debug"`
}

// Canvas 的宽高可带单位（px、mm、cm、in、pt），物理单位按 DPI 换算。
type Canvas struct {
	Width  string  `yaml:"width"`
	Height string  `yaml:"height"`
	DPI    float64 `yaml:"dpi"`
}

// Probability holds the stage probabilities in percent.
type Probability struct {
	Noise    int `yaml:"noise"`
	Blur     int `yaml:"blur"`
	Pixelate int `yaml:"pixelate"`
	Invert   int `yaml:"invert"`
	Texture  int `yaml:"texture"`
	Lines    int `yaml:"lines"`
}

// Output 描述输出目录、文件命名与各类产物开关。
type Output struct {
	Dir        string      `yaml:"dir"`
	Name       string      `yaml:"name"`
	Format     string      `yaml:"format"`
	Data       string      `yaml:"data"`
	Labels     bool        `yaml:"labels"`
	HeatMap    bool        `yaml:"heatmap"`
	Boxes      bool        `yaml:"boxes"`
	PDF        bool        `yaml:"pdf"`
	Characters *Characters `yaml:"characters,omitempty"`
}

// Characters configures per-class character crops.
type Characters struct {
	Dir     string `yaml:"dir"`
	Framing string `yaml:"framing"`
	Size    int    `yaml:"size"`
	Max     int    `yaml:"max"`
}

// Default returns the profile used when none is given.
func Default() *Config {
	return &Config{
		Name:    "default",
		Version: "v1",
		Canvas:  Canvas{Width: "800", Height: "600", DPI: layout.DefaultDPI},
		Layouts: map[string]int{"scattered": 1, "paragraph": 1, "table": 1},
		Probability: Probability{
			Noise: 10, Blur: 10, Pixelate: 5, Invert: 5, Texture: 20, Lines: 30,
		},
		Output: Output{
			Dir:    "out",
			Name:   "${layout}-${index|%05d}",
			Format: "png",
			Data:   "json-words-and-characters",
			Labels: true,
		},
	}
}

// NameVars are the placeholders available in output.name.
var NameVars = []string{"layout", "index", "seed", "profile"}

// Plan is a resolved profile, ready to drive a batch.
type Plan struct {
	Name     string
	Pipeline pipeline.Config
	Weights  map[layout.Kind]int
	Textures string
	Dir      string
	FileName string
	Format   export.Format
	Data     export.Mode
	Labels   bool
	Crops    *export.CropOptions
}

// Resolve validates c and converts it into a Plan.
func (c *Config) Resolve() (*Plan, error) {
	p := &Plan{
		Name:     c.Name,
		Textures: c.Textures,
		Dir:      c.Output.Dir,
		FileName: c.Output.Name,
		Labels:   c.Output.Labels,
	}
	if p.FileName == "" {
		p.FileName = Default().Output.Name
	}
	for _, ph := range binding.Placeholders(p.FileName) {
		if !contains(NameVars, ph.Path) {
			return nil, fmt.Errorf("output.name: 未知占位符 ${%s}，可用 %v", ph.Path, NameVars)
		}
	}
	opts := layout.DefaultOptions()
	var err error
	if opts.Width, err = pixels("canvas.width", c.Canvas.Width, c.Canvas.DPI, opts.Width); err != nil {
		return nil, err
	}
	if opts.Height, err = pixels("canvas.height", c.Canvas.Height, c.Canvas.DPI, opts.Height); err != nil {
		return nil, err
	}
	probs := []struct {
		key string
		v   int
	}{
		{"noise", c.Probability.Noise}, {"blur", c.Probability.Blur},
		{"pixelate", c.Probability.Pixelate}, {"invert", c.Probability.Invert},
		{"texture", c.Probability.Texture}, {"lines", c.Probability.Lines},
	}
	for _, pr := range probs {
		if pr.v < 0 || pr.v > 100 {
			return nil, fmt.Errorf("probability.%s 必须在 0–100 之间，实际为 %d", pr.key, pr.v)
		}
	}
	opts.LinesProbability = c.Probability.Lines
	opts.TextureProbability = c.Probability.Texture
	opts.Debug.Model = c.Debug

	p.Weights = make(map[layout.Kind]int)
	for name, w := range c.Layouts {
		kind, err := layout.ParseKind(name)
		if err != nil {
			return nil, err
		}
		if w < 0 {
			return nil, fmt.Errorf("layouts.%s: 权重不能为负", name)
		}
		p.Weights[kind] = w
	}

	p.Pipeline = pipeline.Config{
		Layout: opts,
		Post: post.Probabilities{
			Noise:    c.Probability.Noise,
			Blur:     c.Probability.Blur,
			Pixelate: c.Probability.Pixelate,
			Invert:   c.Probability.Invert,
		},
		Labels:   labels.Options{HeatMap: c.Output.HeatMap, Boxes: c.Output.Boxes},
		Families: c.Fonts,
		PDF:      c.Output.PDF,
	}
	if p.Format, err = export.ParseFormat(c.Output.Format); err != nil {
		return nil, err
	}
	if p.Data, err = export.ParseMode(c.Output.Data); err != nil {
		return nil, err
	}
	if ch := c.Output.Characters; ch != nil {
		framing, err := export.ParseFraming(ch.Framing)
		if err != nil {
			return nil, err
		}
		p.Crops = &export.CropOptions{Dir: ch.Dir, Framing: framing, Size: ch.Size, Max: ch.Max, Format: export.PNG}
	}
	tracer().Debugf("profile %s: %dx%d, weights %v", c.Name, opts.Width, opts.Height, p.Weights)
	return p, nil
}

func pixels(key, value string, dpi float64, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if l.Unit == layout.UnitPercent {
		return 0, fmt.Errorf("%s: 不支持百分比 %q", key, value)
	}
	px := int(math.Round(l.ToPX(dpi)))
	if px <= 0 {
		return 0, fmt.Errorf("%s: 无效的长度 %q", key, value)
	}
	return px, nil
}
