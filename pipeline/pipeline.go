// Package pipeline composes one generation run from its stages:
// layout → draw → labels → post-processing. Each run owns its random
// source, model, surface and rasters; only the backend is shared.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"slices"

	"github.com/npillmayer/schuko/tracing"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/labels"
	"github.com/ByLCY/ocrsynth/layout"
	"github.com/ByLCY/ocrsynth/post"
	"github.com/ByLCY/ocrsynth/renderer"
	"github.com/ByLCY/ocrsynth/textgen"
)

func tracer() tracing.Trace {
	return tracing.Select("ocrsynth.pipeline")
}

// seedStream 是 PCG 的第二个状态字；同一 seed 始终得到同一序列。
const seedStream = 0x6f63727379

// Config 描述一次运行需要的全部参数。
type Config struct {
	Layout   layout.Options
	Post     post.Probabilities
	Labels   labels.Options
	Families []string // 限定可用字体族；为空时使用后端全部字体
	PDF      bool     // 额外输出干净页面（后处理之前）的 PDF
}

// Output 是一次运行的全部产物。
type Output struct {
	Kind    layout.Kind
	Seed    uint64
	Image   *image.RGBA
	Rasters *labels.Rasters
	Plan    post.Plan
	PDF     []byte
	Result  *layout.Result
	Model   *content.Model
}

// NewRand returns the random source of the run with the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seedStream))
}

// Generate runs one complete generation. The same kind, seed, config and
// backend always produce the same model and image.
func Generate(cfg Config, kind layout.Kind, seed uint64, backend renderer.Backend) (*Output, error) {
	if backend == nil {
		return nil, errors.New("backend 不能为空")
	}
	strategy, err := layout.New(kind)
	if err != nil {
		return nil, err
	}
	rng := NewRand(seed)
	text := textgen.New(rng, restrictFamilies(backend, cfg.Families))
	run := layout.NewRun(rng, backend, text, cfg.Layout)
	run.Seed = seed

	if err := run.Generate(strategy); err != nil {
		return nil, fmt.Errorf("run %d (%s): %w", seed, kind, err)
	}
	w, h := run.Options.Width, run.Options.Height
	surf := backend.NewSurface(w, h)
	if err := run.Draw(strategy, surf); err != nil {
		return nil, fmt.Errorf("run %d (%s): 绘制失败: %w", seed, kind, err)
	}
	out := &Output{Kind: kind, Seed: seed, Model: &run.Model}
	if cfg.PDF {
		if out.PDF, err = surf.PDF(); err != nil {
			return nil, fmt.Errorf("run %d: 输出 PDF 失败: %w", seed, err)
		}
	}
	out.Image = surf.Raster()
	if out.Rasters, err = labels.Render(&run.Model, w, h, backend, cfg.Labels); err != nil {
		return nil, fmt.Errorf("run %d: %w", seed, err)
	}
	out.Plan = post.NewPlan(rng, cfg.Post)
	post.Apply(out.Image, out.Plan, rng)
	out.Result = run.Result(kind)

	tracer().Debugf("pipeline: run %d (%s) → %d words", seed, kind, out.Result.Stats.Words)
	return out, nil
}

// familyFilter 把后端的字体族限制在配置列出的集合内。
type familyFilter struct {
	renderer.Backend
	families []string
}

func restrictFamilies(backend renderer.Backend, families []string) textgen.Glyphs {
	if len(families) == 0 {
		return backend
	}
	var keep []string
	for _, f := range backend.Families() {
		if slices.Contains(families, f) {
			keep = append(keep, f)
		}
	}
	if len(keep) == 0 {
		tracer().Infof("pipeline: none of %v known to backend, using all families", families)
		return backend
	}
	return familyFilter{Backend: backend, families: keep}
}

func (f familyFilter) Families() []string { return f.families }
