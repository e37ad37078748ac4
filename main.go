package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/ByLCY/ocrsynth/binding"
	"github.com/ByLCY/ocrsynth/export"
	"github.com/ByLCY/ocrsynth/layout"
	"github.com/ByLCY/ocrsynth/pipeline"
	"github.com/ByLCY/ocrsynth/profile"
	canvasrenderer "github.com/ByLCY/ocrsynth/renderer/canvas"
)

// 需要配置跟踪级别的包。
var traceKeys = []string{
	"ocrsynth.layout", "ocrsynth.pipeline", "ocrsynth.renderer", "ocrsynth.labels",
	"ocrsynth.post", "ocrsynth.export", "ocrsynth.profile",
}

type flags struct {
	profile  string
	count    int
	seed     uint64
	index    int
	workers  int
	out      string
	kind     string
	textures string
	debug    string
	trace    string
	adapter  string
}

func main() {
	var f flags
	flag.StringVar(&f.profile, "profile", "", "配置文件路径（.profile DSL 或 .yaml）；为空时使用默认配置")
	flag.IntVar(&f.count, "n", 10, "生成数量")
	flag.Uint64Var(&f.seed, "seed", 0, "基准随机种子；0 表示取当前时间")
	flag.IntVar(&f.index, "index", -1, "只重新生成该序号的样本（需配合 -seed）")
	flag.IntVar(&f.workers, "workers", runtime.NumCPU(), "并发数")
	flag.StringVar(&f.out, "out", "", "覆盖配置中的输出目录")
	flag.StringVar(&f.kind, "layout", "", "只使用一种布局：scattered|paragraph|table")
	flag.StringVar(&f.textures, "textures", "", "覆盖配置中的背景纹理目录")
	flag.StringVar(&f.debug, "debug", "", "为每个样本输出调试 JSON 的目录")
	flag.StringVar(&f.trace, "trace", "Error", "Trace level [Debug|Info|Error]")
	flag.StringVar(&f.adapter, "trace-adapter", "go", "Trace adapter [go|logrus]")
	flag.Parse()

	initDisplay()
	if err := initTracing(f.adapter, f.trace); err != nil {
		log.Fatalf("配置跟踪失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := run(ctx, f)
	if err != nil {
		pterm.Error.Println(err.Error())
		if sum.Done == 0 {
			os.Exit(1)
		}
	}
	if sum.Canceled {
		pterm.Warning.Printf("已中断：完成 %d 个，失败 %d 个\n", sum.Done, sum.Failed)
		return
	}
	pterm.Success.Printf("已生成 %d 个样本（失败 %d 个）\n", sum.Done, sum.Failed)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func initTracing(adapter, level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": adapter}
	for _, key := range traceKeys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// run 加载配置、组装批处理并把每个样本写入磁盘。
func run(ctx context.Context, f flags) (pipeline.Summary, error) {
	cfg := profile.Default()
	if f.profile != "" {
		var err error
		if cfg, err = profile.Load(f.profile); err != nil {
			return pipeline.Summary{}, err
		}
	}
	if f.out != "" {
		cfg.Output.Dir = f.out
	}
	if f.textures != "" {
		cfg.Textures = f.textures
	}
	if f.debug != "" {
		cfg.Debug = true
	}
	plan, err := cfg.Resolve()
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("配置无效: %w", err)
	}
	if f.kind != "" {
		kind, err := layout.ParseKind(f.kind)
		if err != nil {
			return pipeline.Summary{}, err
		}
		plan.Weights = map[layout.Kind]int{kind: 1}
	}
	if plan.Textures != "" {
		plan.Pipeline.Layout.Textures = layout.NewTextures(plan.Textures)
	}
	if f.seed == 0 {
		f.seed = uint64(time.Now().UnixNano())
	}
	pterm.Info.Printf("profile %s, seed %d, %d×%d\n", plan.Name, f.seed,
		plan.Pipeline.Layout.Width, plan.Pipeline.Layout.Height)

	backend := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Families: plan.Pipeline.Families})
	w := newWriter(plan, f.debug)
	batch := &pipeline.Batch{
		Config:   plan.Pipeline,
		Count:    f.count,
		BaseSeed: f.seed,
		Weights:  plan.Weights,
		Workers:  f.workers,
		Backend:  backend,
		Sink:     w.write,
	}

	if f.index >= 0 {
		return regenerate(batch, f.index)
	}

	bar, err := pterm.DefaultProgressbar.WithTotal(f.count).WithTitle("生成中").Start()
	if err != nil {
		return pipeline.Summary{}, err
	}
	var barMu sync.Mutex
	batch.Progress = func(done, total int) {
		barMu.Lock()
		bar.Increment()
		barMu.Unlock()
	}
	sum, err := batch.Run(ctx)
	_, _ = bar.Stop()
	return sum, err
}

// regenerate 只生成批次中的某一个样本，结果与完整批次中的同序号样本一致。
func regenerate(batch *pipeline.Batch, index int) (pipeline.Summary, error) {
	if index >= batch.Count {
		batch.Count = index + 1
	}
	job := batch.Jobs()[index]
	out, err := pipeline.Generate(batch.Config, job.Kind, job.Seed, batch.Backend)
	if err != nil {
		return pipeline.Summary{Failed: 1}, err
	}
	if err := batch.Sink(job, out); err != nil {
		return pipeline.Summary{Failed: 1}, err
	}
	return pipeline.Summary{Done: 1}, nil
}

// writer 负责一个样本的全部输出文件。
type writer struct {
	plan    *profile.Plan
	debug   string
	cropper *export.Cropper
}

func newWriter(plan *profile.Plan, debugDir string) *writer {
	w := &writer{plan: plan, debug: debugDir}
	if plan.Crops != nil {
		opts := *plan.Crops
		if opts.Dir == "" {
			opts.Dir = filepath.Join(plan.Dir, "characters")
		}
		w.cropper = export.NewCropper(opts)
	}
	return w
}

func (w *writer) write(job pipeline.Job, out *pipeline.Output) error {
	name := binding.Interpolate(w.plan.FileName, map[string]any{
		"layout":  job.Kind.String(),
		"index":   job.Index,
		"seed":    job.Seed,
		"profile": w.plan.Name,
	})
	base := filepath.Join(w.plan.Dir, name)
	if _, err := export.SaveImage(base, out.Image, w.plan.Format); err != nil {
		return err
	}
	if w.plan.Labels {
		if _, err := export.SaveImage(base+"_label", out.Rasters.Label, w.plan.Format); err != nil {
			return err
		}
	}
	if out.Rasters.HeatMap != nil {
		if _, err := export.SaveImage(base+"_heatmap", out.Rasters.HeatMap, w.plan.Format); err != nil {
			return err
		}
	}
	if out.Rasters.Boxes != nil {
		if _, err := export.SaveImage(base+"_boxes", out.Rasters.Boxes, w.plan.Format); err != nil {
			return err
		}
	}
	if _, err := export.WriteData(base, out.Model, w.plan.Data); err != nil {
		return err
	}
	if out.PDF != nil {
		if _, err := export.SavePDF(base, out.PDF); err != nil {
			return err
		}
	}
	if w.cropper != nil {
		if _, err := w.cropper.Export(out.Image, out.Model, filepath.Base(name)); err != nil {
			return err
		}
	}
	if w.debug != "" {
		return writeDebug(out.Result, filepath.Join(w.debug, name+".json"))
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
