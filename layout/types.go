package layout

import "github.com/ByLCY/ocrsynth/content"

// 该文件定义一次运行的摘要，供调试 JSON 与批处理日志共用。

// Result 保存一次运行生成的布局与背景信息。
type Result struct {
	Kind       string         `json:"kind"`
	Seed       uint64         `json:"seed"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Background Background     `json:"background"`
	Stats      Stats          `json:"stats"`
	Model      *content.Model `json:"model,omitempty"`
}

// Stats 统计模型中的内容数量。
type Stats struct {
	Lines      int `json:"lines"`
	Phrases    int `json:"phrases"`
	Words      int `json:"words"`
	Characters int `json:"characters"`
}

// Result snapshots the run for debugging. The model is included only when
// Options.Debug.Model is set.
func (r *Run) Result(kind Kind) *Result {
	res := &Result{
		Kind:       kind.String(),
		Seed:       r.Seed,
		Width:      r.Options.Width,
		Height:     r.Options.Height,
		Background: r.Background,
		Stats: Stats{
			Lines:      len(r.Model.Lines()),
			Phrases:    len(r.Model.Phrases()),
			Words:      len(r.Model.Words()),
			Characters: len(r.Model.Characters()),
		},
	}
	if r.Options.Debug.Model {
		res.Model = &r.Model
	}
	return res
}
