package layout

// Options 配置一次运行的画布与布局相关概率，所有概率均为 0–100 的整数百分比。
type Options struct {
	Width  int
	Height int

	// LinesProbability 控制散点布局中是否绘制装饰线。
	LinesProbability int
	// TextureProbability 控制是否铺设背景纹理。
	TextureProbability int
	// Textures 为空时从不铺设纹理。
	Textures *Textures

	Debug DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Model bool // 在调试 JSON 中输出完整的内容模型
}

// DefaultOptions returns an 800×600 canvas with lines and textures off.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600}
}

func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	o.LinesProbability = clampPercent(o.LinesProbability)
	o.TextureProbability = clampPercent(o.TextureProbability)
	return o
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
