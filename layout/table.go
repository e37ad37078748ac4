package layout

import (
	"image/color"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/place"
	"github.com/ByLCY/ocrsynth/renderer"
)

// Table layout parameters.
const (
	tableMinFont       = 16
	tableMaxFont       = 30
	tableMinRows       = 1
	tableMaxRows       = 20
	tableMinColumns    = 2
	tableMaxColumns    = 4
	tableMinRowPadding = 2
	tableMaxRowPadding = 15
	tableTextOffset    = 4
	// 单元格的垂直容差
	tableCellTolerance = 20
)

// table 由随机的行列划分组成，每列有自己的值类型与对齐方式；放不下的单元格直接留空。
type table struct{}

func (table) Kind() Kind { return KindTable }

func (table) Generate(r *Run) error {
	fontHeight := float64(r.between(tableMinFont, tableMaxFont))
	rowCount := r.between(tableMinRows, tableMaxRows)
	columnCount := r.between(tableMinColumns, tableMaxColumns)
	rowPadding := float64(r.between(tableMinRowPadding, tableMaxRowPadding))
	textOffset := float64(r.between(-tableTextOffset, tableTextOffset))
	font := r.Text.Font(fontHeight)

	grid := &content.Grid{}
	left := float64(r.between(5, 20))
	for c := 0; c < columnCount; c++ {
		col := content.Column{
			Justify: content.Justify(r.between(0, 3)),
			Value:   content.ValueType(r.between(0, 5)),
		}
		if col.Value == content.ValueQuantity {
			col.Width = float64(r.between(30, 150))
		} else {
			col.Width = float64((r.Options.Width-20)/columnCount - r.between(0, 50))
		}
		if col.Value == content.ValueDate {
			col.Format = r.Text.DateLayout()
		}
		col.Padding = float64(r.between(0, 10))
		col.Left = left
		col.Right = left + col.Width
		left = col.Right
		grid.Columns = append(grid.Columns, col)
	}

	top := float64(r.between(5, 40))
	if r.between(1, 100) < 90 {
		row := content.Row{Header: true, Padding: float64(r.between(3, 10)), Top: top}
		row.Height = fontHeight + row.Padding
		row.Bottom = row.Top + row.Height
		top = row.Bottom
		grid.Rows = append(grid.Rows, row)
	}
	for i := 0; i < rowCount; i++ {
		row := content.Row{Padding: rowPadding, Top: top}
		row.Height = fontHeight + row.Padding
		row.Bottom = row.Top + row.Height
		top = row.Bottom
		grid.Rows = append(grid.Rows, row)
	}

	paint := r.textPaint()
	bounds := r.Bounds()
	for _, row := range grid.Rows {
		for _, col := range grid.Columns {
			text := r.cellText(row, col)
			if text == "" {
				continue
			}
			baseline := row.Bottom - row.Padding + textOffset
			m, err := r.measure(text, font)
			if err != nil {
				return err
			}

			x := col.Left + col.Padding
			switch col.Justify {
			case content.JustifyRight:
				x = col.Right - m.Width - col.Padding
			case content.JustifyCenter:
				x = col.Left + (col.Width-m.Width)/2
			}
			rect := textRect(x, baseline, m, fontHeight, 0)

			cell := content.R(col.Left-2, row.Top-tableCellTolerance, col.Right+2, row.Bottom+tableCellTolerance)
			if !rect.Within(cell) || !place.Fits(rect, bounds, place.DefaultMargin) {
				continue
			}
			words := buildWords(text, font, x, baseline, m, rect)
			if len(words) == 0 {
				continue
			}
			r.Model.Add(content.PhraseArea(&content.Phrase{Text: text, Words: words, Paint: paint}, rect, false))
		}
	}

	grid.RuleGray = uint8(r.between(0, 250))
	grid.RuleWidth = float64(r.between(1, 3))
	grid.StripeAlpha = uint8(r.between(5, 80))
	grid.ColumnRules = r.between(1, 100) < 80
	grid.RowRuleEvery = r.between(0, 4)
	if grid.RowRuleEvery == 0 {
		grid.Striped = r.between(1, 100) < 50
	}
	r.Model.Grid = grid
	return nil
}

// cellText 按列类型生成单元格文本，表头总是一个单词。
func (r *Run) cellText(row content.Row, col content.Column) string {
	if row.Header {
		return r.Text.Word()
	}
	switch col.Value {
	case content.ValueDate:
		return r.Text.Date(col.Format)
	case content.ValueDollar:
		return r.Text.Number()
	case content.ValueQuantity:
		return r.Text.Quantity()
	case content.ValueCode:
		return r.Text.Code()
	default:
		return r.Text.Word()
	}
}

func (table) Draw(r *Run, s renderer.Surface) error {
	if g := r.Model.Grid; g != nil && len(g.Rows) > 0 && len(g.Columns) > 0 {
		drawGrid(s, g)
	}
	for _, p := range r.Model.Phrases() {
		if err := drawWords(s, p.Words, p.Paint); err != nil {
			return err
		}
	}
	return nil
}

func drawGrid(s renderer.Surface, g *content.Grid) {
	b := g.Bounds()
	rule := gray(int(g.RuleGray))
	if g.Striped {
		stripe := color.NRGBA{A: g.StripeAlpha}
		for i, row := range g.Rows {
			if i%2 == 1 {
				s.FillRect(content.R(b.Left, row.Top, b.Right, row.Bottom), stripe)
			}
		}
	}
	if g.RowRuleEvery > 0 {
		for i, row := range g.Rows {
			if i%g.RowRuleEvery == 0 {
				s.Line(b.Left, row.Top, b.Right, row.Top, g.RuleWidth, nil, rule)
			}
		}
		s.Line(b.Left, b.Bottom, b.Right, b.Bottom, g.RuleWidth, nil, rule)
	}
	if g.ColumnRules {
		for _, col := range g.Columns {
			s.Line(col.Left, b.Top, col.Left, b.Bottom, g.RuleWidth, nil, rule)
			s.Line(col.Right, b.Top, col.Right, b.Bottom, g.RuleWidth, nil, rule)
		}
	}
}
