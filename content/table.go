package content

// Justify 是单元格文字的水平对齐方式。
type Justify int

const (
	JustifyLeft Justify = iota
	JustifyRight
	JustifyCenter
)

func (j Justify) String() string {
	switch j {
	case JustifyRight:
		return "right"
	case JustifyCenter:
		return "center"
	default:
		return "left"
	}
}

// ValueType 是表格列的语义类型，决定单元格文本如何生成。
type ValueType int

const (
	ValueText ValueType = iota
	ValueDate
	ValueQuantity
	ValueDollar
	ValueCode
)

func (v ValueType) String() string {
	switch v {
	case ValueDate:
		return "date"
	case ValueQuantity:
		return "quantity"
	case ValueDollar:
		return "dollar"
	case ValueCode:
		return "code"
	default:
		return "text"
	}
}

// Column describes one table column.
type Column struct {
	Left    float64   `json:"left"`
	Right   float64   `json:"right"`
	Width   float64   `json:"width"`
	Justify Justify   `json:"justify"`
	Value   ValueType `json:"value"`
	Format  string    `json:"format,omitempty"`
	Padding float64   `json:"padding"`
}

// Row describes one table row.
type Row struct {
	Top     float64 `json:"top"`
	Bottom  float64 `json:"bottom"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
	Header  bool    `json:"header,omitempty"`
}

// Grid 是表格布局的行列划分及其绘制参数。
type Grid struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`

	ColumnRules  bool    `json:"columnRules"`
	RowRuleEvery int     `json:"rowRuleEvery"`
	Striped      bool    `json:"striped"`
	StripeAlpha  uint8   `json:"stripeAlpha"`
	RuleGray     uint8   `json:"ruleGray"`
	RuleWidth    float64 `json:"ruleWidth"`
}

// Bounds returns the rectangle spanned by all rows and columns.
func (g *Grid) Bounds() Rect {
	if g == nil || len(g.Columns) == 0 || len(g.Rows) == 0 {
		return Rect{}
	}
	return Rect{
		Left:   g.Columns[0].Left,
		Top:    g.Rows[0].Top,
		Right:  g.Columns[len(g.Columns)-1].Right,
		Bottom: g.Rows[len(g.Rows)-1].Bottom,
	}
}
