package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ByLCY/ocrsynth/content"
)

// Box is the serialized form of a rectangle.
type Box struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Right   float64 `json:"right"`
	Bottom  float64 `json:"bottom"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	CenterX float64 `json:"x_center"`
	CenterY float64 `json:"y_center"`
}

// NewBox derives the redundant size and centre fields from r.
func NewBox(r content.Rect) Box {
	return Box{
		Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom,
		Width: r.Width(), Height: r.Height(),
		CenterX: r.CenterX(), CenterY: r.CenterY(),
	}
}

// CharacterRecord 是一个字符的导出记录，矩形为紧致框。
type CharacterRecord struct {
	Symbol string `json:"symbol"`
	Rect   Box    `json:"rect"`
}

// WordRecord 是一个单词的导出记录，矩形为其字符紧致框的并集。
type WordRecord struct {
	Text       string            `json:"text"`
	Rect       Box               `json:"rect"`
	Characters []CharacterRecord `json:"characters,omitempty"`
}

// Document holds the records of one data file. Exactly one of the slices
// is populated for JSON files: words (with or without nested characters)
// or a flat character list.
type Document struct {
	Words      []WordRecord
	Characters []CharacterRecord
}

// Records flattens a model into export records in commit order.
func Records(model *content.Model, withCharacters bool) []WordRecord {
	var out []WordRecord
	for _, w := range model.Words() {
		rec := WordRecord{Text: w.Text, Rect: NewBox(w.Cropped())}
		if withCharacters {
			rec.Characters = characterRecords(w)
		}
		out = append(out, rec)
	}
	return out
}

func characterRecords(w *content.Word) []CharacterRecord {
	out := make([]CharacterRecord, 0, len(w.Characters))
	for _, c := range w.Characters {
		out = append(out, CharacterRecord{Symbol: string(c.Symbol), Rect: NewBox(c.Cropped)})
	}
	return out
}

var csvHeader = []string{"type", "text", "left", "top", "right", "bottom", "width", "height", "x_center", "y_center"}

func csvRow(kind, text string, b Box) []string {
	row := []string{kind, text}
	for _, v := range []float64{b.Left, b.Top, b.Right, b.Bottom, b.Width, b.Height, b.CenterX, b.CenterY} {
		row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return row
}

// WriteCSV writes a header line followed by word and/or character rows.
// Fields containing commas or quotes are quoted with doubled quotes.
func WriteCSV(w io.Writer, model *content.Model, mode Mode) error {
	if !mode.CSV() {
		return fmt.Errorf("%w: %s is not a CSV mode", ErrUnsupportedMode, mode)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, word := range model.Words() {
		if mode.Words() {
			if err := cw.Write(csvRow("word", word.Text, NewBox(word.Cropped()))); err != nil {
				return err
			}
		}
		if mode.Characters() {
			for _, c := range word.Characters {
				if err := cw.Write(csvRow("character", string(c.Symbol), NewBox(c.Cropped))); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON 以缩进 JSON 输出：单词列表（可嵌套字符），或仅字符时的扁平字符列表。
func WriteJSON(w io.Writer, model *content.Model, mode Mode) error {
	if !mode.JSON() {
		return fmt.Errorf("%w: %s is not a JSON mode", ErrUnsupportedMode, mode)
	}
	var payload any
	switch {
	case mode.Words():
		payload = Records(model, mode.Characters())
	default:
		chars := []CharacterRecord{}
		for _, word := range model.Words() {
			chars = append(chars, characterRecords(word)...)
		}
		payload = chars
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// ReadJSON decodes a file written by WriteJSON with the same mode.
func ReadJSON(r io.Reader, mode Mode) (*Document, error) {
	if !mode.JSON() {
		return nil, fmt.Errorf("%w: %s is not a JSON mode", ErrUnsupportedMode, mode)
	}
	doc := &Document{}
	dec := json.NewDecoder(r)
	var err error
	if mode.Words() {
		err = dec.Decode(&doc.Words)
	} else {
		err = dec.Decode(&doc.Characters)
	}
	if err != nil {
		return nil, fmt.Errorf("解析数据文件失败: %w", err)
	}
	return doc, nil
}

// WriteData writes the model's data file to base plus the mode's
// extension and returns the path. ModeNone writes nothing.
func WriteData(base string, model *content.Model, mode Mode) (string, error) {
	if !mode.valid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	if mode == ModeNone {
		return "", nil
	}
	path := base + mode.Extension()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建数据文件失败: %w", err)
	}
	defer f.Close()
	if mode.CSV() {
		err = WriteCSV(f, model, mode)
	} else {
		err = WriteJSON(f, model, mode)
	}
	if err != nil {
		return "", fmt.Errorf("写入数据文件 %s 失败: %w", path, err)
	}
	tracer().Debugf("export: wrote %s", path)
	return path, f.Close()
}
