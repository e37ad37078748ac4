// Package export persists the outputs of a run: ground-truth data files
// (CSV or JSON), encoded rasters, per-class character crops and PDFs.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("ocrsynth.export")
}

// ErrUnsupportedMode is returned for data modes and image formats the
// exporter does not know.
var ErrUnsupportedMode = errors.New("unsupported export mode")

// Mode 选择数据文件的格式与内容。
type Mode int

const (
	ModeNone Mode = iota
	ModeCSVCharacters
	ModeCSVWords
	ModeCSVWordsAndCharacters
	ModeJSONCharacters
	ModeJSONWords
	ModeJSONWordsAndCharacters
)

var modeNames = []string{
	ModeNone:                   "none",
	ModeCSVCharacters:          "csv-characters",
	ModeCSVWords:               "csv-words",
	ModeCSVWordsAndCharacters:  "csv-words-and-characters",
	ModeJSONCharacters:         "json-characters",
	ModeJSONWords:              "json-words",
	ModeJSONWordsAndCharacters: "json-words-and-characters",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode 解析模式名（大小写不敏感，允许下划线）。
func ParseMode(s string) (Mode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	if name == "" {
		return ModeNone, nil
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}

func (m Mode) valid() bool { return m >= ModeNone && int(m) < len(modeNames) }

// CSV reports whether the mode writes a CSV file.
func (m Mode) CSV() bool { return m >= ModeCSVCharacters && m <= ModeCSVWordsAndCharacters }

// JSON reports whether the mode writes a JSON file.
func (m Mode) JSON() bool { return m >= ModeJSONCharacters && m <= ModeJSONWordsAndCharacters }

// Words reports whether word records are written.
func (m Mode) Words() bool {
	switch m {
	case ModeCSVWords, ModeCSVWordsAndCharacters, ModeJSONWords, ModeJSONWordsAndCharacters:
		return true
	}
	return false
}

// Characters reports whether character records are written.
func (m Mode) Characters() bool {
	switch m {
	case ModeCSVCharacters, ModeCSVWordsAndCharacters, ModeJSONCharacters, ModeJSONWordsAndCharacters:
		return true
	}
	return false
}

// Extension 返回数据文件扩展名；ModeNone 返回空串。
func (m Mode) Extension() string {
	switch {
	case m.CSV():
		return ".csv"
	case m.JSON():
		return ".json"
	}
	return ""
}
