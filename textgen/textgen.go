// Package textgen 生成用于合成 OCR 样本的随机文本：英文单词、无意义词、编码、
// 数字、日期、邮箱与网址。所有随机数都来自调用方提供的 *rand.Rand，
// 同一种子下输出可复现。
package textgen

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ByLCY/ocrsynth/content"
)

//go:embed words.txt
var wordList string

var words = loadWords(wordList)

func loadWords(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if w := strings.TrimSpace(line); w != "" {
			out = append(out, w)
		}
	}
	return out
}

const (
	consonants = "bcdfghjklmnpqrstvwxz"
	vowels     = "aeiouy"
	codeSymbol = "#:-+=_/.()[]{}<>!@$%&*?,^"
	codeLetter = "ABCDEFGHIJKLMNOPQRSTUVWXYZ "

	maxPunctuationRetries = 5
	maxTextRetries        = 5
)

// Glyphs 是生成器对字体后端的最小依赖。
type Glyphs interface {
	ContainsGlyphs(text string, font content.Font) bool
	Families() []string
}

// Generator draws random strings. It is not safe for concurrent use; each
// run owns one.
type Generator struct {
	rng     *rand.Rand
	glyphs  Glyphs
	title   cases.Caser
	upper   cases.Caser
	lower   cases.Caser
	printer *message.Printer
}

// New creates a generator over rng. glyphs may be nil, in which case every
// string is assumed renderable and Font picks from the built-in family only.
func New(rng *rand.Rand, glyphs Glyphs) *Generator {
	return &Generator{
		rng:     rng,
		glyphs:  glyphs,
		title:   cases.Title(language.English),
		upper:   cases.Upper(language.English),
		lower:   cases.Lower(language.English),
		printer: message.NewPrinter(language.English),
	}
}

// between returns a random int in [min, max).
func (g *Generator) between(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.IntN(max-min)
}

func (g *Generator) pick(s string) byte { return s[g.rng.IntN(len(s))] }

func (g *Generator) covered(text string, font content.Font) bool {
	if g.glyphs == nil {
		return true
	}
	return g.glyphs.ContainsGlyphs(text, font)
}

// Word 返回一个英文单词或无意义词，偶尔首字母大写或全部大写。
func (g *Generator) Word() string {
	var w string
	if g.between(0, 10) > 2 {
		w = g.EnglishWord()
	} else {
		w = g.GibberishWord()
	}
	switch p := g.between(0, 100); {
	case p < 10:
		w = g.title.String(w)
	case p < 15:
		w = g.upper.String(w)
	}
	return w
}

// EnglishWord picks from the embedded word list.
func (g *Generator) EnglishWord() string {
	return words[g.rng.IntN(len(words))]
}

// GibberishWord builds a pronounceable word out of 1–4 syllables.
func (g *Generator) GibberishWord() string {
	var sb strings.Builder
	syllables := g.between(1, 5)
	for i := 0; i < syllables; i++ {
		if g.between(0, 2) == 0 {
			sb.WriteByte(g.pick(consonants))
		}
		if i == 0 && g.between(0, 5) == 0 {
			sb.WriteByte(g.pick(consonants))
		}
		sb.WriteByte(g.pick(vowels))
		if i == 0 && g.between(0, 2) == 0 {
			sb.WriteByte(g.pick(vowels))
		}
		sb.WriteByte(g.pick(consonants))
	}
	if g.between(0, 2) == 0 {
		sb.WriteByte(g.pick(consonants))
	}
	return sb.String()
}

// RandomText 按比例返回编码、数字、日期、邮箱、网址或一行文本；
// 字体缺少字形时重新抽取，连续 maxTextRetries 次失败后返回空串。
func (g *Generator) RandomText(font content.Font) string {
	for i := 0; i < maxTextRetries; i++ {
		if text := g.randomText(font); g.covered(text, font) {
			return text
		}
	}
	return ""
}

func (g *Generator) randomText(font content.Font) string {
	switch p := g.between(0, 100); {
	case p < 10:
		return g.Code()
	case p < 20:
		return g.Number()
	case p < 30:
		return g.Date(g.DateLayout())
	case p < 35:
		return g.Email()
	case p < 40:
		return g.WebAddress()
	default:
		return g.TextLine(1, 10, font)
	}
}

// TextLine joins between min and max words with random punctuation.
func (g *Generator) TextLine(min, max int, font content.Font) string {
	if min < 1 {
		min = 1
	}
	count := g.between(min, max)
	var sb strings.Builder
	sb.WriteString(g.Word())
	for i := 1; i < count; i++ {
		if g.between(0, 100) < 95 {
			punct := g.Punctuation(font)
			sb.WriteString(punct)
			w := g.Word()
			if punct == ". " || punct == "? " || punct == "! " {
				w = g.title.String(w)
			}
			sb.WriteString(w)
			continue
		}
		if g.between(0, 2) == 0 {
			sb.WriteString(" " + g.Email())
		} else {
			sb.WriteString(" " + g.WebAddress())
		}
	}
	return strings.TrimSpace(sb.String())
}

// punctuation 的权重按累计阈值排列，最后一项是普通空格。
var punctuation = []struct {
	below int
	text  string
}{
	{20, ". "}, {30, ", "}, {35, "? "}, {40, "-"},
	{45, "\" "}, {50, " \""}, {55, "' "}, {60, " '"},
	{65, "! "}, {70, " – "}, {80, " ‘"}, {85, "’ "},
	{90, " “"}, {95, "” "}, {96, "© "}, {97, "® "},
	{98, "§ "}, {99, " «"}, {100, "» "}, {101, " | "},
}

// Punctuation returns a separator the font can render, falling back to a
// plain space after a few misses.
func (g *Generator) Punctuation(font content.Font) string {
	for i := 0; i < maxPunctuationRetries; i++ {
		p := g.between(0, 110)
		text := " "
		for _, entry := range punctuation {
			if p < entry.below {
				text = entry.text
				break
			}
		}
		if g.covered(text, font) {
			return text
		}
	}
	return " "
}

// Code 生成 1–14 个字符的字母数字编码，夹杂符号与空格。
func (g *Generator) Code() string {
	n := g.between(1, 15)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		switch p := g.between(0, 100); {
		case p < 15:
			sb.WriteByte(g.pick(codeSymbol))
		case p < 40:
			sb.WriteByte(byte('0' + g.rng.IntN(10)))
		default:
			sb.WriteByte(g.pick(codeLetter))
		}
	}
	return sb.String()
}

// Number returns small integers, integers, decimals or grouped amounts,
// the last two sometimes as dollars.
func (g *Generator) Number() string {
	dollar := func(s string) string {
		if g.between(0, 100) < 20 {
			return "$" + s
		}
		return s
	}
	switch p := g.between(0, 100); {
	case p < 25:
		return fmt.Sprint(g.rng.IntN(20))
	case p < 60:
		return fmt.Sprint(g.rng.IntN(1000))
	case p < 85:
		return dollar(fmt.Sprintf("%.2f", float64(g.rng.IntN(100000))/100))
	default:
		return dollar(g.printer.Sprintf("%.2f", float64(g.rng.IntN(10000000))/100))
	}
}

// Quantity returns an integer in [0, 14], used by quantity table columns.
func (g *Generator) Quantity() string {
	return fmt.Sprint(g.rng.IntN(15))
}

var (
	dateStart = time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC)
	dateEnd   = time.Date(2035, time.December, 31, 0, 0, 0, 0, time.UTC)
)

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"2-1-2006",
	"02-01-06",
	"2-1-06",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02.01.2006",
	"02.01.06",
	"Monday, 02 January 2006",
	"Monday, 02 Jan 2006",
	"Mon, 02 January 2006",
	"02 January 2006",
	"02 Jan 2006",
}

// DateLayout picks one of the supported Go time layouts.
func (g *Generator) DateLayout() string {
	return dateLayouts[g.rng.IntN(len(dateLayouts))]
}

// Date formats a random day between 1995 and 2035 with layout; an empty
// layout picks one at random.
func (g *Generator) Date(layout string) string {
	if layout == "" {
		layout = g.DateLayout()
	}
	days := int(dateEnd.Sub(dateStart).Hours() / 24)
	return dateStart.AddDate(0, 0, g.rng.IntN(days)).Format(layout)
}

// Email 形如 first.last@domain.tld，全部小写。
func (g *Generator) Email() string {
	clean := strings.NewReplacer(".", "", "'", "")
	addr := clean.Replace(g.Word()) + "." + clean.Replace(g.Word()) +
		"@" + clean.Replace(g.Word()) + "." + g.TLD()
	return g.lower.String(addr)
}

// WebAddress 形如 www.wordword.tld，半数带协议前缀。
func (g *Generator) WebAddress() string {
	addr := "www." + g.Word() + g.Word() + "." + g.TLD()
	if g.between(0, 2) == 0 {
		if g.between(0, 2) == 0 {
			addr = "https://" + addr
		} else {
			addr = "http://" + addr
		}
	}
	return g.lower.String(addr)
}

var tlds = []string{
	"com", "net", "org", "edu", "gov", "com.au", "co.uk", "com.nz", "com.de",
	"com.nl", "com.ru", "com.jp", "com.fr", "com.ca", "io", "com", "horse",
	"ninja", "cloud", "coffee", "dev", "guru", "info", "lol", "science",
	"space", "sucks", "tech", "website", "wiki", "wtf",
}

// TLD picks a top-level domain.
func (g *Generator) TLD() string { return tlds[g.rng.IntN(len(tlds))] }

// Style 给出字体样式：粗斜体 2%，粗体 5%，斜体 3%。
func (g *Generator) Style() content.Style {
	switch p := g.between(0, 100); {
	case p < 2:
		return content.StyleBold | content.StyleItalic
	case p < 7:
		return content.StyleBold
	case p < 10:
		return content.StyleItalic
	default:
		return content.StyleRegular
	}
}

// Font picks a family from the backend and a random style at size pixels.
func (g *Generator) Font(size float64) content.Font {
	family := ""
	if g.glyphs != nil {
		if families := g.glyphs.Families(); len(families) > 0 {
			family = families[g.rng.IntN(len(families))]
		}
	}
	return content.Font{Family: family, Style: g.Style(), Size: size}
}
