package profile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/ocrsynth/dsl"
)

// Load reads a profile file. Files ending in .yaml or .yml are YAML;
// everything else is parsed as profile DSL.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	}
	return LoadDSL(path, f)
}

// LoadYAML decodes a YAML profile on top of the defaults.
func LoadYAML(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("解析 YAML 配置失败: %w", err)
	}
	return decode(tree)
}

// LoadDSL parses a DSL profile on top of the defaults. filename is only
// used in error messages.
func LoadDSL(filename string, r io.Reader) (*Config, error) {
	doc, err := dsl.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("解析配置 DSL 失败: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument converts a parsed profile into a Config.
func FromDocument(doc *dsl.Document) (*Config, error) {
	tree, err := blockTree(doc.Body, "")
	if err != nil {
		return nil, err
	}
	tree["name"] = doc.Name
	tree["version"] = doc.Version
	return decode(tree)
}

// decode 检查键名后借助 YAML 编解码把树映射到 Config，未出现的键保留默认值。
func decode(tree map[string]any) (*Config, error) {
	if err := checkTree(tree, ""); err != nil {
		return nil, err
	}
	cfg := Default()
	if len(tree) == 0 {
		return cfg, nil
	}
	// layouts 整体替换默认权重，而不是与之合并
	if _, ok := tree["layouts"]; ok {
		cfg.Layouts = nil
	}
	var buf bytes.Buffer
	if err := yaml.NewEncoder(&buf).Encode(tree); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(buf.Bytes(), cfg); err != nil {
		return nil, fmt.Errorf("配置值类型错误: %w", err)
	}
	return cfg, nil
}

// blockTree turns a DSL block into a nested map. section is the dotted
// path of the block and selects the key table used for checking.
func blockTree(b *dsl.Block, section string) (map[string]any, error) {
	tree := make(map[string]any)
	if b == nil {
		return tree, nil
	}
	for _, st := range b.Statements {
		switch {
		case st.Assignment != nil:
			a := st.Assignment
			if !contains(sections[section], a.Key) {
				return nil, unknownKey(section, a.Key, a.Pos.String())
			}
			v, err := valueOf(a.Value, join(section, a.Key))
			if err != nil {
				return nil, err
			}
			tree[a.Key] = v
		case st.Command != nil:
			cmd := st.Command
			if !contains(sections[section], cmd.Name) {
				return nil, unknownKey(section, cmd.Name, cmd.Pos.String())
			}
			v, err := commandValue(cmd, join(section, cmd.Name))
			if err != nil {
				return nil, err
			}
			tree[cmd.Name] = v
		case st.Text != nil:
			return nil, fmt.Errorf("%s: 意外的字符串 %q", section, string(*st.Text))
		}
	}
	return tree, nil
}

// commandValue 处理三种命令形式：带块的分节、列表块（如 fonts）以及按位置传参。
func commandValue(cmd *dsl.Command, path string) (any, error) {
	if cmd.Block != nil {
		if texts, ok := textList(cmd.Block); ok {
			return texts, nil
		}
		return blockTree(cmd.Block, path)
	}
	if keys, ok := positional[path]; ok {
		if len(cmd.Args) > len(keys) {
			return nil, fmt.Errorf("%s: %s 最多接受 %d 个参数", cmd.Pos, path, len(keys))
		}
		tree := make(map[string]any)
		for i, arg := range cmd.Args {
			tree[keys[i]] = scalar(arg.Text(), !arg.Quoted())
		}
		return tree, nil
	}
	switch len(cmd.Args) {
	case 0:
		return true, nil
	case 1:
		return scalar(cmd.Args[0].Text(), !cmd.Args[0].Quoted()), nil
	}
	return cmd.ArgString(), nil
}

func textList(b *dsl.Block) ([]any, bool) {
	if len(b.Statements) == 0 {
		return nil, false
	}
	out := make([]any, 0, len(b.Statements))
	for _, st := range b.Statements {
		if st.Text == nil {
			return nil, false
		}
		out = append(out, string(*st.Text))
	}
	return out, true
}

func valueOf(v *dsl.Value, path string) (any, error) {
	switch {
	case v.Scalar != nil:
		return scalar(v.Scalar.Text(), !v.Scalar.Quoted()), nil
	case v.List != nil:
		out := make([]any, 0, len(v.List.Items))
		for _, item := range v.List.Items {
			x, err := valueOf(item, path)
			if err != nil {
				return nil, err
			}
			out = append(out, x)
		}
		return out, nil
	case v.Object != nil:
		tree := make(map[string]any)
		for _, e := range v.Object.Entries {
			if _, nested := sections[path]; nested && !contains(sections[path], e.Key) {
				return nil, unknownKey(path, e.Key, e.Pos.String())
			}
			x, err := valueOf(e.Value, join(path, e.Key))
			if err != nil {
				return nil, err
			}
			tree[e.Key] = x
		}
		return tree, nil
	}
	return nil, fmt.Errorf("%s: 空值", path)
}

// scalar 把裸值转换为 bool、int 或 float；带单位的数字保持字符串。
func scalar(s string, bare bool) any {
	if !bare {
		return s
	}
	switch s {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
