package profile

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// sections lists the keys each section accepts; "" is the top level.
var sections = map[string][]string{
	"":                  {"name", "version", "canvas", "layouts", "probability", "fonts", "textures", "output", "debug"},
	"canvas":            {"width", "height", "dpi"},
	"layouts":           {"scattered", "paragraph", "table"},
	"probability":       {"noise", "blur", "pixelate", "invert", "texture", "lines"},
	"output":            {"dir", "name", "format", "data", "labels", "heatmap", "boxes", "pdf", "characters"},
	"output.characters": {"dir", "framing", "size", "max"},
}

// positional 给出命令形式（如 `canvas 800 600`）的参数依次对应的键。
var positional = map[string][]string{
	"canvas": {"width", "height", "dpi"},
}

func join(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

// Suggest returns the known key closest to key: first a fuzzy
// subsequence match, then the nearest key within edit distance 2.
func Suggest(key string, known []string) string {
	if ranks := fuzzy.RankFindNormalizedFold(key, known); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", 3
	for _, k := range known {
		if d := fuzzy.LevenshteinDistance(key, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func unknownKey(section, key, where string) error {
	prefix := ""
	if where != "" {
		prefix = where + ": "
	}
	if s := Suggest(key, sections[section]); s != "" {
		return fmt.Errorf("%s%w: %s (did you mean %q?)", prefix, ErrUnknownKey, join(section, key), join(section, s))
	}
	return fmt.Errorf("%s%w: %s", prefix, ErrUnknownKey, join(section, key))
}

// checkTree walks a decoded profile tree and rejects unknown keys.
func checkTree(tree map[string]any, section string) error {
	known := sections[section]
	keys := make([]string, 0, len(tree))
	for key := range tree {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		val := tree[key]
		if !contains(known, key) {
			return unknownKey(section, key, "")
		}
		path := join(section, key)
		if sub, ok := val.(map[string]any); ok {
			if _, nested := sections[path]; nested {
				if err := checkTree(sub, path); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
