// Package detector 按规则集检测文本中的敏感信息。
package detector

import (
	"fmt"
	"regexp"
)

type compiledRule struct {
	name string
	re   *regexp.Regexp
}

// Detector 规则互不排斥，同一文本可命中多条规则，每条规则可有多个匹配
type Detector struct {
	rules []compiledRule
}

// New 编译规则集，规则名重复或正则无效时返回错误
func New(rules []Rule) (*Detector, error) {
	d := &Detector{}
	seen := make(map[string]bool, len(rules))

	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("规则名称不能为空 (pattern %q)", r.Pattern)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("规则名称重复: %s", r.Name)
		}
		seen[r.Name] = true

		pattern := r.Pattern
		if r.IgnoreCase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("编译规则 %s: %w", r.Name, err)
		}
		d.rules = append(d.rules, compiledRule{name: r.Name, re: re})
	}

	return d, nil
}

// Default 使用默认规则集
func Default() *Detector {
	d, err := New(DefaultRules())
	if err != nil {
		panic(err)
	}
	return d
}

// RuleNames 返回规则名称，按规则集顺序
func (d *Detector) RuleNames() []string {
	names := make([]string, len(d.rules))
	for i, r := range d.rules {
		names[i] = r.name
	}
	return names
}

// Detect 收集每条规则的全部非重叠匹配，按出现顺序
func (d *Detector) Detect(text string) Findings {
	f := Findings{matches: make(map[string][]string)}
	for _, r := range d.rules {
		found := r.re.FindAllString(text, -1)
		if len(found) == 0 {
			continue
		}
		f.order = append(f.order, r.name)
		f.matches[r.name] = found
	}
	return f
}

// Findings 规则名到匹配内容的映射，只包含至少有一个匹配的规则
type Findings struct {
	order   []string
	matches map[string][]string
}

// Empty 没有任何规则命中
func (f Findings) Empty() bool {
	return len(f.order) == 0
}

// Rules 命中的规则名称，按规则集顺序
func (f Findings) Rules() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Matches 某条规则的匹配内容
func (f Findings) Matches(rule string) []string {
	return f.matches[rule]
}

// Has 规则是否命中
func (f Findings) Has(rule string) bool {
	_, ok := f.matches[rule]
	return ok
}

// Map 以普通 map 形式返回
func (f Findings) Map() map[string][]string {
	out := make(map[string][]string, len(f.matches))
	for k, v := range f.matches {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Count 匹配总数
func (f Findings) Count() int {
	n := 0
	for _, v := range f.matches {
		n += len(v)
	}
	return n
}
