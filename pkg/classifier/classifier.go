package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/detector"
	"github.com/moyu-x/sensitive-file/pkg/extractor"
)

// Classifier 根据提取结果和检测结果给出分类
type Classifier struct {
	minContentLength int
}

func NewClassifier() *Classifier {
	return &Classifier{minContentLength: internal.DefaultMinContentLength}
}

// NewClassifierWithMinContentLength 文本去除首尾空白后少于 n 个字符视为无法处理
func NewClassifierWithMinContentLength(n int) *Classifier {
	if n < 0 {
		n = 0
	}
	return &Classifier{minContentLength: n}
}

func (c *Classifier) MinContentLength() int {
	return c.minContentLength
}

// HasContent 提取成功且内容长度达到阈值，空文本始终视为没有内容
func (c *Classifier) HasContent(result extractor.Result) bool {
	if !result.OK() {
		return false
	}
	n := utf8.RuneCountInString(strings.TrimSpace(result.Text))
	return n > 0 && n >= c.minContentLength
}

// Classify 按顺序判断，先命中者生效:
// 无法提取或内容不足 -> Unprocessable；有检测结果 -> Sensitive；否则 Clean
func (c *Classifier) Classify(result extractor.Result, findings detector.Findings) internal.Classification {
	if !c.HasContent(result) {
		return internal.Unprocessable
	}
	if !findings.Empty() {
		return internal.Sensitive
	}
	return internal.Clean
}
