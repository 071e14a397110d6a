package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

// OfficeFormat OOXML 文档类型
type OfficeFormat int

const (
	Word OfficeFormat = iota
	Spreadsheet
	Presentation
)

const wordDocumentPart = "word/document.xml"

// OfficeExtractor 针对 OOXML (docx, xlsx, pptx)，按文档顺序拼接段落文本
type OfficeExtractor struct {
	format OfficeFormat
}

func NewOfficeExtractor(format OfficeFormat) *OfficeExtractor {
	return &OfficeExtractor{format: format}
}

func (e *OfficeExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("打开 Office 压缩包: %w", err)
	}

	parts := e.selectParts(zipReader.File)
	if e.format == Word && (len(parts) == 0 || parts[0].Name != wordDocumentPart) {
		return "", errors.New("缺少 " + wordDocumentPart)
	}

	var paragraphs []string
	for _, f := range parts {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("打开 %s: %w", f.Name, err)
		}
		p, err := xmlParagraphs(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("解析 %s: %w", f.Name, err)
		}
		paragraphs = append(paragraphs, p...)
	}

	return strings.Join(paragraphs, "\n"), nil
}

// selectParts 选出包含正文的 XML 部件，顺序即输出顺序
func (e *OfficeExtractor) selectParts(files []*zip.File) []*zip.File {
	var (
		main    *zip.File
		extra   []*zip.File
		ordered []*zip.File
	)

	for _, f := range files {
		name := f.Name
		switch e.format {
		case Word:
			if name == wordDocumentPart {
				main = f
			} else if strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer") {
				extra = append(extra, f)
			}
		case Spreadsheet:
			if name == "xl/sharedStrings.xml" {
				main = f
			}
		case Presentation:
			if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
				extra = append(extra, f)
			}
		}
	}

	sort.Slice(extra, func(i, j int) bool {
		ni, nj := partNumber(extra[i].Name), partNumber(extra[j].Name)
		if ni != nj {
			return ni < nj
		}
		return extra[i].Name < extra[j].Name
	})

	if main != nil {
		ordered = append(ordered, main)
	}
	return append(ordered, extra...)
}

// partNumber 从 "ppt/slides/slide12.xml" 这类名称中取出序号
func partNumber(name string) int {
	base := strings.TrimSuffix(path.Base(name), ".xml")
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(base[i:])
	if err != nil {
		return 0
	}
	return n
}

// xmlParagraphs 收集 <t> 元素中的文本，在段落 (<p>) 或共享字符串 (<si>) 结束时断行
func xmlParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		inTabs     bool
		dirty      bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tabs":
				// 段落属性中的制表位定义
				inTabs = true
			case "tab":
				if !inTabs {
					current.WriteByte('\t')
				}
			case "br":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tabs":
				inTabs = false
			case "p", "si":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
				dirty = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
				dirty = true
			}
		}
	}

	if dirty {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs, nil
}
