package extractor

import "errors"

// Kind 提取结果类型
type Kind int

const (
	KindText Kind = iota
	KindUnsupported
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindUnsupported:
		return "unsupported"
	default:
		return "failed"
	}
}

// Result 文件提取结果，只能通过 Text / Unsupported / Failed 构造
// Text 只在 KindText 时有值，Err 只在 KindFailed 时有值
type Result struct {
	Kind Kind
	Text string
	Err  error
	// Hash 读取到的文件内容的 xxhash，未读取时为空
	Hash string
}

func Text(content string) Result {
	return Result{Kind: KindText, Text: content}
}

func Unsupported() Result {
	return Result{Kind: KindUnsupported}
}

func Failed(cause error) Result {
	if cause == nil {
		cause = errors.New("unknown extraction failure")
	}
	return Result{Kind: KindFailed, Err: cause}
}

// OK 是否成功提取到文本（可能为空字符串）
func (r Result) OK() bool {
	return r.Kind == KindText
}

func (r Result) withHash(hash string) Result {
	r.Hash = hash
	return r
}
