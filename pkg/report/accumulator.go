package report

import (
	"sort"
	"sync"

	"github.com/moyu-x/sensitive-file/internal"
)

// Accumulator 收集一次运行中的全部记录，可并发写入
type Accumulator struct {
	mu      sync.Mutex
	records []internal.FileRecord
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Record 追加一条记录
func (a *Accumulator) Record(rec internal.FileRecord) {
	a.mu.Lock()
	a.records = append(a.records, rec)
	a.mu.Unlock()
}

// Len 当前记录数
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Drain 按发现顺序返回全部记录并清空
func (a *Accumulator) Drain() []internal.FileRecord {
	a.mu.Lock()
	out := a.records
	a.records = nil
	a.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Seq < out[j].Seq
	})
	return out
}
