package compiler

import "github.com/gogpu/ffp/internal/memo"

// DefaultMemoCapacity is the number of programs a Memo keeps.
const DefaultMemoCapacity = 64

// Memo remembers the results of another service by source text. Failed
// compilations are not remembered.
type Memo struct {
	next    Service
	results *memo.Memo[string, *Result]
}

// NewMemo wraps next. A capacity below 1 selects DefaultMemoCapacity.
func NewMemo(next Service, capacity int) *Memo {
	if capacity < 1 {
		capacity = DefaultMemoCapacity
	}
	return &Memo{next: next, results: memo.New[string, *Result](capacity)}
}

// Compile returns a copy of the remembered result for source, compiling
// it on first use. The copy owns its code and bank.
func (m *Memo) Compile(source string) (*Result, error) {
	if r, ok := m.results.Get(source); ok {
		return r.clone(), nil
	}
	r, err := m.next.Compile(source)
	if err != nil {
		return nil, err
	}
	m.results.Set(source, r.clone())
	return r, nil
}

// Counters returns the number of remembered and recompiled sources.
func (m *Memo) Counters() (hits, misses uint64) { return m.results.Counters() }

func (r *Result) clone() *Result {
	c := *r
	c.Code = append([]byte(nil), r.Code...)
	if r.Bank != nil {
		c.Bank = r.Bank.Clone()
	}
	return &c
}
