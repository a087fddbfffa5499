// Package memo provides a small generic LRU map.
//
// The compiler memo keys compiled programs by their source text:
//
//	m := memo.New[string, *compiler.Result](64)
//	m.Set(source, res)
//	res, ok := m.Get(source)
//
// When a Set exceeds the capacity, the least recently used entry is
// dropped. Memo is safe for concurrent use and must not be copied after
// creation.
package memo
