package memo

// lruNode is a node in a doubly-linked LRU list. It stores the key for
// O(1) deletion from the parent map.
type lruNode[K comparable] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

// lruList orders keys by use. The head is the most recently used, the
// tail the least recently used.
type lruList[K comparable] struct {
	head *lruNode[K]
	tail *lruNode[K]
	len  int
}

// pushFront adds key as the most recently used node.
func (l *lruList[K]) pushFront(key K) *lruNode[K] {
	node := &lruNode[K]{key: key}
	l.link(node)
	return node
}

// moveToFront marks node as the most recently used.
func (l *lruList[K]) moveToFront(node *lruNode[K]) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.link(node)
}

// removeOldest unlinks the least recently used node and returns its key.
func (l *lruList[K]) removeOldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

func (l *lruList[K]) clear() {
	l.head, l.tail, l.len = nil, nil, 0
}

func (l *lruList[K]) link(node *lruNode[K]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList[K]) unlink(node *lruNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
