package trie

// Match collects the values of every key starting with prefix. A positive
// limit caps the number of results, the walk stops as soon as it is reached.
func (t *Trie) Match(prefix string, limit int) []interface{} {
	if t == nil {
		panic("trie is nil")
	}
	results := make([]interface{}, 0)
	t.walkPrefix(prefix, func(n *node) bool {
		results = append(results, n.val)
		return limit <= 0 || len(results) < limit
	})
	return results
}

// MatchKeys collects the keys starting with prefix, same order and limit
// behavior as Match
func (t *Trie) MatchKeys(prefix string, limit int) []string {
	if t == nil {
		panic("trie is nil")
	}
	keys := make([]string, 0)
	t.walkPrefix(prefix, func(n *node) bool {
		keys = append(keys, n.key)
		return limit <= 0 || len(keys) < limit
	})
	return keys
}

/*
walkPrefix 先沿 prefix 定位子树入口，再对子树做深度优先遍历。
用显式栈代替递归，遍历深度只受内存限制，不会打爆调用栈。

遍历顺序是确定的：总是先下沉到最早插入的子节点，其余兄弟压栈，
出栈是后进先出，所以兄弟之间按插入顺序的倒序被访问。
*/
func (t *Trie) walkPrefix(prefix string, visit func(*node) bool) {
	if prefix == "" {
		return
	}
	n := t.root
	for i := 0; i < len(prefix); i++ {
		child, ok := n.children[prefix[i]]
		if !ok {
			return
		}
		n = child
	}
	var pending []*node
	for {
		if n.terminal() {
			if !visit(n) {
				return
			}
		}
		switch len(n.childSeq) {
		case 0:
			if len(pending) == 0 {
				return
			}
			n = pending[len(pending)-1]
			pending = pending[:len(pending)-1]
		case 1:
			n = n.children[n.childSeq[0]]
		default:
			for _, c := range n.childSeq[1:] {
				pending = append(pending, n.children[c])
			}
			n = n.children[n.childSeq[0]]
		}
	}
}
