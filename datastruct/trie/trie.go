// Package trie implements a character-level trie kept in sync with a flat
// key index, so exact lookups cost one map access while prefix queries walk
// the tree. It is not thread safe, callers are expected to serialize access.
package trie

import "sort"

// Consumer traverses stored entries, return false to break the traversal
type Consumer func(key string, val interface{}) bool

/*
每个节点代表 key 里的一个字符，从根走到某个节点就拼出一段前缀。
节点本身不存自己的字符，字符在父节点的 children 键上。
key 非空表示这里是一个完整 key 的终点，val 是对应的负载。
*/
type node struct {
	children map[byte]*node
	// childSeq 记录子节点的插入先后，map 遍历是乱序的，遍历顺序要靠它
	childSeq []byte
	key      string
	val      interface{}
	// at 是插入序号，终端节点按它排序就得到插入顺序
	at uint64
}

func makeNode() *node {
	return &node{
		children: make(map[byte]*node),
	}
}

func (n *node) terminal() bool {
	return n.key != ""
}

func (n *node) addChild(c byte, child *node) {
	n.children[c] = child
	n.childSeq = append(n.childSeq, c)
}

func (n *node) removeChild(c byte) {
	delete(n.children, c)
	for i, b := range n.childSeq {
		if b == c {
			n.childSeq = append(n.childSeq[:i], n.childSeq[i+1:]...)
			break
		}
	}
}

// Trie is the tree plus an index of every stored key, both views always
// describe the same set of entries
type Trie struct {
	root  *node
	index map[string]*node
	stamp uint64
	nodes int
}

// Make creates an empty Trie
func Make() *Trie {
	return &Trie{
		root:  makeNode(),
		index: make(map[string]*node),
	}
}

// Get returns the value bound to the exact key without touching the tree
func (t *Trie) Get(key string) (interface{}, bool) {
	if t == nil {
		panic("trie is nil")
	}
	n, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return n.val, true
}

// Len returns the number of stored keys
func (t *Trie) Len() int {
	if t == nil {
		panic("trie is nil")
	}
	return len(t.index)
}

// Nodes returns the number of tree nodes, the root does not count
func (t *Trie) Nodes() int {
	return t.nodes
}

// Put binds value to key, the value is stored as given and shared with the
// caller. Returns the number of new inserted keys, an empty key is ignored.
func (t *Trie) Put(key string, val interface{}) int {
	if t == nil {
		panic("trie is nil")
	}
	if key == "" {
		return 0
	}
	n := t.root
	for i := 0; i < len(key); i++ {
		c := key[i]
		child, ok := n.children[c]
		if !ok {
			child = makeNode()
			n.addChild(c, child)
			t.nodes++
		}
		n = child
	}
	result := 0
	if !n.terminal() {
		// 新 key 才领插入序号，覆盖旧值不改变它原来的位置
		t.stamp++
		n.at = t.stamp
		result = 1
	}
	n.key = key
	n.val = val
	t.index[key] = n
	return result
}

// PutIfAbsent binds value to key only if the key is not stored yet
func (t *Trie) PutIfAbsent(key string, val interface{}) int {
	if _, ok := t.index[key]; ok {
		return 0
	}
	return t.Put(key, val)
}

// PutIfExists overwrites the value only if the key is already stored
func (t *Trie) PutIfExists(key string, val interface{}) int {
	n, ok := t.index[key]
	if !ok {
		return 0
	}
	n.val = val
	return 1
}

// Remove unbinds the key and prunes tree branches nothing else passes
// through. Returns the number of removed keys.
func (t *Trie) Remove(key string) int {
	if t == nil {
		panic("trie is nil")
	}
	end, ok := t.index[key]
	if !ok {
		return 0
	}
	delete(t.index, key)
	if len(end.children) > 0 {
		// 还有别的 key 途经这个节点，只摘掉终端标记
		end.key = ""
		end.val = nil
		end.at = 0
		return 1
	}
	/*
		末端没有子节点，整条尾巴都要剪掉。
		从根重走一遍，记住最后一个锚点：终端节点或者有至少两个子节点的节点。
		锚点之后的链路只为这个 key 服务，从锚点上摘掉入口字符即可整段释放。
	*/
	var anchor *node
	var anchorEdge byte
	anchorDepth := 0
	n := t.root
	for i := 0; i < len(key); i++ {
		c := key[i]
		if n.terminal() || len(n.children) >= 2 {
			anchor = n
			anchorEdge = c
			anchorDepth = i
		}
		n = n.children[c]
	}
	if anchor == nil {
		// 连根节点都不够格当锚点，说明整棵树只剩这一个 key
		t.reset()
		return 1
	}
	anchor.removeChild(anchorEdge)
	t.nodes -= len(key) - anchorDepth
	return 1
}

// Clear drops every entry and node at once
func (t *Trie) Clear() {
	if t == nil {
		panic("trie is nil")
	}
	t.reset()
}

func (t *Trie) reset() {
	t.root = makeNode()
	t.index = make(map[string]*node)
	t.stamp = 0
	t.nodes = 0
}

// ordered returns all terminal nodes in insertion order
func (t *Trie) ordered() []*node {
	ns := make([]*node, 0, len(t.index))
	for _, n := range t.index {
		ns = append(ns, n)
	}
	sort.Slice(ns, func(i, j int) bool {
		return ns[i].at < ns[j].at
	})
	return ns
}

// ForEach visits all entries in insertion order
func (t *Trie) ForEach(consumer Consumer) {
	if t == nil {
		panic("trie is nil")
	}
	for _, n := range t.ordered() {
		if !consumer(n.key, n.val) {
			break
		}
	}
}

// Keys returns all stored keys in insertion order
func (t *Trie) Keys() []string {
	keys := make([]string, 0, len(t.index))
	for _, n := range t.ordered() {
		keys = append(keys, n.key)
	}
	return keys
}

// Values returns all stored values in insertion order
func (t *Trie) Values() []interface{} {
	vals := make([]interface{}, 0, len(t.index))
	for _, n := range t.ordered() {
		vals = append(vals, n.val)
	}
	return vals
}

// ToMap dumps all entries into a plain map
func (t *Trie) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(t.index))
	for k, n := range t.index {
		m[k] = n.val
	}
	return m
}
