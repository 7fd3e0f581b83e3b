package trie

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPutGet(t *testing.T) {
	tr := Make()
	if _, ok := tr.Get("missing"); ok {
		t.Error("empty trie should not contain any key")
	}
	n := tr.Put("key", 1)
	if n != 1 {
		t.Errorf("expect 1 inserted, got %d", n)
	}
	val, ok := tr.Get("key")
	if !ok || val != 1 {
		t.Errorf("expect 1, got %v", val)
	}
	if tr.Len() != 1 {
		t.Errorf("expect len 1, got %d", tr.Len())
	}
	if tr.Nodes() != 3 {
		t.Errorf("expect 3 nodes, got %d", tr.Nodes())
	}
}

func TestPutOverwrite(t *testing.T) {
	tr := Make()
	tr.Put("key", 1)
	nodes := tr.Nodes()
	n := tr.Put("key", 2)
	if n != 0 {
		t.Errorf("overwrite should insert nothing, got %d", n)
	}
	val, _ := tr.Get("key")
	if val != 2 {
		t.Errorf("expect 2, got %v", val)
	}
	if tr.Len() != 1 || tr.Nodes() != nodes {
		t.Error("overwrite must not change tree shape")
	}
}

func TestPutEmptyKey(t *testing.T) {
	tr := Make()
	if n := tr.Put("", 1); n != 0 {
		t.Error("empty key should be ignored")
	}
	if tr.Len() != 0 || tr.Nodes() != 0 {
		t.Error("empty key must not create nodes")
	}
	if _, ok := tr.Get(""); ok {
		t.Error("empty key should never be stored")
	}
}

func TestPutSharedPrefix(t *testing.T) {
	tr := Make()
	tr.Put("team", 1)
	tr.Put("tea", 2)
	tr.Put("ten", 3)
	// team: 4 nodes, tea reuses them all, ten adds one
	if tr.Nodes() != 5 {
		t.Errorf("expect 5 nodes, got %d", tr.Nodes())
	}
	if tr.Len() != 3 {
		t.Errorf("expect 3 keys, got %d", tr.Len())
	}
	for key, expect := range map[string]int{"team": 1, "tea": 2, "ten": 3} {
		val, ok := tr.Get(key)
		if !ok || val != expect {
			t.Errorf("key %s: expect %d, got %v", key, expect, val)
		}
	}
	if _, ok := tr.Get("te"); ok {
		t.Error("pure prefix must not resolve as a key")
	}
}

func TestPutIfAbsent(t *testing.T) {
	tr := Make()
	if n := tr.PutIfAbsent("key", 1); n != 1 {
		t.Error("first put should insert")
	}
	if n := tr.PutIfAbsent("key", 2); n != 0 {
		t.Error("second put should be rejected")
	}
	val, _ := tr.Get("key")
	if val != 1 {
		t.Errorf("expect 1, got %v", val)
	}
}

func TestPutIfExists(t *testing.T) {
	tr := Make()
	if n := tr.PutIfExists("key", 1); n != 0 {
		t.Error("put on missing key should be rejected")
	}
	tr.Put("key", 1)
	if n := tr.PutIfExists("key", 2); n != 1 {
		t.Error("put on stored key should succeed")
	}
	val, _ := tr.Get("key")
	if val != 2 {
		t.Errorf("expect 2, got %v", val)
	}
}

// 删的 key 是别人的前缀时只能摘终端标记，节点要留给途经的 key
func TestRemoveKeepsSharedNode(t *testing.T) {
	tr := Make()
	tr.Put("tea", 1)
	tr.Put("team", 2)
	nodes := tr.Nodes()
	if n := tr.Remove("tea"); n != 1 {
		t.Error("remove stored key should report 1")
	}
	if _, ok := tr.Get("tea"); ok {
		t.Error("removed key should be gone")
	}
	if val, ok := tr.Get("team"); !ok || val != 2 {
		t.Error("longer key must survive")
	}
	if tr.Nodes() != nodes {
		t.Error("no node may be pruned while the path is shared")
	}
	if got := tr.MatchKeys("tea", 0); !cmp.Equal(got, []string{"team"}) {
		t.Errorf("unexpected keys after remove: %v", got)
	}
}

// 删叶子 key 要把只属于它的尾巴整段剪掉，剪到最近的分叉或终端为止
func TestRemovePrunesPrivateChain(t *testing.T) {
	tr := Make()
	tr.Put("te", 1)
	tr.Put("team", 2)
	if tr.Nodes() != 4 {
		t.Fatalf("expect 4 nodes, got %d", tr.Nodes())
	}
	if n := tr.Remove("team"); n != 1 {
		t.Error("remove stored key should report 1")
	}
	// a 和 m 被剪掉，t、e 仍然承载 te
	if tr.Nodes() != 2 {
		t.Errorf("expect 2 nodes after prune, got %d", tr.Nodes())
	}
	if val, ok := tr.Get("te"); !ok || val != 1 {
		t.Error("shorter key must survive")
	}
	if got := tr.Match("te", 0); !cmp.Equal(got, []interface{}{1}) {
		t.Errorf("unexpected values after prune: %v", got)
	}
}

func TestRemovePrunesAtFork(t *testing.T) {
	tr := Make()
	tr.Put("ab", 1)
	tr.Put("ax", 2)
	if n := tr.Remove("ax"); n != 1 {
		t.Error("remove stored key should report 1")
	}
	// 只有 x 被剪掉，a 还是 ab 的途经节点
	if tr.Nodes() != 2 {
		t.Errorf("expect 2 nodes, got %d", tr.Nodes())
	}
	if val, ok := tr.Get("ab"); !ok || val != 1 {
		t.Error("sibling key must survive")
	}
}

func TestRemoveLastKeyResets(t *testing.T) {
	tr := Make()
	tr.Put("alone", 1)
	if n := tr.Remove("alone"); n != 1 {
		t.Error("remove stored key should report 1")
	}
	if tr.Len() != 0 || tr.Nodes() != 0 {
		t.Errorf("store should be empty, len=%d nodes=%d", tr.Len(), tr.Nodes())
	}
	// 清空之后还能正常使用
	tr.Put("alone", 2)
	if val, ok := tr.Get("alone"); !ok || val != 2 {
		t.Error("trie should be usable after resetting")
	}
}

func TestRemoveMissing(t *testing.T) {
	tr := Make()
	tr.Put("key", 1)
	if n := tr.Remove("other"); n != 0 {
		t.Error("removing a missing key should report 0")
	}
	if n := tr.Remove(""); n != 0 {
		t.Error("removing the empty key should report 0")
	}
	tr.Remove("key")
	if n := tr.Remove("key"); n != 0 {
		t.Error("second remove should report 0")
	}
}

func TestClear(t *testing.T) {
	tr := Make()
	for i := 0; i < 10; i++ {
		tr.Put("key"+strconv.Itoa(i), i)
	}
	tr.Clear()
	if tr.Len() != 0 || tr.Nodes() != 0 {
		t.Error("clear should drop everything")
	}
	if vals := tr.Match("key", 0); len(vals) != 0 {
		t.Error("no value may survive a clear")
	}
	tr.Put("key1", 1)
	if tr.Len() != 1 {
		t.Error("trie should be usable after clear")
	}
}

// 不论怎么交错增删，索引和树形遍历看到的 key 集合必须一致
func TestIndexTreeAgreement(t *testing.T) {
	tr := Make()
	keys := []string{"a", "ab", "abc", "abd", "b", "ba", "bad", "badge"}
	for i, key := range keys {
		tr.Put(key, i)
	}
	tr.Remove("ab")
	tr.Remove("badge")
	tr.Remove("b")
	tr.Put("ab", 100)

	expect := map[string]bool{"a": true, "ab": true, "abc": true, "abd": true, "ba": true, "bad": true}
	if tr.Len() != len(expect) {
		t.Fatalf("expect %d keys, got %d", len(expect), tr.Len())
	}
	seen := make(map[string]bool)
	for _, prefix := range []string{"a", "b"} {
		for _, key := range tr.MatchKeys(prefix, 0) {
			seen[key] = true
			if _, ok := tr.Get(key); !ok {
				t.Errorf("tree yields %s but index misses it", key)
			}
		}
	}
	if diff := cmp.Diff(expect, seen); diff != "" {
		t.Errorf("tree and index disagree: %s", diff)
	}
}
