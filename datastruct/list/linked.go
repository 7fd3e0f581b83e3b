package list

import "sync"

// Consumer traverses list elements, return false to break the traversal
type Consumer func(i int, v interface{}) bool

// Expected checks whether given item is equal to expected value
type Expected func(a interface{}) bool

// LinkedList is a doubly linked list protected by a rw lock
type LinkedList struct {
	first *node
	last  *node
	size  int
	mutex sync.RWMutex
}

type node struct {
	val  interface{}
	prev *node
	next *node
}

// Make creates a new linked list containing the given values
func Make(vals ...interface{}) *LinkedList {
	list := LinkedList{}
	for _, v := range vals {
		list.Add(v)
	}
	return &list
}

// Add appends value to the tail
func (list *LinkedList) Add(val interface{}) {
	if list == nil {
		panic("list is nil")
	}
	list.mutex.Lock()
	defer list.mutex.Unlock()
	n := &node{
		val: val,
	}
	if list.last == nil {
		list.first = n
		list.last = n
	} else {
		n.prev = list.last
		list.last.next = n
		list.last = n
	}
	list.size++
}

// Len returns the number of elements in list
func (list *LinkedList) Len() int {
	if list == nil {
		panic("list is nil")
	}
	list.mutex.RLock()
	defer list.mutex.RUnlock()
	return list.size
}

// ForEach visits elements from head to tail
func (list *LinkedList) ForEach(consumer Consumer) {
	if list == nil {
		panic("list is nil")
	}
	list.mutex.RLock()
	defer list.mutex.RUnlock()
	n := list.first
	i := 0
	for n != nil {
		if !consumer(i, n.val) {
			break
		}
		i++
		n = n.next
	}
}

// Contains reports whether any element satisfies expected
func (list *LinkedList) Contains(expected Expected) bool {
	contains := false
	list.ForEach(func(i int, v interface{}) bool {
		if expected(v) {
			contains = true
			return false
		}
		return true
	})
	return contains
}

// RemoveFirst drops the head element
func (list *LinkedList) RemoveFirst() {
	if list == nil {
		panic("list is nil")
	}
	list.mutex.Lock()
	defer list.mutex.Unlock()
	if list.first == nil {
		return
	}
	next := list.first.next
	if next != nil {
		next.prev = nil
	} else {
		// 链表只有一个元素
		list.last = nil
	}
	list.first = next
	list.size--
}

// RemoveAllByVal removes every element satisfying expected, returns the removed count
func (list *LinkedList) RemoveAllByVal(expected Expected) int {
	if list == nil {
		panic("list is nil")
	}
	list.mutex.Lock()
	defer list.mutex.Unlock()
	removed := 0
	n := list.first
	for n != nil {
		next := n.next
		if expected(n.val) {
			list.unlink(n)
			removed++
		}
		n = next
	}
	return removed
}

func (list *LinkedList) unlink(n *node) {
	if n.prev == nil {
		list.first = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		list.last = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.prev = nil
	n.next = nil
	list.size--
}
