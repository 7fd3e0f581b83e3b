package lock

import (
	"sort"
	"sync"
)

const (
	prime32 = uint32(16777619)
)

// Locks provides locking a batch of string keys with a fixed mutex table
type Locks struct {
	table []*sync.RWMutex
}

// Make creates a lock table with the given size
func Make(tableSize int) *Locks {
	table := make([]*sync.RWMutex, tableSize)
	for i := 0; i < tableSize; i++ {
		table[i] = &sync.RWMutex{}
	}
	return &Locks{table: table}
}

func fnv32(key string) uint32 {
	hash := uint32(2166136261)
	for i := 0; i < len(key); i++ {
		hash *= prime32
		hash ^= uint32(key[i])
	}
	return hash
}

func (lock *Locks) spread(hashCode uint32) uint32 {
	if lock == nil {
		panic("lock is nil")
	}
	tableSize := uint32(len(lock.table))
	return hashCode & (tableSize - 1)
}

/*
把 key 映射成槽下标，去重后排序。
所有调用方按同一顺序拿锁才不会互相死锁。
*/
func (lock *Locks) toLockIndices(keys []string, reverse bool) []uint32 {
	indexSet := make(map[uint32]bool)
	for _, key := range keys {
		index := lock.spread(fnv32(key))
		indexSet[index] = true
	}
	indexSlice := make([]uint32, 0, len(indexSet))
	for index := range indexSet {
		indexSlice = append(indexSlice, index)
	}
	sort.Slice(indexSlice, func(i, j int) bool {
		if reverse {
			return indexSlice[i] > indexSlice[j]
		}
		return indexSlice[i] < indexSlice[j]
	})
	return indexSlice
}

// Locks obtains exclusive locks for the given keys, duplicate keys are allowed
func (lock *Locks) Locks(keys ...string) {
	indices := lock.toLockIndices(keys, false)
	for _, index := range indices {
		lock.table[index].Lock()
	}
}

// UnLocks releases exclusive locks for the given keys
func (lock *Locks) UnLocks(keys ...string) {
	indices := lock.toLockIndices(keys, true)
	for _, index := range indices {
		lock.table[index].Unlock()
	}
}
