package database

import (
	"strings"
	"sync"

	"github.com/tridis/datastruct/trie"
	"github.com/tridis/interface/database"
	"github.com/tridis/interface/redis"
	"github.com/tridis/redis/protocol"
)

// ExecFunc is the signature of a command implementation
type ExecFunc func(db *DB, args [][]byte) redis.Reply

// CmdLine is alias for [][]byte, represents a command line
type CmdLine = [][]byte

// DB stores one keyspace and executes commands on it
type DB struct {
	index int

	// 键空间整个放在一棵字典树里，精确查找走索引，前缀查找走树
	data *trie.Trie

	// 一把大锁扣住每条命令，树结构自身不做并发保护
	mu sync.Mutex

	// 写命令成功后上报键空间事件，由 MultiDB 注入
	notify func(event string, key string)
}

// MakeDB create DB instance
func MakeDB() *DB {
	return &DB{
		data:   trie.Make(),
		notify: func(event string, key string) {},
	}
}

// Exec executes command within one database
func (db *DB) Exec(c redis.Connection, cmdLine [][]byte) redis.Reply {
	return db.execNormalCommand(cmdLine)
}

func (db *DB) execNormalCommand(cmdLine [][]byte) redis.Reply {
	cmdName := strings.ToLower(string(cmdLine[0]))
	cmd, ok := cmdTable[cmdName]
	if !ok {
		return protocol.MakeErrReply("ERR unknown command '" + cmdName + "'")
	}
	if !validateArity(cmd.arity, cmdLine) {
		return protocol.MakeArgNumErrReply(cmdName)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	fun := cmd.executor
	return fun(db, cmdLine[1:])
}

func validateArity(arity int, cmdArgs [][]byte) bool {
	argNum := len(cmdArgs)
	if arity >= 0 {
		return arity == argNum
	}
	return argNum >= -arity
}

// withLock runs fn while holding the big lock, for server level commands
// reaching into the keyspace outside of the command table
func (db *DB) withLock(fn func()) {
	db.mu.Lock()
	defer db.mu.Unlock()
	fn()
}

// Stats returns the number of keys and of tree nodes
func (db *DB) Stats() (keys int, nodes int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.data.Len(), db.data.Nodes()
}

/* ---- Data Access ----- */
// 以下访问器都假定调用方已持有 db.mu

// GetEntity returns DataEntity bind to given key
func (db *DB) GetEntity(key string) (*database.DataEntity, bool) {
	raw, ok := db.data.Get(key)
	if !ok {
		return nil, false
	}
	entity, _ := raw.(*database.DataEntity)
	return entity, true
}

// PutEntity a DataEntity into DB
func (db *DB) PutEntity(key string, entity *database.DataEntity) int {
	return db.data.Put(key, entity)
}

// PutIfExists edit an existing DataEntity
func (db *DB) PutIfExists(key string, entity *database.DataEntity) int {
	return db.data.PutIfExists(key, entity)
}

// PutIfAbsent insert a DataEntity only if the key does not exist
func (db *DB) PutIfAbsent(key string, entity *database.DataEntity) int {
	return db.data.PutIfAbsent(key, entity)
}

// Remove the given key from db
func (db *DB) Remove(key string) int {
	return db.data.Remove(key)
}

// Removes the given keys from db
func (db *DB) Removes(keys ...string) int {
	deleted := 0
	for _, key := range keys {
		deleted += db.data.Remove(key)
	}
	return deleted
}

// Flush drops the whole keyspace
func (db *DB) Flush() {
	db.data.Clear()
}
