package database

import (
	"strconv"

	"github.com/tridis/config"
	"github.com/tridis/interface/database"
	"github.com/tridis/interface/redis"
	"github.com/tridis/redis/protocol"
)

// DEL key [key ...]
func execDel(db *DB, args [][]byte) redis.Reply {
	keys := make([]string, len(args))
	for i, v := range args {
		keys[i] = string(v)
	}
	deleted := 0
	for _, key := range keys {
		if db.Remove(key) > 0 {
			deleted++
			db.notify("del", key)
		}
	}
	return protocol.MakeIntReply(int64(deleted))
}

// EXISTS key [key ...]
func execExists(db *DB, args [][]byte) redis.Reply {
	result := int64(0)
	for _, arg := range args {
		key := string(arg)
		if _, exists := db.GetEntity(key); exists {
			result++
		}
	}
	return protocol.MakeIntReply(result)
}

// TYPE key
func execType(db *DB, args [][]byte) redis.Reply {
	key := string(args[0])
	entity, exists := db.GetEntity(key)
	if !exists {
		return protocol.MakeStatusReply("none")
	}
	switch entity.Data.(type) {
	case []byte:
		return protocol.MakeStatusReply("string")
	}
	return &protocol.UnknownErrReply{}
}

// RENAME key newkey
func execRename(db *DB, args [][]byte) redis.Reply {
	src := string(args[0])
	dest := string(args[1])

	entity, ok := db.GetEntity(src)
	if !ok {
		return protocol.MakeErrReply("no such key")
	}
	if src == dest {
		return &protocol.OkReply{}
	}
	db.PutEntity(dest, entity)
	db.Remove(src)
	db.notify("rename_from", src)
	db.notify("rename_to", dest)
	return &protocol.OkReply{}
}

// RENAMENX key newkey, fails when newkey exists
func execRenameNx(db *DB, args [][]byte) redis.Reply {
	src := string(args[0])
	dest := string(args[1])

	if _, ok := db.GetEntity(dest); ok {
		return protocol.MakeIntReply(0)
	}
	entity, ok := db.GetEntity(src)
	if !ok {
		return protocol.MakeErrReply("no such key")
	}
	if src == dest {
		return protocol.MakeIntReply(0)
	}
	db.PutEntity(dest, entity)
	db.Remove(src)
	db.notify("rename_from", src)
	db.notify("rename_to", dest)
	return protocol.MakeIntReply(1)
}

// KEYS [prefix], without prefix lists every key in insertion order
func execKeys(db *DB, args [][]byte) redis.Reply {
	var keys []string
	if len(args) == 0 {
		keys = db.data.Keys()
	} else {
		keys = db.data.MatchKeys(string(args[0]), 0)
	}
	result := make([][]byte, 0, len(keys))
	for _, key := range keys {
		result = append(result, []byte(key))
	}
	if len(result) == 0 {
		return protocol.MakeEmptyMultiBulkReply()
	}
	return protocol.MakeMultiBulkReply(result)
}

// DBSIZE
func execDBSize(db *DB, args [][]byte) redis.Reply {
	return protocol.MakeIntReply(int64(db.data.Len()))
}

/*
MATCH prefix [limit]

按前缀收集 value，遍历顺序与树的插入结构绑定，同一棵树上的结果是稳定的。
没写 limit 时用 match-default-limit 配置兜底，0 表示不设上限。
*/
func execMatch(db *DB, args [][]byte) redis.Reply {
	prefix := string(args[0])
	limit := config.Properties.MatchDefaultLimit
	if len(args) > 1 {
		n, err := strconv.ParseInt(string(args[1]), 10, 64)
		if err != nil || n < 0 {
			return protocol.MakeErrReply("ERR value is not an integer or out of range")
		}
		limit = int(n)
	}
	vals := db.data.Match(prefix, limit)
	result := make([][]byte, 0, len(vals))
	for _, v := range vals {
		entity, ok := v.(*database.DataEntity)
		if !ok {
			continue
		}
		bytes, ok := entity.Data.([]byte)
		if !ok {
			continue
		}
		result = append(result, bytes)
	}
	if len(result) == 0 {
		return protocol.MakeEmptyMultiBulkReply()
	}
	return protocol.MakeMultiBulkReply(result)
}

// PDEL prefix, removes every key starting with prefix
func execPDel(db *DB, args [][]byte) redis.Reply {
	prefix := string(args[0])
	if prefix == "" {
		return protocol.MakeIntReply(0)
	}
	keys := db.data.MatchKeys(prefix, 0)
	deleted := 0
	for _, key := range keys {
		if db.Remove(key) > 0 {
			deleted++
			db.notify("del", key)
		}
	}
	return protocol.MakeIntReply(int64(deleted))
}

// FLUSHDB
func execFlushDB(db *DB, args [][]byte) redis.Reply {
	db.Flush()
	return &protocol.OkReply{}
}

func init() {
	RegisterCommand("Del", execDel, -2)
	RegisterCommand("Exists", execExists, -2)
	RegisterCommand("Type", execType, 2)
	RegisterCommand("Rename", execRename, 3)
	RegisterCommand("RenameNx", execRenameNx, 3)
	RegisterCommand("Keys", execKeys, -1)
	RegisterCommand("DBSize", execDBSize, 1)
	RegisterCommand("Match", execMatch, -2)
	RegisterCommand("PDel", execPDel, 2)
	RegisterCommand("FlushDB", execFlushDB, -1)
}
