package database

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tridis/interface/database"
	"github.com/tridis/interface/redis"
	"github.com/tridis/redis/protocol"
)

const (
	upsertPolicy = iota // default
	insertPolicy        // set nx
	updatePolicy        // set xx
)

func (db *DB) getAsString(key string) ([]byte, protocol.ErrorReply) {
	entity, ok := db.GetEntity(key)
	if !ok {
		return nil, nil
	}
	bytes, ok := entity.Data.([]byte)
	if !ok {
		return nil, &protocol.WrongTypeErrReply{}
	}
	return bytes, nil
}

func execGet(db *DB, args [][]byte) redis.Reply {
	key := string(args[0])
	bytes, err := db.getAsString(key)
	if err != nil {
		return err
	}
	if bytes == nil {
		return &protocol.NullBulkReply{}
	}
	return protocol.MakeBulkReply(bytes)
}

/*
SET key value [NX|XX] [GET]

	NX -- 只有键 key 不存在的时候才会设置
	XX -- 只有键 key 存在的时候才会设置
	GET -- 返回设置前存储的值，key 原先不存在时返回空
*/
func execSet(db *DB, args [][]byte) redis.Reply {
	key := string(args[0])
	value := args[1]
	policy := upsertPolicy
	withGet := false

	if len(args) > 2 {
		for i := 2; i < len(args); i++ {
			arg := strings.ToUpper(string(args[i]))
			if arg == "NX" {
				if policy == updatePolicy {
					return &protocol.SyntaxErrReply{}
				}
				policy = insertPolicy
			} else if arg == "XX" {
				if policy == insertPolicy {
					return &protocol.SyntaxErrReply{}
				}
				policy = updatePolicy
			} else if arg == "GET" {
				withGet = true
			} else {
				return &protocol.SyntaxErrReply{}
			}
		}
	}

	var old []byte
	if withGet {
		bytes, errReply := db.getAsString(key)
		if errReply != nil {
			return errReply
		}
		old = bytes
	}

	entity := &database.DataEntity{
		Data: value,
	}

	var result int
	switch policy {
	case upsertPolicy:
		db.PutEntity(key, entity)
		result = 1
	case insertPolicy:
		result = db.PutIfAbsent(key, entity)
	case updatePolicy:
		result = db.PutIfExists(key, entity)
	}

	if result > 0 {
		db.notify("set", key)
	}
	if withGet {
		if old == nil {
			return &protocol.NullBulkReply{}
		}
		return protocol.MakeBulkReply(old)
	}
	if result > 0 {
		return &protocol.OkReply{}
	}
	return &protocol.NullBulkReply{}
}

// SETNX key value
func execSetNX(db *DB, args [][]byte) redis.Reply {
	key := string(args[0])
	value := args[1]
	entity := &database.DataEntity{
		Data: value,
	}
	result := db.PutIfAbsent(key, entity)
	if result > 0 {
		db.notify("set", key)
	}
	return protocol.MakeIntReply(int64(result))
}

// GETSET key value, sets value and returns the old value
func execGetSet(db *DB, args [][]byte) redis.Reply {
	key := string(args[0])
	value := args[1]

	old, errReply := db.getAsString(key)
	if errReply != nil {
		return errReply
	}
	db.PutEntity(key, &database.DataEntity{Data: value})
	db.notify("set", key)
	if old == nil {
		return new(protocol.NullBulkReply)
	}
	return protocol.MakeBulkReply(old)
}

// STRLEN key
func execStrLen(db *DB, args [][]byte) redis.Reply {
	key := string(args[0])
	bytes, errReply := db.getAsString(key)
	if errReply != nil {
		return errReply
	}
	return protocol.MakeIntReply(int64(len(bytes)))
}

// APPEND key value
func execAppend(db *DB, args [][]byte) redis.Reply {
	key := string(args[0])
	bytes, errReply := db.getAsString(key)
	if errReply != nil {
		return errReply
	}
	bytes = append(bytes, args[1]...)
	db.PutEntity(key, &database.DataEntity{Data: bytes})
	db.notify("append", key)
	return protocol.MakeIntReply(int64(len(bytes)))
}

func execMGet(db *DB, args [][]byte) redis.Reply {
	keys := make([]string, len(args))
	for i, v := range args {
		keys[i] = string(v)
	}
	result := make([][]byte, len(args))
	for i, key := range keys {
		bytes, err := db.getAsString(key)
		if err != nil {
			_, isWrongType := err.(*protocol.WrongTypeErrReply)
			if isWrongType {
				result[i] = nil
				continue
			} else {
				return err
			}
		}
		result[i] = bytes
	}
	return protocol.MakeMultiBulkReply(result)
}

func execMSet(db *DB, args [][]byte) redis.Reply {
	if len(args)%2 != 0 {
		return protocol.MakeSyntaxErrReply()
	}
	size := len(args) / 2
	keys := make([]string, size)
	values := make([][]byte, size)
	for i := 0; i < size; i++ {
		keys[i] = string(args[2*i])
		values[i] = args[2*i+1]
	}
	for i, key := range keys {
		value := values[i]
		db.PutEntity(key, &database.DataEntity{Data: value})
		db.notify("set", key)
	}
	return &protocol.OkReply{}
}

// INCR key
func execIncr(db *DB, args [][]byte) redis.Reply {
	return incrBy(db, string(args[0]), 1)
}

// INCRBY key increment
func execIncrBy(db *DB, args [][]byte) redis.Reply {
	delta, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return protocol.MakeErrReply("ERR value is not an integer or out of range")
	}
	return incrBy(db, string(args[0]), delta)
}

// DECR key
func execDecr(db *DB, args [][]byte) redis.Reply {
	return incrBy(db, string(args[0]), -1)
}

// DECRBY key decrement
func execDecrBy(db *DB, args [][]byte) redis.Reply {
	delta, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return protocol.MakeErrReply("ERR value is not an integer or out of range")
	}
	return incrBy(db, string(args[0]), -delta)
}

func incrBy(db *DB, key string, delta int64) redis.Reply {
	bytes, errReply := db.getAsString(key)
	if errReply != nil {
		return errReply
	}
	var val int64
	if bytes != nil {
		var err error
		val, err = strconv.ParseInt(string(bytes), 10, 64)
		if err != nil {
			return protocol.MakeErrReply("ERR value is not an integer or out of range")
		}
	}
	val += delta
	db.PutEntity(key, &database.DataEntity{
		Data: []byte(strconv.FormatInt(val, 10)),
	})
	if delta >= 0 {
		db.notify("incrby", key)
	} else {
		db.notify("decrby", key)
	}
	return protocol.MakeIntReply(val)
}

// INCRBYFLOAT key increment
func execIncrByFloat(db *DB, args [][]byte) redis.Reply {
	key := string(args[0])
	delta, err := decimal.NewFromString(string(args[1]))
	if err != nil {
		return protocol.MakeErrReply("ERR value is not a valid float")
	}

	bytes, errReply := db.getAsString(key)
	if errReply != nil {
		return errReply
	}
	result := delta
	if bytes != nil {
		val, err := decimal.NewFromString(string(bytes))
		if err != nil {
			return protocol.MakeErrReply("ERR value is not a valid float")
		}
		result = val.Add(delta)
	}
	resultBytes := []byte(result.String())
	db.PutEntity(key, &database.DataEntity{
		Data: resultBytes,
	})
	db.notify("incrbyfloat", key)
	return protocol.MakeBulkReply(resultBytes)
}

func init() {
	RegisterCommand("Get", execGet, 2)
	RegisterCommand("Set", execSet, -3)
	RegisterCommand("SetNx", execSetNX, 3)
	RegisterCommand("GetSet", execGetSet, 3)
	RegisterCommand("StrLen", execStrLen, 2)
	RegisterCommand("Append", execAppend, 3)
	RegisterCommand("MGet", execMGet, -2)
	RegisterCommand("MSet", execMSet, -3)
	RegisterCommand("Incr", execIncr, 2)
	RegisterCommand("IncrBy", execIncrBy, 3)
	RegisterCommand("Decr", execDecr, 2)
	RegisterCommand("DecrBy", execDecrBy, 3)
	RegisterCommand("IncrByFloat", execIncrByFloat, 3)
}
