package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tridis/interface/database"
	"github.com/tridis/interface/redis"
	"github.com/tridis/lib/utils"
	"github.com/tridis/redis/protocol"
)

var testDB = MakeDB()

func execCmd(db *DB, cmd ...string) redis.Reply {
	return db.Exec(nil, utils.ToCmdLine(cmd...))
}

func assertReply(t *testing.T, actual redis.Reply, expected redis.Reply) {
	t.Helper()
	assert.Equal(t, string(expected.ToBytes()), string(actual.ToBytes()))
}

func TestSet(t *testing.T) {
	testDB.Flush()

	result := execCmd(testDB, "set", "name", "tridis")
	assertReply(t, result, protocol.MakeOkReply())
	result = execCmd(testDB, "get", "name")
	assertReply(t, result, protocol.MakeBulkReply([]byte("tridis")))

	result = execCmd(testDB, "set", "name", "overwritten")
	assertReply(t, result, protocol.MakeOkReply())
	result = execCmd(testDB, "get", "name")
	assertReply(t, result, protocol.MakeBulkReply([]byte("overwritten")))

	// nx 只在键不存在时写入
	result = execCmd(testDB, "set", "name", "x", "NX")
	assertReply(t, result, protocol.MakeNullBulkReply())
	result = execCmd(testDB, "get", "name")
	assertReply(t, result, protocol.MakeBulkReply([]byte("overwritten")))
	result = execCmd(testDB, "set", "fresh", "x", "NX")
	assertReply(t, result, protocol.MakeOkReply())

	// xx 只在键存在时写入
	result = execCmd(testDB, "set", "missing", "x", "XX")
	assertReply(t, result, protocol.MakeNullBulkReply())
	result = execCmd(testDB, "exists", "missing")
	assertReply(t, result, protocol.MakeIntReply(0))
	result = execCmd(testDB, "set", "name", "updated", "XX")
	assertReply(t, result, protocol.MakeOkReply())

	// get 选项返回写入前的旧值
	result = execCmd(testDB, "set", "name", "final", "GET")
	assertReply(t, result, protocol.MakeBulkReply([]byte("updated")))
	result = execCmd(testDB, "set", "brandnew", "v", "GET")
	assertReply(t, result, protocol.MakeNullBulkReply())
	result = execCmd(testDB, "get", "brandnew")
	assertReply(t, result, protocol.MakeBulkReply([]byte("v")))

	result = execCmd(testDB, "set", "k", "v", "NX", "XX")
	assertReply(t, result, protocol.MakeSyntaxErrReply())
	result = execCmd(testDB, "set", "k", "v", "EX")
	assertReply(t, result, protocol.MakeSyntaxErrReply())
}

func TestSetNX(t *testing.T) {
	testDB.Flush()

	result := execCmd(testDB, "setnx", "lock", "holder1")
	assertReply(t, result, protocol.MakeIntReply(1))
	result = execCmd(testDB, "setnx", "lock", "holder2")
	assertReply(t, result, protocol.MakeIntReply(0))
	result = execCmd(testDB, "get", "lock")
	assertReply(t, result, protocol.MakeBulkReply([]byte("holder1")))
}

func TestGetSet(t *testing.T) {
	testDB.Flush()

	result := execCmd(testDB, "getset", "greeting", "hello")
	assertReply(t, result, protocol.MakeNullBulkReply())
	result = execCmd(testDB, "getset", "greeting", "world")
	assertReply(t, result, protocol.MakeBulkReply([]byte("hello")))
	result = execCmd(testDB, "get", "greeting")
	assertReply(t, result, protocol.MakeBulkReply([]byte("world")))
}

func TestStrLen(t *testing.T) {
	testDB.Flush()

	result := execCmd(testDB, "strlen", "missing")
	assertReply(t, result, protocol.MakeIntReply(0))
	execCmd(testDB, "set", "s", "tridis")
	result = execCmd(testDB, "strlen", "s")
	assertReply(t, result, protocol.MakeIntReply(6))
}

func TestAppend(t *testing.T) {
	testDB.Flush()

	result := execCmd(testDB, "append", "journal", "hello")
	assertReply(t, result, protocol.MakeIntReply(5))
	result = execCmd(testDB, "append", "journal", " world")
	assertReply(t, result, protocol.MakeIntReply(11))
	result = execCmd(testDB, "get", "journal")
	assertReply(t, result, protocol.MakeBulkReply([]byte("hello world")))
}

func TestMSetAndMGet(t *testing.T) {
	testDB.Flush()

	result := execCmd(testDB, "mset", "a", "1", "b", "2")
	assertReply(t, result, protocol.MakeOkReply())
	result = execCmd(testDB, "mget", "a", "b", "missing")
	assertReply(t, result, protocol.MakeMultiBulkReply([][]byte{
		[]byte("1"), []byte("2"), nil,
	}))

	// 键值必须成对出现
	result = execCmd(testDB, "mset", "a", "1", "b")
	assertReply(t, result, protocol.MakeSyntaxErrReply())
}

func TestIncr(t *testing.T) {
	testDB.Flush()

	result := execCmd(testDB, "incr", "counter")
	assertReply(t, result, protocol.MakeIntReply(1))
	result = execCmd(testDB, "incr", "counter")
	assertReply(t, result, protocol.MakeIntReply(2))
	result = execCmd(testDB, "decr", "counter")
	assertReply(t, result, protocol.MakeIntReply(1))
	result = execCmd(testDB, "incrby", "counter", "10")
	assertReply(t, result, protocol.MakeIntReply(11))
	result = execCmd(testDB, "decrby", "counter", "4")
	assertReply(t, result, protocol.MakeIntReply(7))
	result = execCmd(testDB, "get", "counter")
	assertReply(t, result, protocol.MakeBulkReply([]byte("7")))

	result = execCmd(testDB, "incrby", "counter", "ten")
	assertReply(t, result, protocol.MakeErrReply("ERR value is not an integer or out of range"))
	execCmd(testDB, "set", "text", "abc")
	result = execCmd(testDB, "incr", "text")
	assertReply(t, result, protocol.MakeErrReply("ERR value is not an integer or out of range"))
}

func TestIncrByFloat(t *testing.T) {
	testDB.Flush()

	result := execCmd(testDB, "incrbyfloat", "ratio", "10.5")
	assertReply(t, result, protocol.MakeBulkReply([]byte("10.5")))
	// 定点数累加，不会出现二进制浮点的精度误差
	result = execCmd(testDB, "incrbyfloat", "ratio", "0.1")
	assertReply(t, result, protocol.MakeBulkReply([]byte("10.6")))
	result = execCmd(testDB, "incrbyfloat", "ratio", "-5")
	assertReply(t, result, protocol.MakeBulkReply([]byte("5.6")))

	result = execCmd(testDB, "incrbyfloat", "ratio", "nan?")
	assertReply(t, result, protocol.MakeErrReply("ERR value is not a valid float"))
}

func TestWrongTypeValue(t *testing.T) {
	testDB.Flush()
	testDB.withLock(func() {
		testDB.PutEntity("object", &database.DataEntity{Data: []string{"not", "bytes"}})
	})

	result := execCmd(testDB, "get", "object")
	assertReply(t, result, &protocol.WrongTypeErrReply{})
	result = execCmd(testDB, "append", "object", "x")
	assertReply(t, result, &protocol.WrongTypeErrReply{})
	result = execCmd(testDB, "strlen", "object")
	assertReply(t, result, &protocol.WrongTypeErrReply{})
	result = execCmd(testDB, "incr", "object")
	assertReply(t, result, &protocol.WrongTypeErrReply{})

	// mget 对类型不符的键回空，不中断整批查询
	execCmd(testDB, "set", "plain", "str")
	result = execCmd(testDB, "mget", "plain", "object")
	assertReply(t, result, protocol.MakeMultiBulkReply([][]byte{[]byte("str"), nil}))
}

func TestCommandArity(t *testing.T) {
	testDB.Flush()

	result := execCmd(testDB, "get")
	assertReply(t, result, protocol.MakeArgNumErrReply("get"))
	result = execCmd(testDB, "set", "k")
	assertReply(t, result, protocol.MakeArgNumErrReply("set"))
	result = execCmd(testDB, "nosuchcommand", "k")
	assertReply(t, result, protocol.MakeErrReply("ERR unknown command 'nosuchcommand'"))
}
