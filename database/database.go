package database

import (
	"bytes"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/tridis/config"
	"github.com/tridis/datastruct/list"
	"github.com/tridis/interface/redis"
	"github.com/tridis/lib/logger"
	"github.com/tridis/pubsub"
	"github.com/tridis/redis/protocol"
)

// MultiDB is a set of multiple database set
type MultiDB struct {
	dbSet []*atomic.Value

	hub *pubsub.Hub

	// 服务器启动时生成的唯一运行 id，info server 里展示
	runID     string
	startTime time.Time

	slowLogList    *list.LinkedList
	slowLogEntryId int
	slowLogMu      sync.Mutex
}

// NewStandaloneServer creates a standalone server
func NewStandaloneServer() *MultiDB {
	mdb := &MultiDB{
		runID:       ksuid.New().String(),
		startTime:   time.Now(),
		slowLogList: list.Make(),
	}
	if config.Properties.Databases == 0 {
		// 默认 16 个数据库
		config.Properties.Databases = 16
	}
	mdb.dbSet = make([]*atomic.Value, config.Properties.Databases)
	for i := range mdb.dbSet {
		singleDB := MakeDB()
		singleDB.index = i
		holder := &atomic.Value{}
		holder.Store(singleDB)
		mdb.dbSet[i] = holder
	}

	mdb.hub = pubsub.MakeHub()

	// 写命令成功后，向 __keyspace@<db>__:<key> 频道发布事件
	for _, db := range mdb.dbSet {
		singleDB := db.Load().(*DB)
		singleDB.notify = func(event string, key string) {
			if !config.Properties.NotifyKeyspaceEvents {
				return
			}
			channel := fmt.Sprintf("__keyspace@%d__:%s", singleDB.index, key)
			pubsub.PublishMessage(mdb.hub, channel, []byte(event))
		}
	}
	return mdb
}

// Exec executes command, the parameter `cmdLine` contains command and its arguments
func (mdb *MultiDB) Exec(c redis.Connection, cmdLine [][]byte) (result redis.Reply) {
	defer func() {
		if err := recover(); err != nil {
			logger.Warn(fmt.Sprintf("error occurs: %v\n%s", err, string(debug.Stack())))
			result = &protocol.UnknownErrReply{}
		}
	}()

	cmdName := strings.ToLower(string(cmdLine[0]))
	// authenticate
	if cmdName == "auth" {
		return execAuth(c, cmdLine[1:])
	}
	if !isAuthenticated(c) {
		return protocol.MakeErrReply("NOAUTH Authentication required")
	}

	// 服务器层面的命令，不进入单个数据库
	switch cmdName {
	case "select":
		if len(cmdLine) != 2 {
			return protocol.MakeArgNumErrReply("select")
		}
		return execSelect(c, mdb, cmdLine[1:])
	case "info":
		return mdb.execInfo(cmdLine[1:])
	case "config":
		if len(cmdLine) < 2 {
			return protocol.MakeArgNumErrReply("config")
		}
		return execConfig(cmdLine[1:])
	case "slowlog":
		return mdb.execSlowLog(cmdLine[1:])
	case "flushall":
		return mdb.flushAll()
	case "subscribe":
		if len(cmdLine) < 2 {
			return protocol.MakeArgNumErrReply("subscribe")
		}
		return pubsub.Subscribe(mdb.hub, c, cmdLine[1:])
	case "unsubscribe":
		return pubsub.UnSubscribe(mdb.hub, c, cmdLine[1:])
	case "publish":
		return pubsub.Publish(mdb.hub, cmdLine[1:])
	}

	// 常规命令
	dbIndex := c.GetDBIndex()
	selectedDB, errReply := mdb.selectDB(dbIndex)
	if errReply != nil {
		return errReply
	}

	start := time.Now().UnixMicro()
	result = selectedDB.Exec(c, cmdLine)
	mdb.handleSlowLog(start, time.Now().UnixMicro(), cmdLine)
	return result
}

func execAuth(c redis.Connection, args [][]byte) redis.Reply {
	if len(args) != 1 {
		return protocol.MakeErrReply("ERR wrong number of arguments for 'auth' command")
	}
	if config.Properties.RequirePass == "" {
		return protocol.MakeErrReply("ERR Client sent AUTH, but no password is set")
	}

	passwd := string(args[0])
	c.SetPassword(passwd)
	if config.Properties.RequirePass != passwd {
		return protocol.MakeErrReply("ERR invalid password")
	}
	return &protocol.OkReply{}
}

func isAuthenticated(c redis.Connection) bool {
	if config.Properties.RequirePass == "" {
		return true
	}
	return c.GetPassword() == config.Properties.RequirePass
}

func execSelect(c redis.Connection, mdb *MultiDB, args [][]byte) redis.Reply {
	dbIndex, err := strconv.Atoi(string(args[0]))
	if err != nil {
		return protocol.MakeErrReply("ERR invalid DB index")
	}
	if dbIndex >= len(mdb.dbSet) || dbIndex < 0 {
		return protocol.MakeErrReply("ERR DB index is out of range")
	}
	c.SelectDB(dbIndex)
	return protocol.MakeOkReply()
}

// info [section], 只支持 server 和 keyspace 两部分
func (mdb *MultiDB) execInfo(args [][]byte) redis.Reply {
	if len(args) > 1 {
		return protocol.MakeArgNumErrReply("info")
	}
	section := "default"
	if len(args) == 1 {
		section = strings.ToLower(string(args[0]))
	}
	buf := bytes.Buffer{}
	switch section {
	case "server":
		buf.WriteString(mdb.serverInfo())
	case "keyspace":
		buf.WriteString(mdb.keyspaceInfo())
	case "default", "all", "everything":
		buf.WriteString(mdb.serverInfo())
		buf.WriteString("\r\n")
		buf.WriteString(mdb.keyspaceInfo())
	default:
		return protocol.MakeBulkReply([]byte{})
	}
	return protocol.MakeBulkReply(buf.Bytes())
}

func (mdb *MultiDB) serverInfo() string {
	return fmt.Sprintf("# Server\r\n"+
		"run_id:%s\r\n"+
		"tcp_port:%d\r\n"+
		"uptime_in_seconds:%d\r\n"+
		"databases:%d\r\n",
		mdb.runID,
		config.Properties.Port,
		int64(time.Since(mdb.startTime).Seconds()),
		len(mdb.dbSet))
}

func (mdb *MultiDB) keyspaceInfo() string {
	buf := bytes.Buffer{}
	buf.WriteString("# Keyspace\r\n")
	for i, holder := range mdb.dbSet {
		db := holder.Load().(*DB)
		keys, nodes := db.Stats()
		if keys == 0 {
			continue
		}
		buf.WriteString(fmt.Sprintf("db%d:keys=%d,nodes=%d\r\n", i, keys, nodes))
	}
	return buf.String()
}

func (mdb *MultiDB) flushAll() redis.Reply {
	for i := range mdb.dbSet {
		db := mdb.mustSelectDB(i)
		db.withLock(func() {
			db.Flush()
		})
	}
	return &protocol.OkReply{}
}

func (mdb *MultiDB) selectDB(dbIndex int) (*DB, *protocol.StandardErrReply) {
	if dbIndex >= len(mdb.dbSet) || dbIndex < 0 {
		return nil, protocol.MakeErrReply("ERR DB index is out of range")
	}

	return mdb.dbSet[dbIndex].Load().(*DB), nil
}

func (mdb *MultiDB) mustSelectDB(dbIndex int) *DB {
	selectedDB, errReply := mdb.selectDB(dbIndex)
	if errReply != nil {
		panic(errReply)
	}
	return selectedDB
}

// AfterClientClose does some clean after client close connection
func (mdb *MultiDB) AfterClientClose(c redis.Connection) {
	pubsub.UnsubscribeAll(mdb.hub, c)
}

// Close graceful shutdown database
func (mdb *MultiDB) Close() {
	logger.Info("database closed")
}
