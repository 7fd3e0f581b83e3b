package database

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/tridis/config"
	"github.com/tridis/datastruct/list"
	"github.com/tridis/interface/database"
	"github.com/tridis/interface/redis"
	"github.com/tridis/lib/logger"
	"github.com/tridis/lib/utils"
	"github.com/tridis/redis/protocol"
)

type SlowLogEntry struct {
	id        int
	timestamp int64
	duration  int64
	argv      []string
	argc      int
}

// 处理慢日志查询
func (mdb *MultiDB) handleSlowLog(startTime int64, endTime int64, cmdLine database.CmdLine) {
	// 先检查是否有慢查询配置
	if config.Properties.SlowLogLogSlowerThan < 0 {
		return
	}

	mdb.slowLogMu.Lock()
	defer mdb.slowLogMu.Unlock()

	// 如果执行时间超过服务器配置时间，就写入慢查询日志
	duration := endTime - startTime
	if duration > config.Properties.SlowLogLogSlowerThan {
		entry := &SlowLogEntry{
			id:        mdb.slowLogEntryId,
			timestamp: time.Now().UnixMicro(),
			duration:  duration,
			argc:      len(cmdLine),
		}

		for _, cl := range cmdLine {
			entry.argv = append(entry.argv, string(cl))
		}
		mdb.slowLogList.Add(entry)
		mdb.slowLogEntryId++
		logger.Warn("slow command (", duration, "us): ", utils.FormatCmdLine(cmdLine))
	}
	// 如果查询日志长度超过服务器配置，就删除部分日志
	maxLen := config.Properties.SlowLogMaxLen
	if maxLen > 0 {
		for mdb.slowLogList.Len() > maxLen {
			mdb.slowLogList.RemoveFirst()
		}
	}
}

// count 为负表示返回全部条目
func (mdb *MultiDB) getSlowLog(count int) redis.Reply {
	bs := bytes.Buffer{}
	returned := 0
	mdb.slowLogList.ForEach(func(i int, v interface{}) bool {
		if count >= 0 && returned >= count {
			return false
		}
		entry := v.(*SlowLogEntry)
		bs.WriteString(strconv.Itoa(entry.id))
		bs.WriteString("\n")
		bs.WriteString(strconv.FormatInt(entry.timestamp, 10))
		bs.WriteString("\n")
		bs.WriteString(strconv.FormatInt(entry.duration, 10))
		bs.WriteString("\n")

		for _, arg := range entry.argv {
			bs.WriteString(arg)
			bs.WriteString("\n")
		}
		returned++
		return true
	})
	return protocol.MakeStatusReply(bs.String())
}

// slowlog get [count] | slowlog len | slowlog reset
func (mdb *MultiDB) execSlowLog(args [][]byte) redis.Reply {
	if len(args) == 0 {
		return protocol.MakeArgNumErrReply("slowlog")
	}
	subCmd := strings.ToLower(string(args[0]))
	switch subCmd {
	case "get":
		count := -1
		if len(args) == 2 {
			var err error
			count, err = strconv.Atoi(string(args[1]))
			if err != nil || count < 0 {
				return protocol.MakeErrReply("ERR value is not an integer or out of range")
			}
		} else if len(args) > 2 {
			return protocol.MakeArgNumErrReply("slowlog|get")
		}
		return mdb.getSlowLog(count)
	case "len":
		if len(args) != 1 {
			return protocol.MakeArgNumErrReply("slowlog|len")
		}
		return protocol.MakeIntReply(int64(mdb.slowLogList.Len()))
	case "reset":
		if len(args) != 1 {
			return protocol.MakeArgNumErrReply("slowlog|reset")
		}
		mdb.slowLogMu.Lock()
		mdb.slowLogList = list.Make()
		mdb.slowLogMu.Unlock()
		return protocol.MakeOkReply()
	}
	return protocol.MakeErrReply("ERR Unknown SLOWLOG subcommand or wrong number of arguments for '" + subCmd + "'")
}
