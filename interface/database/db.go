package database

import "github.com/tridis/interface/redis"

// CmdLine is alias for [][]byte, represents a command line
type CmdLine = [][]byte

// DB is the interface for tridis style storage engine
type DB interface {
	Exec(client redis.Connection, cmdLine [][]byte) redis.Reply
	AfterClientClose(c redis.Connection)
	Close()
}

// DataEntity stores data bound to a key
type DataEntity struct {
	Data interface{}
}
