package pubsub

import (
	"github.com/tridis/datastruct/dict"
	"github.com/tridis/datastruct/lock"
)

// Hub stores all subscribe relations.
// 订阅的名字按前缀匹配：订阅 news 的连接能收到发往 news.sports 的消息
type Hub struct {
	// channel -> list(*Client)
	subs dict.Dict
	// lock channel
	subsLocker *lock.Locks
}

// MakeHub creates new hub
func MakeHub() *Hub {
	return &Hub{
		subs:       dict.MakeConcurrent(4),
		subsLocker: lock.Make(16),
	}
}
