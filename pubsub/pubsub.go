package pubsub

import (
	"strconv"
	"strings"

	"github.com/tridis/datastruct/list"
	"github.com/tridis/interface/redis"
	"github.com/tridis/redis/protocol"
)

var (
	_subscribe         = "subscribe"
	_unsubscribe       = "unsubscribe"
	messageBytes       = []byte("message")
	unSubscribeNothing = []byte("*3\r\n$11\r\nunsubscribe\r\n$-1\r\n:0\r\n")
)

func makeMsg(t string, channel string, code int64) []byte {
	return []byte("*3\r\n$" + strconv.FormatInt(int64(len(t)), 10) + protocol.CRLF + t + protocol.CRLF +
		"$" + strconv.FormatInt(int64(len(channel)), 10) + protocol.CRLF + channel + protocol.CRLF +
		":" + strconv.FormatInt(code, 10) + protocol.CRLF)
}

/*
 * invoker should lock channel
 * return: is new subscribed
 */
func subscribe0(hub *Hub, channel string, client redis.Connection) bool {
	client.Subscribe(channel)

	raw, ok := hub.subs.Get(channel)
	var subscribers *list.LinkedList
	if ok {
		subscribers, _ = raw.(*list.LinkedList)
	} else {
		subscribers = list.Make()
		hub.subs.Put(channel, subscribers)
	}
	if subscribers.Contains(func(a interface{}) bool {
		return a == client
	}) {
		return false
	}
	subscribers.Add(client)
	return true
}

/*
 * invoker should lock channel
 * return: is actually un-subscribed
 */
func unsubscribe0(hub *Hub, channel string, client redis.Connection) bool {
	client.UnSubscribe(channel)

	raw, ok := hub.subs.Get(channel)
	if !ok {
		return false
	}
	subscribers, _ := raw.(*list.LinkedList)
	removed := subscribers.RemoveAllByVal(func(a interface{}) bool {
		return a == client
	})
	if subscribers.Len() == 0 {
		// 没人订阅了就把频道从 hub 里摘掉
		hub.subs.Remove(channel)
	}
	return removed > 0
}

// Subscribe puts the given connection into the subscriber list of the given channels
func Subscribe(hub *Hub, c redis.Connection, args [][]byte) redis.Reply {
	channels := make([]string, len(args))
	for i, b := range args {
		channels[i] = string(b)
	}

	hub.subsLocker.Locks(channels...)
	defer hub.subsLocker.UnLocks(channels...)

	for _, channel := range channels {
		if subscribe0(hub, channel, c) {
			_ = c.Write(makeMsg(_subscribe, channel, int64(c.SubsCount())))
		}
	}
	return &protocol.NoReply{}
}

// UnSubscribe removes the given connection from the subscriber list of the
// given channels, or of every channel it subscribed when no channel is given
func UnSubscribe(hub *Hub, c redis.Connection, args [][]byte) redis.Reply {
	var channels []string
	if len(args) > 0 {
		channels = make([]string, len(args))
		for i, b := range args {
			channels[i] = string(b)
		}
	} else {
		channels = c.GetChannels()
	}

	hub.subsLocker.Locks(channels...)
	defer hub.subsLocker.UnLocks(channels...)

	if len(channels) == 0 {
		_ = c.Write(unSubscribeNothing)
		return &protocol.NoReply{}
	}
	for _, channel := range channels {
		if unsubscribe0(hub, channel, c) {
			_ = c.Write(makeMsg(_unsubscribe, channel, int64(c.SubsCount())))
		}
	}
	return &protocol.NoReply{}
}

// UnsubscribeAll removes the given connection from every channel it subscribed
func UnsubscribeAll(hub *Hub, c redis.Connection) {
	channels := c.GetChannels()

	hub.subsLocker.Locks(channels...)
	defer hub.subsLocker.UnLocks(channels...)

	for _, channel := range channels {
		unsubscribe0(hub, channel, c)
	}
}

// Publish sends the message to every connection whose subscribed channel is a
// prefix of the published channel
func Publish(hub *Hub, args [][]byte) redis.Reply {
	if len(args) != 2 {
		return &protocol.ArgNumErrReply{
			Cmd: "publish",
		}
	}
	count := PublishMessage(hub, string(args[0]), args[1])
	return protocol.MakeIntReply(count)
}

// PublishMessage delivers the message, returns the number of receivers.
// 同一个连接订阅了多个匹配前缀时，每个订阅各收一条
func PublishMessage(hub *Hub, channel string, message []byte) int64 {
	if channel == "" {
		return 0
	}
	// 先把订阅表里能匹配上的前缀收集出来，再统一按序加锁
	var matched []string
	hub.subs.ForEach(func(sub string, val interface{}) bool {
		if strings.HasPrefix(channel, sub) {
			matched = append(matched, sub)
		}
		return true
	})
	if len(matched) == 0 {
		return 0
	}

	hub.subsLocker.Locks(matched...)
	defer hub.subsLocker.UnLocks(matched...)

	var count int64
	for _, sub := range matched {
		raw, ok := hub.subs.Get(sub)
		if !ok {
			continue
		}
		subscribers, _ := raw.(*list.LinkedList)
		subscribers.ForEach(func(i int, v interface{}) bool {
			client, _ := v.(redis.Connection)
			replyArgs := make([][]byte, 3)
			replyArgs[0] = messageBytes
			replyArgs[1] = []byte(channel)
			replyArgs[2] = message
			_ = client.Write(protocol.MakeMultiBulkReply(replyArgs).ToBytes())
			count++
			return true
		})
	}
	return count
}
