package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tridis/lib/utils"
	"github.com/tridis/redis/connection"
	"github.com/tridis/redis/protocol"
)

func messageFrame(channel string, payload string) string {
	return string(protocol.MakeMultiBulkReply([][]byte{
		[]byte("message"), []byte(channel), []byte(payload),
	}).ToBytes())
}

func TestSubscribeConfirm(t *testing.T) {
	hub := MakeHub()
	c := new(connection.FakeConn)

	Subscribe(hub, c, utils.ToCmdLine("news", "sport"))
	expected := string(makeMsg(_subscribe, "news", 1)) + string(makeMsg(_subscribe, "sport", 2))
	assert.Equal(t, expected, string(c.Bytes()))
	assert.Equal(t, 2, c.SubsCount())
	c.Clean()

	// 重复订阅同一个频道不再发确认
	Subscribe(hub, c, utils.ToCmdLine("news"))
	assert.Equal(t, 0, len(c.Bytes()))
	assert.Equal(t, 2, c.SubsCount())
}

func TestPrefixDelivery(t *testing.T) {
	hub := MakeHub()
	short := new(connection.FakeConn)
	Subscribe(hub, short, utils.ToCmdLine("Michael"))
	short.Clean()

	n := PublishMessage(hub, "MichaelJones", []byte("hi"))
	assert.Equal(t, int64(1), n)
	assert.Equal(t, messageFrame("MichaelJones", "hi"), string(short.Bytes()))
	short.Clean()

	// 反方向不成立，订阅长名收不到发往短名的消息
	long := new(connection.FakeConn)
	Subscribe(hub, long, utils.ToCmdLine("MichaelJones"))
	long.Clean()
	n = PublishMessage(hub, "Michael", []byte("short"))
	assert.Equal(t, int64(1), n)
	assert.Equal(t, messageFrame("Michael", "short"), string(short.Bytes()))
	assert.Equal(t, 0, len(long.Bytes()))
}

func TestMultiSubscriptionDelivery(t *testing.T) {
	hub := MakeHub()
	c := new(connection.FakeConn)

	// 一个连接的多个订阅分别匹配时，每个订阅各收一条
	Subscribe(hub, c, utils.ToCmdLine("a", "ab"))
	c.Clean()
	n := PublishMessage(hub, "abc", []byte("x"))
	assert.Equal(t, int64(2), n)
	assert.Equal(t, messageFrame("abc", "x")+messageFrame("abc", "x"), string(c.Bytes()))
}

func TestFanout(t *testing.T) {
	hub := MakeHub()
	a := new(connection.FakeConn)
	b := new(connection.FakeConn)
	Subscribe(hub, a, utils.ToCmdLine("log"))
	Subscribe(hub, b, utils.ToCmdLine("log"))
	a.Clean()
	b.Clean()

	n := PublishMessage(hub, "log", []byte("boot"))
	assert.Equal(t, int64(2), n)
	assert.Equal(t, messageFrame("log", "boot"), string(a.Bytes()))
	assert.Equal(t, messageFrame("log", "boot"), string(b.Bytes()))
}

func TestUnsubscribe(t *testing.T) {
	hub := MakeHub()
	c := new(connection.FakeConn)
	Subscribe(hub, c, utils.ToCmdLine("alpha", "beta"))
	c.Clean()

	UnSubscribe(hub, c, utils.ToCmdLine("alpha"))
	assert.Equal(t, string(makeMsg(_unsubscribe, "alpha", 1)), string(c.Bytes()))
	c.Clean()

	n := PublishMessage(hub, "alpha.1", []byte("x"))
	assert.Equal(t, int64(0), n)
	n = PublishMessage(hub, "beta.1", []byte("x"))
	assert.Equal(t, int64(1), n)
	c.Clean()

	// 没订阅过的频道退订不发确认
	UnSubscribe(hub, c, utils.ToCmdLine("nosuch"))
	assert.Equal(t, 0, len(c.Bytes()))

	// 不带参数退订剩下的全部频道
	UnSubscribe(hub, c, nil)
	assert.Equal(t, string(makeMsg(_unsubscribe, "beta", 0)), string(c.Bytes()))
	c.Clean()

	// 一个订阅都没有时回空退订帧
	UnSubscribe(hub, c, nil)
	assert.Equal(t, string(unSubscribeNothing), string(c.Bytes()))
}

func TestUnsubscribeAll(t *testing.T) {
	hub := MakeHub()
	c := new(connection.FakeConn)
	Subscribe(hub, c, utils.ToCmdLine("x", "y"))
	c.Clean()

	UnsubscribeAll(hub, c)
	assert.Equal(t, 0, len(c.Bytes()))
	assert.Equal(t, 0, c.SubsCount())
	n := PublishMessage(hub, "x1", []byte("m"))
	assert.Equal(t, int64(0), n)
}

func TestPublishCommand(t *testing.T) {
	hub := MakeHub()
	c := new(connection.FakeConn)
	Subscribe(hub, c, utils.ToCmdLine("news"))
	c.Clean()

	ret := Publish(hub, utils.ToCmdLine("news", "hello"))
	assert.Equal(t, string(protocol.MakeIntReply(1).ToBytes()), string(ret.ToBytes()))
	assert.Equal(t, messageFrame("news", "hello"), string(c.Bytes()))

	ret = Publish(hub, utils.ToCmdLine("onlychannel"))
	assert.Equal(t, string(protocol.MakeArgNumErrReply("publish").ToBytes()), string(ret.ToBytes()))

	// 空频道名发布不会命中任何订阅
	ret = Publish(hub, utils.ToCmdLine("", "x"))
	assert.Equal(t, string(protocol.MakeIntReply(0).ToBytes()), string(ret.ToBytes()))
}
