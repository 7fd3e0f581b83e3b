package server

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"

	database2 "github.com/tridis/database"
	"github.com/tridis/interface/database"
	"github.com/tridis/lib/logger"
	"github.com/tridis/lib/sync/atomic"
	"github.com/tridis/redis/connection"
	"github.com/tridis/redis/parser"
	"github.com/tridis/redis/protocol"
)

var unknownErrReplyBytes = []byte("-ERR unknown\r\n")

// Handler implements tcp.Handler and serves as a redis style server
type Handler struct {
	activeConn sync.Map
	db         database.DB
	closing    atomic.Boolean
}

// MakeHandler creates a Handler instance backed by a standalone server
func MakeHandler() *Handler {
	return &Handler{
		db: database2.NewStandaloneServer(),
	}
}

func (h *Handler) closeClient(client *connection.Connection) {
	_ = client.Close()
	h.db.AfterClientClose(client)
	h.activeConn.Delete(client)
}

// Handle receives and executes redis style commands
func (h *Handler) Handle(ctx context.Context, conn net.Conn) {
	if h.closing.Get() {
		// 服务器正在关闭，不再接收新连接
		_ = conn.Close()
		return
	}

	client := connection.NewConn(conn)
	h.activeConn.Store(client, struct{}{})

	ch := parser.ParseStream(conn)
	for payload := range ch {
		if payload.Err != nil {
			if payload.Err == io.EOF ||
				payload.Err == io.ErrUnexpectedEOF ||
				strings.Contains(payload.Err.Error(), "use of closed network connection") {
				h.closeClient(client)
				logger.Info("connection closed: " + client.RemoteAddr().String())
				return
			}
			// 协议错误回给客户端，连接继续用
			errReply := protocol.MakeErrReply(payload.Err.Error())
			err := client.Write(errReply.ToBytes())
			if err != nil {
				h.closeClient(client)
				logger.Info("connection closed: " + client.RemoteAddr().String())
				return
			}
			continue
		}
		if payload.Data == nil {
			logger.Error("empty payload")
			continue
		}
		r, ok := payload.Data.(*protocol.MultiBulkReply)
		if !ok {
			logger.Error("require multi bulk protocol")
			continue
		}
		result := h.db.Exec(client, r.Args)
		if result != nil {
			_ = client.Write(result.ToBytes())
		} else {
			_ = client.Write(unknownErrReplyBytes)
		}
	}
}

// Close stops the handler and every active connection
func (h *Handler) Close() error {
	logger.Info("handler shutting down...")
	h.closing.Set(true)
	h.activeConn.Range(func(key interface{}, val interface{}) bool {
		client := key.(*connection.Connection)
		_ = client.Close()
		return true
	})
	h.db.Close()
	return nil
}
