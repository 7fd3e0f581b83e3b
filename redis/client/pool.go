package client

import (
	"context"
	"errors"

	pool "github.com/jolestar/go-commons-pool/v2"
)

// Pool keeps a set of started clients for one server address,
// borrowed clients must be handed back with Put
type Pool struct {
	pool *pool.ObjectPool
	addr string
}

type connectionFactory struct {
	addr string
}

func (f *connectionFactory) MakeObject(ctx context.Context) (*pool.PooledObject, error) {
	c, err := MakeClient(f.addr)
	if err != nil {
		return nil, err
	}
	c.Start()
	return pool.NewPooledObject(c), nil
}

func (f *connectionFactory) DestroyObject(ctx context.Context, object *pool.PooledObject) error {
	c, ok := object.Object.(*Client)
	if !ok {
		return errors.New("type mismatch")
	}
	c.Close()
	return nil
}

func (f *connectionFactory) ValidateObject(ctx context.Context, object *pool.PooledObject) bool {
	return true
}

func (f *connectionFactory) ActivateObject(ctx context.Context, object *pool.PooledObject) error {
	return nil
}

func (f *connectionFactory) PassivateObject(ctx context.Context, object *pool.PooledObject) error {
	return nil
}

// MakePool creates a connection pool for the given address, connections are
// dialed lazily on first borrow
func MakePool(addr string) *Pool {
	ctx := context.Background()
	return &Pool{
		pool: pool.NewObjectPoolWithDefaultConfig(ctx, &connectionFactory{addr: addr}),
		addr: addr,
	}
}

// Get borrows a started client from the pool
func (p *Pool) Get() (*Client, error) {
	raw, err := p.pool.BorrowObject(context.Background())
	if err != nil {
		return nil, err
	}
	c, ok := raw.(*Client)
	if !ok {
		return nil, errors.New("connection pool holds wrong type")
	}
	return c, nil
}

// Put hands a borrowed client back
func (p *Pool) Put(c *Client) error {
	return p.pool.ReturnObject(context.Background(), c)
}

// Close shuts the pool down and closes every idle client
func (p *Pool) Close() {
	p.pool.Close(context.Background())
}
