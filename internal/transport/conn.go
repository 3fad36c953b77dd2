package transport

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed connection.
var ErrClosed = errors.New("connection closed")

// Conn is a bidirectional, message-oriented byte channel. Send and Receive
// may be called concurrently with each other, but each by one goroutine
// at a time.
type Conn interface {
	Send(ctx context.Context, msg []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// Pipe returns two connected in-memory Conns. A message sent on one is
// received on the other.
func Pipe() (Conn, Conn) {
	ab := make(chan []byte, 16)
	ba := make(chan []byte, 16)
	done := make(chan struct{})
	once := new(sync.Once)
	return &pipeConn{in: ba, out: ab, done: done, once: once},
		&pipeConn{in: ab, out: ba, done: done, once: once}
}

type pipeConn struct {
	in   <-chan []byte
	out  chan<- []byte
	done chan struct{}
	once *sync.Once
}

func (p *pipeConn) Send(ctx context.Context, msg []byte) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.out <- append([]byte(nil), msg...):
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeConn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case msg := <-p.in:
		return msg, nil
	case <-p.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes both ends of the pipe.
func (p *pipeConn) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
