package comm

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"

	"github.com/bytearena/robotworld/arenaserver/protocol"
)

var ErrTransportFailure = errors.New("transport failure")

const (
	DefaultDialTimeout = 2 * time.Second
	DefaultMaxRetries  = 3
)

// Client sends one message per connection and waits for the single
// response. Only dialing is retried: a request that reached the peer is
// never sent twice.
type Client struct {
	DialTimeout time.Duration
	IOTimeout   time.Duration
	MaxRetries  uint64
}

func NewClient() *Client {
	return &Client{
		DialTimeout: DefaultDialTimeout,
		IOTimeout:   DefaultIOTimeout,
		MaxRetries:  DefaultMaxRetries,
	}
}

func (c *Client) Send(ctx context.Context, address string, msg protocol.Message) (protocol.Message, error) {
	conn, err := c.dial(ctx, address)
	if err != nil {
		return protocol.Message{}, errors.Wrapf(ErrTransportFailure, "dialing %s for %s: %s", address, msg.Type, err)
	}
	defer conn.Close()

	if deadline, ok := c.deadline(ctx); ok {
		conn.SetDeadline(deadline)
	}

	if err := protocol.WriteMessage(conn, msg); err != nil {
		return protocol.Message{}, errors.Wrapf(ErrTransportFailure, "writing %s to %s: %s", msg.Type, address, err)
	}

	response, err := protocol.ReadMessage(bufio.NewReader(conn))
	if err != nil {
		return protocol.Message{}, errors.Wrapf(ErrTransportFailure, "reading response to %s from %s: %s", msg.Type, address, err)
	}

	return response, nil
}

// Stop asks the listener at address to shut down.
func (c *Client) Stop(ctx context.Context, address string) error {
	_, err := c.Send(ctx, address, protocol.NewMessage(protocol.Stop, protocol.StopBody))
	return err
}

func (c *Client) deadline(ctx context.Context) (time.Time, bool) {
	var deadline time.Time

	if c.IOTimeout > 0 {
		deadline = time.Now().Add(c.IOTimeout)
	}

	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	return deadline, !deadline.IsZero()
}

func (c *Client) dial(ctx context.Context, address string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.DialTimeout}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond

	var conn net.Conn
	operation := func() error {
		var err error
		conn, err = dialer.DialContext(ctx, "tcp4", address)
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.MaxRetries), ctx))
	if err != nil {
		return nil, err
	}

	return conn, nil
}
