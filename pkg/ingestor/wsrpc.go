package ingestor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// wsClient is a minimal JSON-RPC 2.0 client over a websocket, covering
// what the Solana and Substrate upstreams need: request/response calls
// and server-push subscriptions.
type wsClient struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	nextID  atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan *rpcResponse
	subs    map[string]chan json.RawMessage
	// orphans buffers notifications that race ahead of the Subscribe
	// call registering their channel.
	orphans map[string][]json.RawMessage
	closed  bool

	errCh chan error
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	ID     *uint64         `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
	Params *struct {
		Subscription json.RawMessage `json:"subscription"`
		Result       json.RawMessage `json:"result"`
	} `json:"params,omitempty"`
}

// dialWS connects and starts the read loop.
func dialWS(ctx context.Context, url string) (*wsClient, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &wsClient{
		conn:    conn,
		pending: make(map[uint64]chan *rpcResponse),
		subs:    make(map[string]chan json.RawMessage),
		orphans: make(map[string][]json.RawMessage),
		errCh:   make(chan error, 1),
	}
	go c.readLoop()
	return c, nil
}

// Err delivers the terminal read-loop error after a disconnect.
func (c *wsClient) Err() <-chan error {
	return c.errCh
}

func (c *wsClient) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.conn.Close()
}

func (c *wsClient) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.fail(err)
			return
		}
		var resp rpcResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			continue
		}

		switch {
		case resp.ID != nil:
			c.mu.Lock()
			ch, ok := c.pending[*resp.ID]
			delete(c.pending, *resp.ID)
			c.mu.Unlock()
			if ok {
				ch <- &resp
			}
		case resp.Params != nil:
			subID := normalizeSubID(resp.Params.Subscription)
			c.mu.Lock()
			ch, ok := c.subs[subID]
			if !ok && len(c.orphans[subID]) < 16 {
				c.orphans[subID] = append(c.orphans[subID], resp.Params.Result)
			}
			c.mu.Unlock()
			if ok {
				// Drop on a full buffer rather than stall the read
				// loop; ingestors tolerate missed notifications.
				select {
				case ch <- resp.Params.Result:
				default:
				}
			}
		}
	}
}

func (c *wsClient) fail(err error) {
	c.mu.Lock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.mu.Unlock()

	select {
	case c.errCh <- err:
	default:
	}
}

// Call performs one request/response round trip, decoding the result
// into result when non-nil.
func (c *wsClient) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	id := c.nextID.Add(1)
	ch := make(chan *rpcResponse, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("wsrpc: connection closed")
	}
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.write(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return fmt.Errorf("wsrpc: connection closed")
		}
		if resp.Error != nil {
			return resp.Error
		}
		if result == nil {
			return nil
		}
		return json.Unmarshal(resp.Result, result)
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return ctx.Err()
	}
}

// Subscribe issues a subscription request and returns the notification
// channel. The channel closes when the connection dies.
func (c *wsClient) Subscribe(ctx context.Context, method string, params ...interface{}) (<-chan json.RawMessage, error) {
	var subID json.RawMessage
	if err := c.Call(ctx, &subID, method, params...); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", method, err)
	}

	ch := make(chan json.RawMessage, 64)
	id := normalizeSubID(subID)
	c.mu.Lock()
	for _, raw := range c.orphans[id] {
		ch <- raw
	}
	delete(c.orphans, id)
	c.subs[id] = ch
	c.mu.Unlock()
	return ch, nil
}

func (c *wsClient) write(req rpcRequest) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(req)
}

// normalizeSubID renders a subscription id (number for Solana, string
// for Substrate) into a stable map key.
func normalizeSubID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
