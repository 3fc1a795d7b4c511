package client

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/baysao/massbitprotocol/api/proto"
)

// Client wraps the Streamout gRPC client connection.
type Client struct {
	conn   *grpc.ClientConn
	client proto.StreamoutClient
}

// NewClient connects to a chain-reader at the given URL. The http://
// scheme prefix of the configured URL is accepted and stripped.
func NewClient(url string) (*Client, error) {
	target := strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "grpc://")

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain reader at %s: %w", target, err)
	}

	return &Client{
		conn:   conn,
		client: proto.NewStreamoutClient(conn),
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// SayHello probes the chain reader.
func (c *Client) SayHello(ctx context.Context, name string) (string, error) {
	reply, err := c.client.SayHello(ctx, &proto.HelloRequest{Name: name})
	if err != nil {
		return "", err
	}
	return reply.GetMessage(), nil
}

// ListBlocks opens an envelope stream.
func (c *Client) ListBlocks(ctx context.Context, req *proto.GetBlocksRequest) (proto.Streamout_ListBlocksClient, error) {
	return c.client.ListBlocks(ctx, req)
}
