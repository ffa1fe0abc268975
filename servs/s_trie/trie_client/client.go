// Package trie_client calls a running trie service over NATS.
package trie_client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
)

type Client struct {
	nc      *nats.Conn
	prefix  string
	timeout time.Duration
}

// New returns a client for the service listening under prefix.
func New(nc *nats.Conn, prefix string) *Client {
	return &Client{nc: nc, prefix: prefix, timeout: 2 * time.Second}
}

// WithTimeout sets the deadline used when ctx has none.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

func (c *Client) Insert(ctx context.Context, words ...string) (trie_api.InsertResponse, error) {
	var out trie_api.InsertResponse
	err := c.call(ctx, trie_api.SubjectInsert, trie_api.InsertRequest{Words: words}, &out)
	return out, err
}

// Search returns up to limit words under prefix. A negative limit is
// unbounded.
func (c *Client) Search(ctx context.Context, prefix string, limit int) ([]string, error) {
	var out trie_api.SearchResponse
	err := c.call(ctx, trie_api.SubjectSearch, trie_api.SearchRequest{Prefix: prefix, Limit: &limit}, &out)
	return out.Words, err
}

func (c *Client) Save(ctx context.Context, path string) (trie_api.FileResponse, error) {
	var out trie_api.FileResponse
	err := c.call(ctx, trie_api.SubjectSave, trie_api.FileRequest{Path: path}, &out)
	return out, err
}

func (c *Client) Load(ctx context.Context, path string) (trie_api.FileResponse, error) {
	var out trie_api.FileResponse
	err := c.call(ctx, trie_api.SubjectLoad, trie_api.FileRequest{Path: path}, &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context) (trie_api.StatsResponse, error) {
	var out trie_api.StatsResponse
	err := c.call(ctx, trie_api.SubjectStats, nil, &out)
	return out, err
}

// call sends one request. Error replies become *trie_api.ServiceError.
func (c *Client) call(ctx context.Context, name string, in, out any) error {
	var data []byte
	if in != nil {
		var err error
		if data, err = json.Marshal(in); err != nil {
			return err
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	msg, err := c.nc.RequestWithContext(ctx, trie_api.Subject(c.prefix, name), data)
	if err != nil {
		return err
	}
	if code := msg.Header.Get(micro.ErrorCodeHeader); code != "" {
		return &trie_api.ServiceError{Code: code, Description: msg.Header.Get(micro.ErrorHeader)}
	}
	return json.Unmarshal(msg.Data, out)
}
