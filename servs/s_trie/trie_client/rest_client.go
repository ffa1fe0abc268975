package trie_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
)

// RESTClient calls the HTTP API.
type RESTClient struct {
	BaseURL string       // e.g. http://localhost:8080
	Client  *http.Client // defaults to http.DefaultClient
	Token   string       // bearer token, set by Login
}

func NewRESTClient(baseURL string) *RESTClient {
	return &RESTClient{BaseURL: strings.TrimSuffix(baseURL, "/"), Client: http.DefaultClient}
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *RESTClient) Login(ctx context.Context, username, password string) error {
	var out trie_api.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", trie_api.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return err
	}
	c.Token = out.Token
	return nil
}

// Search returns up to limit words under prefix. A negative limit is
// unbounded.
func (c *RESTClient) Search(ctx context.Context, prefix string, limit int) ([]string, error) {
	q := url.Values{"prefix": {prefix}}
	if limit >= 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out trie_api.SearchResponse
	if err := c.do(ctx, http.MethodGet, "/api/search?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Words, nil
}

func (c *RESTClient) Insert(ctx context.Context, words ...string) (trie_api.InsertResponse, error) {
	var out trie_api.InsertResponse
	err := c.do(ctx, http.MethodPost, "/api/words", trie_api.InsertRequest{Words: words}, &out)
	return out, err
}

func (c *RESTClient) Save(ctx context.Context, path string) (trie_api.FileResponse, error) {
	var out trie_api.FileResponse
	err := c.do(ctx, http.MethodPost, "/api/save", trie_api.FileRequest{Path: path}, &out)
	return out, err
}

func (c *RESTClient) Load(ctx context.Context, path string) (trie_api.FileResponse, error) {
	var out trie_api.FileResponse
	err := c.do(ctx, http.MethodPost, "/api/load", trie_api.FileRequest{Path: path}, &out)
	return out, err
}

func (c *RESTClient) Stats(ctx context.Context) (trie_api.StatsResponse, error) {
	var out trie_api.StatsResponse
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, &out)
	return out, err
}

// do sends one request. Non-2xx replies become *trie_api.ServiceError.
func (c *RESTClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	hc := c.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		se := &trie_api.ServiceError{}
		if json.Unmarshal(data, se) != nil || se.Code == "" {
			se.Code = strconv.Itoa(resp.StatusCode)
			se.Description = strings.TrimSpace(string(data))
		}
		return se
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s reply: %w", path, err)
	}
	return nil
}
