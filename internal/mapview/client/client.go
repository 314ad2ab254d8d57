// Package client 访问 mapd 的 /map/region 与 /map/cities 接口，在解码边界完成数据校验。
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Hegemonie/internal/region/domain"
	"Hegemonie/modules/kit/errx"
	"Hegemonie/modules/kit/tracex"
)

// ErrUpstreamStatus 上游返回非 2xx，data.status 为 HTTP 状态码。
var ErrUpstreamStatus = errx.NewSys("UPSTREAM_STATUS", "地图服务返回错误")

// 响应体上限，防止异常上游把内存撑爆。
const maxBodyBytes = 32 << 20

type Client struct {
	base string
	hc   *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.hc
			hc.Timeout = d
			c.hc = &hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Region GET /map/region?id=<name>
func (c *Client) Region(ctx context.Context, name string) (*domain.Map, error) {
	var m domain.Map
	if err := c.getJSON(ctx, "/map/region", name, &m); err != nil {
		return nil, err
	}
	m.Normalize()
	if err := m.Validate(); err != nil {
		return nil, errx.ErrInvalidPayload.WithData("region", name).WithCause(err)
	}
	return &m, nil
}

// Cities GET /map/cities?id=<name>，对象和数组两种响应都接受。
func (c *Client) Cities(ctx context.Context, name string) ([]domain.City, error) {
	var list domain.CityList
	if err := c.getJSON(ctx, "/map/cities", name, &list); err != nil {
		return nil, err
	}
	if err := domain.ValidateCities(list); err != nil {
		return nil, errx.ErrInvalidPayload.WithData("region", name).WithCause(err)
	}
	return list, nil
}

func (c *Client) getJSON(ctx context.Context, path, name string, out any) error {
	u := c.base + path + "?id=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errx.ErrReqParamERR.WithData("url", u).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		req.Header.Set(tracex.HeaderTraceID, tid)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// http.Client.Timeout 到期时 ctx 本身并未超时，只能从 err 上判断
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return errx.ErrTimeout.WithData("url", u).WithCause(err)
		}
		return errx.ErrUnavailable.WithData("url", u).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return errx.ErrUnavailable.WithData("url", u).WithCause(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ErrUpstreamStatus.
			WithData("url", u).
			WithData("status", resp.StatusCode).
			WithCause(fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body))))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errx.ErrInvalidPayload.WithData("url", u).WithCause(err)
	}
	return nil
}
