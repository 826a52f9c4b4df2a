package davclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	MethodPropfind = "PROPFIND"
	MethodMkcol    = "MKCOL"
)

const (
	defaultBodyExcerptLimit = 500

	// propfind统一请求allprop, 需要的属性在解析层筛选
	defaultPropfindBody = `<?xml version="1.0" encoding="utf-8"?><propfind xmlns="DAV:"><allprop/></propfind>`
)

var defaultHttpClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		IdleConnTimeout:     20 * time.Second,
		MaxIdleConns:        5,
		MaxIdleConnsPerHost: 2,
	},
}

// 各方法允许的成功状态码, 不在表内的一律按错误抛出
var methodSuccessStatus = map[string]map[int]struct{}{
	http.MethodGet:    {http.StatusOK: {}},
	http.MethodPut:    {http.StatusOK: {}, http.StatusCreated: {}, http.StatusNoContent: {}},
	http.MethodDelete: {http.StatusOK: {}, http.StatusAccepted: {}, http.StatusNoContent: {}},
	MethodMkcol:       {http.StatusCreated: {}},
	MethodPropfind:    {http.StatusMultiStatus: {}},
}

type IClient interface {
	// Request 发起一次原始webdav请求, 仅做状态码裁决, 不重试
	Request(ctx context.Context, method string, path string, opts ...RequestOption) (*Response, error)
	Stat(ctx context.Context, path string) (*RemoteEntry, error)
	List(ctx context.Context, dir string) ([]*RemoteEntry, error)
	EnsureDir(ctx context.Context, dir string) error
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}

type Response struct {
	Status int
	URL    string
	Header http.Header
	Body   []byte
}

type requestOption struct {
	headers map[string]string
	body    []byte
	dirHint bool
}

type RequestOption func(o *requestOption)

func WithHeader(k string, v string) RequestOption {
	return func(o *requestOption) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[k] = v
	}
}

func WithBody(body []byte) RequestOption {
	return func(o *requestOption) {
		o.body = body
	}
}

// WithDirHint 标记目标为集合资源, PROPFIND/MKCOL会强制url以斜杠结尾
func WithDirHint() RequestOption {
	return func(o *requestOption) {
		o.dirHint = true
	}
}

type davClient struct {
	c  *config
	hc *http.Client
}

func New(opts ...Option) (IClient, error) {
	c := applyOpts(opts...)
	if len(c.baseURL) == 0 {
		return nil, ErrNoBaseURL
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url failed, url:%s, err:%w", c.baseURL, err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("base url should be absolute http/https, url:%s", c.baseURL)
	}
	hc := c.client
	if hc == nil {
		hc = defaultHttpClient
	}
	return &davClient{c: c, hc: hc}, nil
}

// resolveURL 拼接服务地址与相对路径, base强制单斜杠结尾, rel去掉首尾斜杠
func resolveURL(base string, rel string) (string, error) {
	if len(base) == 0 {
		return "", ErrNoBaseURL
	}
	base = strings.TrimRight(base, "/") + "/"
	rel = strings.Trim(rel, "/")
	return base + rel, nil
}

// buildAuthHeader 未配置用户名时返回空串, 请求保持匿名
func buildAuthHeader(user string, pass string) string {
	if len(user) == 0 {
		return ""
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func (d *davClient) Request(ctx context.Context, method string, path string, opts ...RequestOption) (*Response, error) {
	o := &requestOption{}
	for _, opt := range opts {
		opt(o)
	}
	u, err := resolveURL(d.c.baseURL, path)
	if err != nil {
		return nil, err
	}
	if o.dirHint && (method == MethodPropfind || method == MethodMkcol) && !strings.HasSuffix(u, "/") {
		u += "/"
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(o.body))
	if err != nil {
		return nil, fmt.Errorf("build request failed, method:%s, url:%s, err:%w", method, u, err)
	}
	for k, v := range o.headers {
		req.Header.Set(k, v)
	}
	if hdr := buildAuthHeader(d.c.username, d.c.password); len(hdr) > 0 {
		req.Header.Set("Authorization", hdr)
	}
	if len(req.Header.Get("Content-Type")) == 0 {
		switch {
		case method == MethodPropfind && len(o.body) > 0:
			req.Header.Set("Content-Type", "application/xml")
		case method == http.MethodPut:
			req.Header.Set("Content-Type", "application/octet-stream")
		}
	}
	if method == MethodMkcol && len(o.body) == 0 {
		req.ContentLength = 0
	}
	rsp, err := d.hc.Do(req)
	if err != nil {
		return nil, &TransportError{
			Status:  0,
			Method:  method,
			URL:     u,
			Message: fmt.Sprintf("perform request failed, err:%v", err),
		}
	}
	defer rsp.Body.Close()
	raw, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, &TransportError{
			Status:  rsp.StatusCode,
			Method:  method,
			URL:     u,
			Message: fmt.Sprintf("read response body failed, err:%v", err),
		}
	}
	res := &Response{Status: rsp.StatusCode, URL: u, Header: rsp.Header, Body: raw}
	if _, ok := methodSuccessStatus[method][rsp.StatusCode]; ok {
		return res, nil
	}
	if method == MethodMkcol && rsp.StatusCode == http.StatusMethodNotAllowed {
		// 405大概率为目录已存在, 作为软结果返回, 由调用方复核
		return res, nil
	}
	if method == MethodMkcol && rsp.StatusCode == http.StatusConflict {
		// 409语义不定, 可能是父目录缺失, 记录后仍作为错误抛出
		logutil.GetLogger(ctx).Error("mkcol return conflict, parent may be missing",
			zap.String("url", u), zap.String("body", excerpt(raw)))
	}
	return nil, &TransportError{
		Status:      rsp.StatusCode,
		Method:      method,
		URL:         u,
		Message:     fmt.Sprintf("unexpected status:%s", rsp.Status),
		BodyExcerpt: excerpt(raw),
	}
}

func excerpt(raw []byte) string {
	if len(raw) > defaultBodyExcerptLimit {
		raw = raw[:defaultBodyExcerptLimit]
	}
	return string(raw)
}

func (d *davClient) propfind(ctx context.Context, path string, depth int, dirHint bool) (*Response, error) {
	opts := []RequestOption{
		WithHeader("Depth", strconv.Itoa(depth)),
		WithBody([]byte(defaultPropfindBody)),
	}
	if dirHint {
		opts = append(opts, WithDirHint())
	}
	return d.Request(ctx, MethodPropfind, path, opts...)
}

func (d *davClient) statResource(ctx context.Context, path string, dirHint bool) (*RemoteEntry, error) {
	rsp, err := d.propfind(ctx, path, 0, dirHint)
	if err != nil {
		return nil, err
	}
	ent, err := parseResourceStat(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse stat response failed, path:%s, err:%w", path, err)
	}
	return ent, nil
}

func (d *davClient) Stat(ctx context.Context, path string) (*RemoteEntry, error) {
	return d.statResource(ctx, path, false)
}

func (d *davClient) List(ctx context.Context, dir string) ([]*RemoteEntry, error) {
	rsp, err := d.propfind(ctx, dir, 1, true)
	if err != nil {
		return nil, err
	}
	ents, err := parseMultistatus(rsp.Body, rsp.URL)
	if err != nil {
		return nil, fmt.Errorf("parse listing failed, dir:%s, err:%w", dir, err)
	}
	return ents, nil
}

func (d *davClient) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	opts := []RequestOption{WithBody(data)}
	if len(contentType) > 0 {
		opts = append(opts, WithHeader("Content-Type", contentType))
	}
	if _, err := d.Request(ctx, http.MethodPut, path, opts...); err != nil {
		return err
	}
	return nil
}

func (d *davClient) Download(ctx context.Context, path string) ([]byte, error) {
	rsp, err := d.Request(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	return rsp.Body, nil
}

func (d *davClient) Remove(ctx context.Context, path string) error {
	if _, err := d.Request(ctx, http.MethodDelete, path); err != nil {
		return err
	}
	return nil
}
