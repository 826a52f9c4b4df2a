package davclient

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBaseURL 未配置服务地址, 属于前置校验错误, 不会发起任何请求
	ErrNoBaseURL = errors.New("webdav base url not configured")
)

// TransportError 统一的传输层错误, Status为0时代表请求本身没有完成(网络/DNS/TLS)
type TransportError struct {
	Status      int
	Method      string
	URL         string
	Message     string
	BodyExcerpt string
}

func (e *TransportError) Error() string {
	if len(e.BodyExcerpt) == 0 {
		return fmt.Sprintf("webdav request failed, method:%s, url:%s, status:%d, msg:%s", e.Method, e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("webdav request failed, method:%s, url:%s, status:%d, msg:%s, body:%s", e.Method, e.URL, e.Status, e.Message, e.BodyExcerpt)
}

// ConflictError 目录创建过程中发现同名非目录资源
type ConflictError struct {
	Segment string
	Path    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("remote path occupied by non-collection, segment:%s, path:%s", e.Segment, e.Path)
}

func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsStatus 判断错误是否为指定http状态码的传输错误
func IsStatus(err error, status int) bool {
	te, ok := AsTransportError(err)
	return ok && te.Status == status
}
