package davclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// EnsureDir 逐段探测并按需创建远端目录, 空路径视为根目录直接返回.
// 各段严格串行, 后一段依赖前一段已存在, 不可并行化.
// 不同服务端对"已存在"的mkcol返回201/405/200不一, 此处对观测到的变体均做了容忍.
func (d *davClient) EnsureDir(ctx context.Context, dir string) error {
	dir = strings.Trim(dir, "/")
	if len(dir) == 0 {
		return nil
	}
	var prefix string
	for _, seg := range strings.Split(dir, "/") {
		if len(seg) == 0 {
			continue
		}
		if len(prefix) == 0 {
			prefix = seg
		} else {
			prefix = prefix + "/" + seg
		}
		if err := d.ensureSegment(ctx, prefix, seg); err != nil {
			return err
		}
	}
	return nil
}

func (d *davClient) ensureSegment(ctx context.Context, prefix string, seg string) error {
	ent, err := d.statResource(ctx, prefix, true)
	if err == nil {
		if ent.IsDir {
			return nil
		}
		return &ConflictError{Segment: seg, Path: prefix}
	}
	if !IsStatus(err, http.StatusNotFound) {
		return err
	}
	rsp, err := d.Request(ctx, MethodMkcol, prefix, WithDirHint())
	if err != nil {
		return err
	}
	if rsp.Status == http.StatusCreated {
		return nil
	}
	// mkcol返回405: 可能与其他客户端竞争创建, 也可能服务端把重复创建当no-op,
	// 复核一次propfind裁决
	logutil.GetLogger(ctx).Debug("mkcol soft failure, reprobe segment",
		zap.String("path", prefix), zap.Int("status", rsp.Status))
	ent, err = d.statResource(ctx, prefix, true)
	if err != nil {
		return err
	}
	if ent.IsDir {
		return nil
	}
	return &ConflictError{Segment: seg, Path: prefix}
}
