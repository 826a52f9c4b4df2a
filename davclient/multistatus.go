package davclient

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// parseMultistatus 将propfind的207响应解析为远端条目列表.
// requestURL为发起请求时的完整url, 用于解析相对href并剔除容器自身.
// 条目顺序与服务端响应保持一致, 不在此层排序.
func parseMultistatus(raw []byte, requestURL string) ([]*RemoteEntry, error) {
	var ms multistatus
	if err := xml.Unmarshal(raw, &ms); err != nil {
		return nil, fmt.Errorf("decode multistatus failed, err:%w", err)
	}
	base, err := url.Parse(requestURL)
	if err != nil {
		return nil, fmt.Errorf("parse request url failed, url:%s, err:%w", requestURL, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	container := base.Path
	rs := make([]*RemoteEntry, 0, len(ms.Responses))
	for _, r := range ms.Responses {
		href := strings.TrimSpace(r.Href)
		if len(href) == 0 {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			// 非法href按服务端瑕疵跳过, 不让单条数据毁掉整个列表
			continue
		}
		p := base.ResolveReference(ref).Path // query/fragment在此丢弃, path已完成百分号解码
		if p == container || p == strings.TrimSuffix(container, "/") {
			continue
		}
		name := deriveEntryName(p, container)
		if len(name) == 0 {
			continue
		}
		ent := &RemoteEntry{Name: name}
		applyPropstats(ent, r.Propstats)
		rs = append(rs, ent)
	}
	return rs, nil
}

// deriveEntryName 取容器前缀之后的剩余部分作为名称;
// href不共享容器前缀时退化为最后一个非空path段, 兼容不规范的服务端
func deriveEntryName(p string, container string) string {
	if strings.HasPrefix(p, container) {
		return strings.Trim(strings.TrimPrefix(p, container), "/")
	}
	return lastPathSegment(p)
}

func lastPathSegment(p string) string {
	items := strings.Split(strings.Trim(p, "/"), "/")
	for i := len(items) - 1; i >= 0; i-- {
		if len(items[i]) > 0 {
			return items[i]
		}
	}
	return ""
}

// applyPropstats 按出现顺序处理propstat, 最后一个200状态的覆盖生效
func applyPropstats(ent *RemoteEntry, pss []msPropstat) {
	for _, ps := range pss {
		if !isOKPropstat(ps.Status) {
			continue
		}
		ent.IsDir = ps.Prop.ResourceType.Collection != nil
		ent.LastModified = ps.Prop.LastModified
		ent.SizeBytes = 0
		if !ent.IsDir {
			if v, err := strconv.ParseInt(strings.TrimSpace(ps.Prop.ContentLength), 10, 64); err == nil && v >= 0 {
				ent.SizeBytes = v
			}
		}
	}
}

func isOKPropstat(status string) bool {
	return strings.Contains(status, " 200 ") || strings.HasSuffix(strings.TrimSpace(status), " 200")
}

// parseResourceStat 解析depth 0探测的结果, 只取首个response
func parseResourceStat(raw []byte) (*RemoteEntry, error) {
	var ms multistatus
	if err := xml.Unmarshal(raw, &ms); err != nil {
		return nil, fmt.Errorf("decode multistatus failed, err:%w", err)
	}
	if len(ms.Responses) == 0 {
		return nil, fmt.Errorf("empty multistatus response")
	}
	r := ms.Responses[0]
	ref, err := url.Parse(strings.TrimSpace(r.Href))
	if err != nil {
		return nil, fmt.Errorf("parse href failed, href:%s, err:%w", r.Href, err)
	}
	ent := &RemoteEntry{Name: lastPathSegment(ref.Path)}
	applyPropstats(ent, r.Propstats)
	return ent, nil
}
