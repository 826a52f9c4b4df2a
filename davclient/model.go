package davclient

import "encoding/xml"

// RemoteEntry 为远端资源的基础信息, 仅在枚举时临时产生
type RemoteEntry struct {
	Name         string
	IsDir        bool
	LastModified string
	SizeBytes    int64
}

// multistatus解码只按local name匹配, 兼容D:/DAV:等不同前缀的服务端
type multistatus struct {
	XMLName   xml.Name     `xml:"multistatus"`
	Responses []msResponse `xml:"response"`
}

type msResponse struct {
	Href      string       `xml:"href"`
	Propstats []msPropstat `xml:"propstat"`
}

type msPropstat struct {
	Status string `xml:"status"`
	Prop   msProp `xml:"prop"`
}

type msProp struct {
	ResourceType  msResourceType `xml:"resourcetype"`
	LastModified  string         `xml:"getlastmodified"`
	ContentLength string         `xml:"getcontentlength"`
}

type msResourceType struct {
	Collection *struct{} `xml:"collection"`
}
