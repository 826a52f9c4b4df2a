package davclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const listFixture = `<?xml version="1.0" encoding="utf-8"?>
<D:multistatus xmlns:D="DAV:">
  <D:response>
    <D:href>/dav/dir/</D:href>
    <D:propstat>
      <D:prop>
        <D:resourcetype><D:collection/></D:resourcetype>
        <D:getlastmodified>Mon, 01 Jan 2024 00:00:00 GMT</D:getlastmodified>
      </D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
  <D:response>
    <D:href>/dav/dir/a.txt</D:href>
    <D:propstat>
      <D:prop>
        <D:resourcetype/>
        <D:getcontentlength>42</D:getcontentlength>
        <D:getlastmodified>Tue, 02 Jan 2024 00:00:00 GMT</D:getlastmodified>
      </D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
  <D:response>
    <D:href>/dav/dir/sub/</D:href>
    <D:propstat>
      <D:prop>
        <D:resourcetype><D:collection/></D:resourcetype>
      </D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
</D:multistatus>`

func TestParseListing(t *testing.T) {
	ents, err := parseMultistatus([]byte(listFixture), "http://h.example.com/dav/dir/")
	assert.NoError(t, err)
	assert.Len(t, ents, 2)
	assert.Equal(t, "a.txt", ents[0].Name)
	assert.False(t, ents[0].IsDir)
	assert.Equal(t, int64(42), ents[0].SizeBytes)
	assert.Equal(t, "Tue, 02 Jan 2024 00:00:00 GMT", ents[0].LastModified)
	assert.Equal(t, "sub", ents[1].Name)
	assert.True(t, ents[1].IsDir)
	assert.Equal(t, int64(0), ents[1].SizeBytes)
}

func TestParseListingExcludeSelfBothForms(t *testing.T) {
	// 请求url无结尾斜杠时, 容器自身条目仍需被剔除
	ents, err := parseMultistatus([]byte(listFixture), "http://h.example.com/dav/dir")
	assert.NoError(t, err)
	assert.Len(t, ents, 2)

	// 容器href无结尾斜杠的变体
	fixture := `<multistatus xmlns="DAV:">
      <response><href>/dav/dir</href>
        <propstat><prop><resourcetype><collection/></resourcetype></prop><status>HTTP/1.1 200 OK</status></propstat>
      </response>
      <response><href>/dav/dir/b.json</href>
        <propstat><prop><resourcetype/><getcontentlength>7</getcontentlength></prop><status>HTTP/1.1 200 OK</status></propstat>
      </response>
    </multistatus>`
	ents, err = parseMultistatus([]byte(fixture), "http://h.example.com/dav/dir/")
	assert.NoError(t, err)
	assert.Len(t, ents, 1)
	assert.Equal(t, "b.json", ents[0].Name)
}

func TestParseListingAbsoluteAndEscapedHref(t *testing.T) {
	fixture := `<D:multistatus xmlns:D="DAV:">
      <D:response><D:href>http://h.example.com/dav/dir/</D:href>
        <D:propstat><D:prop><D:resourcetype><D:collection/></D:resourcetype></D:prop><D:status>HTTP/1.1 200 OK</D:status></D:propstat>
      </D:response>
      <D:response><D:href>http://h.example.com/dav/dir/word%20list.json?x=1</D:href>
        <D:propstat><D:prop><D:resourcetype/><D:getcontentlength>3</D:getcontentlength></D:prop><D:status>HTTP/1.1 200 OK</D:status></D:propstat>
      </D:response>
    </D:multistatus>`
	ents, err := parseMultistatus([]byte(fixture), "http://h.example.com/dav/dir/")
	assert.NoError(t, err)
	assert.Len(t, ents, 1)
	// 百分号解码, query被剔除
	assert.Equal(t, "word list.json", ents[0].Name)
}

func TestParseListingNonPrefixedHrefFallback(t *testing.T) {
	// 不规范服务端返回与容器无共同前缀的href, 名称退化为最后一个非空path段
	fixture := `<multistatus xmlns="DAV:">
      <response><href>/elsewhere/backups/c.json</href>
        <propstat><prop><resourcetype/><getcontentlength>9</getcontentlength></prop><status>HTTP/1.1 200 OK</status></propstat>
      </response>
    </multistatus>`
	ents, err := parseMultistatus([]byte(fixture), "http://h.example.com/dav/dir/")
	assert.NoError(t, err)
	assert.Len(t, ents, 1)
	assert.Equal(t, "c.json", ents[0].Name)
	assert.Equal(t, int64(9), ents[0].SizeBytes)
}

func TestParseListingLastOKPropstatWins(t *testing.T) {
	fixture := `<multistatus xmlns="DAV:">
      <response><href>/dav/dir/x</href>
        <propstat><prop><resourcetype><collection/></resourcetype></prop><status>HTTP/1.1 200 OK</status></propstat>
        <propstat><prop><getlastmodified>skip me</getlastmodified></prop><status>HTTP/1.1 404 Not Found</status></propstat>
        <propstat><prop><resourcetype/><getcontentlength>11</getcontentlength><getlastmodified>Wed, 03 Jan 2024 00:00:00 GMT</getlastmodified></prop><status>HTTP/1.1 200 OK</status></propstat>
      </response>
    </multistatus>`
	ents, err := parseMultistatus([]byte(fixture), "http://h.example.com/dav/dir/")
	assert.NoError(t, err)
	assert.Len(t, ents, 1)
	assert.False(t, ents[0].IsDir)
	assert.Equal(t, int64(11), ents[0].SizeBytes)
	assert.Equal(t, "Wed, 03 Jan 2024 00:00:00 GMT", ents[0].LastModified)
}

func TestParseListingSkipEmptyName(t *testing.T) {
	fixture := `<multistatus xmlns="DAV:">
      <response><href></href></response>
      <response><href>////</href></response>
    </multistatus>`
	ents, err := parseMultistatus([]byte(fixture), "http://h.example.com/dav/dir/")
	assert.NoError(t, err)
	assert.Len(t, ents, 0)
}

func TestParseListingMalformedXML(t *testing.T) {
	_, err := parseMultistatus([]byte("<multistatus"), "http://h.example.com/dav/dir/")
	assert.Error(t, err)
}

func TestParseResourceStat(t *testing.T) {
	fixture := `<D:multistatus xmlns:D="DAV:">
      <D:response><D:href>/dav/backups/</D:href>
        <D:propstat><D:prop><D:resourcetype><D:collection/></D:resourcetype></D:prop><D:status>HTTP/1.1 200 OK</D:status></D:propstat>
      </D:response>
    </D:multistatus>`
	ent, err := parseResourceStat([]byte(fixture))
	assert.NoError(t, err)
	assert.True(t, ent.IsDir)
	assert.Equal(t, "backups", ent.Name)

	_, err = parseResourceStat([]byte(`<multistatus xmlns="DAV:"></multistatus>`))
	assert.Error(t, err)
}
