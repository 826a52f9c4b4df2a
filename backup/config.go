package backup

import (
	"github.com/xxxsen/wordparadise/dao"
	"github.com/xxxsen/wordparadise/davclient"
	"github.com/xxxsen/wordparadise/entity"
	"github.com/xxxsen/wordparadise/vocab"
)

type ClientBuilderFunc func(st *entity.WebdavSettings) (davclient.IClient, error)

type config struct {
	settings      dao.ISettingDao
	mistakes      dao.IMistakeDao
	store         *vocab.Store
	clientBuilder ClientBuilderFunc
	cacheSize     int64
}

type Option func(c *config)

func WithSettingDao(d dao.ISettingDao) Option {
	return func(c *config) {
		c.settings = d
	}
}

func WithMistakeDao(d dao.IMistakeDao) Option {
	return func(c *config) {
		c.mistakes = d
	}
}

func WithStore(s *vocab.Store) Option {
	return func(c *config) {
		c.store = s
	}
}

// WithClientBuilder 替换webdav客户端构造逻辑, 测试用
func WithClientBuilder(fn ClientBuilderFunc) Option {
	return func(c *config) {
		c.clientBuilder = fn
	}
}

func WithPayloadCacheSize(sz int64) Option {
	return func(c *config) {
		c.cacheSize = sz
	}
}

func applyOpts(opts ...Option) *config {
	c := &config{
		cacheSize: defaultPayloadCacheSize,
		clientBuilder: func(st *entity.WebdavSettings) (davclient.IClient, error) {
			return davclient.New(
				davclient.WithBaseURL(st.BaseURL),
				davclient.WithAuth(st.Username, st.Password),
			)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
