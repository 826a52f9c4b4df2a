package server

import (
	"github.com/xxxsen/wordparadise/backup"
	"github.com/xxxsen/wordparadise/dao"
	"github.com/xxxsen/wordparadise/vocab"
)

type config struct {
	userMap  map[string]string
	mgr      backup.IManager
	store    *vocab.Store
	mistakes dao.IMistakeDao
}

type Option func(c *config)

func WithUser(m map[string]string) Option {
	return func(c *config) {
		c.userMap = m
	}
}

func WithManager(mgr backup.IManager) Option {
	return func(c *config) {
		c.mgr = mgr
	}
}

func WithStore(store *vocab.Store) Option {
	return func(c *config) {
		c.store = store
	}
}

func WithMistakeDao(d dao.IMistakeDao) Option {
	return func(c *config) {
		c.mistakes = d
	}
}

func applyOpts(opts ...Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
