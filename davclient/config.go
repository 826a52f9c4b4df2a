package davclient

import "net/http"

type config struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

type Option func(c *config)

func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

func WithAuth(user string, pass string) Option {
	return func(c *config) {
		c.username = user
		c.password = pass
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.client = hc
	}
}

func applyOpts(opts ...Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
