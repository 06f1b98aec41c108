package ch

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vkcom/kittenhouse-client/chhttp"
)

// Client is a lightweight, cheap-to-copy handle on one ClickHouse HTTP
// endpoint. Query, Insert, NewInserter and Watch all read the fields
// below at call time, so changing them on a Client (or a clone from
// With...) only affects calls made afterwards.
type Client struct {
	baseURL     string
	pool        *chhttp.HostPool
	database    string
	user        string
	password    string
	roles       []string
	settings    map[string]string
	compression Compression
	httpClient  *http.Client
	userAgent   string
	logger      *logSink
}

// New returns a Client targeting baseURL (e.g. "http://localhost:8123/").
// It is safe for concurrent use; individual Insert/Inserter/Cursor
// values it hands out are not.
func New(baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  chhttp.NewClient(),
		compression: LZ4(),
		userAgent:   "kittenhouse-client-go",
	}
}

// clone returns a shallow copy so With... methods can be chained without
// mutating a Client shared by other goroutines.
func (c *Client) clone() *Client {
	cp := *c
	if c.settings != nil {
		cp.settings = make(map[string]string, len(c.settings))
		for k, v := range c.settings {
			cp.settings[k] = v
		}
	}
	if c.roles != nil {
		cp.roles = append([]string(nil), c.roles...)
	}
	return &cp
}

// WithDatabase returns a clone that targets the given default database.
func (c *Client) WithDatabase(database string) *Client {
	cp := c.clone()
	cp.database = database
	return cp
}

// WithAuth returns a clone that authenticates as user/password.
func (c *Client) WithAuth(user, password string) *Client {
	cp := c.clone()
	cp.user = user
	cp.password = password
	return cp
}

// WithRoles returns a clone that additionally sets the given SQL roles
// on every request, per the reference client's role-header support.
func (c *Client) WithRoles(roles ...string) *Client {
	cp := c.clone()
	cp.roles = append(append([]string(nil), c.roles...), roles...)
	return cp
}

// WithSetting returns a clone with a server-side setting (e.g.
// "max_execution_time") applied to every request it makes.
func (c *Client) WithSetting(key, value string) *Client {
	cp := c.clone()
	if cp.settings == nil {
		cp.settings = make(map[string]string)
	}
	cp.settings[key] = value
	return cp
}

// WithCompression returns a clone using the given Compression for both
// request and response bodies.
func (c *Client) WithCompression(compression Compression) *Client {
	cp := c.clone()
	cp.compression = compression
	return cp
}

// WithHTTPClient returns a clone that issues requests through client
// instead of the default tuned transport. Useful for tests.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	cp := c.clone()
	cp.httpClient = client
	return cp
}

// WithProductInfo returns a clone whose stored user-agent string is
// "product/version kittenhouse-client-go". Requests do not carry this
// string: no User-Agent header is set from it.
func (c *Client) WithProductInfo(product, version string) *Client {
	cp := c.clone()
	cp.userAgent = product + "/" + version + " kittenhouse-client-go"
	return cp
}

// WithLogger returns a clone that emits one structured zerolog event for
// each Query that gets a 2xx response, independent of the package-level
// WriteDebugLog switch. Insert, Execute, QueryRaw, Watch and failed
// requests are not logged.
func (c *Client) WithLogger(logger zerolog.Logger) *Client {
	cp := c.clone()
	cp.logger = &logSink{logger: logger}
	return cp
}

// WithHostPool returns a clone that picks a base URL from pool on every
// request instead of using a single fixed endpoint, and marks a host
// broken (retried in the background) whenever a request to it fails at
// the network level.
func (c *Client) WithHostPool(pool *chhttp.HostPool) *Client {
	cp := c.clone()
	cp.pool = pool
	return cp
}

func (c *Client) resolveBaseURL() (string, error) {
	if c.pool == nil {
		return c.baseURL, nil
	}
	base, ok := c.pool.Next()
	if !ok {
		return "", newError(Network, errNoHostsAvailable)
	}
	return base, nil
}

func (c *Client) reportNetworkFailure(baseURL string) {
	if c.pool == nil {
		return
	}
	c.pool.MarkBroken(baseURL, func(candidate string) error {
		probe := *c
		probe.pool = nil
		probe.baseURL = candidate
		return (&probe).Ping(context.Background())
	})
}

func (c *Client) params(query string) (chhttp.Params, error) {
	base, err := c.resolveBaseURL()
	if err != nil {
		return chhttp.Params{}, err
	}
	return chhttp.Params{
		BaseURL:  base,
		Database: c.database,
		User:     c.user,
		Password: c.password,
		Query:    query,
		Roles:    c.roles,
		Settings: c.settings,
	}, nil
}

type clientError string

func (e clientError) Error() string { return string(e) }

const errNoHostsAvailable = clientError("ch: no healthy hosts available")
