package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nulifyer/pkgpilot/logger"
)

const DefaultRegistryURL = "https://registry.npmjs.org"

// maxBody caps how much of a registry response is read.
const maxBody = 8 << 20

// HTTPClient queries the registry's REST API for <name>/latest.
type HTTPClient struct {
	// BaseURL overrides the default registry. Scoped registries from
	// Npmrc still apply.
	BaseURL string
	Detail  Detail
	HTTP    *http.Client
	// Npmrc supplies scoped registries and auth tokens. May be nil.
	Npmrc *Npmrc
}

func NewHTTPClient(baseURL string, detail Detail) *HTTPClient {
	return &HTTPClient{BaseURL: strings.TrimRight(baseURL, "/"), Detail: detail, HTTP: http.DefaultClient}
}

// RegistryFor picks the scope registry, then BaseURL, then the npmrc
// default, then the public registry.
func (c *HTTPClient) RegistryFor(name string) string {
	if scope, _, ok := strings.Cut(name, "/"); ok && c.Npmrc != nil {
		if reg, ok := c.Npmrc.Scopes[scope]; ok {
			return strings.TrimRight(reg, "/")
		}
	}
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if reg := c.Npmrc.RegistryFor(name); reg != "" {
		return strings.TrimRight(reg, "/")
	}
	return DefaultRegistryURL
}

// latestURL escapes the slash of scoped names (@scope/pkg -> @scope%2Fpkg).
func latestURL(base, name string) string {
	return fmt.Sprintf("%s/%s/latest", base, url.PathEscape(name))
}

func (c *HTTPClient) Lookup(ctx context.Context, name string) (*Metadata, error) {
	if strings.TrimSpace(name) == "" {
		return nil, lookupErr(name, "empty package name")
	}
	base := c.RegistryFor(name)
	u := latestURL(base, name)
	logger.Debug("GET %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &LookupError{Package: name, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Npmrc.TokenFor(base); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, &LookupError{Package: name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &LookupError{Package: name, Err: err}
	}
	if resp.StatusCode >= 400 {
		return nil, lookupErr(name, "GET %s: %s", u, resp.Status)
	}

	meta, err := decodeRecord(name, body)
	if err != nil {
		return nil, err
	}
	if c.Detail == DetailDescription {
		return &Metadata{Name: meta.Name, Description: meta.Description}, nil
	}
	return meta, nil
}
