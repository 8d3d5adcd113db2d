package versions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/casperkit/casperkit/internal/branding"
)

// ErrNotFound means the registry has no such crate.
var ErrNotFound = errors.New("crate not found in registry")

// DefaultTimeout bounds a single index query.
const DefaultTimeout = 5 * time.Second

// maxIndexSize caps how much of an index file is read.
const maxIndexSize = 8 << 20

// Registry resolves versions from a crates.io-style sparse index.
type Registry struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Registry.
type Option func(*Registry)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(r *Registry) {
		r.httpClient = c
	}
}

// WithTimeout sets the per-query timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRegistry creates a Registry for the sparse index at baseURL. toolVersion
// is the running tool's release and is sent in the User-Agent header, which
// crates.io requires.
func NewRegistry(baseURL, toolVersion string, opts ...Option) *Registry {
	r := &Registry{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  branding.UserAgent(toolVersion),
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the newest published version of dep compatible with the
// bundled one. It issues exactly one GET.
func (r *Registry) Resolve(ctx context.Context, dep Dependency) (Pin, error) {
	c, err := CompatibleConstraint(dep)
	if err != nil {
		return Pin{}, err
	}

	candidates, err := r.Versions(ctx, dep.Name)
	if err != nil {
		return Pin{}, err
	}

	v, err := Select(candidates, c)
	if err != nil {
		return Pin{}, fmt.Errorf("%s: %w", dep.Name, err)
	}
	return Pin{Name: dep.Name, Version: v.String(), Source: SourceRegistry}, nil
}

// indexRecord is one line of a sparse index file.
type indexRecord struct {
	Name   string `json:"name"`
	Vers   string `json:"vers"`
	Yanked bool   `json:"yanked"`
}

// Versions fetches every published version of the named crate.
func (r *Registry) Versions(ctx context.Context, name string) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	url := r.baseURL + "/" + IndexPath(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching index for %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("registry returned status %d for %s", resp.StatusCode, name)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxIndexSize))
	var out []Candidate
	for {
		var rec indexRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing index for %s: %w", name, err)
		}
		out = append(out, Candidate{Version: rec.Vers, Yanked: rec.Yanked})
	}
	return out, nil
}

// IndexPath returns the sparse index path of a crate name:
// "a" -> "1/a", "ab" -> "2/ab", "abc" -> "3/a/abc",
// "casper-types" -> "ca/sp/casper-types".
func IndexPath(name string) string {
	name = strings.ToLower(name)
	switch len(name) {
	case 0:
		return ""
	case 1:
		return "1/" + name
	case 2:
		return "2/" + name
	case 3:
		return "3/" + name[:1] + "/" + name
	default:
		return name[:2] + "/" + name[2:4] + "/" + name
	}
}
