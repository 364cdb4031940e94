package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultEndpoint = "/tareas-filtradas"
	DefaultTimeout  = 15 * time.Second
	DefaultLimit    = 100

	// maxErrorBody bounds how much of a failed response is quoted in errors.
	maxErrorBody = 512
)

// Query carries the server-side filter and paging parameters of a fetch.
// Zero fields are not sent.
type Query struct {
	Status       []string
	Priority     []string
	Collaborator []string
	Board        string
	From         string // YYYY-MM-DD
	To           string // YYYY-MM-DD
	Search       string
	Overdue      *bool
	DueFrom      string // YYYY-MM-DD
	DueTo        string // YYYY-MM-DD
	DoneFrom     string // YYYY-MM-DD, against the completion date
	DoneTo       string // YYYY-MM-DD, against the completion date
	OrderBy      string
	OrderDir     string
	Limit        int
	Offset       int
}

// Values encodes q the way the task API expects: multi-valued filters as
// comma-separated lists, ordering by newest creation date unless set.
func (q Query) Values() url.Values {
	v := url.Values{}
	setCSV(v, "estado", q.Status)
	setCSV(v, "prioridad", q.Priority)
	setCSV(v, "colaborador", q.Collaborator)
	setString(v, "tablero", q.Board)
	setString(v, "desde", q.From)
	setString(v, "hasta", q.To)
	setString(v, "q", q.Search)
	if q.Overdue != nil {
		v.Set("vencida", strconv.FormatBool(*q.Overdue))
	}
	setString(v, "vencimiento_desde", q.DueFrom)
	setString(v, "vencimiento_hasta", q.DueTo)
	setString(v, "finalizacion_desde", q.DoneFrom)
	setString(v, "finalizacion_hasta", q.DoneTo)

	orderBy, orderDir := q.OrderBy, q.OrderDir
	if orderBy == "" {
		orderBy = "fecha_creacion"
	}
	if orderDir == "" {
		orderDir = "desc"
	}
	v.Set("order_by", orderBy)
	v.Set("order_dir", orderDir)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	v.Set("limit", strconv.Itoa(limit))
	v.Set("offset", strconv.Itoa(max(q.Offset, 0)))
	return v
}

func setCSV(v url.Values, key string, values []string) {
	var kept []string
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) > 0 {
		v.Set(key, strings.Join(kept, ","))
	}
}

func setString(v url.Values, key, s string) {
	if s = strings.TrimSpace(s); s != "" {
		v.Set(key, s)
	}
}

// Response is one raw answer from a task source. Body is left as delivered;
// shape detection happens downstream.
type Response struct {
	Body  []byte
	Total int
}

// Fetcher is anything that can deliver a raw task response.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*Response, error)
}

// Client fetches tasks from the task REST API.
type Client struct {
	baseURL  string
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the API rooted at baseURL. A zero timeout
// uses DefaultTimeout.
func NewClient(baseURL, endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: "/" + strings.TrimLeft(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
	}
}

// Fetch performs one GET against the task endpoint.
func (c *Client) Fetch(ctx context.Context, q Query) (*Response, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("task API URL is not configured")
	}
	u := c.baseURL + c.endpoint + "?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Printf("[HTTP] GET %s", c.endpoint)
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("task API request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read task API response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		excerpt := body
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return nil, fmt.Errorf("task API returned %d for %s: %s", res.StatusCode, c.endpoint, strings.TrimSpace(string(excerpt)))
	}

	return &Response{Body: body, Total: total(res.Header, body)}, nil
}

// total reads the overall task count from the X-Total-Count header, falling
// back to a top-level "total" property in the body.
func total(h http.Header, body []byte) int {
	if v := h.Get("X-Total-Count"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	if !gjson.ValidBytes(body) {
		return 0
	}
	if t := gjson.GetBytes(body, "total"); t.Exists() {
		return int(t.Int())
	}
	return 0
}

// FileFetcher reads a saved response from a file, or from stdin when Path
// is "-".
type FileFetcher struct {
	Path  string
	Stdin io.Reader
}

// Fetch ignores q: a saved document is returned whole.
func (f *FileFetcher) Fetch(_ context.Context, _ Query) (*Response, error) {
	var r io.Reader
	if f.Path == "-" || f.Path == "" {
		r = f.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		file, err := os.Open(f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Path, err)
		}
		defer file.Close()
		r = file
	}
	return ParseResponse(r)
}

// ParseResponse reads a whole raw response document from r.
func ParseResponse(r io.Reader) (*Response, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read task document: %w", err)
	}
	return &Response{Body: body, Total: total(http.Header{}, body)}, nil
}
