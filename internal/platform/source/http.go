package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hrdash/internal/domain/directory"
)

// HTTP reads users from a dummyjson compatible API and enriches them with
// generated HR attributes.
type HTTP struct {
	baseURL string
	limit   int
	client  *http.Client
	gen     *Generator
}

func NewHTTP(baseURL string, limit int, timeout time.Duration, gen *Generator) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		limit:   limit,
		client:  &http.Client{Timeout: timeout},
		gen:     gen,
	}
}

type usersPage struct {
	Users []User `json:"users"`
}

func (h *HTTP) FetchEmployees(ctx context.Context) ([]directory.Employee, error) {
	endpoint := h.baseURL + "/users?limit=" + strconv.Itoa(h.limit)
	var page usersPage
	found, err := h.getJSON(ctx, endpoint, &page)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("GET %s: not found", endpoint)
	}
	out := make([]directory.Employee, 0, len(page.Users))
	for _, u := range page.Users {
		out = append(out, h.gen.Employee(u))
	}
	return out, nil
}

func (h *HTTP) FetchEmployeeByID(ctx context.Context, id string) (*directory.Employee, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return nil, nil
	}
	var u User
	found, err := h.getJSON(ctx, h.baseURL+"/users/"+url.PathEscape(id), &u)
	if err != nil || !found {
		return nil, err
	}
	emp := h.gen.Employee(u)
	return &emp, nil
}

// getJSON decodes a 2xx body into dst. A 404 reports found=false.
func (h *HTTP) getJSON(ctx context.Context, endpoint string, dst any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("GET %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return true, nil
}
