package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the news service. It keeps the session cookie in its jar
// and does not follow redirects, so callers see the 302/303 answers.
type Client struct {
	http.Client
	Addr string
}

func New(addr string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		Addr: addr,
		Client: http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Groups   []string `json:"groups"`
	IsAuthor bool     `json:"is_author"`
}

type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html"`
	Category  string    `json:"category"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type Page struct {
	Number      int  `json:"number"`
	Size        int  `json:"size"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

type NewsPage struct {
	News        []Article `json:"news"`
	Search      []Article `json:"search"`
	Page        Page      `json:"page"`
	IsNotAuthor bool      `json:"is_not_author"`
}

// Filter holds the search criteria; empty fields are left out.
type Filter struct {
	Query    string
	Category string
	From     string // 2006-01-02
	To       string // 2006-01-02
}

// StatusError is returned for answers other than the expected status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func (c *Client) do(method, path string, payload, out interface{}, want int) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.Addr+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		return &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *Client) Ping() (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

func (c *Client) SignUp(username, password string) (*User, error) {
	u := &User{}
	return u, c.do(http.MethodPost, "/accounts/signup", credentials(username, password), u, http.StatusSeeOther)
}

func (c *Client) Login(username, password string) (*User, error) {
	u := &User{}
	return u, c.do(http.MethodPost, "/accounts/login", credentials(username, password), u, http.StatusSeeOther)
}

func (c *Client) Logout() error {
	return c.do(http.MethodPost, "/accounts/logout", nil, nil, http.StatusSeeOther)
}

// Upgrade joins the logged-in user to the author group.
func (c *Client) Upgrade() (*User, error) {
	u := &User{}
	return u, c.do(http.MethodPost, "/upgrade", nil, u, http.StatusSeeOther)
}

func (c *Client) News(page int) (*NewsPage, error) {
	p := &NewsPage{}
	return p, c.do(http.MethodGet, "/news/?page="+strconv.Itoa(page), nil, p, http.StatusOK)
}

func (c *Client) Search(f Filter, page int) (*NewsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	for key, value := range map[string]string{"q": f.Query, "category": f.Category, "from": f.From, "to": f.To} {
		if value != "" {
			q.Set(key, value)
		}
	}
	p := &NewsPage{}
	return p, c.do(http.MethodGet, "/news/search?"+q.Encode(), nil, p, http.StatusOK)
}

func (c *Client) Create(title, body, category string) (*Article, error) {
	a := &Article{}
	payload := map[string]string{"title": title, "body": body, "category": category}
	return a, c.do(http.MethodPost, "/news/create", payload, a, http.StatusSeeOther)
}

func credentials(username, password string) map[string]string {
	return map[string]string{"username": username, "password": password}
}
