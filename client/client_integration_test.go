//go:build integration
// +build integration

package client

import (
	"testing"
)

func TestPing(t *testing.T) {
	c, err := New("http://localhost:3333")
	if err != nil {
		t.Fatal(err)
	}
	if s, err := c.Ping(); err != nil || s != "pong" {
		t.Fail()
	}
}

func TestNews(t *testing.T) {
	c, err := New("http://localhost:3333")
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.News(1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Page.Size != 3 || len(p.News) > 3 {
		t.Fatalf("unexpected page %+v", p.Page)
	}
}
