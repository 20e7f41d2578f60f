package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"
)

func newTestSearchClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := NewClient(baseURL)
	c.HTTP.RetryMax = 0
	c.HTTP.Logger = nil
	return c
}

func TestSearchDropsMalformedItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"mpn":"LM358","manufacturer":"Texas Instruments","description":"Dual op-amp"},
			{"mpn":"","manufacturer":"Broken Corp"},
			{"manufacturer":"No MPN Inc"},
			{"mpn":"NE555"},
			{"mpn":"STM32F103","manufacturer":"STMicroelectronics"}
		]}`)
	}))
	defer srv.Close()

	c := newTestSearchClient(t, srv.URL)
	got, err := c.Search(context.Background(), "lm", true)
	if err != nil {
		t.Fatal(err)
	}

	want := []Result{
		{MPN: "LM358", Manufacturer: "Texas Instruments", Description: "Dual op-amp"},
		{MPN: "STM32F103", Manufacturer: "STMicroelectronics"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("malformed items should be dropped individually.\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestSearchNeverSendsAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	c := newTestSearchClient(t, srv.URL)
	if _, err := c.Search(context.Background(), "lm358", false); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("search requests must be unauthenticated, got %q", gotAuth)
	}
}

func TestSearchMatchModes(t *testing.T) {
	var gotMatch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMatch = r.URL.Query().Get("match")
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	c := newTestSearchClient(t, srv.URL)
	if _, err := c.Search(context.Background(), "lm358", false); err != nil {
		t.Fatal(err)
	}
	if gotMatch != "exact" {
		t.Fatalf("expected exact match mode, got %q", gotMatch)
	}
	if _, err := c.Search(context.Background(), "lm3", true); err != nil {
		t.Fatal(err)
	}
	if gotMatch != "prefix" {
		t.Fatalf("expected prefix match mode, got %q", gotMatch)
	}
}

func TestStripHTML(t *testing.T) {
	if got := stripHTML("<b>Dual</b> op-amp &amp; comparator"); got != "Dual op-amp & comparator" {
		t.Fatalf("unexpected stripped text: %q", got)
	}
	if got := stripHTML("  plain text  "); got != "plain text" {
		t.Fatalf("plain text should just be trimmed: %q", got)
	}
}

func TestDebouncerLastUpdateWins(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	d := &Debouncer{
		Quiet: 20 * time.Millisecond,
		Fire: func(query string) {
			mu.Lock()
			fired = append(fired, query)
			mu.Unlock()
		},
	}
	defer d.Stop()

	d.Update("lm3")
	d.Update("lm35")
	d.Update("lm358")

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(fired, []string{"lm358"}) {
		t.Fatalf("only the last query in the quiet window should fire, got %#v", fired)
	}
}

func TestDebouncerShortQueryCancelsPending(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	d := &Debouncer{
		Quiet: 20 * time.Millisecond,
		Fire: func(query string) {
			mu.Lock()
			fired = append(fired, query)
			mu.Unlock()
		},
	}
	defer d.Stop()

	d.Update("lm358")
	d.Update("lm") // backspaced below the minimum

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 0 {
		t.Fatalf("short query should cancel the pending fire, got %#v", fired)
	}
}
