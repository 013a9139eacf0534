package transport

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/datalab/drawbridge/internal/config"
	"github.com/datalab/drawbridge/internal/log"
	"github.com/datalab/drawbridge/internal/target"
	"github.com/datalab/drawbridge/internal/ui"
)

func newTestProxy(url string) *Proxy {
	return NewProxy(target.BigQuery, &config.Config{
		ProxyURL:   url,
		ProxyToken: "cap-token",
	})
}

func TestHeaderInjection(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(ProxyHeader))
	}))
	defer srv.Close()

	p := newTestProxy(srv.URL)
	client := &http.Client{Transport: p}

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL + "/query")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	if len(seen) != 3 {
		t.Fatalf("server saw %d requests", len(seen))
	}
	for i, v := range seen {
		if v != "cap-token" {
			t.Errorf("request %d: proxy header = %q", i, v)
		}
	}
}

func TestRoundTripDoesNotMutateRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	p := newTestProxy(srv.URL)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := req.Header.Get(ProxyHeader); got != "" {
		t.Errorf("original request was mutated: %s = %q", ProxyHeader, got)
	}
}

func TestForbiddenEmitsHintAndPassesThrough(t *testing.T) {
	var hints bytes.Buffer
	ui.SetWriter(&hints)
	ui.SetColorEnabled(false)
	defer ui.SetWriter(os.Stderr)
	log.SetOutput(new(bytes.Buffer))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := newTestProxy(srv.URL)
	client := &http.Client{Transport: p}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403 passed through unchanged", resp.StatusCode)
	}
	out := hints.String()
	if !strings.Contains(out, "Did you mean to select a BigQuery account") {
		t.Errorf("missing account-selection hint:\n%s", out)
	}
}

func TestNonForbiddenEmitsNoHint(t *testing.T) {
	var hints bytes.Buffer
	ui.SetWriter(&hints)
	defer ui.SetWriter(os.Stderr)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := newTestProxy(srv.URL)
	client := &http.Client{Transport: p}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if hints.Len() != 0 {
		t.Errorf("unexpected hint on 404: %q", hints.String())
	}
}
