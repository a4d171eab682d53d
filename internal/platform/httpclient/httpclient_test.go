package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New("", time.Second); err == nil {
		t.Fatal("expected error for empty base url")
	}
	if _, err := New("   ", time.Second); err == nil {
		t.Fatal("expected error for blank base url")
	}
	if _, err := New("not a url", time.Second); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestDoJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/echo" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("X-Api-Key = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}

		var in struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"greeting": "hola " + in.Name})
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out struct {
		Greeting string `json:"greeting"`
	}
	err = c.DoJSON(context.Background(), http.MethodPost, "v1/echo",
		map[string]string{"X-Api-Key": "secret"},
		map[string]string{"name": "Ana"}, &out)
	if err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Greeting != "hola Ana" {
		t.Fatalf("greeting = %q", out.Greeting)
	}
}

func TestDoJSON_Non2xxIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = c.DoJSON(context.Background(), http.MethodGet, "/v1/tokens", nil, nil, nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Status != http.StatusUnauthorized || se.Body != "no such token" {
		t.Fatalf("status error = %+v", se)
	}
}

func TestDoJSON_NilOutIgnoresBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ignored":true}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.DoJSON(context.Background(), http.MethodGet, "/ping", nil, nil, nil); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
}
