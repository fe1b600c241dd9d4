package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestHTTP_Post(t *testing.T) {
	var gotContentType, gotField string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotField = r.PostForm.Get("r")
		io.WriteString(w, `{"status":"OK","data":[]}`)
	}))
	defer srv.Close()

	h := New(Config{Endpoint: srv.URL, Logger: zerolog.Nop()})
	defer h.Close()

	form := url.Values{}
	form.Set("r", `["key",["key/info"]]`)

	body, err := h.Post(context.Background(), form)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if string(body) != `{"status":"OK","data":[]}` {
		t.Errorf("body = %s", body)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %s", gotContentType)
	}
	if gotField != `["key",["key/info"]]` {
		t.Errorf("r = %s", gotField)
	}
}

func TestHTTP_Post_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := New(Config{Endpoint: srv.URL, Logger: zerolog.Nop()})
	_, err := h.Post(context.Background(), url.Values{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d", statusErr.Code)
	}
}

func TestHTTP_Post_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	h := New(Config{Endpoint: srv.URL, RequestTimeout: 50 * time.Millisecond, Logger: zerolog.Nop()})
	if _, err := h.Post(context.Background(), url.Values{}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHTTP_Post_NoEndpoint(t *testing.T) {
	h := New(Config{Logger: zerolog.Nop()})
	if _, err := h.Post(context.Background(), url.Values{}); err == nil {
		t.Fatal("expected error without endpoint")
	}
}
