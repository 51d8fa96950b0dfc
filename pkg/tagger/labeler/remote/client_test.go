package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func TestLabelSuccess(t *testing.T) {
	client := &Client{
		BaseURL: "https://tagger.test/label",
		APIKey:  "secret",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				if req.Method != http.MethodPost {
					t.Errorf("unexpected method %s", req.Method)
				}
				if got := req.Header.Get("Authorization"); got != "Bearer secret" {
					t.Errorf("unexpected Authorization header %q", got)
				}
				if ct := req.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
					t.Errorf("unexpected Content-Type %q", ct)
				}
				body, _ := io.ReadAll(req.Body)
				if !strings.Contains(string(body), "flour\tI1") {
					t.Fatalf("expected request stream in body, got %q", body)
				}
				return &http.Response{
					StatusCode: 200,
					Body:       io.NopCloser(strings.NewReader("# 0.9\nflour\tI1\tL4\tNoCAP\tNoPAREN\tB-NAME/0.9\n\n")),
					Header:     make(http.Header),
				}
			}),
		},
	}

	out, err := client.Label(context.Background(), "flour\tI1\tL4\tNoCAP\tNoPAREN\n\n")
	if err != nil {
		t.Fatalf("Label: %v", err)
	}
	if !strings.HasPrefix(out, "# 0.9\n") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestLabelNoAPIKey(t *testing.T) {
	client := &Client{
		BaseURL: "https://tagger.test/label",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				if req.Header.Get("Authorization") != "" {
					t.Errorf("Authorization header should be unset")
				}
				return &http.Response{
					StatusCode: 200,
					Body:       io.NopCloser(strings.NewReader("")),
					Header:     make(http.Header),
				}
			}),
		},
	}
	if _, err := client.Label(context.Background(), "salt\n\n"); err != nil {
		t.Fatalf("Label: %v", err)
	}
}

func TestLabelError(t *testing.T) {
	client := &Client{
		BaseURL: "https://tagger.test/label",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return &http.Response{
					StatusCode: 503,
					Body:       io.NopCloser(strings.NewReader("model loading")),
					Header:     make(http.Header),
				}
			}),
		},
	}

	_, err := client.Label(context.Background(), "salt\n\n")
	if !errors.Is(err, internalerr.ErrLabelerUnavailable) {
		t.Fatalf("expected ErrLabelerUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "model loading") {
		t.Errorf("response body missing from error: %v", err)
	}
}

func TestLabelRequiresURL(t *testing.T) {
	_, err := (&Client{}).Label(context.Background(), "salt\n\n")
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestDefaultHTTPClientReused(t *testing.T) {
	client := &Client{BaseURL: "https://tagger.test/label"}

	first := client.httpClient()
	if first == nil || first.Timeout != defaultTimeout {
		t.Fatalf("unexpected default client %+v", first)
	}
	if second := client.httpClient(); second != first {
		t.Error("default client should be built once and reused")
	}

	injected := &http.Client{}
	client.HTTPClient = injected
	if client.httpClient() != injected {
		t.Error("injected HTTPClient should take precedence")
	}
}
