package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"YES", true},
		{"yes", true},
		{" Yes.", true},
		{"NO", false},
		{"no", false},
		{"No, this is off-topic", false},
		{"", true},         // empty degrades to relevant
		{"Probably", true}, // anything not NO is relevant
	}
	for _, tt := range tests {
		if got := ParseVerdict(tt.text); got != tt.want {
			t.Errorf("ParseVerdict(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestNilClientAssumesRelevant(t *testing.T) {
	var c *Client
	ok, err := c.Relevant(context.Background(), "write Go", "YouTube")
	if !ok {
		t.Fatal("nil client must assume relevant")
	}
	if !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("err = %v, want ErrUnconfigured", err)
	}
}

func TestNewClientEmptyKey(t *testing.T) {
	if c := NewClient("", "", ""); c != nil {
		t.Fatal("NewClient with empty key should return nil")
	}
}

func TestRelevantParsesAPIResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(messagesResponse{
			Content: []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			}{{Type: "text", Text: "NO"}},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", "test-model", srv.URL)
	ok, err := c.Relevant(context.Background(), "ship the release", "cat videos - YouTube")
	if err != nil {
		t.Fatalf("Relevant: %v", err)
	}
	if ok {
		t.Fatal("verdict = relevant, want not relevant")
	}
}

func TestRelevantServerErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test-key", "", srv.URL)
	ok, err := c.Relevant(context.Background(), "goal", "title")
	if err == nil {
		t.Fatal("expected error from 500 response")
	}
	if !ok {
		t.Fatal("failed oracle call must degrade to relevant")
	}
}
