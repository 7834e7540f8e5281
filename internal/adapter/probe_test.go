package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/settings"
)

func probeSettings(baseURL string) settings.Settings {
	st := settings.Defaults()
	st.APIMode = provider.ModeCustom
	st.BaseURL = baseURL
	st.APIKey = "sk-probe"
	return st
}

func TestProbeModel(t *testing.T) {
	t.Run("answering model passes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		}))
		defer srv.Close()

		tr := NewTransport()
		res := tr.ProbeModel(context.Background(), "gpt-4-turbo", probeSettings(srv.URL), directEnv(""))
		if !res.OK {
			t.Fatalf("probe failed: %v", res.Err)
		}
		if res.Provider != provider.GPT {
			t.Errorf("provider = %q, want %q", res.Provider, provider.GPT)
		}
		if res.Latency <= 0 {
			t.Errorf("latency = %v, want > 0", res.Latency)
		}
	})

	t.Run("rejected key fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Invalid API key"}}`))
		}))
		defer srv.Close()

		tr := NewTransport()
		res := tr.ProbeModel(context.Background(), "gpt-4-turbo", probeSettings(srv.URL), directEnv(""))
		if res.OK {
			t.Fatal("probe passed against a rejecting server")
		}
		if KindOf(res.Err) != KindAuth {
			t.Errorf("kind = %q, want %q", KindOf(res.Err), KindAuth)
		}
	})

	t.Run("misconfiguration fails without a request", func(t *testing.T) {
		st := probeSettings("")
		tr := NewTransport()
		res := tr.ProbeModel(context.Background(), "gpt-4-turbo", st, directEnv(""))
		if res.OK || res.Err == nil {
			t.Fatalf("result = %+v, want configuration error", res)
		}
	})
}

func TestSweep(t *testing.T) {
	t.Run("failed probe does not stop the sweep", func(t *testing.T) {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":{"message":"model not found"}}`))
				return
			}
			w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		}))
		defer srv.Close()

		var reported []ProbeResult
		tr := NewTransport()
		results := tr.Sweep(context.Background(),
			[]string{"gpt-4-turbo", "gpt-5.2"},
			probeSettings(srv.URL), directEnv(""), time.Millisecond,
			func(r ProbeResult) { reported = append(reported, r) })

		if len(results) != 2 {
			t.Fatalf("got %d results, want 2", len(results))
		}
		if results[0].OK || !results[1].OK {
			t.Errorf("results = [%v %v], want first fail second pass", results[0].OK, results[1].OK)
		}
		if len(reported) != 2 {
			t.Errorf("report callback ran %d times, want 2", len(reported))
		}
	})

	t.Run("cancellation stops between probes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		tr := NewTransport()
		results := tr.Sweep(ctx, []string{"gpt-4-turbo", "gpt-5.2", "gpt-4o"},
			probeSettings(srv.URL), directEnv(""), time.Hour,
			func(ProbeResult) { cancel() })

		if len(results) != 1 {
			t.Errorf("got %d results after cancellation, want 1", len(results))
		}
	})
}
