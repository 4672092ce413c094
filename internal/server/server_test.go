package server

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":       ":8080",
		"9090":   ":9090",
		":7070":  ":7070",
		" 8081 ": ":8081",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Fatalf("normalizeAddr(%q)=%q; want %q", in, got, want)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{WriteTimeout: 3 * time.Second})
	hs := s.newHTTPServer(":0", http.NotFoundHandler())
	if hs.WriteTimeout != 3*time.Second {
		t.Fatalf("WriteTimeout=%v", hs.WriteTimeout)
	}
	if hs.ReadHeaderTimeout != defaultReadHeaderTimeout || hs.IdleTimeout != defaultIdleTimeout {
		t.Fatalf("defaults not applied: %+v", hs)
	}
	if hs.MaxHeaderBytes != maxHeaderBytes {
		t.Fatalf("MaxHeaderBytes=%d", hs.MaxHeaderBytes)
	}
}

func TestShutdownBeforeRun(t *testing.T) {
	s := New(Config{})
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Addr() != "" {
		t.Fatalf("Addr before Run = %q", s.Addr())
	}
}

func TestZeroValueServerUsesDefaults(t *testing.T) {
	var s Server
	hs := s.newHTTPServer(":0", http.NotFoundHandler())
	if hs.WriteTimeout != defaultWriteTimeout {
		t.Fatalf("WriteTimeout=%v", hs.WriteTimeout)
	}
}
