package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func idemRouter(lookup IdempotencyLookup, inspect gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/submit", inspect)
	return r
}

func TestIdempotencyValidator_NoHeaderIsNoop(t *testing.T) {
	r := idemRouter(nil, func(c *gin.Context) {
		if _, ok := GetIdempotencyKey(c); ok {
			t.Error("unexpected idempotency key in context")
		}
		if IsReplay(c) {
			t.Error("unexpected replay flag")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestIdempotencyValidator_StashesValidKey(t *testing.T) {
	r := idemRouter(nil, func(c *gin.Context) {
		key, ok := GetIdempotencyKey(c)
		if !ok || key != "retry-01" {
			t.Errorf("key = %q ok=%v, want retry-01", key, ok)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(HeaderIdempotencyKey, "retry-01")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestIdempotencyValidator_RejectsMalformedKey(t *testing.T) {
	cases := []string{
		"has space",
		"emoji❤",
		strings.Repeat("x", 201),
	}
	for _, key := range cases {
		r := idemRouter(nil, func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("key %q: status = %d, want 400", key, w.Code)
		}
	}
}

func TestIdempotencyValidator_MarksReplayAndBypass(t *testing.T) {
	lookup := func(ctx context.Context, key string, now time.Time) (bool, error) {
		return key == "seen-before", nil
	}
	r := idemRouter(lookup, func(c *gin.Context) {
		if !IsReplay(c) {
			t.Error("expected replay flag")
		}
		if !IsRateBypass(c) {
			t.Error("expected rate bypass flag")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(HeaderIdempotencyKey, "seen-before")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestIdempotencyValidator_LookupErrorDoesNotBlock(t *testing.T) {
	lookup := func(ctx context.Context, key string, now time.Time) (bool, error) {
		return false, errors.New("db down")
	}
	r := idemRouter(lookup, func(c *gin.Context) {
		if IsReplay(c) {
			t.Error("lookup failure must not mark replay")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(HeaderIdempotencyKey, "fresh-key")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
