package fdc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mspro-labs/fdc-seed/internal/db"
)

func TestSearchFoodsRequest(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/foods/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if key := r.URL.Query().Get("api_key"); key != "secret" {
			t.Errorf("expected api_key=secret, got %q", key)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalHits": 1, "foods": [{"fdcId": 171688, "description": "Apples, raw",
			"foodNutrients": [{"nutrientId": 1008, "value": 52}]}]}`))
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL+"/", 5*time.Second, 0)
	foods, err := c.SearchFoods(context.Background(), "apple raw", []string{"Foundation", "SR Legacy"}, 5)
	if err != nil {
		t.Fatalf("SearchFoods failed: %v", err)
	}
	if len(foods) != 1 || foods[0].Description != "Apples, raw" {
		t.Fatalf("unexpected foods: %+v", foods)
	}

	want := searchRequest{Query: "apple raw", PageSize: 5, PageNumber: 1, DataType: []string{"Foundation", "SR Legacy"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected request %+v, got %+v", want, got)
	}
}

func TestSearchFoodsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalHits": 0}`))
	}))
	defer srv.Close()

	foods, err := NewClient("k", srv.URL, time.Second, 0).SearchFoods(context.Background(), "zzz", nil, 5)
	if err != nil {
		t.Fatalf("SearchFoods failed: %v", err)
	}
	if foods == nil || len(foods) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", foods)
	}
}

func TestSearchFoodsFailures(t *testing.T) {
	testCases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		},
	}
	for name, h := range testCases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := NewClient("k", srv.URL, time.Second, 0).SearchFoods(context.Background(), "oats", nil, 5)
			var sf *SearchFailedError
			if !errors.As(err, &sf) {
				t.Fatalf("expected SearchFailedError, got %v", err)
			}
			if sf.Query != "oats" {
				t.Errorf("expected query 'oats', got %q", sf.Query)
			}
		})
	}
}

func TestSearchFoodsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient("k", url, time.Second, 0).SearchFoods(context.Background(), "oats", nil, 5)
	var sf *SearchFailedError
	if !errors.As(err, &sf) {
		t.Fatalf("expected SearchFailedError, got %v", err)
	}
}

func TestCachedClientServesRepeatFromCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"foods": [{"fdcId": 1, "description": "Oats"}]}`))
	}))
	defer srv.Close()

	database, err := db.Connect(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer database.Close()

	c := NewCachedClient(NewClient("k", srv.URL, time.Second, 0), database)
	for i := 0; i < 3; i++ {
		foods, err := c.SearchFoods(context.Background(), "oats", []string{"Foundation"}, 5)
		if err != nil {
			t.Fatalf("SearchFoods failed: %v", err)
		}
		if len(foods) != 1 {
			t.Fatalf("expected 1 food, got %d", len(foods))
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected 1 network call, got %d", n)
	}

	if _, err := db.GetCachedSearch(database, db.CacheKey("oats", []string{"Foundation"}, 5)); err != nil {
		t.Errorf("expected cached entry, got %v", err)
	}
}

func TestClientSpacesNetworkCalls(t *testing.T) {
	var mu sync.Mutex
	var arrivals []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		w.Write([]byte(`{"foods": []}`))
	}))
	defer srv.Close()

	const interval = 60 * time.Millisecond
	c := NewClient("k", srv.URL, time.Second, interval)
	for _, q := range []string{"oats", "milk", "rice"} {
		if _, err := c.SearchFoods(context.Background(), q, nil, 5); err != nil {
			t.Fatalf("SearchFoods(%q) failed: %v", q, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(arrivals) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(arrivals))
	}
	for i := 1; i < len(arrivals); i++ {
		if gap := arrivals[i].Sub(arrivals[i-1]); gap < interval-10*time.Millisecond {
			t.Errorf("request %d arrived %v after the previous one, want at least %v", i, gap, interval)
		}
	}
}

func TestClientWaitHonorsCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foods": []}`))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, time.Second, time.Hour)
	if _, err := c.SearchFoods(context.Background(), "oats", nil, 5); err != nil {
		t.Fatalf("first search failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.SearchFoods(ctx, "milk", nil, 5); err == nil {
		t.Error("expected the second search to give up while waiting for the limiter")
	}
}

func TestCachedClientHitSkipsLimiter(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"foods": [{"fdcId": 1, "description": "Oats"}]}`))
	}))
	defer srv.Close()

	database, err := db.Connect(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer database.Close()

	c := NewCachedClient(NewClient("k", srv.URL, time.Second, 500*time.Millisecond), database)
	if _, err := c.SearchFoods(context.Background(), "oats", nil, 5); err != nil {
		t.Fatalf("SearchFoods failed: %v", err)
	}

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := c.SearchFoods(context.Background(), "oats", nil, 5); err != nil {
			t.Fatalf("cached SearchFoods failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Errorf("cached searches took %v, expected no limiter wait", elapsed)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected 1 network call, got %d", n)
	}
}
