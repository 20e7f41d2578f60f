package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestRotationTrackerDelta(t *testing.T) {
	tests := []struct {
		name     string
		baseline int
		rotation int
		want     int
	}{
		{name: "no change", baseline: 90, rotation: 90, want: 0},
		{name: "quarter turn", baseline: 0, rotation: 90, want: 90},
		{name: "wraps forward", baseline: 270, rotation: 90, want: 180},
		{name: "wraps backward", baseline: 90, rotation: 0, want: 270},
		{name: "full turn collapses to zero", baseline: 0, rotation: 360, want: 0},
		{name: "negative display value", baseline: 0, rotation: -90, want: 270},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rt := NewRotationTracker()
			rt.Seed("img1", tc.baseline)
			if got := rt.Delta("img1", tc.rotation); got != tc.want {
				t.Fatalf("expected delta %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRotateImageSkipsZeroDelta(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signIn(t, c)
	rt := NewRotationTracker()
	rt.Seed("img1", 90)

	if err := c.RotateImage(context.Background(), rt, "img1", 90); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&requests); got != 0 {
		t.Fatalf("a zero delta must never reach the wire, got %d requests", got)
	}
}

func TestRotateImageSendsDeltaAndAdvancesBaseline(t *testing.T) {
	var sent struct {
		Rotation int `json:"rotation"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" || r.URL.Path != "/image/img1" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Fatal(err)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signIn(t, c)
	rt := NewRotationTracker()
	rt.Seed("img1", 270)

	if err := c.RotateImage(context.Background(), rt, "img1", 90); err != nil {
		t.Fatal(err)
	}
	if sent.Rotation != 180 {
		t.Fatalf("expected delta 180 on the wire, got %d", sent.Rotation)
	}
	if got := rt.Baseline("img1"); got != 90 {
		t.Fatalf("baseline should advance to the new absolute value, got %d", got)
	}
}

func TestRotateImageFailureKeepsBaseline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signIn(t, c)
	rt := NewRotationTracker()
	rt.Seed("img1", 0)

	if err := c.RotateImage(context.Background(), rt, "img1", 90); err == nil {
		t.Fatal("expected an error from the failed save")
	}
	if got := rt.Baseline("img1"); got != 0 {
		t.Fatalf("baseline must not move on failure, got %d", got)
	}
	// The next save resends the full delta since the old baseline.
	if got := rt.Delta("img1", 90); got != 90 {
		t.Fatalf("expected delta 90 after failed save, got %d", got)
	}
}
