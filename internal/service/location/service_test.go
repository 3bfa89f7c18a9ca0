package location

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teejohn247/eth-project-backend-sub001/internal/geodata"
)

func newTestService(t *testing.T, ttl time.Duration) (*Service, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/states":
			json.NewEncoder(w).Encode([]geodata.State{
				{Name: "Lagos", Code: "LA", Capital: "Ikeja"},
				{Name: "Oyo", Code: "OY", Capital: "Ibadan"},
			})
		case "/states/LA/lgas":
			json.NewEncoder(w).Encode([]geodata.LGA{
				{Name: "Ikeja", StateCode: "LA"},
				{Name: "Surulere", StateCode: "LA"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	geo := geodata.NewClient(srv.URL, 0).WithHTTPClient(srv.Client())
	return New(geo, nil, Config{TTL: ttl}), &hits
}

func TestStatesCachedInProcess(t *testing.T) {
	svc, hits := newTestService(t, time.Hour)
	ctx := context.Background()

	first, err := svc.States(ctx)
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if len(first) != 2 || first[0].Code != "LA" {
		t.Fatalf("unexpected states: %+v", first)
	}

	if _, err := svc.States(ctx); err != nil {
		t.Fatalf("States (cached): %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Fatalf("upstream hit %d times, want 1", got)
	}
}

func TestStatesMemoExpires(t *testing.T) {
	svc, hits := newTestService(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	svc.now = func() time.Time { return base }

	if _, err := svc.States(ctx); err != nil {
		t.Fatalf("States: %v", err)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Hour) }

	if _, err := svc.States(ctx); err != nil {
		t.Fatalf("States (stale): %v", err)
	}

	if got := hits.Load(); got != 2 {
		t.Fatalf("upstream hit %d times, want 2", got)
	}
}

func TestLGAs(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	out, err := svc.LGAs(ctx, "la")
	if err != nil {
		t.Fatalf("LGAs: %v", err)
	}
	if len(out) != 2 || out[0].Name != "Ikeja" {
		t.Fatalf("unexpected lgas: %+v", out)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	out, err := svc.Search(ctx, "lag")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out) != 1 || out[0].Code != "LA" {
		t.Fatalf("unexpected results: %+v", out)
	}

	// code match is exact, case-insensitive
	out, err = svc.Search(ctx, "oy")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out) != 1 || out[0].Code != "OY" {
		t.Fatalf("unexpected results: %+v", out)
	}

	// empty query returns everything
	out, err = svc.Search(ctx, "  ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2", len(out))
	}
}

func TestCacheInfo(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	info := svc.CacheInfo()
	if info.StatesCached || info.StatesCount != 0 || len(info.LGAStates) != 0 {
		t.Fatalf("cold cache info: %+v", info)
	}

	if _, err := svc.States(ctx); err != nil {
		t.Fatalf("States: %v", err)
	}
	if _, err := svc.LGAs(ctx, "LA"); err != nil {
		t.Fatalf("LGAs: %v", err)
	}

	info = svc.CacheInfo()
	if !info.StatesCached || info.StatesCount != 2 {
		t.Fatalf("warm cache info: %+v", info)
	}
	if len(info.LGAStates) != 1 || info.LGAStates[0] != "LA" {
		t.Fatalf("lga states: %+v", info.LGAStates)
	}
	if info.StatesExpiry == nil {
		t.Fatal("expected states expiry")
	}
	if info.TTLSeconds != 3600 {
		t.Fatalf("ttl = %d, want 3600", info.TTLSeconds)
	}
}

func TestLGAsUnknownState(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)

	_, err := svc.LGAs(context.Background(), "XX")
	if !errors.Is(err, ErrUnknownState) {
		t.Fatalf("err = %v, want ErrUnknownState", err)
	}

	if _, err := svc.LGAs(context.Background(), "  "); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("blank code err = %v, want ErrUnknownState", err)
	}
}
