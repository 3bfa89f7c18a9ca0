// Package location serves the Nigerian state and LGA lists used by the
// registration forms. Upstream geodata is slow and effectively static, so
// reads go through a redis cache with a long TTL plus a small in-process
// memo that survives redis outages.
package location

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	redisrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/redis"

	"github.com/teejohn247/eth-project-backend-sub001/internal/geodata"
	redisx "github.com/teejohn247/eth-project-backend-sub001/internal/redis"
)

var ErrUnknownState = errors.New("unknown state code")

type Config struct {
	// TTL bounds staleness for both the redis entries and the in-process
	// memo. Geodata changes rarely; a day is generous.
	TTL time.Duration
}

type Service struct {
	geo   *geodata.Client
	cache *redisrepo.Cache
	cfg   Config
	now   func() time.Time

	mu        sync.RWMutex
	states    []geodata.State
	statesExp time.Time
	lgas      map[string]memoEntry
}

type memoEntry struct {
	items []geodata.LGA
	exp   time.Time
}

func New(geo *geodata.Client, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	return &Service{
		geo:   geo,
		cache: cache,
		cfg:   cfg,
		now:   time.Now,
		lgas:  make(map[string]memoEntry),
	}
}

func (s *Service) States(ctx context.Context) ([]geodata.State, error) {
	const op = "service.location.States"

	s.mu.RLock()
	if s.states != nil && s.now().Before(s.statesExp) {
		out := s.states
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	out, err := s.loadStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	s.states = out
	s.statesExp = s.now().Add(s.cfg.TTL)
	s.mu.Unlock()

	return out, nil
}

func (s *Service) LGAs(ctx context.Context, stateCode string) ([]geodata.LGA, error) {
	const op = "service.location.LGAs"

	stateCode = strings.ToUpper(strings.TrimSpace(stateCode))
	if stateCode == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrUnknownState)
	}

	s.mu.RLock()
	if e, ok := s.lgas[stateCode]; ok && s.now().Before(e.exp) {
		s.mu.RUnlock()
		return e.items, nil
	}
	s.mu.RUnlock()

	states, err := s.States(ctx)
	if err != nil {
		return nil, err
	}
	if !knownState(states, stateCode) {
		return nil, fmt.Errorf("%s:%w", op, ErrUnknownState)
	}

	out, err := s.loadLGAs(ctx, stateCode)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	s.lgas[stateCode] = memoEntry{items: out, exp: s.now().Add(s.cfg.TTL)}
	s.mu.Unlock()

	return out, nil
}

// Search matches states by name or code, case-insensitively.
func (s *Service) Search(ctx context.Context, query string) ([]geodata.State, error) {
	const op = "service.location.Search"

	states, err := s.States(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return states, nil
	}

	out := make([]geodata.State, 0, len(states))
	for _, st := range states {
		if strings.Contains(strings.ToLower(st.Name), query) || strings.EqualFold(st.Code, query) {
			out = append(out, st)
		}
	}
	return out, nil
}

// CacheInfo describes the in-process memo, mostly for operators checking
// whether stale geodata is being served.
type CacheInfo struct {
	StatesCached bool       `json:"statesCached"`
	StatesCount  int        `json:"statesCount"`
	StatesExpiry *time.Time `json:"statesExpiry,omitempty"`
	LGAStates    []string   `json:"lgaStates"`
	TTLSeconds   int64      `json:"ttlSeconds"`
}

func (s *Service) CacheInfo() *CacheInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := &CacheInfo{
		StatesCached: s.states != nil && s.now().Before(s.statesExp),
		StatesCount:  len(s.states),
		LGAStates:    make([]string, 0, len(s.lgas)),
		TTLSeconds:   int64(s.cfg.TTL / time.Second),
	}
	if info.StatesCached {
		exp := s.statesExp
		info.StatesExpiry = &exp
	}
	now := s.now()
	for code, e := range s.lgas {
		if now.Before(e.exp) {
			info.LGAStates = append(info.LGAStates, code)
		}
	}
	sort.Strings(info.LGAStates)
	return info
}

func (s *Service) loadStates(ctx context.Context) ([]geodata.State, error) {
	if s.cache == nil {
		return s.geo.States(ctx)
	}

	return redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyLocationStates(), s.cfg.TTL,
		func(ctx context.Context) ([]geodata.State, error) {
			return s.geo.States(ctx)
		})
}

func (s *Service) loadLGAs(ctx context.Context, stateCode string) ([]geodata.LGA, error) {
	if s.cache == nil {
		return s.geo.LGAs(ctx, stateCode)
	}

	return redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyLocationLGAs(stateCode), s.cfg.TTL,
		func(ctx context.Context) ([]geodata.LGA, error) {
			return s.geo.LGAs(ctx, stateCode)
		})
}

func knownState(states []geodata.State, code string) bool {
	for _, st := range states {
		if strings.EqualFold(st.Code, code) {
			return true
		}
	}
	return false
}
