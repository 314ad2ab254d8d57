package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"Hegemonie/internal/region/domain"
	"Hegemonie/modules/kit/logx"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	region   *domain.Region
	loadedAt time.Time
}

// RegionService 加载地图并在进程内缓存；同一地图的并发加载只会访问一次存储。
// 实现了 render.Source，可以直接交给渲染器使用。
type RegionService struct {
	repo RegionRepo
	log  logx.Logger
	ttl  time.Duration
	now  func() time.Time

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewRegionService ttl<=0 时不缓存。
func NewRegionService(repo RegionRepo, log logx.Logger, ttl time.Duration) *RegionService {
	if log == nil {
		log = logx.Nop()
	}
	return &RegionService{
		repo:  repo,
		log:   log,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cacheEntry),
	}
}

// Region 返回地图拓扑。
func (s *RegionService) Region(ctx context.Context, name string) (*domain.Map, error) {
	r, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return r.Map, nil
}

// Cities 返回地图上的城池。
func (s *RegionService) Cities(ctx context.Context, name string) ([]domain.City, error) {
	r, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return r.Cities, nil
}

// Load 返回完整的地图；调用方不得修改返回值（缓存共享）。
func (s *RegionService) Load(ctx context.Context, name string) (*domain.Region, error) {
	if err := domain.ValidRegionName(name); err != nil {
		return nil, err
	}
	if r, ok := s.cached(name); ok {
		return r, nil
	}

	v, err, shared := s.group.Do(name, func() (any, error) {
		if r, ok := s.cached(name); ok {
			return r, nil
		}
		// 共享加载不受单个调用方取消的影响。
		r, err := s.loadFromRepo(context.WithoutCancel(ctx), name)
		if err != nil {
			return nil, err
		}
		s.store(name, r)
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.WithContext(ctx).Debug("region load shared", zap.String("region", name))
	}
	return v.(*domain.Region), nil
}

// Invalidate 丢弃缓存，下次访问重新加载（导入新地图后调用）。
func (s *RegionService) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
	s.group.Forget(name)
}

func (s *RegionService) loadFromRepo(ctx context.Context, name string) (*domain.Region, error) {
	r, err := s.repo.LoadRegion(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, ErrRegionNotFound), errors.Is(err, domain.ErrInvalidRegionName):
		return nil, err
	case errors.Is(err, domain.ErrInvalidMap), errors.Is(err, domain.ErrInvalidCity):
		return nil, ErrInternalServer.
			WithReason(ReasonRegionCorrupted).
			WithData("region", name).
			WithCause(err)
	default:
		return nil, ErrUnavailable.
			WithReason(ReasonRegionRepoUnavailable).
			WithData("region", name).
			WithCause(err)
	}
	if r == nil {
		return nil, ErrRegionNotFound.WithData("region", name)
	}
	if err := r.Validate(); err != nil {
		return nil, ErrInternalServer.
			WithReason(ReasonRegionCorrupted).
			WithData("region", name).
			WithCause(err)
	}
	s.log.WithContext(ctx).Info("region loaded",
		zap.String("region", name),
		zap.Int("cells", len(r.Map.Cells)),
		zap.Int("roads", len(r.Map.Roads)),
		zap.Int("cities", len(r.Cities)),
	)
	return r, nil
}

func (s *RegionService) cached(name string) (*domain.Region, bool) {
	if s.ttl <= 0 {
		return nil, false
	}
	s.mu.RLock()
	e, ok := s.cache[name]
	s.mu.RUnlock()
	if !ok || s.now().Sub(e.loadedAt) >= s.ttl {
		return nil, false
	}
	return e.region, true
}

func (s *RegionService) store(name string, r *domain.Region) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.cache[name] = cacheEntry{region: r, loadedAt: s.now()}
	s.mu.Unlock()
}
