package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"Hegemonie/internal/region/domain"
	"Hegemonie/modules/kit/errx"
)

type fakeRegionRepo struct {
	calls   atomic.Int32
	regions map[string]*domain.Region
	err     error
	gate    chan struct{}
}

func (r *fakeRegionRepo) LoadRegion(ctx context.Context, name string) (*domain.Region, error) {
	r.calls.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	if r.err != nil {
		return nil, r.err
	}
	reg, ok := r.regions[name]
	if !ok {
		return nil, ErrRegionNotFound.WithData("region", name)
	}
	return reg, nil
}

func demoRegion() *domain.Region {
	m := domain.NewMap()
	m.AddCell(domain.Cell{ID: "a", X: 0, Y: 0, City: "1"})
	m.AddCell(domain.Cell{ID: "b", X: 10, Y: 0})
	m.AddRoad("a", "b")
	return &domain.Region{
		Name:   "demo",
		Map:    m,
		Cities: domain.CityList{{ID: "1", Name: "Capital", Cell: "a"}},
	}
}

func TestRegionService_Region与Cities(t *testing.T) {
	repo := &fakeRegionRepo{regions: map[string]*domain.Region{"demo": demoRegion()}}
	s := NewRegionService(repo, nil, time.Minute)

	m, err := s.Region(context.Background(), "demo")
	if err != nil {
		t.Fatalf("region: %v", err)
	}
	if len(m.Cells) != 2 || len(m.Roads) != 1 {
		t.Fatalf("地图不符合预期: %+v", m)
	}
	cities, err := s.Cities(context.Background(), "demo")
	if err != nil {
		t.Fatalf("cities: %v", err)
	}
	if len(cities) != 1 || cities[0].Name != "Capital" {
		t.Fatalf("城池不符合预期: %+v", cities)
	}
	if got := repo.calls.Load(); got != 1 {
		t.Fatalf("缓存命中后不应再访问存储, calls=%d", got)
	}
}

func TestRegionService_缓存过期后重新加载(t *testing.T) {
	repo := &fakeRegionRepo{regions: map[string]*domain.Region{"demo": demoRegion()}}
	s := NewRegionService(repo, nil, time.Minute)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	if _, err := s.Load(context.Background(), "demo"); err != nil {
		t.Fatalf("load: %v", err)
	}
	now = now.Add(30 * time.Second)
	if _, err := s.Load(context.Background(), "demo"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := repo.calls.Load(); got != 1 {
		t.Fatalf("未过期不应重新加载, calls=%d", got)
	}
	now = now.Add(time.Minute)
	if _, err := s.Load(context.Background(), "demo"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := repo.calls.Load(); got != 2 {
		t.Fatalf("过期后应重新加载, calls=%d", got)
	}
}

func TestRegionService_ttl为0不缓存(t *testing.T) {
	repo := &fakeRegionRepo{regions: map[string]*domain.Region{"demo": demoRegion()}}
	s := NewRegionService(repo, nil, 0)
	for i := 0; i < 3; i++ {
		if _, err := s.Load(context.Background(), "demo"); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if got := repo.calls.Load(); got != 3 {
		t.Fatalf("calls=%d", got)
	}
}

func TestRegionService_Invalidate(t *testing.T) {
	repo := &fakeRegionRepo{regions: map[string]*domain.Region{"demo": demoRegion()}}
	s := NewRegionService(repo, nil, time.Hour)

	_, _ = s.Load(context.Background(), "demo")
	s.Invalidate("demo")
	_, _ = s.Load(context.Background(), "demo")
	if got := repo.calls.Load(); got != 2 {
		t.Fatalf("Invalidate 后应重新加载, calls=%d", got)
	}
}

func TestRegionService_并发加载只访问一次存储(t *testing.T) {
	repo := &fakeRegionRepo{
		regions: map[string]*domain.Region{"demo": demoRegion()},
		gate:    make(chan struct{}),
	}
	s := NewRegionService(repo, nil, time.Minute)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Load(context.Background(), "demo")
			errs <- err
		}()
	}
	// 等第一个请求进入存储后再放行。
	for repo.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(repo.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if got := repo.calls.Load(); got != 1 {
		t.Fatalf("期望只访问一次存储, calls=%d", got)
	}
}

func TestRegionService_不存在的地图(t *testing.T) {
	s := NewRegionService(&fakeRegionRepo{}, nil, time.Minute)
	_, err := s.Region(context.Background(), "nope")
	if !errors.Is(err, ErrRegionNotFound) {
		t.Fatalf("期望 ErrRegionNotFound, got=%v", err)
	}
}

func TestRegionService_非法名称不访问存储(t *testing.T) {
	repo := &fakeRegionRepo{}
	s := NewRegionService(repo, nil, time.Minute)
	_, err := s.Region(context.Background(), "../etc")
	if !errors.Is(err, domain.ErrInvalidRegionName) {
		t.Fatalf("期望 ErrInvalidRegionName, got=%v", err)
	}
	if repo.calls.Load() != 0 {
		t.Fatalf("非法名称不应访问存储")
	}
}

func TestRegionService_存储故障包装为Unavailable(t *testing.T) {
	cause := errors.New("connection refused")
	s := NewRegionService(&fakeRegionRepo{err: cause}, nil, time.Minute)

	_, err := s.Region(context.Background(), "demo")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable, got=%v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause 应保留在错误链上")
	}
	var e *errx.Error
	if !errors.As(err, &e) || e.Reason() != ReasonRegionRepoUnavailable.Code {
		t.Fatalf("reason 不符合预期: %v", err)
	}
	if len(e.Stack()) == 0 {
		t.Fatalf("系统错误应携带栈")
	}
}

func TestRegionService_损坏的数据(t *testing.T) {
	bad := demoRegion()
	bad.Map.AddRoad("a", "ghost")
	s := NewRegionService(&fakeRegionRepo{regions: map[string]*domain.Region{"demo": bad}}, nil, time.Minute)

	_, err := s.Region(context.Background(), "demo")
	if !errors.Is(err, ErrInternalServer) || !errors.Is(err, domain.ErrInvalidMap) {
		t.Fatalf("期望 ErrInternalServer(ErrInvalidMap), got=%v", err)
	}
}
