package app

import (
	"context"

	"Hegemonie/internal/region/domain"
)

// RegionRepo 读取一张地图；不存在时返回 ErrRegionNotFound。
type RegionRepo interface {
	LoadRegion(ctx context.Context, name string) (*domain.Region, error)
}

// RegionWriter 由支持导入的存储实现（mapctl import）。
type RegionWriter interface {
	SaveRegion(ctx context.Context, r *domain.Region) error
}
