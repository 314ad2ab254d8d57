package mysql

import (
	"context"
	"errors"

	"Hegemonie/internal/region/app"
	"Hegemonie/internal/region/domain"
	"Hegemonie/internal/region/infra/persistence/model"

	"gorm.io/gorm"
)

type RegionRepo struct {
	db *gorm.DB
}

func NewRegionRepo(db *gorm.DB) *RegionRepo {
	return &RegionRepo{db: db}
}

func (r *RegionRepo) WithTx(tx *gorm.DB) *RegionRepo {
	return &RegionRepo{
		db: tx,
	}
}

// AutoMigrate 建表，mapctl import 首次写入前调用。
func (r *RegionRepo) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.RegionCell{}, &model.RegionRoad{}, &model.RegionCity{})
}

func (r *RegionRepo) LoadRegion(ctx context.Context, name string) (*domain.Region, error) {
	var cells []model.RegionCell
	if err := r.db.WithContext(ctx).Where("region = ?", name).Order("cell_id").Find(&cells).Error; err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		// 没有格子的地图视为不存在
		return nil, app.ErrRegionNotFound.WithData("region", name)
	}

	var roads []model.RegionRoad
	if err := r.db.WithContext(ctx).Where("region = ?", name).Order("seq").Find(&roads).Error; err != nil {
		return nil, err
	}
	var cities []model.RegionCity
	err := r.db.WithContext(ctx).Where("region = ?", name).Order("city_id").Find(&cities).Error
	switch {
	case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}
	return model.RowsToRegion(name, cells, roads, cities), nil
}

// SaveRegion 在一个事务里整体替换这张地图的所有行。
func (r *RegionRepo) SaveRegion(ctx context.Context, region *domain.Region) error {
	if region == nil {
		return nil
	}
	if err := region.Validate(); err != nil {
		return err
	}
	cells, roads, cities := model.RegionToRows(region)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := r.WithTx(tx)
		if err := txRepo.deleteRows(region.Name); err != nil {
			return err
		}
		if len(cells) > 0 {
			if err := tx.CreateInBatches(cells, 500).Error; err != nil {
				return err
			}
		}
		if len(roads) > 0 {
			if err := tx.CreateInBatches(roads, 500).Error; err != nil {
				return err
			}
		}
		if len(cities) > 0 {
			if err := tx.CreateInBatches(cities, 500).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		//  纯技术错误（连接超时等），包装后返回给上级
		return app.ErrUnavailable.WithReason(app.ReasonRegionWriteFail).WithData("region", region.Name).WithCause(err)
	}
	return nil
}

func (r *RegionRepo) deleteRows(name string) error {
	for _, m := range []any{&model.RegionCell{}, &model.RegionRoad{}, &model.RegionCity{}} {
		if err := r.db.Where("region = ?", name).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
