package memory

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"Hegemonie/internal/region/app"
	"Hegemonie/internal/region/domain"
)

// RegionRepository 从目录读取 <name>.json 地图文件。
type RegionRepository struct {
	dir string
}

func NewRegionRepository(dir string) *RegionRepository {
	return &RegionRepository{dir: dir}
}

func (r *RegionRepository) path(name string) string {
	return filepath.Join(r.dir, name+".json")
}

func (r *RegionRepository) LoadRegion(ctx context.Context, name string) (*domain.Region, error) {
	_ = ctx
	if err := domain.ValidRegionName(name); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// 技术错误 → 业务错误
			return nil, app.ErrRegionNotFound.WithData("region", name)
		}
		return nil, err
	}
	return domain.DecodeRegion(name, raw)
}

// SaveRegion 先写临时文件再 rename，读方不会看到写了一半的文件。
func (r *RegionRepository) SaveRegion(ctx context.Context, region *domain.Region) error {
	_ = ctx
	if region == nil {
		return nil
	}
	if err := domain.ValidRegionName(region.Name); err != nil {
		return err
	}
	if err := region.Validate(); err != nil {
		return err
	}
	raw, err := domain.EncodeRegion(region)
	if err != nil {
		return err
	}
	if err := r.writeFile(region.Name, raw); err != nil {
		return app.ErrUnavailable.WithReason(app.ReasonRegionWriteFail).WithData("region", region.Name).WithCause(err)
	}
	return nil
}

func (r *RegionRepository) writeFile(name string, raw []byte) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(r.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path(name))
}
