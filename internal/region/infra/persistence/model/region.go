package model

import (
	"time"

	"Hegemonie/internal/region/domain"
)

// RegionDoc 是 mongodb 中一张地图的文档，_id 即地图名称。
type RegionDoc struct {
	Name      string        `bson:"_id"`
	Cells     []domain.Cell `bson:"cells"`
	Roads     []domain.Road `bson:"roads"`
	Cities    []domain.City `bson:"cities"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// model
type RegionCell struct {
	Region string  `gorm:"column:region;type:varchar(64);comment:地图名称;primaryKey;not null;" json:"region"` // 地图名称
	CellId string  `gorm:"column:cell_id;type:varchar(64);comment:格子id;primaryKey;not null;" json:"cell_id"` // 格子id
	X      float64 `gorm:"column:x;type:double;comment:x坐标;not null;" json:"x"`                             // x坐标
	Y      float64 `gorm:"column:y;type:double;comment:y坐标;not null;" json:"y"`                             // y坐标
	CityId string  `gorm:"column:city_id;type:varchar(64);comment:城池id;not null;default:'';" json:"city_id"` // 城池id
}

func (m *RegionCell) TableName() string {
	return "region_cell"
}

type RegionRoad struct {
	Id     uint64 `gorm:"column:id;type:bigint UNSIGNED;primaryKey;autoIncrement;" json:"id"`
	Region string `gorm:"column:region;type:varchar(64);comment:地图名称;index;not null;" json:"region"` // 地图名称
	Seq    int    `gorm:"column:seq;type:int UNSIGNED;comment:道路顺序;not null;" json:"seq"`             // 道路顺序
	Src    string `gorm:"column:src;type:varchar(64);comment:起点格子;not null;" json:"src"`              // 起点格子
	Dst    string `gorm:"column:dst;type:varchar(64);comment:终点格子;not null;" json:"dst"`              // 终点格子
}

func (m *RegionRoad) TableName() string {
	return "region_road"
}

type RegionCity struct {
	Region string `gorm:"column:region;type:varchar(64);comment:地图名称;primaryKey;not null;" json:"region"` // 地图名称
	CityId string `gorm:"column:city_id;type:varchar(64);comment:城池id;primaryKey;not null;" json:"city_id"` // 城池id
	Name   string `gorm:"column:name;type:varchar(100);comment:城池名称;not null;default:'';" json:"name"`     // 城池名称
	CellId string `gorm:"column:cell_id;type:varchar(64);comment:所在格子;not null;" json:"cell_id"`          // 所在格子
}

func (m *RegionCity) TableName() string {
	return "region_city"
}
