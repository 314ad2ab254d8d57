package model

import (
	"time"

	"Hegemonie/internal/region/domain"
)

// RegionToDoc 格子按 Keys() 顺序展开，保证文档内容稳定。
func RegionToDoc(r *domain.Region, now time.Time) RegionDoc {
	doc := RegionDoc{
		Name:      r.Name,
		Cells:     make([]domain.Cell, 0, len(r.Map.Cells)),
		Roads:     append([]domain.Road{}, r.Map.Roads...),
		Cities:    append([]domain.City{}, r.Cities...),
		UpdatedAt: now,
	}
	for _, k := range r.Map.Keys() {
		doc.Cells = append(doc.Cells, r.Map.Cells[k])
	}
	return doc
}

func DocToRegion(doc RegionDoc) *domain.Region {
	m := domain.NewMap()
	for _, c := range doc.Cells {
		m.AddCell(c)
	}
	m.Roads = append(m.Roads, doc.Roads...)
	return &domain.Region{
		Name:   doc.Name,
		Map:    m,
		Cities: append(domain.CityList{}, doc.Cities...),
	}
}

func RegionToRows(r *domain.Region) ([]RegionCell, []RegionRoad, []RegionCity) {
	cells := make([]RegionCell, 0, len(r.Map.Cells))
	for _, k := range r.Map.Keys() {
		c := r.Map.Cells[k]
		cells = append(cells, RegionCell{
			Region: r.Name,
			CellId: c.ID.String(),
			X:      c.X,
			Y:      c.Y,
			CityId: c.City.String(),
		})
	}
	roads := make([]RegionRoad, 0, len(r.Map.Roads))
	for i, road := range r.Map.Roads {
		roads = append(roads, RegionRoad{
			Region: r.Name,
			Seq:    i,
			Src:    road.Src.String(),
			Dst:    road.Dst.String(),
		})
	}
	cities := make([]RegionCity, 0, len(r.Cities))
	for _, c := range r.Cities {
		cities = append(cities, RegionCity{
			Region: r.Name,
			CityId: c.ID.String(),
			Name:   c.Name,
			CellId: c.Cell.String(),
		})
	}
	return cells, roads, cities
}

// RowsToRegion roads 需已按 seq 排序。
func RowsToRegion(name string, cells []RegionCell, roads []RegionRoad, cities []RegionCity) *domain.Region {
	m := domain.NewMap()
	for _, c := range cells {
		m.AddCell(domain.Cell{
			ID:   domain.ID(c.CellId),
			X:    c.X,
			Y:    c.Y,
			City: domain.ID(c.CityId),
		})
	}
	for _, r := range roads {
		m.AddRoad(domain.ID(r.Src), domain.ID(r.Dst))
	}
	list := make(domain.CityList, 0, len(cities))
	for _, c := range cities {
		list = append(list, domain.City{ID: domain.ID(c.CityId), Name: c.Name, Cell: domain.ID(c.CellId)})
	}
	return &domain.Region{Name: name, Map: m, Cities: list}
}
