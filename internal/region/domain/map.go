package domain

import (
	"maps"
	"slices"
)

// Cell 是地图上的一个格子（图的节点）。City 非零表示格子上有城池。
type Cell struct {
	ID   ID      `json:"id" bson:"id"`
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	City ID      `json:"city,omitempty" bson:"city,omitempty"`
}

func (c Cell) HasCity() bool {
	return !c.City.IsZero()
}

// Road 是两个格子之间的无向边。
type Road struct {
	Src ID `json:"src" bson:"src"`
	Dst ID `json:"dst" bson:"dst"`
}

// Map 是一次渲染使用的只读快照。
type Map struct {
	Cells map[ID]Cell `json:"cells"`
	Roads []Road      `json:"roads"`
}

func NewMap() *Map {
	return &Map{Cells: make(map[ID]Cell), Roads: make([]Road, 0)}
}

// Keys 返回格子的遍历顺序（见 CompareIDs）。
func (m *Map) Keys() []ID {
	keys := slices.Collect(maps.Keys(m.Cells))
	slices.SortFunc(keys, CompareIDs)
	return keys
}

func (m *Map) Cell(id ID) (Cell, bool) {
	c, ok := m.Cells[id]
	return c, ok
}

// AddCell 以 cell.ID 为 key 写入。
func (m *Map) AddCell(c Cell) {
	if m.Cells == nil {
		m.Cells = make(map[ID]Cell)
	}
	m.Cells[c.ID] = c
}

func (m *Map) AddRoad(src, dst ID) {
	m.Roads = append(m.Roads, Road{Src: src, Dst: dst})
}

// Normalize 用 key 回填缺失的格子 id，并把 nil 容器换成空容器。
func (m *Map) Normalize() {
	if m.Cells == nil {
		m.Cells = make(map[ID]Cell)
	}
	if m.Roads == nil {
		m.Roads = make([]Road, 0)
	}
	for k, c := range m.Cells {
		if c.ID == "" {
			c.ID = k
			m.Cells[k] = c
		}
	}
}

// Validate 检查 key 与格子 id 一致、每条路的两端都存在。
func (m *Map) Validate() error {
	for _, k := range m.Keys() {
		c := m.Cells[k]
		if k == "" || c.ID != k {
			return ErrInvalidMap.WithData("cell", string(k)).WithData("id", string(c.ID))
		}
	}
	for i, r := range m.Roads {
		if _, ok := m.Cells[r.Src]; !ok {
			return ErrInvalidMap.WithData("road", i).WithData("src", string(r.Src))
		}
		if _, ok := m.Cells[r.Dst]; !ok {
			return ErrInvalidMap.WithData("road", i).WithData("dst", string(r.Dst))
		}
	}
	return nil
}
