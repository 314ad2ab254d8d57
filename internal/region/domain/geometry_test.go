package domain

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func lineMap() *Map {
	m := NewMap()
	m.AddCell(Cell{ID: "a", X: 100, Y: 50})
	m.AddCell(Cell{ID: "b", X: 300, Y: 50, City: "1"})
	m.AddCell(Cell{ID: "c", X: 300, Y: 150})
	m.AddRoad("a", "b")
	m.AddRoad("b", "a")
	m.AddRoad("b", "c")
	return m
}

func TestMap_Box(t *testing.T) {
	xmin, xmax, ymin, ymax := lineMap().Box()
	if xmin != 100 || xmax != 300 || ymin != 50 || ymax != 150 {
		t.Fatalf("box=(%v,%v,%v,%v)", xmin, xmax, ymin, ymax)
	}
	if xmin, xmax, ymin, ymax := NewMap().Box(); xmin != 0 || xmax != 0 || ymin != 0 || ymax != 0 {
		t.Fatalf("空地图的包围盒应为 0")
	}
}

func TestMap_FitInto_等比缩放后居中(t *testing.T) {
	m := lineMap()
	m.FitInto(924, 668)
	xmin, xmax, ymin, ymax := m.Box()
	// 跨度 200×100，受宽度约束：比例 4.62
	if xmin != 0 || ymin != 0 || math.Abs(xmax-924) > 1e-9 || math.Abs(ymax-462) > 1e-9 {
		t.Fatalf("fit 结果不符合预期: (%v,%v,%v,%v)", xmin, xmax, ymin, ymax)
	}

	m.Center(1024, 768)
	xmin, xmax, ymin, ymax = m.Box()
	if math.Abs(xmin-50) > 1e-9 || math.Abs(xmax-974) > 1e-9 || math.Abs(ymin-153) > 1e-9 || math.Abs(ymax-615) > 1e-9 {
		t.Fatalf("center 结果不符合预期: (%v,%v,%v,%v)", xmin, xmax, ymin, ymax)
	}
}

func TestMap_FitInto_单点不缩放(t *testing.T) {
	m := NewMap()
	m.AddCell(Cell{ID: "a", X: 7, Y: 9})
	m.FitInto(100, 100)
	if c := m.Cells["a"]; c.X != 0 || c.Y != 0 || math.IsNaN(c.X) {
		t.Fatalf("单点应移到原点: %+v", c)
	}
}

func TestMap_UniqueRoads_去掉反向重复(t *testing.T) {
	got := lineMap().UniqueRoads()
	want := []Road{{Src: "a", Dst: "b"}, {Src: "b", Dst: "c"}}
	if !slices.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestMap_SplitLongRoads(t *testing.T) {
	m := lineMap()
	out, err := m.SplitLongRoads(60)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	// a-b 长 200 切成 4 段，b-c 长 100 切成 2 段
	if len(out.Cells) != 3+3+1 || len(out.Roads) != 4+2 {
		t.Fatalf("切分结果不符合预期: cells=%d roads=%d", len(out.Cells), len(out.Roads))
	}
	for _, id := range []ID{"x-150-50", "x-200-50", "x-250-50", "x-300-100"} {
		c, ok := out.Cells[id]
		if !ok || c.HasCity() {
			t.Fatalf("缺少中间格子 %s 或其带了城池: %+v", id, c)
		}
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("切分后的地图应合法: %v", err)
	}
	if len(m.Cells) != 3 || len(m.Roads) != 3 {
		t.Fatalf("原图不应被修改: %+v", m)
	}

	if _, err := m.SplitLongRoads(0); !errors.Is(err, ErrInvalidMap) {
		t.Fatalf("maxDist=0 期望 ErrInvalidMap, got=%v", err)
	}
}

func TestMap_SplitLongRoads_中间点id冲突(t *testing.T) {
	m := NewMap()
	m.AddCell(Cell{ID: "a", X: 0, Y: 0})
	m.AddCell(Cell{ID: "b", X: 20, Y: 0})
	m.AddCell(Cell{ID: "x-10-0", X: 99, Y: 99})
	m.AddRoad("a", "b")
	out, err := m.SplitLongRoads(15)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if c := out.Cells["x-10-0-2"]; c.X != 10 || c.Y != 0 {
		t.Fatalf("冲突时应追加序号: %+v", out.Cells)
	}
	if out.Cells["x-10-0"].X != 99 {
		t.Fatalf("已有格子不应被覆盖")
	}
}

func TestMap_Noise_城池格子不动(t *testing.T) {
	m := lineMap()
	m.Noise(10, 10, map[ID]bool{"c": true}, func() float64 { return 0 })
	if a := m.Cells["a"]; a.X != 105 || a.Y != 55 {
		t.Fatalf("a 应偏移 +5: %+v", a)
	}
	if b := m.Cells["b"]; b.X != 300 || b.Y != 50 {
		t.Fatalf("有城池的格子不应移动: %+v", b)
	}
	if c := m.Cells["c"]; c.X != 300 || c.Y != 150 {
		t.Fatalf("pinned 的格子不应移动: %+v", c)
	}
}

func TestRegion_CityCells(t *testing.T) {
	r := &Region{Name: "demo", Map: lineMap(), Cities: CityList{{ID: "2", Cell: "c"}}}
	got := r.CityCells()
	if !got["b"] || !got["c"] || got["a"] {
		t.Fatalf("got=%v", got)
	}
}
