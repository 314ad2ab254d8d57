package domain

import (
	"math"
	"strconv"
)

// 地图编辑用的几何变换，mapctl normalize/split 使用。

// Box 返回所有格子的包围盒，空地图返回全 0。
func (m *Map) Box() (xmin, xmax, ymin, ymax float64) {
	if len(m.Cells) == 0 {
		return 0, 0, 0, 0
	}
	xmin, ymin = math.MaxFloat64, math.MaxFloat64
	xmax, ymax = -math.MaxFloat64, -math.MaxFloat64
	for _, c := range m.Cells {
		xmin, xmax = math.Min(xmin, c.X), math.Max(xmax, c.X)
		ymin, ymax = math.Min(ymin, c.Y), math.Max(ymax, c.Y)
	}
	return xmin, xmax, ymin, ymax
}

// Shift 平移所有格子。
func (m *Map) Shift(dx, dy float64) {
	for k, c := range m.Cells {
		c.X += dx
		c.Y += dy
		m.Cells[k] = c
	}
}

// Scale 按比例缩放坐标（以原点为中心）。
func (m *Map) Scale(rx, ry float64) {
	for k, c := range m.Cells {
		c.X *= rx
		c.Y *= ry
		m.Cells[k] = c
	}
}

// FitInto 把地图移到原点后等比缩放，使其恰好放进 w×h。
// 某个方向跨度为 0 时只按另一方向缩放，两个方向都为 0 时不缩放。
func (m *Map) FitInto(w, h float64) {
	xmin, _, ymin, _ := m.Box()
	m.Shift(-xmin, -ymin)
	_, xmax, _, ymax := m.Box()

	ratio := math.Inf(1)
	if xmax > 0 {
		ratio = w / xmax
	}
	if ymax > 0 {
		ratio = math.Min(ratio, h/ymax)
	}
	if math.IsInf(ratio, 1) {
		return
	}
	m.Scale(ratio, ratio)
}

// Center 让包围盒居中于 [0,w]×[0,h]。
func (m *Map) Center(w, h float64) {
	xmin, xmax, ymin, ymax := m.Box()
	padX := (w - (xmax - xmin)) / 2
	padY := (h - (ymax - ymin)) / 2
	m.Shift(padX-xmin, padY-ymin)
}

// UniqueRoads 去掉重复的无向边（a-b 与 b-a 视为同一条），保留第一次出现的方向。
func (m *Map) UniqueRoads() []Road {
	seen := make(map[Road]struct{}, len(m.Roads))
	out := make([]Road, 0, len(m.Roads))
	for _, r := range m.Roads {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		seen[Road{Src: r.Dst, Dst: r.Src}] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Clone 深拷贝，变换前用它保留原图。
func (m *Map) Clone() *Map {
	out := &Map{Cells: make(map[ID]Cell, len(m.Cells)), Roads: make([]Road, len(m.Roads))}
	for k, c := range m.Cells {
		out.Cells[k] = c
	}
	copy(out.Roads, m.Roads)
	return out
}

// SplitLongRoads 返回一张新图：长度超过 maxDist 的路被切成 ceil(len/maxDist) 段，
// 中间插入的格子 id 形如 x-<x>-<y>，不带城池。重复的无向边只保留一条。
func (m *Map) SplitLongRoads(maxDist float64) (*Map, error) {
	if maxDist <= 0 || math.IsNaN(maxDist) {
		return nil, ErrInvalidMap.WithData("max_dist", maxDist)
	}
	out := m.Clone()
	out.Roads = make([]Road, 0, len(m.Roads))
	for _, r := range m.UniqueRoads() {
		src, okSrc := m.Cells[r.Src]
		dst, okDst := m.Cells[r.Dst]
		if !okSrc || !okDst {
			return nil, ErrInvalidMap.WithData("src", string(r.Src)).WithData("dst", string(r.Dst))
		}
		dist := math.Hypot(dst.X-src.X, dst.Y-src.Y)
		if dist <= maxDist {
			out.Roads = append(out.Roads, r)
			continue
		}
		out.splitRoad(src, dst, int(math.Ceil(dist/maxDist)))
	}
	return out, nil
}

func (m *Map) splitRoad(src, dst Cell, segments int) {
	dx := (dst.X - src.X) / float64(segments)
	dy := (dst.Y - src.Y) / float64(segments)
	prev := src.ID
	for i := 1; i < segments; i++ {
		x := math.Round(src.X + dx*float64(i))
		y := math.Round(src.Y + dy*float64(i))
		mid := Cell{ID: m.freeID(x, y), X: x, Y: y}
		m.AddCell(mid)
		m.AddRoad(prev, mid.ID)
		prev = mid.ID
	}
	m.AddRoad(prev, dst.ID)
}

// freeID 坐标相同的中间点可能来自不同的路，冲突时追加序号。
func (m *Map) freeID(x, y float64) ID {
	base := "x-" + strconv.FormatInt(int64(x), 10) + "-" + strconv.FormatInt(int64(y), 10)
	id := ID(base)
	for n := 2; ; n++ {
		if _, taken := m.Cells[id]; !taken {
			return id
		}
		id = ID(base + "-" + strconv.Itoa(n))
	}
}

// Noise 给非城池格子加上 [-j/2, j/2) 的随机偏移，pinned 中的格子同样不动。
// rnd 返回 [0,1) 的随机数。
func (m *Map) Noise(xJitter, yJitter float64, pinned map[ID]bool, rnd func() float64) {
	for _, k := range m.Keys() {
		c := m.Cells[k]
		if c.HasCity() || pinned[k] {
			continue
		}
		c.X += (0.5 - rnd()) * xJitter
		c.Y += (0.5 - rnd()) * yJitter
		m.Cells[k] = c
	}
}

// CityCells 返回有城池的格子：Cell.City 标记的，以及城池列表引用的。
func (r *Region) CityCells() map[ID]bool {
	out := make(map[ID]bool, len(r.Cities))
	for k, c := range r.Map.Cells {
		if c.HasCity() {
			out[k] = true
		}
	}
	for _, c := range r.Cities {
		out[c.Cell] = true
	}
	return out
}
