package domain

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// City 占据一个格子。
type City struct {
	ID   ID     `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	Cell ID     `json:"cell" bson:"cell"`
}

// CityList 兼容两种 JSON 形式：对象 {<key>: City}（按 key 顺序展开）和数组 [City]。
type CityList []City

func (l *CityList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = CityList{}
		return nil
	}
	if b[0] == '[' {
		var arr []City
		if err := json.Unmarshal(b, &arr); err != nil {
			return err
		}
		*l = arr
		return nil
	}
	var byKey map[ID]City
	if err := json.Unmarshal(b, &byKey); err != nil {
		return err
	}
	keys := slices.Collect(maps.Keys(byKey))
	slices.SortFunc(keys, CompareIDs)
	out := make(CityList, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	*l = out
	return nil
}

// ByID 转成对象形式，/map/cities 的响应体。
func (l CityList) ByID() map[ID]City {
	out := make(map[ID]City, len(l))
	for _, c := range l {
		out[c.ID] = c
	}
	return out
}

// ValidateCities 检查每个城池都有 id 和所在格子，且 id 不重复（ByID 会把重复的吞掉）。
func ValidateCities(cities []City) error {
	seen := make(map[ID]struct{}, len(cities))
	for i, c := range cities {
		if c.ID == "" {
			return ErrInvalidCity.WithData("index", i)
		}
		if c.Cell == "" {
			return ErrInvalidCity.WithData("city", string(c.ID))
		}
		if _, dup := seen[c.ID]; dup {
			return ErrInvalidCity.WithData("city", string(c.ID)).WithData("index", i)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
