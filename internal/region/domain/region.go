package domain

import (
	"encoding/json"
	"regexp"
)

var regionNameRe = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidRegionName 名称同时用作文件名、Mongo _id 和 SQL 列值。
func ValidRegionName(name string) error {
	if !regionNameRe.MatchString(name) {
		return ErrInvalidRegionName.WithData("region", name)
	}
	return nil
}

// Region 是存储单元：地图拓扑加上城池。
type Region struct {
	Name   string
	Map    *Map
	Cities CityList
}

// regionFile 是 JSON 文件格式：{"cells": {...}, "roads": [...], "cities": {...}|[...]}。
type regionFile struct {
	Cells  map[ID]Cell `json:"cells"`
	Roads  []Road      `json:"roads"`
	Cities CityList    `json:"cities"`
}

// DecodeRegion 解析并校验一份地图文件。
func DecodeRegion(name string, raw []byte) (*Region, error) {
	if err := ValidRegionName(name); err != nil {
		return nil, err
	}
	var f regionFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, ErrInvalidMap.WithData("region", name).WithCause(err)
	}
	r := &Region{
		Name:   name,
		Map:    &Map{Cells: f.Cells, Roads: f.Roads},
		Cities: f.Cities,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeRegion 是 DecodeRegion 的逆操作，城池按对象形式输出。
func EncodeRegion(r *Region) ([]byte, error) {
	return json.MarshalIndent(struct {
		Cells  map[ID]Cell `json:"cells"`
		Roads  []Road      `json:"roads"`
		Cities map[ID]City `json:"cities"`
	}{r.Map.Cells, r.Map.Roads, r.Cities.ByID()}, "", "  ")
}

// Validate 规整并校验地图，再确认每个城池落在存在的格子上。
func (r *Region) Validate() error {
	if r.Map == nil {
		r.Map = NewMap()
	}
	r.Map.Normalize()
	if r.Cities == nil {
		r.Cities = CityList{}
	}
	if err := r.Map.Validate(); err != nil {
		return err
	}
	if err := ValidateCities(r.Cities); err != nil {
		return err
	}
	for _, c := range r.Cities {
		if _, ok := r.Map.Cell(c.Cell); !ok {
			return ErrInvalidCity.WithData("city", string(c.ID)).WithData("cell", string(c.Cell))
		}
	}
	return nil
}
