package domain

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

const scenario = `{
  "cells": {"a": {"id": "a", "x": 0, "y": 0}, "b": {"id": "b", "x": 10, "y": 0}},
  "roads": [{"src": "a", "dst": "b"}],
  "cities": {"1": {"cell": "a", "id": 1, "name": "Capital"}}
}`

func TestID_同时接受字符串和数字(t *testing.T) {
	var c Cell
	if err := json.Unmarshal([]byte(`{"id": 42, "x": 1.5, "y": 2, "city": 7}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.ID != "42" || c.City != "7" || c.X != 1.5 {
		t.Fatalf("解析结果不符合预期: %+v", c)
	}
	if !c.HasCity() {
		t.Fatalf("city=7 应视为有城池")
	}

	if err := json.Unmarshal([]byte(`{"id": "a", "x": 0, "y": 0, "city": 0}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.HasCity() {
		t.Fatalf("city=0 应视为没有城池")
	}

	var id ID
	if err := json.Unmarshal([]byte(`true`), &id); err == nil {
		t.Fatalf("布尔值不是合法的 id")
	}
}

func TestMap_Keys_数字按数值排序(t *testing.T) {
	m := NewMap()
	for _, id := range []ID{"10", "9", "b", "1", "a"} {
		m.AddCell(Cell{ID: id})
	}
	got := m.Keys()
	want := []ID{"1", "9", "10", "a", "b"}
	if !slices.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestMap_Keys_数值相同按字典序(t *testing.T) {
	m := NewMap()
	for _, id := range []ID{"1", "01", "001", "0001", "2", "02"} {
		m.AddCell(Cell{ID: id})
	}
	want := []ID{"0001", "001", "01", "1", "02", "2"}
	// map 遍历顺序随机，多跑几次确认结果稳定
	for i := 0; i < 50; i++ {
		if got := m.Keys(); !slices.Equal(got, want) {
			t.Fatalf("第 %d 次: got=%v want=%v", i, got, want)
		}
	}
	if CompareIDs("1", "01") == 0 {
		t.Fatalf("不同的 id 不应比较为相等")
	}
}

func TestMap_Validate_道路端点必须存在(t *testing.T) {
	m := NewMap()
	m.AddCell(Cell{ID: "a"})
	m.AddRoad("a", "ghost")

	err := m.Validate()
	if !errors.Is(err, ErrInvalidMap) {
		t.Fatalf("期望 ErrInvalidMap, got=%v", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Data()["dst"] != "ghost" {
		t.Fatalf("期望错误上下文带上 dst=ghost, got=%v", err)
	}
}

func TestMap_Normalize_用key回填id(t *testing.T) {
	m := &Map{Cells: map[ID]Cell{"a": {X: 3}}}
	m.Normalize()
	if m.Cells["a"].ID != "a" || m.Roads == nil {
		t.Fatalf("normalize 结果不符合预期: %+v", m)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestMap_Validate_key与id不一致(t *testing.T) {
	m := &Map{Cells: map[ID]Cell{"a": {ID: "b"}}}
	if err := m.Validate(); !errors.Is(err, ErrInvalidMap) {
		t.Fatalf("期望 ErrInvalidMap, got=%v", err)
	}
}

func TestCityList_对象和数组两种形式(t *testing.T) {
	var fromObj CityList
	if err := json.Unmarshal([]byte(`{"2": {"id": 2, "name": "B", "cell": 5}, "1": {"id": 1, "name": "A", "cell": 4}}`), &fromObj); err != nil {
		t.Fatalf("unmarshal object: %v", err)
	}
	if len(fromObj) != 2 || fromObj[0].Name != "A" || fromObj[1].Cell != "5" {
		t.Fatalf("对象形式解析结果不符合预期: %+v", fromObj)
	}

	var fromArr CityList
	if err := json.Unmarshal([]byte(`[{"id": 1, "name": "A", "cell": 4}]`), &fromArr); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if len(fromArr) != 1 || fromArr[0].ID != "1" {
		t.Fatalf("数组形式解析结果不符合预期: %+v", fromArr)
	}
}

func TestValidateCities_缺少所在格子(t *testing.T) {
	err := ValidateCities([]City{{ID: "1", Name: "A"}})
	if !errors.Is(err, ErrInvalidCity) {
		t.Fatalf("期望 ErrInvalidCity, got=%v", err)
	}
}

func TestValidateCities_重复的城池id(t *testing.T) {
	err := ValidateCities([]City{{ID: "1", Cell: "a"}, {ID: "1", Cell: "b"}})
	if !errors.Is(err, ErrInvalidCity) {
		t.Fatalf("期望 ErrInvalidCity, got=%v", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Data()["city"] != "1" {
		t.Fatalf("期望错误上下文带上 city=1, got=%v", err)
	}

	raw := `{"cells": {"a": {"x": 0, "y": 0}, "b": {"x": 1, "y": 1}}, "roads": [],
  "cities": [{"id": 1, "name": "A", "cell": "a"}, {"id": 1, "name": "B", "cell": "b"}]}`
	if _, err := DecodeRegion("demo", []byte(raw)); !errors.Is(err, ErrInvalidCity) {
		t.Fatalf("数组形式的重复 id 期望 ErrInvalidCity, got=%v", err)
	}
}

func TestParseArmy(t *testing.T) {
	a, err := ParseArmy("a:7")
	if err != nil || a.Cell != "a" || a.ID != "7" {
		t.Fatalf("got=%+v err=%v", a, err)
	}
	for _, bad := range []string{"", "a", ":7", "a:"} {
		if _, err := ParseArmy(bad); !errors.Is(err, ErrInvalidArmy) {
			t.Fatalf("%q 期望 ErrInvalidArmy, got=%v", bad, err)
		}
	}
}

func TestDecodeRegion_示例地图(t *testing.T) {
	r, err := DecodeRegion("demo", []byte(scenario))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(r.Map.Cells) != 2 || len(r.Map.Roads) != 1 {
		t.Fatalf("地图规模不符合预期: %+v", r.Map)
	}
	if len(r.Cities) != 1 || r.Cities[0].Cell != "a" || r.Cities[0].Name != "Capital" {
		t.Fatalf("城池不符合预期: %+v", r.Cities)
	}

	raw, err := EncodeRegion(r)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := DecodeRegion("demo", raw)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if again.Cities[0].ID != "1" || again.Map.Cells["b"].X != 10 {
		t.Fatalf("重新解析结果不符合预期: %+v", again)
	}
}

func TestDecodeRegion_城池落在不存在的格子(t *testing.T) {
	raw := `{"cells": {"a": {"x": 0, "y": 0}}, "roads": [], "cities": [{"id": 1, "name": "X", "cell": "z"}]}`
	if _, err := DecodeRegion("demo", []byte(raw)); !errors.Is(err, ErrInvalidCity) {
		t.Fatalf("期望 ErrInvalidCity, got=%v", err)
	}
}

func TestValidRegionName(t *testing.T) {
	if err := ValidRegionName("calaquyr"); err != nil {
		t.Fatalf("calaquyr 应合法: %v", err)
	}
	for _, bad := range []string{"", "../etc", "a b", "x/y", "Calaquyr"} {
		if err := ValidRegionName(bad); !errors.Is(err, ErrInvalidRegionName) {
			t.Fatalf("%q 期望 ErrInvalidRegionName, got=%v", bad, err)
		}
	}
}
