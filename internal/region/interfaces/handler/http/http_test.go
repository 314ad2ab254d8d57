package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Hegemonie/internal/region/app"
	"Hegemonie/internal/region/domain"
	"Hegemonie/internal/region/infra/persistence/memory"
	"Hegemonie/internal/region/interfaces/handler/http/dto"
	"Hegemonie/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

const demoRegion = `{
  "cells": {"a": {"id": "a", "x": 0, "y": 0}, "b": {"id": "b", "x": 10, "y": 0}},
  "roads": [{"src": "a", "dst": "b"}],
  "cities": {"1": {"cell": "a", "id": 1, "name": "Capital"}}
}`

func newEngine(t *testing.T, repo app.RegionRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if repo == nil {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "demo.json"), []byte(demoRegion), 0o644); err != nil {
			t.Fatal(err)
		}
		repo = memory.NewRegionRepository(dir)
	}
	engine := gin.New()
	NewHttpHandler(app.NewRegionService(repo, nil, time.Minute), nil).RegisterRoutes(engine.Group(""))
	return engine
}

func get(engine *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, url, nil))
	return w
}

func TestRegion_返回格子和道路(t *testing.T) {
	w := get(newEngine(t, nil), "/map/region?id=demo")
	if w.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp dto.RegionResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Cells) != 2 || len(resp.Roads) != 1 || resp.Roads[0].Src != "a" {
		t.Fatalf("响应不符合预期: %s", w.Body.String())
	}
}

func TestCities_对象形式(t *testing.T) {
	w := get(newEngine(t, nil), "/map/cities?id=demo")
	if w.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]domain.City
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["1"].Name != "Capital" || resp["1"].Cell != "a" {
		t.Fatalf("响应不符合预期: %s", w.Body.String())
	}
}

func TestRegion_错误映射(t *testing.T) {
	engine := newEngine(t, nil)
	cases := []struct {
		url    string
		status int
		code   int
	}{
		{"/map/region?id=nope", nethttp.StatusNotFound, transport.RegionNotFound},
		{"/map/region?id=../etc", nethttp.StatusBadRequest, transport.InvalidParam},
		{"/map/svg?id=demo&army=bad", nethttp.StatusBadRequest, transport.InvalidParam},
		{"/map/svg?id=demo&army=zz:1", nethttp.StatusBadRequest, transport.InvalidParam},
		{"/map/click?id=demo", nethttp.StatusBadRequest, transport.InvalidParam},
		{"/map/click?id=demo&cell=zz", nethttp.StatusBadRequest, transport.InvalidParam},
	}
	for _, tc := range cases {
		w := get(engine, tc.url)
		if w.Code != tc.status {
			t.Fatalf("%s status=%d body=%s", tc.url, w.Code, w.Body.String())
		}
		var res dto.Result
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || res.Code != tc.code {
			t.Fatalf("%s 响应体不符合预期: %s", tc.url, w.Body.String())
		}
	}
}

type brokenRepo struct{}

func (brokenRepo) LoadRegion(ctx context.Context, name string) (*domain.Region, error) {
	return nil, errors.New("connection refused")
}

func TestRegion_存储故障返回502(t *testing.T) {
	w := get(newEngine(t, brokenRepo{}), "/map/region?id=demo")
	if w.Code != nethttp.StatusBadGateway {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatalf("技术细节不应暴露给调用方: %s", w.Body.String())
	}
}

func TestSVG_渲染地图和城池(t *testing.T) {
	w := get(newEngine(t, nil), "/map/svg?id=demo&here=b")
	if w.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Fatalf("content-type=%s", ct)
	}
	body := w.Body.String()
	if n := strings.Count(body, "<circle"); n != 2 {
		t.Fatalf("期望 2 个格子标记, got=%d", n)
	}
	if n := strings.Count(body, "<line"); n != 1 {
		t.Fatalf("期望 1 条道路, got=%d", n)
	}
	if !strings.Contains(body, `r="23"`) {
		t.Fatalf("城池标记应放大: %s", body)
	}
	if !strings.Contains(body, `class="cell clickable here"`) {
		t.Fatalf("b 应被高亮: %s", body)
	}
	if strings.Contains(body, `class="army"`) {
		t.Fatalf("没有 army 参数时不应叠加军队")
	}
}

func TestSVG_叠加军队(t *testing.T) {
	w := get(newEngine(t, nil), "/map/svg?id=demo&army=a:7&army=b:8")
	if w.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if n := strings.Count(body, `class="army"`); n != 2 {
		t.Fatalf("期望 2 个军队标记, got=%d", n)
	}
	// a 是城池(r=23)：0-23+5=-18；b 是普通格子(r=5)：10-5+5=10。
	if !strings.Contains(body, `x="-18" y="-18"`) || !strings.Contains(body, `x="10" y="0"`) {
		t.Fatalf("军队标记位置不符合预期: %s", body)
	}
}

func click(t *testing.T, engine *gin.Engine, url string) dto.ClickEvent {
	t.Helper()
	w := get(engine, url)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("%s status=%d body=%s", url, w.Code, w.Body.String())
	}
	var ev dto.ClickEvent
	if err := json.Unmarshal(w.Body.Bytes(), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return ev
}

func TestClick_按覆盖顺序触发回调(t *testing.T) {
	engine := newEngine(t, nil)

	if ev := click(t, engine, "/map/click?id=demo&cell=b"); ev.Kind != dto.ClickPosition || ev.Cell != "b" {
		t.Fatalf("普通格子应触发 position: %+v", ev)
	}
	if ev := click(t, engine, "/map/click?id=demo&cell=a"); ev.Kind != dto.ClickCity || ev.City != "1" || ev.Name != "Capital" {
		t.Fatalf("城池格子应触发 city: %+v", ev)
	}
	if ev := click(t, engine, "/map/click?id=demo&cell=a&army=a:7"); ev.Kind != dto.ClickArmy || ev.Army != "7" {
		t.Fatalf("有军队的格子应触发 army: %+v", ev)
	}
}
