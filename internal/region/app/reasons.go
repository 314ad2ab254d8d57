package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	// 技术错误 reason，用于日志与排障。
	ReasonRegionRepoUnavailable = NewReason("REGION_REPO_UNAVAILABLE", "地图存储不可用")
	ReasonRegionWriteFail       = NewReason("REGION_WRITE_FAIL", "地图写入失败")
	ReasonRegionCorrupted       = NewReason("REGION_CORRUPTED", "存储中的地图数据不合法")
)
