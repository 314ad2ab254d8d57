package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID 是格子、城池、军队的标识。
// JSON 中既可能是字符串也可能是数字（老服务端输出 uint64），统一按字符串保存。
type ID string

func (id ID) String() string {
	return string(id)
}

// IsZero 空串和 "0" 都表示“没有引用”。
func (id ID) IsZero() bool {
	return id == "" || id == "0"
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*id = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("id must be a string or a number, got %s", b)
		}
		*id = ID(n.String())
		return nil
	}
}

// CompareIDs 数字 ID 按数值排序，其余按字典序；数字排在非数字之前。
// 数值相同（"1"、"01"）时退回字典序，保证是全序。
func CompareIDs(a, b ID) int {
	na, errA := strconv.ParseUint(string(a), 10, 64)
	nb, errB := strconv.ParseUint(string(b), 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return strings.Compare(string(a), string(b))
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(string(a), string(b))
}
