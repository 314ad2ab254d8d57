package domain

import "strings"

// Army 由调用方提供，只用于在格子上叠加标记。
type Army struct {
	ID   ID `json:"id"`
	Cell ID `json:"cell"`
}

// ParseArmy 解析 "<cell>:<army>" 形式。
func ParseArmy(s string) (Army, error) {
	cell, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || cell == "" || id == "" {
		return Army{}, ErrInvalidArmy.WithData("army", s)
	}
	return Army{ID: ID(id), Cell: ID(cell)}, nil
}

func ParseArmies(values []string) ([]Army, error) {
	armies := make([]Army, 0, len(values))
	for _, v := range values {
		a, err := ParseArmy(v)
		if err != nil {
			return nil, err
		}
		armies = append(armies, a)
	}
	return armies, nil
}
