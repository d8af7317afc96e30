package service

import (
	"math"

	"github.com/spf13/cast"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 10
)

type Page struct {
	Page int
	Size int
}

func (p Page) Offset() int { return p.Page * p.Size }

// NormalizePage 原始输入类型未知：page 非数字或为负 → 0；size 非数字、<1 或 >MaxPageSize → DefaultPageSize。
// page 上限为 math.MaxInt/size，保证 Offset 不溢出
func NormalizePage(rawPage, rawSize any) Page {
	size, ok := toInt(rawSize)
	if !ok || size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	page, ok := toInt(rawPage)
	if !ok || page < 0 {
		page = 0
	}
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}
	return Page{Page: page, Size: size}
}

// toInt 按十进制解析（"010" 为 10，不按八进制），小数截断；NaN / Inf 视为非数字
func toInt(v any) (int, bool) {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(f), true
}
