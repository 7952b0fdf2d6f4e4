package util

import (
	"strings"
	"time"
)

// ISOLayout 毫秒精度的 UTC ISO-8601
const ISOLayout = "2006-01-02T15:04:05.000Z"

// ISOTime 统一时间格式，零值按读取时刻处理
func ISOTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(ISOLayout)
}

// NormalizeQuery 去除首尾空白并转小写
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// SplitList 解析逗号分隔参数：去空白、去空项、去重，最多保留 limit 个
func SplitList(raw string, limit int) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// TruncateList 超过 limit 的部分直接丢弃
func TruncateList(values []string, limit int) []string {
	if limit > 0 && len(values) > limit {
		return values[:limit]
	}
	return values
}

// UniqueStrings 保序去重并剔除空串
func UniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Chunk 按 size 切分
func Chunk[T any](values []T, size int) [][]T {
	if size <= 0 {
		return [][]T{values}
	}
	chunks := make([][]T, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}

// ContainsAny 两个集合是否有交集
func ContainsAny(values []string, wanted []string) bool {
	if len(wanted) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		set[w] = struct{}{}
	}
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

// PtrString 用于将 string 转换为 *string
func PtrString(s string) *string {
	return &s
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrBool 用于将 bool 转换为 *bool
func PtrBool(b bool) *bool {
	return &b
}
