package service

import "sort"

const listLimitCap = 100

// sortStrings keeps cache keys stable regardless of tag insertion order.
func sortStrings(values []string) {
	sort.Strings(values)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// clampLimit applies the endpoint default and the global page-size ceiling.
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > listLimitCap {
		return listLimitCap
	}
	return limit
}
