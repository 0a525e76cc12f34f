package repository

import (
	"strings"

	"gorm.io/gorm"
)

// likeEscaper neutralises LIKE metacharacters so a requested tag only ever
// matches itself, never acts as a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// tagOverlapCondition builds an OR group matching rows whose encoded tag
// column intersects the requested set. Returns nil when no usable tag remains.
func tagOverlapCondition(db *gorm.DB, column string, tags []string) *gorm.DB {
	var condition *gorm.DB
	for _, tag := range tags {
		trimmed := strings.TrimSpace(strings.ToLower(tag))
		if trimmed == "" {
			continue
		}
		like := "%|" + likeEscaper.Replace(trimmed) + "|%"
		if condition == nil {
			condition = db.Where(column+` LIKE ? ESCAPE '\'`, like)
		} else {
			condition = condition.Or(column+` LIKE ? ESCAPE '\'`, like)
		}
	}
	return condition
}

// applyPagination offsets and limits a query; limit <= 0 disables paging.
func applyPagination(query *gorm.DB, page, limit int) *gorm.DB {
	if limit <= 0 {
		return query
	}
	if page <= 0 {
		page = 1
	}
	return query.Offset((page - 1) * limit).Limit(limit)
}
