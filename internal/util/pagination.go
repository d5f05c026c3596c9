package util

import "github.com/SeakMengs/ProjectHub/internal/constant"

// CalculateTotalPage returns ceil(totalItems/pageSize). An empty result has zero pages.
func CalculateTotalPage(totalItems int64, pageSize uint) int {
	if pageSize <= 0 {
		pageSize = constant.DefaultPageSize
	}
	if totalItems <= 0 {
		return 0
	}
	totalPage := int(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) != 0 {
		totalPage++
	}
	return totalPage
}

// ToOffset converts a 1-indexed page into a row offset.
func ToOffset(page, pageSize uint) int {
	if page < 1 {
		page = 1
	}
	return int((page - 1) * pageSize)
}
