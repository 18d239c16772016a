package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classqa/internal/pkg/apperrors"
)

// ParseIDParam reads a positive integer id from the named path parameter.
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	return parsePositiveID(c.Param(name), name)
}

// ParseOptionalIDQuery reads an optional positive id from the query string.
// A missing or empty value yields nil.
func ParseOptionalIDQuery(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := parsePositiveID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseIDListQuery reads a comma separated list of ids such as "3,7,12".
// Empty elements are ignored and duplicates collapse.
func ParseIDListQuery(c *gin.Context, name string) ([]int64, error) {
	return ParseIDList(c.Query(name), name)
}

// ParseIDList parses a comma separated id list
func ParseIDList(raw, name string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	seen := make(map[int64]struct{})
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parsePositiveID(part, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseOptionalBoolQuery reads an optional boolean ("true"/"false") from the query string.
func ParseOptionalBoolQuery(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be true or false", name))
	}
	return &value, nil
}

func parsePositiveID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// TrimToNil trims s and returns nil when nothing is left.
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
