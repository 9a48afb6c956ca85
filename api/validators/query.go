package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/pagination"
)

// QueryString returns the trimmed query value, or a validation error when it
// is required and missing.
func QueryString(r *http.Request, key string, required bool) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" && required {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// PageParams reads ?limit= and ?cursor=. Both absent means no paging.
func PageParams(r *http.Request) (pagination.Params, error) {
	var page pagination.Params
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return page, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer").WithDetails(map[string]any{"field": "limit"})
		}
		page.Limit = limit
	}
	page.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))
	return page, nil
}
