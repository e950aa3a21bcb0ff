package handler

import (
	"net/http"
	"strconv"

	"taccuino-server/pkg/pagination"
)

// pageParams reads ?page= and ?page_size= with sane fallbacks. Out-of-range
// page numbers are not an error: the paginator clamps them.
type pageParams struct {
	page     int
	pageSize int
}

func parsePageParams(r *http.Request, defaultSize, maxSize int) pageParams {
	params := pageParams{page: 1, pageSize: defaultSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			params.page = page
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			params.pageSize = size
		}
	}
	if params.pageSize > maxSize {
		params.pageSize = maxSize
	}

	return params
}

func paginate[T any](items []T, params pageParams) pagination.Window[T] {
	paginator := pagination.New[T](params.pageSize)
	paginator.SetItems(items)
	paginator.SetPage(params.page)
	return paginator.Window()
}
