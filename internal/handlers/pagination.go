package handlers

const (
	defaultPage  = int64(1)
	defaultLimit = int64(10)
	maxLimit     = int64(100)
)

// normalizePagination clamps page and limit from a request body to sane
// values. Zero means "not sent".
func normalizePagination(page, limit int64) (int64, int64) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func totalPages(total, limit int64) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
