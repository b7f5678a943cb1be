package models

// Default pagination values, matching the API's documented defaults.
const (
	DefaultPage      = 1
	DefaultPageLimit = 10

	// MaxPageLimit bounds a single page. Requests above the cap are
	// clamped rather than rejected so existing clients keep working.
	MaxPageLimit = 100
)

// ListOptions is the declarative filter/pagination request consumed by
// the query builder. Zero-valued fields are unset filters.
type ListOptions struct {
	// Search matches case-insensitively against the collection's
	// searchable text columns (name/title and description).
	Search string

	// FileType substring-matches the MIME type (files only).
	FileType string

	// Category exact-matches the category column (courses only).
	Category string

	// Tags requires every listed tag to be present on the row.
	Tags []string

	// OwnerID exact-matches the owner/instructor column.
	OwnerID string

	Page  int
	Limit int
}

// ApplyDefaults normalizes pagination: page >= 1, 1 <= limit <= MaxPageLimit.
func (o *ListOptions) ApplyDefaults() {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultPageLimit
	}
	if o.Limit > MaxPageLimit {
		o.Limit = MaxPageLimit
	}
}

// Pagination is the response envelope metadata for a paged list.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NewPagination computes the envelope for a total row count and the
// normalized page/limit. Pages is ceil(total/limit).
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}

// FilePage is the paged file list response.
type FilePage struct {
	Files      []File     `json:"files"`
	Pagination Pagination `json:"pagination"`
}

// CoursePage is the paged course list response.
type CoursePage struct {
	Courses    []Course   `json:"courses"`
	Pagination Pagination `json:"pagination"`
}
