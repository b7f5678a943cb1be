// Package query translates a declarative filter/pagination request into
// a bounded query plan (predicate list + args + sort + offset/limit)
// for a tag-indexed, text-searchable collection. The visibility
// predicate comes from the access policy, so no plan can ever select
// rows the caller is not allowed to list.
package query

import (
	"fmt"
	"strings"

	"docshare/internal/domain/models"
	"docshare/internal/policy"
)

// Spec describes the queryable columns of one collection. Column names
// are interpolated into SQL, so a Spec must only ever be built from
// compile-time constants, never from request data.
type Spec struct {
	// SearchColumns are ILIKE-matched against the search string.
	SearchColumns []string

	// TypeColumn is the category/file-type column. TypeSubstring selects
	// substring match (files match MIME types loosely) versus exact
	// match (course categories).
	TypeColumn    string
	TypeSubstring bool

	// TagsColumn is a text[] column checked for containment of all
	// requested tags.
	TagsColumn string

	// OwnerColumn is the owning-user column.
	OwnerColumn string

	// PublicPredicate selects rows exposed to the public
	// (visibility = 'public' / is_published).
	PublicPredicate string
}

// FileSpec is the queryable-column layout of the files collection.
var FileSpec = Spec{
	SearchColumns:   []string{"name", "description"},
	TypeColumn:      "file_type",
	TypeSubstring:   true,
	TagsColumn:      "tags",
	OwnerColumn:     "owner_id",
	PublicPredicate: "visibility = 'public'",
}

// CourseSpec is the queryable-column layout of the courses collection.
var CourseSpec = Spec{
	SearchColumns:   []string{"title", "description"},
	TypeColumn:      "category",
	TypeSubstring:   false,
	TagsColumn:      "tags",
	OwnerColumn:     "instructor_id",
	PublicPredicate: "is_published = TRUE",
}

// Plan is a bounded, safe query plan: AND-ed predicates with positional
// args, a fixed sort, and normalized pagination. Repositories run it
// twice: once paged for the items, once unpaged for the total count.
type Plan struct {
	Where   []string
	Args    []interface{}
	OrderBy string
	Page    int
	Limit   int
	Offset  int
}

// Build composes the plan for one list request.
//
// Predicate order matches the original service logic: visibility scope
// first, then search, type/category, tag containment, and owner filter.
// Pagination is normalized (page >= 1, limit clamped to MaxPageLimit)
// before the offset is computed.
func Build(spec Spec, opts models.ListOptions, scope policy.ReadScope) Plan {
	opts.ApplyDefaults()

	p := Plan{
		OrderBy: "created_at DESC",
		Page:    opts.Page,
		Limit:   opts.Limit,
		Offset:  (opts.Page - 1) * opts.Limit,
	}

	arg := func(v interface{}) string {
		p.Args = append(p.Args, v)
		return fmt.Sprintf("$%d", len(p.Args))
	}

	// Visibility scope: public rows, plus the caller's own rows when
	// authenticated. Anonymous callers get the public branch only.
	if scope.OwnerID != "" {
		p.Where = append(p.Where, fmt.Sprintf("(%s OR %s = %s)",
			spec.PublicPredicate, spec.OwnerColumn, arg(scope.OwnerID)))
	} else {
		p.Where = append(p.Where, spec.PublicPredicate)
	}

	if opts.Search != "" {
		ph := arg("%" + opts.Search + "%")
		parts := make([]string, len(spec.SearchColumns))
		for i, col := range spec.SearchColumns {
			parts[i] = fmt.Sprintf("%s ILIKE %s", col, ph)
		}
		p.Where = append(p.Where, "("+strings.Join(parts, " OR ")+")")
	}

	if tv := spec.typeFilter(opts); tv != "" {
		if spec.TypeSubstring {
			p.Where = append(p.Where, fmt.Sprintf("%s ILIKE %s", spec.TypeColumn, arg("%"+tv+"%")))
		} else {
			p.Where = append(p.Where, fmt.Sprintf("%s = %s", spec.TypeColumn, arg(tv)))
		}
	}

	if len(opts.Tags) > 0 {
		// Row must contain ALL requested tags.
		p.Where = append(p.Where, fmt.Sprintf("%s @> %s", spec.TagsColumn, arg(opts.Tags)))
	}

	if opts.OwnerID != "" {
		p.Where = append(p.Where, fmt.Sprintf("%s = %s", spec.OwnerColumn, arg(opts.OwnerID)))
	}

	return p
}

// typeFilter picks the request field the spec's type column consumes.
func (s Spec) typeFilter(opts models.ListOptions) string {
	if s.TypeSubstring {
		return opts.FileType
	}
	return opts.Category
}

// WhereClause renders the predicates as a WHERE clause, or "" when the
// plan has none.
func (p Plan) WhereClause() string {
	if len(p.Where) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.Where, " AND ")
}

// PageClause renders the ORDER BY / LIMIT / OFFSET tail. Limit and
// offset are integers normalized by Build, interpolated directly.
func (p Plan) PageClause() string {
	return fmt.Sprintf("ORDER BY %s LIMIT %d OFFSET %d", p.OrderBy, p.Limit, p.Offset)
}
