// Package query builds the parameterized catalog SELECTs. It does no I/O:
// every builder returns SQL with $n placeholders and the matching args.
package query

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"library-backend/internal/shared/apperr"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

var ErrInvalidLimit = apperr.Invalid("limit", "must be greater than zero")

var dialect = goqu.Dialect("postgres")

var (
	tBooks    = goqu.T("b")
	tAuthor   = goqu.T("u")
	tCategory = goqu.T("c")
	tStatus   = goqu.T("bs")
	tBorrower = goqu.T("borrower")
	tFavorite = goqu.T("fv")
)

// UUID args are passed as strings; pgx encodes them into uuid params.
type Query struct {
	SQL  string
	Args []interface{}
}

type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortTitle     Sort = "title"
	SortTitleDesc Sort = "title_desc"
	SortYear      Sort = "year"
	SortYearOld   Sort = "year_old"
	SortPages     Sort = "pages"
	SortPagesAsc  Sort = "pages_asc"
	SortViews     Sort = "views"
	SortPopular   Sort = "popular"
)

// ParseSort maps a user supplied key to a Sort, SortNewest when unknown.
func ParseSort(s string) Sort {
	switch v := Sort(strings.ToLower(strings.TrimSpace(s))); v {
	case SortNewest, SortOldest, SortTitle, SortTitleDesc, SortYear,
		SortYearOld, SortPages, SortPagesAsc, SortViews, SortPopular:
		return v
	}
	return SortNewest
}

func orderFor(s Sort) []exp.OrderedExpression {
	var order []exp.OrderedExpression
	switch s {
	case SortOldest:
		order = []exp.OrderedExpression{tBooks.Col("created_at").Asc()}
	case SortTitle:
		order = []exp.OrderedExpression{tBooks.Col("title").Asc()}
	case SortTitleDesc:
		order = []exp.OrderedExpression{tBooks.Col("title").Desc()}
	case SortYear:
		order = []exp.OrderedExpression{tBooks.Col("publication_year").Desc().NullsLast()}
	case SortYearOld:
		order = []exp.OrderedExpression{tBooks.Col("publication_year").Asc().NullsLast()}
	case SortPages:
		order = []exp.OrderedExpression{tBooks.Col("page_count").Desc().NullsLast()}
	case SortPagesAsc:
		order = []exp.OrderedExpression{tBooks.Col("page_count").Asc().NullsLast()}
	case SortViews:
		order = []exp.OrderedExpression{tBooks.Col("views").Desc(), tBooks.Col("created_at").Desc()}
	case SortPopular:
		order = []exp.OrderedExpression{goqu.C("favorite_count").Desc(), tBooks.Col("created_at").Desc()}
	default:
		order = []exp.OrderedExpression{tBooks.Col("created_at").Desc()}
	}
	// stable output for equal keys
	return append(order, tBooks.Col("id").Asc())
}

func favoriteCount() *goqu.SelectDataset {
	return dialect.
		From(goqu.T("favorite_books").As("fb")).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.T("fb").Col("book_id").Eq(tBooks.Col("id"))).
		As("favorite_count")
}

// base selects every published book with author, category and favorite
// count. withStatus joins the circulation record and borrower; without it
// the status columns are NULL.
func base(withStatus bool) *goqu.SelectDataset {
	cols := []interface{}{
		tBooks.Col("id"),
		tBooks.Col("title"),
		tBooks.Col("description"),
		tBooks.Col("publication_year"),
		tBooks.Col("language"),
		tBooks.Col("page_count"),
		tBooks.Col("cover_image_url"),
		tBooks.Col("source_url"),
		tBooks.Col("isbn"),
		tBooks.Col("is_published"),
		tBooks.Col("views"),
		tBooks.Col("created_at"),
		tBooks.Col("author_id"),
		tAuthor.Col("username").As("author_name"),
		tCategory.Col("id").As("category_id"),
		tCategory.Col("name").As("category_name"),
		favoriteCount(),
	}

	ds := dialect.
		From(goqu.T("books").As("b")).
		InnerJoin(goqu.T("users").As("u"), goqu.On(tAuthor.Col("id").Eq(tBooks.Col("author_id")))).
		LeftJoin(goqu.T("categories").As("c"), goqu.On(tCategory.Col("id").Eq(tBooks.Col("category_id"))))

	if withStatus {
		cols = append(cols,
			goqu.COALESCE(tStatus.Col("status"), goqu.L("'available'")).As("status"),
			tStatus.Col("borrower_id"),
			goqu.COALESCE(tBorrower.Col("display_name"), tBorrower.Col("username")).As("borrower_name"),
		)
		ds = ds.
			LeftJoin(goqu.T("book_status").As("bs"), goqu.On(tStatus.Col("book_id").Eq(tBooks.Col("id")))).
			LeftJoin(goqu.T("users").As("borrower"), goqu.On(tBorrower.Col("id").Eq(tStatus.Col("borrower_id"))))
	} else {
		cols = append(cols,
			goqu.L("NULL::text").As("status"),
			goqu.L("NULL::uuid").As("borrower_id"),
			goqu.L("NULL::text").As("borrower_name"),
		)
	}

	return ds.
		Select(cols...).
		Where(tBooks.Col("is_published").IsTrue()).
		Prepared(true)
}

func build(ds *goqu.SelectDataset) (Query, error) {
	sql, args, err := ds.ToSQL()
	if err != nil {
		return Query{}, err
	}
	return Query{SQL: sql, Args: args}, nil
}

func checkLimit(limit int) error {
	if limit <= 0 {
		return ErrInvalidLimit
	}
	return nil
}

// escapeLike makes LIKE metacharacters in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Search matches published books whose title, author username, category
// name or description contains term (case-insensitive). A blank term
// matches everything; category "all" or "" disables the category filter.
func Search(term, category string, sort Sort, limit int) (Query, error) {
	if err := checkLimit(limit); err != nil {
		return Query{}, err
	}

	ds := base(true)

	if t := strings.TrimSpace(term); t != "" {
		pattern := "%" + escapeLike(t) + "%"
		ds = ds.Where(goqu.Or(
			tBooks.Col("title").ILike(pattern),
			tAuthor.Col("username").ILike(pattern),
			tCategory.Col("name").ILike(pattern),
			tBooks.Col("description").ILike(pattern),
		))
	}

	if cat := strings.TrimSpace(category); cat != "" && !strings.EqualFold(cat, CategoryAll) {
		ds = ds.Where(tCategory.Col("name").Eq(cat))
	}

	return build(ds.Order(orderFor(sort)...).Limit(uint(limit)))
}

func New(limit int) (Query, error) {
	if err := checkLimit(limit); err != nil {
		return Query{}, err
	}
	return build(base(true).Order(orderFor(SortNewest)...).Limit(uint(limit)))
}

// Popular orders by favorite count, newest first on ties.
func Popular(limit int) (Query, error) {
	if err := checkLimit(limit); err != nil {
		return Query{}, err
	}
	return build(base(true).Order(orderFor(SortPopular)...).Limit(uint(limit)))
}

func ByCategory(categoryID uuid.UUID, limit int) (Query, error) {
	if err := checkLimit(limit); err != nil {
		return Query{}, err
	}
	ds := base(true).
		Where(tBooks.Col("category_id").Eq(categoryID.String())).
		Order(orderFor(SortNewest)...).
		Limit(uint(limit))
	return build(ds)
}

func Details(bookID uuid.UUID, withStatus bool) (Query, error) {
	return build(base(withStatus).Where(tBooks.Col("id").Eq(bookID.String())))
}

// HeldBy lists books whose circulation record is in state and held by userID,
// most recent transition first.
func HeldBy(userID uuid.UUID, state string) (Query, error) {
	ds := base(true).
		Where(
			tStatus.Col("status").Eq(state),
			tStatus.Col("borrower_id").Eq(userID.String()),
		).
		Order(tStatus.Col("updated_at").Desc(), tBooks.Col("id").Asc())
	return build(ds)
}

func ReservedBy(userID uuid.UUID) (Query, error) { return HeldBy(userID, "reserved") }
func BorrowedBy(userID uuid.UUID) (Query, error) { return HeldBy(userID, "borrowed") }

func AuthoredBy(authorID uuid.UUID) (Query, error) {
	ds := base(true).
		Where(tBooks.Col("author_id").Eq(authorID.String())).
		Order(orderFor(SortNewest)...)
	return build(ds)
}

// FavoritesOf lists a user's favorite books, most recently added first.
func FavoritesOf(userID uuid.UUID) (Query, error) {
	ds := base(true).
		InnerJoin(goqu.T("favorite_books").As("fv"), goqu.On(
			tFavorite.Col("book_id").Eq(tBooks.Col("id")),
			tFavorite.Col("user_id").Eq(userID.String()),
		)).
		Order(tFavorite.Col("created_at").Desc(), tBooks.Col("id").Asc())
	return build(ds)
}
