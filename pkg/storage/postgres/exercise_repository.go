package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/rs/zerolog"

	"github.com/fisiolab/fisiosearch/pkg/search"
)

// ExerciseRepository is the relational content store behind the search
// engine. Predicates arrive store-agnostic and are translated into SQL here.
type ExerciseRepository struct {
	db     *DB
	logger *zerolog.Logger
}

var _ search.Store = (*ExerciseRepository)(nil)

func NewExerciseRepository(db *DB, logger *zerolog.Logger) *ExerciseRepository {
	return &ExerciseRepository{db: db, logger: logger}
}

const exerciseTable = "exercises"

var exerciseColumns = []string{
	"id",
	"name",
	"description",
	"category",
	"subcategory",
	"body_parts",
	"equipment",
	"difficulty",
	"duration_seconds",
	"therapeutic_goals",
	"ai_categorized",
	"ai_confidence",
	"approved",
	"video_url",
	"thumbnail_url",
	"created_at",
}

// Search returns one candidate page and the total matching count.
func (r *ExerciseRepository) Search(ctx context.Context, f search.Filters, sortSpec search.SortSpec, limit, offset int) ([]*search.Exercise, int, error) {
	query, args := buildSearchQuery(f, sortSpec, limit, offset)

	rows, err := r.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*search.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate exercises: %w", err)
	}

	countQuery, countArgs := buildCountQuery(f)

	var total int
	if err := r.db.Conn().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count exercises: %w", err)
	}

	return exercises, total, nil
}

// CountByFacet groups matching records by facet value. List-valued facets
// unnest the jsonb array so each record counts once per contained value.
func (r *ExerciseRepository) CountByFacet(ctx context.Context, f search.Filters, facet search.FacetField, limit int) (map[string]int, error) {
	query, args, err := buildFacetQuery(f, facet, limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s facet: %w", facet, err)
	}
	defer rows.Close()

	buckets := make(map[string]int)
	for rows.Next() {
		var value string
		var total int
		if err := rows.Scan(&value, &total); err != nil {
			return nil, fmt.Errorf("scan %s facet: %w", facet, err)
		}
		if value != "" {
			buckets[value] = total
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s facet: %w", facet, err)
	}

	return buckets, nil
}

func buildSearchQuery(f search.Filters, sortSpec search.SortSpec, limit, offset int) (string, []any) {
	sel := entsql.Dialect(dialect.Postgres).
		Select(exerciseColumns...).
		From(entsql.Table(exerciseTable))

	applyFilters(sel, f)
	applySort(sel, f, sortSpec)

	sel.Limit(limit).Offset(offset)

	return sel.Query()
}

func buildCountQuery(f search.Filters) (string, []any) {
	sel := entsql.Dialect(dialect.Postgres).
		Select(entsql.Count("*")).
		From(entsql.Table(exerciseTable))

	applyFilters(sel, f)

	return sel.Query()
}

func buildFacetQuery(f search.Filters, facet search.FacetField, limit int) (string, []any, error) {
	var column string
	switch facet {
	case search.FacetCategory:
		column = "category"
	case search.FacetDifficulty:
		column = "difficulty"
	case search.FacetBodyPart:
		column = "body_parts"
	case search.FacetEquipment:
		column = "equipment"
	default:
		return "", nil, fmt.Errorf("unsupported facet field: %s", facet)
	}

	d := entsql.Dialect(dialect.Postgres)

	var sel *entsql.Selector
	if facet.ListValued() {
		inner := d.Select().From(entsql.Table(exerciseTable))
		applyFilters(inner, f)
		inner.AppendSelectExprAs(entsql.Expr(fmt.Sprintf("jsonb_array_elements_text(%s)", column)), "value")

		sel = d.Select("value").
			AppendSelectExprAs(entsql.Expr("COUNT(*)"), "total").
			From(inner.As("facet_values")).
			GroupBy("value")
	} else {
		sel = d.Select(column).
			AppendSelectExprAs(entsql.Expr("COUNT(*)"), "total").
			From(entsql.Table(exerciseTable)).
			GroupBy(column)
		applyFilters(sel, f)
	}

	sel.OrderExpr(entsql.Expr("total DESC"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	return query, args, nil
}

// applyFilters translates the store-agnostic predicate set into SQL. Filter
// groups AND together; values within a group OR together.
func applyFilters(sel *entsql.Selector, f search.Filters) {
	if f.ApprovedOnly {
		sel.Where(entsql.EQ("approved", true))
	}
	if f.AICategorized != nil {
		sel.Where(entsql.EQ("ai_categorized", *f.AICategorized))
	}
	if f.MinAIConfidence != nil {
		sel.Where(entsql.GTE("ai_confidence", *f.MinAIConfidence))
	}
	if len(f.Categories) > 0 {
		sel.Where(entsql.In("category", anySlice(f.Categories)...))
	}
	if len(f.Difficulties) > 0 {
		sel.Where(entsql.In("difficulty", anySlice(f.Difficulties)...))
	}
	if f.MinDuration != nil {
		sel.Where(entsql.GTE("duration_seconds", *f.MinDuration))
	}
	if f.MaxDuration != nil {
		sel.Where(entsql.LTE("duration_seconds", *f.MaxDuration))
	}
	if len(f.BodyParts) > 0 {
		sel.Where(jsonbContainsAny("body_parts", f.BodyParts))
	}
	if len(f.Equipment) > 0 {
		sel.Where(jsonbContainsAny("equipment", f.Equipment))
	}
	if len(f.TherapeuticGoals) > 0 {
		goals := make([]*entsql.Predicate, len(f.TherapeuticGoals))
		for i, goal := range f.TherapeuticGoals {
			goals[i] = entsql.ContainsFold("therapeutic_goals", goal)
		}
		sel.Where(entsql.Or(goals...))
	}
	if f.HasMedia {
		sel.Where(entsql.Or(
			entsql.NEQ("video_url", ""),
			entsql.NEQ("thumbnail_url", ""),
		))
	}
	if len(f.TextQueries) > 0 {
		sel.Where(textPredicate(f))
	}
}

func textPredicate(f search.Filters) *entsql.Predicate {
	if f.ExactText {
		q := f.TextQueries[0]
		return entsql.Or(
			entsql.ContainsFold("name", q),
			entsql.ContainsFold("description", q),
		)
	}

	variants := make([]*entsql.Predicate, len(f.TextQueries))
	for i, q := range f.TextQueries {
		variants[i] = entsql.Or(
			entsql.ContainsFold("name", q),
			entsql.ContainsFold("description", q),
			entsql.ContainsFold("category", q),
			entsql.ContainsFold("therapeutic_goals", q),
		)
	}
	return entsql.Or(variants...)
}

// jsonbContainsAny matches records whose jsonb string array contains any of
// the given values ("?|" operator).
func jsonbContainsAny(column string, values []string) *entsql.Predicate {
	return entsql.P(func(b *entsql.Builder) {
		b.Ident(column).WriteString(" ?| ").Arg(values)
	})
}

func applySort(sel *entsql.Selector, f search.Filters, sortSpec search.SortSpec) {
	direction := entsql.Desc
	if sortSpec.Order == search.SortAsc {
		direction = entsql.Asc
	}

	switch sortSpec.By {
	case search.SortByRelevance:
		// With a free-text query the relevance ranker owns the final
		// order; confidence is a stable pre-sort either way. Unconfident
		// rows sort as least relevant in both directions.
		confidenceOrder := "ai_confidence DESC NULLS LAST"
		if sortSpec.Order == search.SortAsc {
			confidenceOrder = "ai_confidence ASC NULLS FIRST"
		}
		sel.OrderExpr(entsql.Expr(confidenceOrder))
		if !f.HasText() {
			sel.OrderBy(direction("created_at"))
		}
	case search.SortByName, search.SortByCategory, search.SortByDifficulty:
		sel.OrderBy(direction(string(sortSpec.By)), entsql.Asc("name"))
	case search.SortByCreatedAt, search.SortByAIConfidence:
		sel.OrderBy(direction(string(sortSpec.By)))
	default:
		sel.OrderBy(entsql.Desc("created_at"))
	}
}

func anySlice(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// scanExercise reads one row in exerciseColumns order.
func scanExercise(rows *sql.Rows) (*search.Exercise, error) {
	var (
		ex           search.Exercise
		bodyParts    []byte
		equipment    []byte
		aiConfidence sql.NullFloat64
	)

	err := rows.Scan(
		&ex.ID,
		&ex.Name,
		&ex.Description,
		&ex.Category,
		&ex.Subcategory,
		&bodyParts,
		&equipment,
		&ex.Difficulty,
		&ex.DurationSeconds,
		&ex.TherapeuticGoals,
		&ex.AICategorized,
		&aiConfidence,
		&ex.Approved,
		&ex.VideoURL,
		&ex.ThumbnailURL,
		&ex.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(bodyParts, &ex.BodyParts); err != nil {
		return nil, fmt.Errorf("decode body parts: %w", err)
	}
	if err := json.Unmarshal(equipment, &ex.Equipment); err != nil {
		return nil, fmt.Errorf("decode equipment: %w", err)
	}
	if aiConfidence.Valid {
		ex.AIConfidence = &aiConfidence.Float64
	}

	return &ex, nil
}
