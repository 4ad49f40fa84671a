package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/caseflow/caseflow/pkg/query"
)

// Executor translates the engine's store-agnostic queries into MongoDB
// operations. It implements query.Executor. The engine never sees a Mongo
// operator; everything store-specific stays on this side of the boundary.
type Executor struct {
	adapter *Adapter
}

// NewExecutor creates an Executor backed by the given adapter.
func NewExecutor(adapter *Adapter) (*Executor, error) {
	if adapter == nil {
		return nil, fmt.Errorf("mongodb adapter is required")
	}
	return &Executor{adapter: adapter}, nil
}

// Fetch returns one sorted, bounded page of documents. Queries with expansion
// run through the aggregation pipeline (the only place $lookup is available);
// plain queries use a find with options.
func (e *Executor) Fetch(ctx context.Context, q query.Query) ([]query.Document, error) {
	filter := BuildFilter(q.Filter, q.DeletedField)

	var docs []bson.M
	var err error
	if len(q.Expansions) > 0 {
		docs, err = e.adapter.Aggregate(ctx, q.Collection, buildPipeline(q, filter))
	} else {
		docs, err = e.adapter.Find(ctx, q.Collection, filter, buildFindOptions(q))
	}
	if err != nil {
		return nil, err
	}

	out := make([]query.Document, len(docs))
	for i, doc := range docs {
		out[i] = query.Document(doc)
	}
	return out, nil
}

// Count returns the total number of documents matching the filter.
func (e *Executor) Count(ctx context.Context, q query.Query) (int64, error) {
	return e.adapter.CountDocuments(ctx, q.Collection, BuildFilter(q.Filter, q.DeletedField))
}

// ResolveIDs returns the distinct values of idField across matching documents.
func (e *Executor) ResolveIDs(ctx context.Context, q query.Query, idField string) ([]interface{}, error) {
	return e.adapter.Distinct(ctx, q.Collection, idField, BuildFilter(q.Filter, q.DeletedField))
}

// BuildFilter renders a filter expression into a Mongo filter document.
// The deleted field renders the visibility mode; live visibility uses $ne so
// documents missing the flag entirely still count as live.
func BuildFilter(expr *query.Expression, deletedField string) bson.M {
	filter := bson.M{}
	if expr == nil {
		return filter
	}

	for field, p := range expr.Predicates {
		switch p.Kind {
		case query.KindMatch:
			filter[field] = substringRegex(p.Value)
		case query.KindIn:
			filter[field] = bson.M{"$in": p.Values}
		case query.KindRange:
			bounds := bson.M{}
			if p.Min != nil {
				bounds["$gte"] = *p.Min
			}
			if p.Max != nil {
				bounds["$lte"] = *p.Max
			}
			if len(bounds) > 0 {
				filter[field] = bounds
			}
		default:
			filter[field] = p.Value
		}
	}

	if expr.Search != nil && expr.Search.Term != "" && len(expr.Search.Fields) > 0 {
		or := make(bson.A, 0, len(expr.Search.Fields))
		for _, field := range expr.Search.Fields {
			or = append(or, bson.M{field: substringRegex(expr.Search.Term)})
		}
		filter["$or"] = or
	}

	if deletedField != "" {
		switch expr.Visibility {
		case query.VisibilityDeleted:
			filter[deletedField] = true
		case query.VisibilityAll:
			// no clause: live and deleted both visible
		default:
			filter[deletedField] = bson.M{"$ne": true}
		}
	}

	if expr.TenantField != "" {
		filter[expr.TenantField] = expr.TenantID
	}

	return filter
}

// substringRegex builds a case-insensitive substring match. The term is
// quoted so user input can never inject regex syntax.
func substringRegex(value interface{}) primitive.Regex {
	return primitive.Regex{
		Pattern: regexp.QuoteMeta(fmt.Sprintf("%v", value)),
		Options: "i",
	}
}

// buildSort renders the resolved sort keys as an ordered document so
// multi-key ordering is preserved.
func buildSort(fields []query.SortField) bson.D {
	sort := bson.D{}
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: dir})
	}
	return sort
}

func buildProjection(fields []string) bson.D {
	projection := bson.D{}
	for _, f := range fields {
		projection = append(projection, bson.E{Key: f, Value: 1})
	}
	return projection
}

func buildFindOptions(q query.Query) *options.FindOptions {
	opts := options.Find().SetSkip(q.Skip).SetLimit(q.Limit)
	if len(q.Sort) > 0 {
		opts.SetSort(buildSort(q.Sort))
	}
	if len(q.Projection) > 0 {
		opts.SetProjection(buildProjection(q.Projection))
	}
	return opts
}

// buildPipeline assembles the aggregation used when related objects are
// expanded: match, sort and bound first so $lookup only runs over the page
// being returned.
func buildPipeline(q query.Query, filter bson.M) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
	}
	if len(q.Sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: buildSort(q.Sort)}})
	}
	if q.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: q.Skip}})
	}
	if q.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: q.Limit}})
	}
	for _, exp := range q.Expansions {
		pipeline = append(pipeline,
			bson.D{{Key: "$lookup", Value: bson.M{
				"from":         exp.Relation.Collection,
				"localField":   exp.Relation.LocalField,
				"foreignField": exp.Relation.ForeignField,
				"as":           exp.Path,
			}}},
			bson.D{{Key: "$unwind", Value: bson.M{
				"path":                       "$" + exp.Path,
				"preserveNullAndEmptyArrays": true,
			}}},
		)
	}
	if len(q.Projection) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: buildProjection(q.Projection)}})
	}
	return pipeline
}
