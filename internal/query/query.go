// Package query translates URL query strings into MongoDB list operations:
// filter conditions, field projection, sort order and a pagination window.
//
// Filters use the bracket syntax `field[op]=value` (for example
// `averageCost[gte]=5000`); a bare `field=value` is an equality match.
// Fields are validated against a per-resource whitelist, so arbitrary keys
// and operator tokens never reach the storage layer.
package query

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Operator is a comparison operator accepted in a filter condition.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

var operators = map[string]Operator{
	"eq": OpEq, "gt": OpGt, "gte": OpGte, "lt": OpLt, "lte": OpLte, "in": OpIn,
}

// Reserved parameter names extracted before filter parsing.
var reserved = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}

// Condition is one validated {field, operator, value} filter triple.
type Condition struct {
	Field string
	Op    Operator
	Value interface{}
}

// Options is the parsed form of a listing request.
type Options struct {
	Conditions []Condition
	Projection []string // empty means all fields
	Sort       bson.D
	Page       int64
	Limit      int64
}

// Page descriptor inside pagination metadata.
type PageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

// Pagination carries next/prev descriptors, each present only when that
// page exists.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Parse translates raw query values into Options. Keys not in allowed (and
// unknown operators) are dropped rather than erroring: a filter on a field
// the resource does not expose simply yields an empty result set.
func Parse(values url.Values, allowed []string, defaultLimit int64) *Options {
	opts := &Options{Page: 1, Limit: defaultLimit}

	allowedSet := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = true
	}

	for key, vals := range values {
		if reserved[key] || len(vals) == 0 {
			continue
		}
		field, op := splitKey(key)
		if !allowedSet[field] {
			continue
		}
		operator, ok := operators[op]
		if !ok {
			continue
		}
		opts.Conditions = append(opts.Conditions, Condition{
			Field: field,
			Op:    operator,
			Value: coerce(operator, vals[0]),
		})
	}

	if sel := values.Get("select"); sel != "" {
		for _, f := range strings.Split(sel, ",") {
			if f != "" {
				opts.Projection = append(opts.Projection, f)
			}
		}
	}

	if sortParam := values.Get("sort"); sortParam != "" {
		for _, f := range strings.Split(sortParam, ",") {
			if f == "" || f == "-" {
				continue
			}
			dir := int32(1)
			if strings.HasPrefix(f, "-") {
				dir = -1
				f = f[1:]
			}
			opts.Sort = append(opts.Sort, bson.E{Key: f, Value: dir})
		}
	}
	if len(opts.Sort) == 0 {
		opts.Sort = bson.D{{Key: "createdAt", Value: int32(-1)}}
	}

	if page, err := strconv.ParseInt(values.Get("page"), 10, 64); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.ParseInt(values.Get("limit"), 10, 64); err == nil && limit > 0 {
		opts.Limit = limit
	}

	return opts
}

// splitKey separates "field[op]" into its parts; a bare key is an equality.
func splitKey(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, "eq"
	}
	return key[:open], key[open+1 : len(key)-1]
}

// coerce converts a raw query value into the type Mongo should compare
// against: number, bool, or string. For in, the value splits on commas
// into a list.
func coerce(op Operator, raw string) interface{} {
	if op == OpIn {
		parts := strings.Split(raw, ",")
		list := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			list = append(list, coerceScalar(p))
		}
		return list
	}
	return coerceScalar(raw)
}

func coerceScalar(raw string) interface{} {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}

// Filter renders the conditions as a Mongo filter document. Conditions on
// the same field merge, so `price[gte]=10&price[lte]=20` becomes a single
// range predicate.
func (o *Options) Filter() bson.M {
	filter := bson.M{}
	for _, c := range o.Conditions {
		if c.Op == OpEq {
			filter[c.Field] = c.Value
			continue
		}
		sub, ok := filter[c.Field].(bson.M)
		if !ok {
			sub = bson.M{}
			filter[c.Field] = sub
		}
		sub["$"+string(c.Op)] = c.Value
	}
	return filter
}

// Skip returns the number of documents before the requested page window.
func (o *Options) Skip() int64 {
	return (o.Page - 1) * o.Limit
}

// Paginate computes next/prev descriptors for a filtered total. The total is
// the count of documents matching the filter, not the whole collection, so
// the metadata stays correct under active filters.
func (o *Options) Paginate(total int64) Pagination {
	var p Pagination
	if o.Page*o.Limit < total {
		p.Next = &PageRef{Page: o.Page + 1, Limit: o.Limit}
	}
	if o.Page > 1 {
		p.Prev = &PageRef{Page: o.Page - 1, Limit: o.Limit}
	}
	return p
}

// Populate describes one reference field to expand into an embedded
// sub-document on each result.
type Populate struct {
	Field  string   // local reference field, e.g. "bootcamp"
	From   string   // collection to join, e.g. "bootcamps"
	Select []string // fields kept from the joined document; empty keeps all
}

// Pipeline builds the aggregation stages for a populated listing:
// match, sort, page window, optional projection, then a $lookup/$unwind
// per populated reference.
func (o *Options) Pipeline(populate ...Populate) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: o.Filter()}},
		{{Key: "$sort", Value: o.Sort}},
		{{Key: "$skip", Value: o.Skip()}},
		{{Key: "$limit", Value: o.Limit}},
	}

	if len(o.Projection) > 0 {
		proj := bson.M{}
		for _, f := range o.Projection {
			proj[f] = 1
		}
		for _, p := range populate {
			proj[p.Field] = 1
		}
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: proj}})
	}

	for _, p := range populate {
		lookup := bson.M{
			"from":         p.From,
			"localField":   p.Field,
			"foreignField": "_id",
			"as":           p.Field,
		}
		if len(p.Select) > 0 {
			proj := bson.M{}
			for _, f := range p.Select {
				proj[f] = 1
			}
			lookup["pipeline"] = []bson.M{{"$project": proj}}
		}
		pipeline = append(pipeline,
			bson.D{{Key: "$lookup", Value: lookup}},
			bson.D{{Key: "$unwind", Value: bson.M{
				"path":                       "$" + p.Field,
				"preserveNullAndEmptyArrays": true,
			}}},
		)
	}

	return pipeline
}

// Result is one page of documents plus its pagination metadata.
type Result struct {
	Count      int
	Pagination Pagination
	Data       []bson.M
}

// Run executes the translated query against a collection. The total used for
// pagination metadata counts the filtered subset.
func (o *Options) Run(ctx context.Context, coll *mongo.Collection, populate ...Populate) (*Result, error) {
	filter := o.Filter()
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	var cursor *mongo.Cursor
	if len(populate) > 0 {
		cursor, err = coll.Aggregate(ctx, o.Pipeline(populate...))
	} else {
		findOpts := options.Find().
			SetSort(o.Sort).
			SetSkip(o.Skip()).
			SetLimit(o.Limit)
		if len(o.Projection) > 0 {
			proj := bson.M{}
			for _, f := range o.Projection {
				proj[f] = 1
			}
			findOpts.SetProjection(proj)
		}
		cursor, err = coll.Find(ctx, filter, findOpts)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	data := []bson.M{}
	if err := cursor.All(ctx, &data); err != nil {
		return nil, err
	}

	return &Result{
		Count:      len(data),
		Pagination: o.Paginate(total),
		Data:       data,
	}, nil
}
