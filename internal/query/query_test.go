package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var bootcampFields = []string{"name", "housing", "averageCost", "careers"}

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func TestParseFilterOperators(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     bson.M
	}{
		{
			name:     "equality",
			rawQuery: "name=Devworks",
			want:     bson.M{"name": "Devworks"},
		},
		{
			name:     "gte number",
			rawQuery: "averageCost[gte]=5000",
			want:     bson.M{"averageCost": bson.M{"$gte": float64(5000)}},
		},
		{
			name:     "range merges on one field",
			rawQuery: "averageCost[gte]=1000&averageCost[lte]=9000",
			want:     bson.M{"averageCost": bson.M{"$gte": float64(1000), "$lte": float64(9000)}},
		},
		{
			name:     "in list",
			rawQuery: "careers[in]=Business,Other",
			want:     bson.M{"careers": bson.M{"$in": []interface{}{"Business", "Other"}}},
		},
		{
			name:     "bool coercion",
			rawQuery: "housing=true",
			want:     bson.M{"housing": true},
		},
		{
			name:     "unknown field dropped",
			rawQuery: "password[gte]=x&name=Devworks",
			want:     bson.M{"name": "Devworks"},
		},
		{
			name:     "unknown operator dropped",
			rawQuery: "averageCost[regex]=evil",
			want:     bson.M{},
		},
		{
			name:     "reserved params are not filters",
			rawQuery: "select=name&sort=name&page=2&limit=5",
			want:     bson.M{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Parse(parseQuery(t, tt.rawQuery), bootcampFields, 25)
			assert.Equal(t, tt.want, opts.Filter())
		})
	}
}

func TestParseSelectAndSort(t *testing.T) {
	opts := Parse(parseQuery(t, "select=name,averageCost&sort=name,-averageCost"), bootcampFields, 25)

	assert.Equal(t, []string{"name", "averageCost"}, opts.Projection)
	assert.Equal(t, bson.D{
		{Key: "name", Value: int32(1)},
		{Key: "averageCost", Value: int32(-1)},
	}, opts.Sort)
}

func TestParseDefaultSort(t *testing.T) {
	opts := Parse(parseQuery(t, ""), bootcampFields, 25)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: int32(-1)}}, opts.Sort)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		rawQuery  string
		wantPage  int64
		wantLimit int64
		wantSkip  int64
	}{
		{"defaults", "", 1, 25, 0},
		{"explicit", "page=3&limit=10", 3, 10, 20},
		{"bad page ignored", "page=zero&limit=10", 1, 10, 0},
		{"negative ignored", "page=-2&limit=-5", 1, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Parse(parseQuery(t, tt.rawQuery), bootcampFields, 25)
			assert.Equal(t, tt.wantPage, opts.Page)
			assert.Equal(t, tt.wantLimit, opts.Limit)
			assert.Equal(t, tt.wantSkip, opts.Skip())
		})
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		page     int64
		limit    int64
		total    int64
		wantNext *PageRef
		wantPrev *PageRef
	}{
		{"first of many", 1, 10, 35, &PageRef{2, 10}, nil},
		{"middle", 2, 10, 35, &PageRef{3, 10}, &PageRef{1, 10}},
		{"last partial", 4, 10, 35, nil, &PageRef{3, 10}},
		{"exact boundary", 3, 10, 30, nil, &PageRef{2, 10}},
		{"single page", 1, 10, 5, nil, nil},
		{"empty", 1, 10, 0, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &Options{Page: tt.page, Limit: tt.limit}
			p := opts.Paginate(tt.total)
			assert.Equal(t, tt.wantNext, p.Next)
			assert.Equal(t, tt.wantPrev, p.Prev)
		})
	}
}

func TestPipelineWithPopulate(t *testing.T) {
	opts := Parse(parseQuery(t, "page=2&limit=5"), []string{"tuition"}, 25)
	pipeline := opts.Pipeline(Populate{
		Field:  "bootcamp",
		From:   "bootcamps",
		Select: []string{"name", "description"},
	})

	// match, sort, skip, limit, lookup, unwind
	require.Len(t, pipeline, 6)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$sort", pipeline[1][0].Key)
	assert.Equal(t, "$skip", pipeline[2][0].Key)
	assert.Equal(t, int64(5), pipeline[2][0].Value)
	assert.Equal(t, "$limit", pipeline[3][0].Key)
	assert.Equal(t, "$lookup", pipeline[4][0].Key)
	assert.Equal(t, "$unwind", pipeline[5][0].Key)

	lookup, ok := pipeline[4][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "bootcamps", lookup["from"])
	assert.Equal(t, "bootcamp", lookup["localField"])
	assert.Equal(t, "_id", lookup["foreignField"])
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		key       string
		wantField string
		wantOp    string
	}{
		{"averageCost[gte]", "averageCost", "gte"},
		{"name", "name", "eq"},
		{"weird[", "weird[", "eq"},
		{"a[in]", "a", "in"},
	}

	for _, tt := range tests {
		field, op := splitKey(tt.key)
		assert.Equal(t, tt.wantField, field, tt.key)
		assert.Equal(t, tt.wantOp, op, tt.key)
	}
}
