// Package extension implements the Field Extension Pipeline: compile-time
// rewriters that sit between a field's FieldBuilder and the schema, adding
// arguments and rewriting the projection a field compiles to. Grounded on
// the Connection/Edge/PageInfo/ConnectionArgs shapes of
// _examples/qktrzrj-graphql/schemabuilder/relay.go, generalized from that
// repo's Relay cursor paging alone into the full pipeline: filter, sort,
// offset paging, cursor paging, authorization.
package extension

import (
	"context"
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"go.appointy.com/projgql/filterlang"
	"go.appointy.com/projgql/graphql"
	"go.appointy.com/projgql/graphql/expr"
	"go.appointy.com/projgql/jerrors"
	"go.appointy.com/projgql/principal"
)

// evalNow evaluates an already-built args expression immediately: at
// schema-compile time a field's bound arguments are fully resolved Go
// values (variables and defaults are substituted during binding, before
// any ProjectionFragment is built), so extensions may read them
// synchronously rather than deferring to execution time.
func evalNow(e expr.Expr) (interface{}, error) {
	return e.Eval(context.Background(), &expr.EvalContext{})
}

func argsMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}

// toSlice normalizes a FieldBuilder's evaluated parent value (whatever the
// underlying host field's Go type is) to a []interface{}, mirroring
// graphql/expr's asSlice for extensions that must inspect elements outside
// the expr package.
func toSlice(v interface{}) ([]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.([]interface{}); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a collection, got %T", v)
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// Filter adds a nullable `filter: String` argument, compiled via
// filterlang into a Where node inserted in front of whatever FieldBuilder
// it wraps.
type Filter struct{}

func (*Filter) Name() string { return "filter" }

func (f *Filter) Configure(schema *graphql.Object, field *graphql.Field) error {
	if field.Args == nil {
		field.Args = graphql.NewArgumentSchema()
	}
	field.Args.Add(&graphql.Argument{Name: "filter", Type: &graphql.Scalar{Type: "String"}, Nullable: true})

	original := field.FieldBuilder
	field.FieldBuilder = func(parent, args expr.Expr) (expr.Expr, error) {
		inner, err := original(parent, args)
		if err != nil {
			return nil, err
		}
		val, err := evalNow(args)
		if err != nil {
			return nil, err
		}
		filterStr, _ := argsMap(val)["filter"].(string)
		if strings.TrimSpace(filterStr) == "" {
			return inner, nil
		}
		pred, err := filterlang.Compile(filterStr)
		if err != nil {
			return nil, jerrors.Wrap(jerrors.KindInvalidArg, nil, err)
		}
		return &expr.MethodCall{Method: expr.MWhere, Source: inner, Pred: pred}, nil
	}
	return nil
}

// Sort adds `sortBy: String` and `sortDescending: Boolean` arguments,
// inserting an OrderBy/OrderByDescending node keyed on the named field of
// the collection's element type.
type Sort struct{}

func (*Sort) Name() string { return "sort" }

func (s *Sort) Configure(schema *graphql.Object, field *graphql.Field) error {
	if field.Args == nil {
		field.Args = graphql.NewArgumentSchema()
	}
	field.Args.Add(&graphql.Argument{Name: "sortBy", Type: &graphql.Scalar{Type: "String"}, Nullable: true})
	field.Args.Add(&graphql.Argument{Name: "sortDescending", Type: &graphql.Scalar{Type: "Boolean"}, Nullable: true, HasDefault: true, Default: false})

	original := field.FieldBuilder
	field.FieldBuilder = func(parent, args expr.Expr) (expr.Expr, error) {
		inner, err := original(parent, args)
		if err != nil {
			return nil, err
		}
		val, err := evalNow(args)
		if err != nil {
			return nil, err
		}
		m := argsMap(val)
		sortBy, _ := m["sortBy"].(string)
		if strings.TrimSpace(sortBy) == "" {
			return inner, nil
		}
		desc, _ := m["sortDescending"].(bool)
		keyFunc := func(element expr.Expr) expr.Expr {
			return expr.NullGuard(element, func(e expr.Expr) expr.Expr {
				return &expr.Member{Source: e, Name: sortBy}
			})
		}
		method := expr.MOrderBy
		if desc {
			method = expr.MOrderByDescending
		}
		return &expr.MethodCall{Method: method, Source: inner, KeyFunc: keyFunc}, nil
	}
	return nil
}

// OffsetPaging adds `skip: Int` / `take: Int` arguments and rewrites the
// field's return type to a `{items, totalItems, hasPreviousPage,
// hasNextPage}` record.
type OffsetPaging struct {
	DefaultLimit int
	MaxLimit     int
}

func (*OffsetPaging) Name() string { return "offsetPaging" }

func (o *OffsetPaging) Configure(schema *graphql.Object, field *graphql.Field) error {
	elemType := field.Type
	if field.Args == nil {
		field.Args = graphql.NewArgumentSchema()
	}
	defaultLimit := o.DefaultLimit
	if defaultLimit == 0 {
		defaultLimit = 20
	}
	field.Args.Add(&graphql.Argument{Name: "skip", Type: &graphql.Scalar{Type: "Int"}, Nullable: true, HasDefault: true, Default: int64(0)})
	field.Args.Add(&graphql.Argument{Name: "take", Type: &graphql.Scalar{Type: "Int"}, Nullable: true, HasDefault: true, Default: int64(defaultLimit)})

	page := &graphql.Object{Name: pageTypeName(elemType)}
	page.AddField("items", &graphql.Field{Type: elemType, FieldBuilder: passthroughField("items")})
	page.AddField("totalItems", &graphql.Field{Type: &graphql.NonNull{Type: &graphql.Scalar{Type: "Int"}}, FieldBuilder: passthroughField("totalItems")})
	page.AddField("hasPreviousPage", &graphql.Field{Type: &graphql.NonNull{Type: &graphql.Scalar{Type: "Boolean"}}, FieldBuilder: passthroughField("hasPreviousPage")})
	page.AddField("hasNextPage", &graphql.Field{Type: &graphql.NonNull{Type: &graphql.Scalar{Type: "Boolean"}}, FieldBuilder: passthroughField("hasNextPage")})
	field.Type = &graphql.NonNull{Type: page}

	original := field.FieldBuilder
	maxLimit := o.MaxLimit
	field.FieldBuilder = func(parent, args expr.Expr) (expr.Expr, error) {
		inner, err := original(parent, args)
		if err != nil {
			return nil, err
		}
		return &expr.FuncCall{
			Parent: inner,
			Args:   args,
			Name:   "offsetPaging",
			Call: func(ctx context.Context, parentVal, argsVal interface{}) (interface{}, error) {
				items, err := toSlice(parentVal)
				if err != nil {
					return nil, err
				}
				m := argsMap(argsVal)
				skip := toIntDefault(m["skip"], 0)
				take := toIntDefault(m["take"], defaultLimit)
				if maxLimit > 0 && take > maxLimit {
					take = maxLimit
				}
				total := len(items)
				if skip < 0 {
					skip = 0
				}
				if skip > total {
					skip = total
				}
				end := skip + take
				if end > total || take < 0 {
					end = total
				}
				if end < skip {
					end = skip
				}
				page := items[skip:end]
				return map[string]interface{}{
					"items":           page,
					"totalItems":      total,
					"hasPreviousPage": skip > 0,
					"hasNextPage":     end < total,
				}, nil
			},
		}, nil
	}
	return nil
}

func toIntDefault(v interface{}, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

func passthroughField(key string) func(parent, args expr.Expr) (expr.Expr, error) {
	return func(parent, _ expr.Expr) (expr.Expr, error) {
		return &expr.Member{Source: parent, Name: key}, nil
	}
}

func pageTypeName(elemType graphql.Type) string {
	return baseTypeName(elemType) + "Page"
}

func baseTypeName(t graphql.Type) string {
	switch v := t.(type) {
	case *graphql.NonNull:
		return baseTypeName(v.Type)
	case *graphql.List:
		return baseTypeName(v.Type)
	default:
		return t.String()
	}
}

// Connection implements Relay-style cursor pagination: `first/after/
// last/before` arguments, `<T>Connection { edges { cursor, node },
// pageInfo { hasNextPage, hasPreviousPage, startCursor, endCursor },
// totalCount }`, with cursors as opaque base64-encoded integer offsets.
type Connection struct {
	DefaultPageSize int
	MaxPageSize     int
}

func (*Connection) Name() string { return "connection" }

func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte("cursor:" + strconv.Itoa(offset)))
}

func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor")
	}
	s := string(raw)
	if !strings.HasPrefix(s, "cursor:") {
		return 0, fmt.Errorf("invalid cursor")
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "cursor:"))
	if err != nil {
		return 0, fmt.Errorf("invalid cursor")
	}
	return n, nil
}

func (c *Connection) Configure(schema *graphql.Object, field *graphql.Field) error {
	elemType := field.Type
	if field.Args == nil {
		field.Args = graphql.NewArgumentSchema()
	}
	field.Args.Add(&graphql.Argument{Name: "first", Type: &graphql.Scalar{Type: "Int"}, Nullable: true})
	field.Args.Add(&graphql.Argument{Name: "after", Type: &graphql.Scalar{Type: "String"}, Nullable: true})
	field.Args.Add(&graphql.Argument{Name: "last", Type: &graphql.Scalar{Type: "Int"}, Nullable: true})
	field.Args.Add(&graphql.Argument{Name: "before", Type: &graphql.Scalar{Type: "String"}, Nullable: true})

	pageInfoType := sharedPageInfoType()

	nodeType := elemType
	if nn, ok := nodeType.(*graphql.NonNull); ok {
		nodeType = nn.Type
	}
	if list, ok := nodeType.(*graphql.List); ok {
		nodeType = list.Type
	}

	edgeType := &graphql.Object{Name: baseTypeName(elemType) + "Edge"}
	edgeType.AddField("node", &graphql.Field{Type: nodeType, FieldBuilder: passthroughField("node")})
	edgeType.AddField("cursor", &graphql.Field{Type: &graphql.NonNull{Type: &graphql.Scalar{Type: "String"}}, FieldBuilder: passthroughField("cursor")})

	connType := &graphql.Object{Name: baseTypeName(elemType) + "Connection"}
	connType.AddField("edges", &graphql.Field{Type: &graphql.NonNull{Type: &graphql.List{Type: &graphql.NonNull{Type: edgeType}}}, FieldBuilder: passthroughField("edges")})
	connType.AddField("pageInfo", &graphql.Field{Type: &graphql.NonNull{Type: pageInfoType}, FieldBuilder: passthroughField("pageInfo")})
	connType.AddField("totalCount", &graphql.Field{Type: &graphql.NonNull{Type: &graphql.Scalar{Type: "Int"}}, FieldBuilder: passthroughField("totalCount")})

	field.Type = &graphql.NonNull{Type: connType}

	original := field.FieldBuilder
	defaultSize, maxSize := c.DefaultPageSize, c.MaxPageSize
	if defaultSize == 0 {
		defaultSize = 20
	}
	field.FieldBuilder = func(parent, args expr.Expr) (expr.Expr, error) {
		inner, err := original(parent, args)
		if err != nil {
			return nil, err
		}
		return &expr.FuncCall{
			Parent: inner,
			Args:   args,
			Name:   "connection",
			Call: func(ctx context.Context, parentVal, argsVal interface{}) (interface{}, error) {
				items, err := toSlice(parentVal)
				if err != nil {
					return nil, err
				}
				return buildConnection(items, argsMap(argsVal), defaultSize, maxSize)
			},
		}, nil
	}
	return nil
}

func buildConnection(items []interface{}, args map[string]interface{}, defaultSize, maxSize int) (interface{}, error) {
	total := len(items)

	afterStr, hasAfter := args["after"].(string)
	hasAfter = hasAfter && afterStr != ""
	beforeStr, hasBefore := args["before"].(string)
	hasBefore = hasBefore && beforeStr != ""
	if hasAfter && hasBefore {
		return nil, jerrors.New(jerrors.KindInvalidArg, nil, "before and after are mutually exclusive")
	}

	afterOffset := -1
	if hasAfter {
		n, err := DecodeCursor(afterStr)
		if err != nil {
			return nil, jerrors.New(jerrors.KindInvalidCursor, nil, "invalid cursor %q", afterStr)
		}
		afterOffset = n
	}
	beforeOffset := total
	if hasBefore {
		n, err := DecodeCursor(beforeStr)
		if err != nil {
			return nil, jerrors.New(jerrors.KindInvalidCursor, nil, "invalid cursor %q", beforeStr)
		}
		beforeOffset = n
	}

	skip, take := 0, 0
	switch {
	case args["first"] != nil:
		first := toIntDefault(args["first"], defaultSize)
		if maxSize > 0 && first > maxSize {
			return nil, jerrors.New(jerrors.KindInvalidArg, nil, "first %d exceeds maximum page size %d", first, maxSize)
		}
		skip = afterOffset + 1
		take = first
		if avail := beforeOffset - skip; avail < take {
			take = avail
		}
	case args["last"] != nil:
		last := toIntDefault(args["last"], defaultSize)
		if maxSize > 0 && last > maxSize {
			return nil, jerrors.New(jerrors.KindInvalidArg, nil, "last %d exceeds maximum page size %d", last, maxSize)
		}
		avail := beforeOffset - afterOffset - 1
		take = last
		if avail < take {
			take = avail
		}
		skip = beforeOffset - take
	default:
		skip = afterOffset + 1
		take = defaultSize
		if avail := beforeOffset - skip; avail < take {
			take = avail
		}
	}
	if skip < 0 {
		skip = 0
	}
	if skip > total {
		skip = total
	}
	if take < 0 {
		take = 0
	}
	end := skip + take
	if end > total {
		end = total
	}
	if end < skip {
		end = skip
	}

	page := items[skip:end]
	edges := make([]interface{}, len(page))
	for i, el := range page {
		edges[i] = map[string]interface{}{
			"node":   el,
			"cursor": EncodeCursor(skip + i),
		}
	}

	var startCursor, endCursor interface{}
	if len(page) > 0 {
		startCursor = EncodeCursor(skip)
		endCursor = EncodeCursor(skip + len(page) - 1)
	}

	pageInfo := map[string]interface{}{
		"hasNextPage":     end < total,
		"hasPreviousPage": skip > 0,
		"startCursor":     startCursor,
		"endCursor":       endCursor,
	}

	return map[string]interface{}{
		"edges":      edges,
		"pageInfo":   pageInfo,
		"totalCount": total,
	}, nil
}

var pageInfoSingleton *graphql.Object

func sharedPageInfoType() *graphql.Object {
	if pageInfoSingleton != nil {
		return pageInfoSingleton
	}
	t := &graphql.Object{Name: "PageInfo"}
	t.AddField("hasNextPage", &graphql.Field{Type: &graphql.NonNull{Type: &graphql.Scalar{Type: "Boolean"}}, FieldBuilder: passthroughField("hasNextPage")})
	t.AddField("hasPreviousPage", &graphql.Field{Type: &graphql.NonNull{Type: &graphql.Scalar{Type: "Boolean"}}, FieldBuilder: passthroughField("hasPreviousPage")})
	t.AddField("startCursor", &graphql.Field{Type: &graphql.Scalar{Type: "String"}, FieldBuilder: passthroughField("startCursor")})
	t.AddField("endCursor", &graphql.Field{Type: &graphql.Scalar{Type: "String"}, FieldBuilder: passthroughField("endCursor")})
	pageInfoSingleton = t
	return t
}

// Authorization gates the field on the request Principal satisfying every
// listed role, evaluating the inner projection and then discarding it in
// favor of an Unauthorized error if the check fails. The error surfaces
// only the rule kind, never which role/claim was missing.
type Authorization struct {
	Roles []string
}

func (*Authorization) Name() string { return "authorization" }

func (a *Authorization) Configure(schema *graphql.Object, field *graphql.Field) error {
	field.RequiredAuth = append(field.RequiredAuth, a.Roles...)
	original := field.FieldBuilder
	field.FieldBuilder = func(parent, args expr.Expr) (expr.Expr, error) {
		inner, err := original(parent, args)
		if err != nil {
			return nil, err
		}
		return &expr.FuncCall{
			Parent: inner,
			Args:   args,
			Name:   "authorization",
			Call: func(ctx context.Context, parentVal, _ interface{}) (interface{}, error) {
				p := principal.FromContext(ctx)
				for _, role := range a.Roles {
					if !p.HasRole(role) {
						return nil, jerrors.New(jerrors.KindUnauthorized, nil, "not authorized")
					}
				}
				return parentVal, nil
			},
		}, nil
	}
	return nil
}
