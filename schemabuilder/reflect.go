package schemabuilder

import (
	"context"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"

	"go.appointy.com/projgql/graphql"
)

// graphQLFieldInfo contains basic struct field information related to GraphQL.
type graphQLFieldInfo struct {
	// Skipped indicates that this field should not be included in GraphQL.
	Skipped bool

	// Name is the GraphQL field name that should be exposed for this field.
	Name string

	// KeyField indicates that this field should be treated as a Object Key field.
	KeyField bool

	// OptionalInputField indicates that this field should be treated as an optional
	// field on graphQL input args.
	OptionalInputField bool

	// DeprecationReason, if set, marks the field deprecated with this reason,
	// parsed from a tag option such as `graphql:"age,deprecated=Use birthdate"`.
	DeprecationReason string

	// Description is parsed from a tag option such as
	// `graphql:"name,description=..."` and surfaces in introspection.
	Description string
}

// parseGraphQLFieldInfo parses a struct field and returns a struct with the
// parsed information about the field (tag info, name, etc). Tag options are
// read from a graphql tag, falling back to a json tag.
func parseGraphQLFieldInfo(field reflect.StructField) (*graphQLFieldInfo, error) {
	if field.PkgPath != "" { //If the field of struct is not exported, then it is not exposed
		return &graphQLFieldInfo{Skipped: true}, nil
	}

	// Primary tag from json (existing pattern); fallback/graphql tag for options like deprecated.
	tag := field.Tag.Get("graphql")
	if tag == "" {
		tag = field.Tag.Get("json")
	}
	tags := strings.Split(tag, ",")
	var name string
	if len(tags) > 0 {
		name = strings.TrimSpace(tags[0])
	}
	if name == "-" {
		return &graphQLFieldInfo{Skipped: true}, nil
	}

	if name == "" {
		name = makeGraphql(field.Name)
	}

	var key bool
	var optional bool
	var depReason string
	var description string
	for _, opt := range tags[1:] {
		opt = strings.TrimSpace(opt)
		if strings.HasPrefix(opt, "deprecated=") {
			depReason = strings.TrimPrefix(opt, "deprecated=")
		} else if strings.HasPrefix(opt, "description=") {
			description = strings.TrimPrefix(opt, "description=")
		} else if opt == "optional" {
			optional = true
		}
	}

	return &graphQLFieldInfo{Name: name, KeyField: key, OptionalInputField: optional, DeprecationReason: depReason, Description: description}, nil
}

// makeGraphql converts a field name "MyField" into a graphQL field name
// "myField": lowerCamelCase, not just a lowercased first rune, so
// "HTTPStatus" becomes "httpStatus" rather than "hTTPStatus".
func makeGraphql(s string) string {
	return strcase.ToLowerCamel(s)
}

// Common Types that we will need to perform type assertions against.
var errType = reflect.TypeOf((*error)(nil)).Elem()
var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
var selectionSetType = reflect.TypeOf(&graphql.SelectionSet{})
