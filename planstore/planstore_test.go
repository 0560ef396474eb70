package planstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.appointy.com/projgql/graphql"
	"go.appointy.com/projgql/planstore"
)

func TestMemoryPlanStoreHitAndMiss(t *testing.T) {
	store := planstore.NewMemoryPlanStore()
	schema := &graphql.Schema{Version: 1}
	entry := &planstore.Entry{Query: &graphql.Query{Kind: "query"}}

	_, ok := store.Get("{ hello }", "", schema)
	require.False(t, ok)

	store.Put("{ hello }", "", schema, entry)

	got, ok := store.Get("{ hello }", "", schema)
	require.True(t, ok)
	require.Same(t, entry, got)
	require.Equal(t, 1, store.Len())
}

func TestMemoryPlanStoreDistinguishesOperationName(t *testing.T) {
	store := planstore.NewMemoryPlanStore()
	schema := &graphql.Schema{Version: 1}

	store.Put("query A { a } query B { b }", "A", schema, &planstore.Entry{})

	_, ok := store.Get("query A { a } query B { b }", "B", schema)
	require.False(t, ok)
}

func TestMemoryPlanStoreInvalidatesOnSchemaVersionBump(t *testing.T) {
	store := planstore.NewMemoryPlanStore()
	v1 := &graphql.Schema{Version: 1}
	v2 := &graphql.Schema{Version: 2}

	store.Put("{ hello }", "", v1, &planstore.Entry{})

	_, ok := store.Get("{ hello }", "", v2)
	require.False(t, ok, "an entry bound to an older schema version must not be served for a newer one")
}

func TestMemoryPlanStoreEvictVersion(t *testing.T) {
	store := planstore.NewMemoryPlanStore()
	v1 := &graphql.Schema{Version: 1}

	store.Put("{ hello }", "", v1, &planstore.Entry{})
	require.Equal(t, 1, store.Len())

	store.EvictVersion(1)
	require.Equal(t, 0, store.Len())
}
