package main

import (
	"context"
	"log"
	"net/http"

	"go.appointy.com/projgql/example/hostdata"
)

func main() {
	handler, err := hostdata.GetGraphqlServer(context.Background())
	if err != nil {
		log.Fatalln(err)
	}

	// The GraphQL endpoint (and built-in GraphiQL playground) is mounted at /graphql.
	// Visiting http://localhost:9000/graphql in a browser automatically shows the
	// interactive playground (no extra handlers or config needed). POST requests
	// to the same URL execute queries/mutations.
	http.Handle("/graphql", handler)

	log.Println("Running on :9000")
	log.Println("GraphQL playground + endpoint: http://localhost:9000/graphql")
	if err := http.ListenAndServe(":9000", nil); err != nil {
		panic(err)
	}
}
