package hostdata_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.appointy.com/projgql/example/hostdata"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h, err := hostdata.GetGraphqlServer(context.Background())
	require.NoError(t, err)
	return httptest.NewServer(h)
}

func postQuery(t *testing.T, url, query string, roles string) map[string]interface{} {
	t.Helper()
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if roles != "" {
		req.Header.Set("X-Roles", roles)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestPeopleQuery(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	result := postQuery(t, server.URL, `{ people { edges { node { id name } } totalCount } }`, "")
	require.Nil(t, result["errors"], "unexpected errors: %v", result["errors"])

	data := result["data"].(map[string]interface{})
	people := data["people"].(map[string]interface{})
	require.EqualValues(t, 3, people["totalCount"])
	edges := people["edges"].([]interface{})
	require.Len(t, edges, 3)
}

func TestProjectsWithFilterAndTasksPaging(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	query := `{
		projects(filter: "name == \"Analytical Engine\"") {
			name
			tasks(take: 2) {
				items { title status }
				totalItems
				hasNextPage
			}
		}
	}`
	result := postQuery(t, server.URL, query, "")
	require.Nil(t, result["errors"], "unexpected errors: %v", result["errors"])

	data := result["data"].(map[string]interface{})
	projects := data["projects"].([]interface{})
	require.Len(t, projects, 1)

	project := projects[0].(map[string]interface{})
	require.Equal(t, "Analytical Engine", project["name"])
	tasks := project["tasks"].(map[string]interface{})
	require.EqualValues(t, 3, tasks["totalItems"])
	require.True(t, tasks["hasNextPage"].(bool))
	require.Len(t, tasks["items"].([]interface{}), 2)
}

func TestPersonEmailRequiresAdminRole(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	query := `{ people { edges { node { email } } } }`

	denied := postQuery(t, server.URL, query, "member")
	require.NotEmpty(t, denied["errors"], "expected an authorization error without the admin role")

	allowed := postQuery(t, server.URL, query, "admin")
	require.Nil(t, allowed["errors"], "unexpected errors: %v", allowed["errors"])
}

func TestCreatePersonMutation(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	mutation := `mutation {
		createPerson(input: { name: "Margaret Hamilton", email: "margaret@example.com", role: MEMBER }) {
			id
			name
		}
	}`
	result := postQuery(t, server.URL, mutation, "")
	require.Nil(t, result["errors"], "unexpected errors: %v", result["errors"])

	data := result["data"].(map[string]interface{})
	created := data["createPerson"].(map[string]interface{})
	require.Equal(t, "Margaret Hamilton", created["name"])
	require.NotEmpty(t, created["id"])
}

func TestContactPersonOneOfInput(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	people := postQuery(t, server.URL, `{ people { edges { node { id } } } }`, "")
	require.Nil(t, people["errors"])
	edges := people["data"].(map[string]interface{})["people"].(map[string]interface{})["edges"].([]interface{})
	require.NotEmpty(t, edges)
	id := edges[0].(map[string]interface{})["node"].(map[string]interface{})["id"].(string)

	mutation := `mutation($id: ID!) {
		contactPerson(id: $id, method: { email: "new@example.com" }) {
			id
		}
	}`
	body, err := json.Marshal(map[string]interface{}{
		"query":     mutation,
		"variables": map[string]interface{}{"id": id},
	})
	require.NoError(t, err)
	resp, err := http.Post(server.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Nil(t, result["errors"], "unexpected errors: %v", result["errors"])
}
