package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	return New("rapid-key", func(o *Options) {
		o.Host = server.Listener.Addr().String()
		o.HTTPClient = server.Client()
	})
}

func TestClient_Configured(t *testing.T) {
	assert.False(t, New("").Configured())
	assert.True(t, New("key").Configured())
}

func TestClient_CompanyByDomain_IDLocations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"top level companyId", `{"companyId": 12345}`, "12345"},
		{"top level id", `{"id": "67890"}`, "67890"},
		{"nested data", `{"data": {"companyId": 111}}`, "111"},
		{"nested company", `{"company": {"id": 222}}`, "222"},
		{"no id anywhere", `{"something": "else"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/get-company-by-domain", r.URL.Path)
				assert.Equal(t, "acmecap.com", r.URL.Query().Get("domain"))
				assert.Equal(t, "rapid-key", r.Header.Get("x-rapidapi-key"))
				w.Write([]byte(tt.body))
			})

			id, err := c.CompanyByDomain(context.Background(), "acmecap.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestClient_CompanyByDomain_EmptyDomain(t *testing.T) {
	id, err := New("key").CompanyByDomain(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestClient_EmployeesByCompany(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get-company-employees", r.URL.Path)
		assert.Equal(t, "12345", r.URL.Query().Get("companyId"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"employees": [
			{"fullName": "Jane Roe", "title": "Managing Partner", "profileUrl": "https://linkedin.com/in/janeroe"},
			{"name": "John Smith", "position": "Director", "url": "https://linkedin.com/in/johnsmith"},
			{"fullName": "No Title"}
		]}`))
	})

	employees, err := c.EmployeesByCompany(context.Background(), "12345", 2)

	require.NoError(t, err)
	require.Len(t, employees, 2, "entries without a title are dropped")
	assert.Equal(t, "Jane Roe", employees[0].Name)
	assert.Equal(t, "Managing Partner", employees[0].Title)
	assert.Equal(t, "John Smith", employees[1].Name, "alternate field names accepted")
	assert.Equal(t, "Director", employees[1].Title)
	assert.Equal(t, "https://linkedin.com/in/johnsmith", employees[1].ProfileURL)
}

func TestClient_EmployeesByCompany_DataShape(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"fullName": "Jane Roe", "title": "Partner"}]}`))
	})

	employees, err := c.EmployeesByCompany(context.Background(), "12345", 1)
	require.NoError(t, err)
	require.Len(t, employees, 1)
}

func TestClient_EmployeesByCompany_HTTPError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.EmployeesByCompany(context.Background(), "12345", 1)
	assert.ErrorContains(t, err, "403")
}
