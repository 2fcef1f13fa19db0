package medisendtest

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turfaa/halodoc-medisend-api/domain"
)

func get(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	tree, err := domain.DecodeTree(resp.Body)
	require.NoError(t, err)
	return resp, tree
}

func TestServer_ListProductsPaging(t *testing.T) {
	srv := NewServer(Catalog(7)...)
	defer srv.Close()

	resp, tree := get(t, srv.URL()+"/products?page_no=2&per_page=3")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	page, err := domain.ProductPageFromMap(tree)
	require.NoError(t, err)
	assert.True(t, page.NextPage)
	assert.Equal(t, int64(7), page.TotalCount)
	require.Len(t, page.Result, 3)
	assert.Equal(t, int64(4), page.Result[0].ID)
}

func TestServer_ListProductsPastTheEnd(t *testing.T) {
	srv := NewServer(Catalog(2)...)
	defer srv.Close()

	_, tree := get(t, srv.URL()+"/products?page_no=5&per_page=10")
	page, err := domain.ProductPageFromMap(tree)
	require.NoError(t, err)
	assert.False(t, page.NextPage)
	assert.Empty(t, page.Result)
	assert.NotNil(t, page.Result)
}

func TestServer_RequireCookies(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	srv.RequireCookies(domain.Cookies{UserID: "u", SessionID: "s"})

	resp, tree := get(t, srv.URL()+"/products")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", tree["code"])

	req, err := http.NewRequest(http.MethodGet, srv.URL()+"/products", nil)
	require.NoError(t, err)
	for _, c := range (domain.Cookies{UserID: "u", SessionID: "s"}).HTTPCookies() {
		req.AddCookie(c)
	}
	ok, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)
}

func TestServer_FailPageOnlyAffectsThatPage(t *testing.T) {
	srv := NewServer(Catalog(4)...)
	defer srv.Close()
	srv.FailPage(2, Failure{Status: http.StatusBadGateway, Code: "BAD_GATEWAY", Message: "upstream"})

	resp, _ := get(t, srv.URL()+"/products?page_no=1&per_page=2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, tree := get(t, srv.URL()+"/products?page_no=2&per_page=2")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "BAD_GATEWAY", tree["code"])

	srv.ClearFailures()
	resp, _ = get(t, srv.URL()+"/products?page_no=2&per_page=2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_UpdateRejectsIDMismatch(t *testing.T) {
	srv := NewServer(Catalog(2)...)
	defer srv.Close()

	body, err := Product(1, "One", true, 1).MarshalJSON()
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, srv.URL()+"/products/2", strings.NewReader(string(body)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, Catalog(2), srv.Products())
}

func TestServer_UpdateRejectsIncompleteProduct(t *testing.T) {
	srv := NewServer(Catalog(1)...)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL()+"/products/1", strings.NewReader(`{"id": 1}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	tree, err := domain.DecodeTree(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", tree["code"])
}

func TestServer_RecordsRequests(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL()+"/products?page_no=1&per_page=5&name=x", nil)
	require.NoError(t, err)
	req.Header.Set("X-Correlation-ID", "corr-1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/products", reqs[0].Path)
	assert.Equal(t, "x", reqs[0].Query.Get("name"))
	assert.Equal(t, "corr-1", reqs[0].CorrelationID)
	assert.Equal(t, "corr-1", resp.Header.Get("X-Correlation-ID"))
}
