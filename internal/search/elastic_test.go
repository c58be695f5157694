package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type seenRequest struct {
	Method string
	Path   string
	Body   []byte
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Elastic, *[]seenRequest) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []seenRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, seenRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &Elastic{ES: client, IndexName: "products"}, &seen
}

func TestElasticSearch(t *testing.T) {
	t.Parallel()

	s, seen := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":3},"hits":[{"_id":"7"},{"_id":"bogus"},{"_id":"2"}]}}`)
	})

	total, ids, err := s.Search(context.Background(), "phone", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []uint{7, 2}, ids)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "/products/_search", req.Path)

	var q map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &q))
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "phone", mm["query"])
	assert.EqualValues(t, 10, q["size"])
}

func TestElasticSearchError(t *testing.T) {
	t.Parallel()

	s, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad query"}`)
	})

	_, _, err := s.Search(context.Background(), "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad query")
}

func TestElasticIndexAndDelete(t *testing.T) {
	t.Parallel()

	s, seen := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	p := models.Product{ID: 5, CategoryID: 1, Name: "Lamp", Description: "warm", Price: decimal.RequireFromString("19.9")}
	require.NoError(t, s.Index(context.Background(), DocumentFrom(p)))
	require.NoError(t, s.Delete(context.Background(), 5), "missing documents are fine")

	require.Len(t, *seen, 2)
	assert.Equal(t, "/products/_doc/5", (*seen)[0].Path)

	var doc Document
	require.NoError(t, json.Unmarshal((*seen)[0].Body, &doc))
	assert.Equal(t, "19.90", doc.Price)
	assert.Equal(t, http.MethodDelete, (*seen)[1].Method)
}
