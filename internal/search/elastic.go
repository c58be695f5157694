package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
)

type Elastic struct {
	ES        *elasticsearch.Client
	IndexName string
}

func (s *Elastic) Search(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.IndexName),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		id, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return r.Hits.Total.Value, ids, nil
}

func (s *Elastic) Index(ctx context.Context, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index: encode: %w", err)
	}
	res, err := s.ES.Index(
		s.IndexName,
		bytes.NewReader(data),
		s.ES.Index.WithDocumentID(strconv.FormatUint(uint64(doc.ID), 10)),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.Status(), res.Body)
	}
	return nil
}

func (s *Elastic) Delete(ctx context.Context, id uint) error {
	res, err := s.ES.Delete(
		s.IndexName,
		strconv.FormatUint(uint64(id), 10),
		s.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return responseError("delete", res.Status(), res.Body)
	}
	return nil
}

func responseError(op, status string, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 1024))
	return fmt.Errorf("%s: elasticsearch %s: %s", op, status, bytes.TrimSpace(msg))
}
