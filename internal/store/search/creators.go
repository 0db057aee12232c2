// Package search serves the published-creator pool from Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"creator-match-workers/internal/models"
	"creator-match-workers/internal/store"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type Config struct {
	Index     string
	PageSize  int
	KeepAlive time.Duration
}

// CreatorDirectory pages through every published creator with the scroll API.
type CreatorDirectory struct {
	client esapi.Transport
	config Config
}

func NewCreatorDirectory(client esapi.Transport, cfg Config) *CreatorDirectory {
	if cfg.Index == "" {
		cfg.Index = "creators"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = time.Minute
	}
	return &CreatorDirectory{client: client, config: cfg}
}

type searchResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

type hit struct {
	ID     string          `json:"_id"`
	Found  *bool           `json:"found,omitempty"`
	Source json.RawMessage `json:"_source"`
}

func publishedQuery() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"publishInfo.isPublished": true},
					},
				},
			},
		},
	}
}

// ListPublishedCreators returns the whole published pool in index order.
func (d *CreatorDirectory) ListPublishedCreators(ctx context.Context) ([]models.CreatorProfile, error) {
	body, err := json.Marshal(publishedQuery())
	if err != nil {
		return nil, fmt.Errorf("encode creator query: %w", err)
	}

	size := d.config.PageSize
	req := esapi.SearchRequest{
		Index:  []string{d.config.Index},
		Body:   bytes.NewReader(body),
		Size:   &size,
		Scroll: d.config.KeepAlive,
		Sort:   []string{"_doc"},
	}

	page, err := d.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var creators []models.CreatorProfile
	scrollID := page.ScrollID
	defer func() { d.clearScroll(scrollID) }()

	for len(page.Hits.Hits) > 0 {
		for _, h := range page.Hits.Hits {
			creators = append(creators, decodeCreator(h))
		}

		if scrollID == "" || len(page.Hits.Hits) < size {
			break
		}
		page, err = d.do(ctx, esapi.ScrollRequest{
			ScrollID: scrollID,
			Scroll:   d.config.KeepAlive,
		})
		if err != nil {
			return nil, err
		}
		if page.ScrollID != "" {
			scrollID = page.ScrollID
		}
	}

	return creators, nil
}

// GetCreator returns one creator, or store.ErrNotFound when it does not exist
// or is not published.
func (d *CreatorDirectory) GetCreator(ctx context.Context, creatorID string) (*models.CreatorProfile, error) {
	res, err := esapi.GetRequest{Index: d.config.Index, DocumentID: creatorID}.Do(ctx, d.client)
	if err != nil {
		return nil, fmt.Errorf("get creator %s: %w", creatorID, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, store.ErrNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("get creator %s: %s", creatorID, res.String())
	}

	var h hit
	if err := json.NewDecoder(res.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode creator %s: %w", creatorID, err)
	}
	if h.Found != nil && !*h.Found {
		return nil, store.ErrNotFound
	}

	c := decodeCreator(h)
	if !c.PublishInfo.IsPublished {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

type request interface {
	Do(ctx context.Context, transport esapi.Transport) (*esapi.Response, error)
}

func (d *CreatorDirectory) do(ctx context.Context, req request) (*searchResponse, error) {
	res, err := req.Do(ctx, d.client)
	if err != nil {
		return nil, fmt.Errorf("creator search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("creator search failed: %s", res.String())
	}

	var page searchResponse
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode creator search: %w", err)
	}
	return &page, nil
}

// clearScroll releases the server-side cursor; failures only cost keepalive.
func (d *CreatorDirectory) clearScroll(scrollID string) {
	if scrollID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := esapi.ClearScrollRequest{ScrollID: []string{scrollID}}.Do(ctx, d.client)
	if err != nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()
}

// decodeCreator keeps whatever fields decode cleanly. A field of the wrong
// type is left absent so the creator only loses points on that axis.
func decodeCreator(h hit) models.CreatorProfile {
	var c models.CreatorProfile
	if len(h.Source) > 0 {
		_ = json.Unmarshal(h.Source, &c)
	}
	if c.ID == "" {
		c.ID = h.ID
	}
	c.Normalize()
	return c
}
