package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gross-labs/supportbot/internal/chat"
)

const apiVersion = "2025-04"

// Client searches a Pinecone index with integrated embedding: the query
// text is sent as-is and the service embeds and ranks it server-side.
type Client struct {
	apiKey    string
	indexHost string
	namespace string
	topK      int
	client    *http.Client
}

func NewClient(apiKey, indexHost, namespace string, topK int) *Client {
	if !strings.HasPrefix(indexHost, "http://") && !strings.HasPrefix(indexHost, "https://") {
		indexHost = "https://" + indexHost
	}
	return &Client{
		apiKey:    apiKey,
		indexHost: strings.TrimSuffix(indexHost, "/"),
		namespace: namespace,
		topK:      topK,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type searchRequest struct {
	Query searchQuery `json:"query"`
}

type searchQuery struct {
	TopK   int          `json:"top_k"`
	Inputs searchInputs `json:"inputs"`
}

type searchInputs struct {
	Text string `json:"text"`
}

type searchResponse struct {
	Result struct {
		Hits []searchHit `json:"hits"`
	} `json:"result"`
}

type searchHit struct {
	ID     string         `json:"_id"`
	Score  float64        `json:"_score"`
	Fields map[string]any `json:"fields"`
}

// Search queries the configured namespace and returns up to topK hits. A
// hit without an id or a chunk_text field is a malformed payload and fails
// the whole call.
func (c *Client) Search(ctx context.Context, query string) ([]chat.Hit, error) {
	reqBody := searchRequest{
		Query: searchQuery{
			TopK:   c.topK,
			Inputs: searchInputs{Text: query},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/records/namespaces/%s/search", c.indexHost, c.namespace)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("X-Pinecone-API-Version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp searchResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	hits := make([]chat.Hit, 0, len(apiResp.Result.Hits))
	for i, h := range apiResp.Result.Hits {
		if h.ID == "" {
			return nil, fmt.Errorf("malformed hit %d: missing _id", i)
		}
		text, ok := h.Fields["chunk_text"].(string)
		if !ok || text == "" {
			return nil, fmt.Errorf("malformed hit %d (%s): missing chunk_text", i, h.ID)
		}
		hits = append(hits, chat.Hit{ID: h.ID, Text: text})
	}
	return hits, nil
}
