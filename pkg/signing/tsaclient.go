package signing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/docforge/docforge/pkg/util/resiliency"
)

// TSAClient requests RFC 3161 timestamps from a configured TSA endpoint,
// reusing the platform's retrying/circuit-breaking HTTP client.
type TSAClient struct {
	endpoint string
	http     *resiliency.EnhancedClient
}

func NewTSAClient(endpoint string) *TSAClient {
	return &TSAClient{endpoint: endpoint, http: resiliency.NewEnhancedClient("tsa")}
}

// Timestamp requests and returns a TimeStampToken for signature.
func (c *TSAClient) Timestamp(ctx context.Context, signature []byte) ([]byte, error) {
	reqBody, err := BuildTimestampRequest(signature)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("signing: build TSA request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/timestamp-query")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("signing: TSA request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("signing: TSA responded with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("signing: read TSA response: %w", err)
	}

	return ParseTimestampResponse(body)
}
