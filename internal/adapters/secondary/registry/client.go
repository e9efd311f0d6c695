package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"wine-tier-service/internal/config"
	"wine-tier-service/internal/core/domain"
	output "wine-tier-service/internal/core/ports/output"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	rest        *resty.Client
	upstreamURL string
	path        string
}

// NewArtifactSource downloads the artifact bundle from a model registry upstream.
func NewArtifactSource(cfg *config.RegistryConfig, path string) output.ArtifactSource {
	r := resty.New()
	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	} else {
		r.SetTimeout(defaultTimeout)
	}
	return &Client{
		rest:        r,
		upstreamURL: strings.TrimRight(cfg.URL, "/"),
		path:        "/" + strings.TrimLeft(path, "/"),
	}
}

// Open requests the bundle from the upstream and returns the unparsed body.
func (c *Client) Open(ctx context.Context) (io.ReadCloser, error) {
	url := c.Location()
	log.WithField("url", url).Debug("fetching artifact from registry")

	start := time.Now()
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	body := resp.RawBody()
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		body.Close()
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, url)
	case resp.StatusCode() != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(body, 512))
		body.Close()
		return nil, fmt.Errorf("upstream returned %d: %s", resp.StatusCode(), strings.TrimSpace(string(msg)))
	}

	log.WithFields(log.Fields{
		"url":        url,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("registry responded")

	return body, nil
}

func (c *Client) Location() string {
	return c.upstreamURL + c.path
}
