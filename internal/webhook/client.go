package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"

	"github.com/wkyin9211-crypto/mediarelay/internal/config"
)

// Client is the real HTTP path of the gateway. Operations without a
// well-formed http(s) endpoint are delegated to the fallback gateway.
type Client struct {
	cfg      *config.Config
	client   *http.Client
	fallback Gateway
}

// NewClient builds a gateway over the configured endpoint map. fallback
// may be nil, in which case unmapped operations fail outright.
func NewClient(cfg *config.Config, fallback Gateway) *Client {
	return &Client{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Webhooks.Timeout},
		fallback: fallback,
	}
}

// Invoke posts the request to the operation's endpoint. Non-2xx statuses
// map to a failure envelope carrying "HTTP <status>"; the response body
// is decoded best-effort either way.
func (c *Client) Invoke(ctx context.Context, op Operation, req Request) Envelope {
	url, ok := c.cfg.EndpointFor(string(op))
	if !ok {
		if c.fallback != nil {
			return c.fallback.Invoke(ctx, op, req)
		}
		return Failure("no endpoint configured for " + string(op))
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return Failure("encode request: " + err.Error())
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return Failure("build request: " + err.Error())
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Failure(err.Error())
	}
	defer resp.Body.Close()

	var decoded any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Envelope{Success: false, Error: fmt.Sprintf("HTTP %d", resp.StatusCode), Data: decoded}
	}
	return Envelope{Success: true, Data: decoded}
}

func encodeBody(req Request) (*bytes.Buffer, string, error) {
	if req.Form == nil {
		payload, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewBuffer(payload), "application/json", nil
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	keys := make([]string, 0, len(req.Form.Fields))
	for k := range req.Form.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, req.Form.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range req.Form.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		if f.ContentType != "" {
			h.Set("Content-Type", f.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
