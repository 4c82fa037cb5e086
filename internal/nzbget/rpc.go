package nzbget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Hidendra/nzbget-capped-download-queue/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// --- JSON-RPC wire types ---

type rpcReq struct {
	Jsonrpc string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	ID      string        `json:"id"`
	Params  []interface{} `json:"params,omitempty"`
}

type rpcResp struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	timer := prometheus.NewTimer(metrics.RPCLatency.WithLabelValues(method))
	defer timer.ObserveDuration()
	body, _ := json.Marshal(rpcReq{Jsonrpc: "2.0", Method: method, ID: "capq", Params: params})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RPCErrors.WithLabelValues(method).Inc()
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		metrics.RPCErrors.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("nzbget http %d: %s", resp.StatusCode, string(b))
	}
	b, _ := io.ReadAll(resp.Body)

	var rr rpcResp
	if err := json.Unmarshal(b, &rr); err != nil {
		metrics.RPCErrors.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("nzbget rpc decode: %w (%s)", err, string(b))
	}
	if rr.Error != nil {
		metrics.RPCErrors.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("nzbget rpc error %d: %s", rr.Error.Code, rr.Error.Message)
	}
	return rr.Result, nil
}
