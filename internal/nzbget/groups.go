package nzbget

import (
	"context"
	"encoding/json"
	"fmt"
)

// Group is a partial view of an entry returned by listgroups. Sizes are
// reported by NZBGet in megabytes.
type Group struct {
	NZBID           int    `json:"NZBID"`
	NZBName         string `json:"NZBName"`
	Status          string `json:"Status"`
	FileSizeMB      int64  `json:"FileSizeMB"`
	RemainingSizeMB int64  `json:"RemainingSizeMB"`
	MaxPriority     int    `json:"MaxPriority"`
}

// ListGroups returns every NZB currently in the host's queue, in queue order.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	// First param is the number of log entries to include per group.
	res, err := c.call(ctx, "listgroups", []interface{}{0})
	if err != nil {
		return nil, err
	}
	var groups []Group
	if err := json.Unmarshal(res, &groups); err != nil {
		return nil, fmt.Errorf("parse listgroups result: %w", err)
	}
	return groups, nil
}

// EditQueue applies a queue command (e.g. "GroupPause", "GroupResume") to a
// batch of NZB IDs. NZBGet reports per-batch success as a boolean result.
func (c *Client) EditQueue(ctx context.Context, command string, ids []int) (bool, error) {
	res, err := c.call(ctx, "editqueue", []interface{}{command, "", ids})
	if err != nil {
		return false, err
	}
	var ok bool
	if err := json.Unmarshal(res, &ok); err != nil {
		return false, fmt.Errorf("parse editqueue result: %w", err)
	}
	return ok, nil
}

// Version performs a lightweight RPC to check host liveness/readiness.
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.call(ctx, "version", nil)
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(res, &v); err != nil {
		return "", fmt.Errorf("parse version result: %w", err)
	}
	return v, nil
}
