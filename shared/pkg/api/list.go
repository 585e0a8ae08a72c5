package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxLimit caps the number of records a list endpoint returns
const MaxLimit = 500

// ListRequest holds the common list query parameters
type ListRequest struct {
	Limit  int    `form:"limit" json:"limit"`
	Search string `form:"search" json:"search,omitempty"`
	Status string `form:"status" json:"status,omitempty"`
	Kind   string `form:"kind" json:"kind,omitempty"`
}

// ParseListRequest parses list parameters from Gin context. A limit of
// zero means no limit unless defaultLimit is set.
func ParseListRequest(c *gin.Context, defaultLimit int) ListRequest {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return ListRequest{
		Limit:  limit,
		Search: strings.TrimSpace(c.Query("search")),
		Status: strings.ToLower(c.Query("status")),
		Kind:   strings.ToLower(c.Query("kind")),
	}
}

// ListResponse represents a list response
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// NewListResponse creates a list response, never serializing a null array
func NewListResponse[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Data: data, Count: len(data)}
}
