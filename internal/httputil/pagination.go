package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// Page holds validated offset/limit query parameters.
type Page struct {
	Offset int
	Limit  int
}

// ParsePagination parses the offset and limit query parameters. Offset defaults to 0,
// limit defaults to 50 and cannot exceed 100.
func ParsePagination(c *gin.Context) (Page, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return Page{}, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		return Page{}, fmt.Errorf("invalid limit parameter: must be between 1 and %d", maxLimit)
	}

	return Page{Offset: offset, Limit: limit}, nil
}
