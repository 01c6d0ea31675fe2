package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/thunderbolt-trucking/dispatch-api/internal/errors"
)

// parseIDParam reads a numeric path parameter, answering 400 when it is malformed.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// parseOptionalUintQuery returns nil when the query key is absent.
func parseOptionalUintQuery(c *gin.Context, name string) (*uint64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// internalError records err for the request logger and sends a generic 500.
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	apierrors.InternalError(c, "")
}
