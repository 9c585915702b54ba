package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lotledger/backend/internal/domain/shared"
	"github.com/lotledger/backend/internal/interfaces/http/dto"
)

// parseIDParam reads and validates the :id path parameter
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// getActorID reads the optional X-Actor-ID header identifying who performed
// the operation. A malformed value is an error, a missing one is not.
func getActorID(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader("X-Actor-ID")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// toFilter converts list query parameters into a repository filter
func toFilter(req dto.ListRequest) shared.Filter {
	req.ApplyDefaults()
	return shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  make(map[string]interface{}),
	}
}
