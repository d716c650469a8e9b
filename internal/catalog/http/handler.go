package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/academy-console/internal/catalog"
	"github.com/nekogravitycat/academy-console/internal/pkg/request"
	"github.com/nekogravitycat/academy-console/internal/pkg/response"
)

type Handler struct {
	reader catalog.Reader
}

func NewHandler(reader catalog.Reader) *Handler {
	return &Handler{reader: reader}
}

func (h *Handler) ListServices(c *gin.Context) {
	var req ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	services, err := h.reader.ListServices(c.Request.Context(), catalog.ServiceFilter{
		Category: catalog.Category(req.Category),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ServiceResponse, len(services))
	for i, s := range services {
		items[i] = NewServiceResponse(s)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) GetService(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	s, err := h.reader.GetService(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewServiceResponse(s))
}

func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.reader.ListLocations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]LocationResponse, len(locations))
	for i, l := range locations {
		items[i] = NewLocationResponse(l)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) GetLocation(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	l, err := h.reader.GetLocation(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewLocationResponse(l))
}
