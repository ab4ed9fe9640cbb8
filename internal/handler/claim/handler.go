package claim

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/claimtrack-api/internal/handler"
	"github.com/jwalitptl/claimtrack-api/internal/model"
	"github.com/jwalitptl/claimtrack-api/internal/service/claim"
)

type Handler struct {
	service claim.ClaimService
}

func NewHandler(service claim.ClaimService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	claims := r.Group("/claims")
	{
		claims.POST("", h.CreateClaim)
		claims.GET("", h.SearchClaims)
		claims.GET("/:id", h.GetClaim)
		claims.PUT("/:id", h.UpdateClaim)
		claims.DELETE("/:id", h.DeleteClaim)
		claims.GET("/:id/linked", h.ListLinkedClaims)
	}
	r.GET("/main-claims", h.ListMainClaims)
}

func (h *Handler) CreateClaim(c *gin.Context) {
	var claim model.Claim
	if err := c.ShouldBindJSON(&claim); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.CreateClaim(c.Request.Context(), &claim)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetClaim(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	found, err := h.service.GetClaim(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) UpdateClaim(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	var claim model.Claim
	if err := c.ShouldBindJSON(&claim); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.UpdateClaim(c.Request.Context(), id, &claim)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteClaim(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteClaim(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func (h *Handler) SearchClaims(c *gin.Context) {
	var filter model.ClaimFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	claims, err := h.service.SearchClaims(c.Request.Context(), &filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(claims))
}

func (h *Handler) ListMainClaims(c *gin.Context) {
	var filter model.MainClaimFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	claims, err := h.service.ListMainClaims(c.Request.Context(), &filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(claims))
}

func (h *Handler) ListLinkedClaims(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	claims, err := h.service.ListLinkedClaims(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(claims))
}

func claimID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid claim ID"))
		return 0, false
	}
	return id, true
}
