package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savorly/reviews-rag/rag"
)

// Handler maps HTTP requests onto the RAG service. Degraded results still
// come back as 200 with a well-formed body; only malformed requests are 4xx.
type Handler struct {
	svc *rag.Service
}

func NewHandler(svc *rag.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Suggest(ctx *gin.Context) {
	query := ctx.Query("query")

	result := h.svc.Suggest(ctx.Request.Context(), query)
	ctx.JSON(http.StatusOK, result)
}

func (h *Handler) Summarize(ctx *gin.Context) {
	restaurantName := ctx.Param("restaurant_name")

	result := h.svc.Summarize(ctx.Request.Context(), restaurantName)
	ctx.JSON(http.StatusOK, result)
}

type QueryRequest struct {
	Query          string `json:"query"`
	RestaurantName string `json:"restaurant_name"`
}

func (r *QueryRequest) Validate() error {
	if r.RestaurantName == "" {
		return fmt.Errorf("restaurant_name is required")
	}
	if r.Query == "" {
		return fmt.Errorf("query is required")
	}

	return nil
}

func (h *Handler) Query(ctx *gin.Context) {
	var req QueryRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.svc.Answer(ctx.Request.Context(), req.RestaurantName, req.Query)
	ctx.JSON(http.StatusOK, result)
}
