// Package handler exposes the showcase service over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalshowcase "github.com/Vighnesh-M-S/PM-Helper/internal/showcase"
	"github.com/Vighnesh-M-S/PM-Helper/pkg/log"
	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// Handler handles showcase HTTP requests
type Handler struct {
	service *internalshowcase.Service
	logger  log.Logger
}

// NewHandler creates a new showcase handler
func NewHandler(service *internalshowcase.Service, logger log.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the showcase routes
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/portfolio", h.SavePortfolio)
	router.GET("/portfolio/:username", h.GetUserPortfolios)
	router.GET("/portfolios", h.GetAllPortfolios)
	router.POST("/portfolio/view/:id", h.RecordView)
	router.POST("/portfolio/like/:id", h.RecordLike)
	router.GET("/health", h.GetHealth)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type portfolioRequest struct {
	Username string   `json:"username"`
	Theme    string   `json:"theme"`
	Title    string   `json:"title"`
	Overview string   `json:"overview"`
	Media    []string `json:"media"`
	Timeline string   `json:"timeline"`
	Tools    []string `json:"tools"`
	Outcomes string   `json:"outcomes"`
}

// Register handles POST /register
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, showcase.NewValidationError("INVALID_BODY", "request body must be JSON with username and password"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "user registered successfully",
		"username": user.Username,
	})
}

// Login handles POST /login
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, showcase.NewValidationError("INVALID_BODY", "request body must be JSON with username and password"))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "login successful",
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// SavePortfolio handles POST /portfolio
func (h *Handler) SavePortfolio(c *gin.Context) {
	var req portfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, showcase.NewValidationError("INVALID_BODY", "request body must be a JSON portfolio document"))
		return
	}

	portfolio := &showcase.Portfolio{
		Username: req.Username,
		Theme:    req.Theme,
		Title:    req.Title,
		Overview: req.Overview,
		Media:    req.Media,
		Timeline: req.Timeline,
		Tools:    req.Tools,
		Outcomes: req.Outcomes,
	}

	id, err := h.service.SavePortfolio(c.Request.Context(), portfolio)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "portfolio saved successfully",
		"id":      id,
	})
}

// GetUserPortfolios handles GET /portfolio/:username
func (h *Handler) GetUserPortfolios(c *gin.Context) {
	portfolios, err := h.service.GetUserPortfolios(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolios)
}

// GetAllPortfolios handles GET /portfolios
func (h *Handler) GetAllPortfolios(c *gin.Context) {
	portfolios, err := h.service.GetAllPortfolios(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolios)
}

// RecordView handles POST /portfolio/view/:id
func (h *Handler) RecordView(c *gin.Context) {
	id := c.Param("id")
	viewer := c.Query("viewer")

	if err := h.service.RecordView(c.Request.Context(), id, viewer); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "view recorded"})
}

// RecordLike handles POST /portfolio/like/:id
func (h *Handler) RecordLike(c *gin.Context) {
	id := c.Param("id")
	liker := c.Query("liker")

	if err := h.service.RecordLike(c.Request.Context(), id, liker); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "like recorded"})
}

// GetHealth handles GET /health
func (h *Handler) GetHealth(c *gin.Context) {
	health := h.service.Health(c.Request.Context())

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, health)
}

// writeError maps a service error to the HTTP error body
// {error, message, code}
func (h *Handler) writeError(c *gin.Context, err error) {
	var svcErr *showcase.Error
	if !errors.As(err, &svcErr) {
		h.logger.Error("request failed", log.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal",
			"message": "internal server error",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	status := http.StatusInternalServerError
	code := svcErr.Code

	switch {
	case showcase.IsValidationError(err):
		status = http.StatusBadRequest
		code = "VALIDATION_ERROR"
	case showcase.IsUnauthorizedError(err):
		status = http.StatusUnauthorized
	case showcase.IsNotFoundError(err):
		status = http.StatusNotFound
		code = "NOT_FOUND"
	case showcase.IsConflictError(err):
		status = http.StatusConflict
	case showcase.IsDatabaseError(err):
		status = http.StatusServiceUnavailable
		code = "STORE_UNAVAILABLE"
		h.logger.Error("store failure",
			log.String("path", c.Request.URL.Path),
			log.Error(err))
	default:
		h.logger.Error("request failed",
			log.String("path", c.Request.URL.Path),
			log.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   string(svcErr.Type),
		"message": svcErr.Message,
		"code":    code,
	})
}
