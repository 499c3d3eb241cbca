package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	customerrors "github.com/axellelanca/quickurl/internal/errors"
	"github.com/axellelanca/quickurl/internal/services"
)

// SetupRoutes configures all Gin API routes and injects necessary dependencies
// Parameters:
//   - router: Gin engine instance to configure routes on
//   - linkService: business logic service for link operations
//   - logger: logger used for failures that are not returned to the client
func SetupRoutes(router *gin.Engine, linkService *services.LinkService, logger zerolog.Logger) {
	// Health Check Route - used for monitoring service availability
	router.GET("/health", HealthCheckHandler)

	// API Routes Group - all business logic endpoints under /api/v1 prefix
	api := router.Group("/api/v1")
	{
		// POST endpoint for creating new shortened links (supports single and multiple URLs)
		api.POST("/links", CreateShortLinkHandler(linkService, logger))
		// DELETE endpoint restricted to the owner of the link
		api.DELETE("/links/:hash", DeleteLinkHandler(linkService, logger))
		api.GET("/count", CountHandler(linkService, logger))
		api.GET("/owners/:owner/links", ListOwnerLinksHandler(linkService, logger))
	}

	// Original QuickURL resolution route: /url?link=<hash>
	router.GET("/url", RedirectQueryHandler(linkService, logger))

	// Redirection Route - handles the actual URL redirection at root level
	// This is where users access their short URLs (e.g., localhost:8080/abC1)
	router.GET("/:hash", RedirectHandler(linkService, logger))
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateLinkRequest represents the JSON request body for creating one or multiple links
// Single: {"owner": "u1", "url": "https://example.com"}
// Multiple: {"owner": "u1", "urls": ["https://example.com", "https://google.com"]}
type CreateLinkRequest struct {
	Owner string   `json:"owner" binding:"required"`
	URL   string   `json:"url"`
	URLs  []string `json:"urls"`
}

// CreateLinkResponse represents the response for a single link creation
// It is also used as an element of the results array for multiple URLs
type CreateLinkResponse struct {
	Hash     string `json:"hash,omitempty"`
	URL      string `json:"url"`
	ShortURL string `json:"short_url,omitempty"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"` // Error message if shortening failed
}

// CreateLinksResponse represents the response for multiple link creation
type CreateLinksResponse struct {
	Results []CreateLinkResponse `json:"results"`
	Summary BatchSummary         `json:"summary"`
}

// BatchSummary aggregates the outcome of a batch create.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// DeleteLinkRequest carries the identity of the requester.
type DeleteLinkRequest struct {
	Owner string `json:"owner" binding:"required"`
}

// CreateShortLinkHandler handles the creation of one or multiple shortened URLs
// It detects the request format and routes to the appropriate processing logic
func CreateShortLinkHandler(linkService *services.LinkService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		var urlsToProcess []string
		if req.URL != "" {
			urlsToProcess = append(urlsToProcess, req.URL)
		}
		urlsToProcess = append(urlsToProcess, req.URLs...)

		if len(urlsToProcess) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Either 'url' or 'urls' must be provided"})
			return
		}

		if len(urlsToProcess) > 1 {
			handleMultipleURLs(c, linkService, req.Owner, urlsToProcess)
			return
		}
		handleSingleURL(c, linkService, logger, req.Owner, urlsToProcess[0])
	}
}

func handleSingleURL(c *gin.Context, linkService *services.LinkService, logger zerolog.Logger, owner, longURL string) {
	link, err := linkService.CreateLink(c.Request.Context(), owner, longURL)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"hash":      link.Hash,
		"url":       link.URL,
		"short_url": linkService.ShortURL(link.Hash),
	})
}

// handleMultipleURLs reports one result per URL so some can succeed while others fail
func handleMultipleURLs(c *gin.Context, linkService *services.LinkService, owner string, urls []string) {
	response := CreateLinksResponse{
		Results: make([]CreateLinkResponse, 0, len(urls)),
		Summary: BatchSummary{Total: len(urls)},
	}

	for _, r := range linkService.CreateLinks(c.Request.Context(), owner, urls) {
		result := CreateLinkResponse{URL: r.URL}
		if r.Err != nil {
			_, result.Error = statusFor(r.Err)
			response.Summary.Failed++
		} else {
			result.Success = true
			result.Hash = r.Link.Hash
			result.ShortURL = linkService.ShortURL(r.Link.Hash)
			response.Summary.Successful++
		}
		response.Results = append(response.Results, result)
	}

	statusCode := http.StatusMultiStatus // Mixed results
	if response.Summary.Failed == 0 {
		statusCode = http.StatusCreated
	} else if response.Summary.Successful == 0 {
		statusCode = http.StatusBadRequest
	}

	c.JSON(statusCode, response)
}

// RedirectHandler handles the redirection from a short URL to the original URL
func RedirectHandler(linkService *services.LinkService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		redirect(c, linkService, logger, c.Param("hash"))
	}
}

// RedirectQueryHandler resolves /url?link=<hash>
func RedirectQueryHandler(linkService *services.LinkService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		hash := c.Query("link")
		if hash == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'link' is required"})
			return
		}
		redirect(c, linkService, logger, hash)
	}
}

func redirect(c *gin.Context, linkService *services.LinkService, logger zerolog.Logger, hash string) {
	url, err := linkService.Resolve(c.Request.Context(), hash)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// CountHandler returns the total number of links.
func CountHandler(linkService *services.LinkService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := linkService.Count(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

// ListOwnerLinksHandler returns the links of an owner in creation order.
func ListOwnerLinksHandler(linkService *services.LinkService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		links, err := linkService.ListByOwner(c.Request.Context(), c.Param("owner"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, links)
	}
}

// DeleteLinkHandler deletes a link on behalf of its owner.
func DeleteLinkHandler(linkService *services.LinkService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		if err := linkService.DeleteLink(c.Request.Context(), req.Owner, c.Param("hash")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// statusFor maps a service error to an HTTP status and a client-safe message.
// Storage details never reach the client.
func statusFor(err error) (int, string) {
	var vErr *customerrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Error()
	case errors.Is(err, customerrors.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, customerrors.ErrUnreachableURL):
		return http.StatusUnprocessableEntity, "URL is not reachable"
	case errors.Is(err, customerrors.ErrNotFound):
		return http.StatusNotFound, "Short URL not found"
	case errors.Is(err, customerrors.ErrNotOwner):
		return http.StatusForbidden, "You are not the owner of this URL"
	case errors.Is(err, customerrors.ErrAllocationExhausted):
		return http.StatusServiceUnavailable, "Unable to generate a unique hash. Please try again later."
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeError(c *gin.Context, logger zerolog.Logger, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": message})
}
