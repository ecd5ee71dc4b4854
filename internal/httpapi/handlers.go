package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"marketplace-platform/internal/audit"
	"marketplace-platform/internal/auth"
	"marketplace-platform/internal/catalog"
	"marketplace-platform/internal/storage"
	"marketplace-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection. Keep these
// thin: parse and validate input, call internal services, map errors
// to statuses.
type Handlers struct {
	Auth    *auth.Service
	Catalog *catalog.Service
	Audit   *audit.Service
}

/* ===================== AUTH ===================== */

type registerRequest struct {
	Subject  string `json:"subject" binding:"required"`
	FullName string `json:"full_name"`
	TenantID string `json:"tenant_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	token, id, err := h.Auth.Register(c.Request.Context(), auth.RegisterRequest{
		Subject:  req.Subject,
		FullName: req.FullName,
		TenantID: req.TenantID,
		Password: req.Password,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	// Audit the identity as stored, not the raw request values; the
	// service normalizes the subject.
	if h.Audit != nil {
		_ = h.Audit.LogAuth(c.Request.Context(), audit.EventTypeRegister, id.TenantID, id.Subject, c.ClientIP())
	}
	c.JSON(http.StatusCreated, tokenResponse{Token: token})
}

func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	token, id, err := h.Auth.Login(c.Request.Context(), req.Subject, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if h.Audit != nil {
		_ = h.Audit.LogAuth(c.Request.Context(), audit.EventTypeLogin, id.TenantID, id.Subject, c.ClientIP())
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Me resolves the caller's token back to the stored identity. A stale
// token whose identity was deleted gets 404 here, not 401: the token
// itself is still valid.
func (h Handlers) Me(c *gin.Context) {
	id, err := h.Auth.CurrentIdentity(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

/* ===================== PRODUCTS ===================== */

func (h Handlers) CreateProduct(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req catalog.CreateRequest
	if err := json.Unmarshal([]byte(c.PostForm("product")), &req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid product json"})
		return
	}
	img, err := readImagePart(c, false)
	if err != nil {
		abortWithError(c, err)
		return
	}

	product, err := h.Catalog.Create(c.Request.Context(), p, req, img)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h Handlers) GetProduct(c *gin.Context) {
	product, err := h.Catalog.Get(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts serves the tenant-scoped listing for authenticated
// callers.
func (h Handlers) ListProducts(c *gin.Context) {
	p, _ := auth.PrincipalFrom(c.Request.Context())
	offset, limit := pagination(c)
	page, err := h.Catalog.List(c.Request.Context(), catalog.ListQuery{
		TenantID: p.TenantID,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListPublicProducts serves the unauthenticated storefront listing
// across tenants, with optional search.
func (h Handlers) ListPublicProducts(c *gin.Context) {
	offset, limit := pagination(c)
	page, err := h.Catalog.List(c.Request.Context(), catalog.ListQuery{
		Search: c.Query("query"),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h Handlers) SearchProducts(c *gin.Context) {
	p, _ := auth.PrincipalFrom(c.Request.Context())
	offset, limit := pagination(c)
	page, err := h.Catalog.Search(c.Request.Context(), p.TenantID, c.Query("query"), offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h Handlers) ListMyProducts(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	page, err := h.Catalog.ListMine(c.Request.Context(), p)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h Handlers) UpdateProduct(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req catalog.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	product, err := h.Catalog.Update(c.Request.Context(), p, c.Param("product_id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h Handlers) UpdateProductImage(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	img, err := readImagePart(c, true)
	if err != nil {
		abortWithError(c, err)
		return
	}
	product, err := h.Catalog.UpdateImage(c.Request.Context(), p, c.Param("product_id"), img)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h Handlers) DeleteProduct(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.Catalog.Delete(c.Request.Context(), p, c.Param("product_id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

/* ===================== HELPERS ===================== */

func readImagePart(c *gin.Context, required bool) (*catalog.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if required {
			return nil, catalog.ErrInvalidArgument
		}
		return nil, nil
	}
	if err := storage.ValidateImage(fh.Header.Get("Content-Type"), fh.Size); err != nil {
		return nil, err
	}
	data, err := readAllLimited(fh)
	if err != nil {
		return nil, err
	}
	return &catalog.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Data:        data,
	}, nil
}

func readAllLimited(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	// +1 so an over-limit stream is detected even when the declared
	// size was understated.
	data, err := io.ReadAll(io.LimitReader(f, storage.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > storage.MaxUploadBytes {
		return nil, storage.ErrFileTooLarge
	}
	return data, nil
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	return offset, limit
}

// abortWithError maps service sentinels to HTTP statuses. Denied is
// reported as 403, distinct from 404, so a caller can tell a missing
// resource from one they lack permission for.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrDuplicateSubject), errors.Is(err, catalog.ErrDuplicateName):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrTooManyAttempts):
		status = http.StatusTooManyRequests
	case errors.Is(err, storage.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrInvalidFileType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrUnknownRole),
		errors.Is(err, auth.ErrTenantNotFound),
		errors.Is(err, catalog.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrDenied):
		status = http.StatusForbidden
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, auth.ErrIdentityNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.FromGin(c).Error("request failed", "err", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
