// @title           Bond Registry API
// @version         1.0
// @description     Register bonds and enrich them with the legal entity name resolved from their LEI.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey  TokenAuth
// @in                          header
// @name                        Authorization
// @description                 "Token <api key>"; the api_key query parameter is accepted as well.

package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	appinterfaces "bondregistry/internal/application/interfaces"
	domainbonds "bondregistry/internal/domain/entity/bonds"
	_ "bondregistry/docs"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	apiBasePath    = "/api/v1"
	legacyBasePath = "/bonds"
)

var errInvalidID = errors.New("invalid bond id")

type Handler struct {
	router *gin.Engine
	bonds  appinterfaces.BondService
	users  appinterfaces.UserService
	logger logrus.FieldLogger
	health func(ctx context.Context) error
}

var _ appinterfaces.HTTPHandler = (*Handler)(nil)

type Option func(*Handler)

// WithHealthCheck makes /healthz report the result of check.
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(h *Handler) {
		h.health = check
	}
}

func NewHandler(bonds appinterfaces.BondService, users appinterfaces.UserService, logger logrus.FieldLogger, opts ...Option) *Handler {
	setupValidator()
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router: router,
		bonds:  bonds,
		users:  users,
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	router.Use(h.requestLogger())
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.router.GET("/healthz", h.healthz)

	api := h.router.Group(apiBasePath)
	{
		users := api.Group("/users")
		users.POST("", h.signUp)
		users.POST("/token", h.login)

		bonds := api.Group("/bonds", h.authenticate())
		bonds.POST("", h.createBond)
		bonds.GET("", h.listBonds)
		bonds.GET("/:id", h.getBond)
		bonds.PUT("/:id", h.updateBond)
	}

	legacy := h.router.Group(legacyBasePath, h.authenticate())
	{
		legacy.POST("/", h.createBond)
		legacy.GET("/", h.listBonds)
		legacy.GET("/:id/", h.getBond)
		legacy.PUT("/:id/", h.updateBond)
	}
}

// Bonds handlers

// createBond registers a bond and resolves its legal name
// @Summary      Create bond
// @Description  Validates the bond, resolves the legal name for its LEI and stores it for the caller
// @Tags         bonds
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        bond  body      bondPayload  true  "Bond data"
// @Success      201   {object}  bondResponse
// @Failure      400   {object}  map[string][]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string  "lei_lookup_error"
// @Router       /bonds [post]
func (h *Handler) createBond(c *gin.Context) {
	fields, ok := h.bindBond(c)
	if !ok {
		return
	}
	bond, err := h.bonds.Create(c.Request.Context(), currentUserID(c), fields)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBondResponse(bond))
}

// listBonds lists the caller's bonds
// @Summary      List bonds
// @Description  Lists the caller's bonds in creation order, optionally filtered by exact legal name
// @Tags         bonds
// @Produce      json
// @Security     TokenAuth
// @Param        legal_name  query     string  false  "Exact, case-sensitive legal name"
// @Success      200         {array}   bondResponse
// @Failure      401         {object}  map[string]string
// @Router       /bonds [get]
func (h *Handler) listBonds(c *gin.Context) {
	var legalName *string
	if value, ok := c.GetQuery("legal_name"); ok {
		legalName = &value
	}
	bonds, err := h.bonds.List(c.Request.Context(), currentUserID(c), legalName)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBondListResponse(bonds))
}

// getBond returns one of the caller's bonds
// @Summary      Get bond
// @Tags         bonds
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      int  true  "Bond ID"
// @Success      200  {object}  bondResponse
// @Failure      404  {object}  map[string]string
// @Router       /bonds/{id} [get]
func (h *Handler) getBond(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
		return
	}
	bond, err := h.bonds.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBondResponse(bond))
}

// updateBond replaces a bond's fields and resolves its legal name again
// @Summary      Update bond
// @Tags         bonds
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      int          true  "Bond ID"
// @Param        bond  body      bondPayload  true  "Bond data"
// @Success      200   {object}  bondResponse
// @Failure      400   {object}  map[string][]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string  "lei_lookup_error"
// @Router       /bonds/{id} [put]
func (h *Handler) updateBond(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
		return
	}
	fields, ok := h.bindBond(c)
	if !ok {
		return
	}
	bond, err := h.bonds.Update(c.Request.Context(), currentUserID(c), id, fields)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBondResponse(bond))
}

// Users handlers

// signUp creates a user and issues the user's API key
// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        credentials  body      credentialsPayload  true  "Username and password"
// @Success      201          {object}  signUpResponse
// @Failure      400          {object}  map[string][]string
// @Failure      409          {object}  map[string][]string
// @Router       /users [post]
func (h *Handler) signUp(c *gin.Context) {
	var payload credentialsPayload
	if !h.bindJSON(c, &payload) {
		return
	}
	user, key, err := h.users.SignUp(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, signUpResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		APIKey:   key,
	})
}

// login exchanges credentials for the user's API key
// @Summary      Get API key
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        credentials  body      credentialsPayload  true  "Username and password"
// @Success      200          {object}  tokenResponse
// @Failure      401          {object}  map[string]string
// @Router       /users/token [post]
func (h *Handler) login(c *gin.Context) {
	var payload credentialsPayload
	if !h.bindJSON(c, &payload) {
		return
	}
	key, err := h.users.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{APIKey: key})
}

func (h *Handler) healthz(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			h.logger.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Helpers

func (h *Handler) bindBond(c *gin.Context) (fields domainbonds.Fields, ok bool) {
	var payload bondPayload
	if !h.bindJSON(c, &payload) {
		return fields, false
	}
	fields, err := payload.toDomain()
	if err != nil {
		h.renderError(c, err)
		return fields, false
	}
	return fields, true
}

func (h *Handler) bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		// an empty body reports every required field
		err = binding.Validator.ValidateStruct(dst)
	}
	if err == nil {
		return true
	}
	if fields, ok := bindErrors(err); ok {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// decoding continues past a type error, so the rest can be validated
			fields.Merge(validationErrors(dst))
		}
		c.JSON(http.StatusBadRequest, fields)
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
	return false
}

func validationErrors(dst interface{}) domainbonds.FieldErrors {
	err := binding.Validator.ValidateStruct(dst)
	if err == nil {
		return nil
	}
	fields, _ := bindErrors(err)
	return fields
}

func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
