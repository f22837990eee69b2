package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	appusers "bondregistry/internal/application/service/users"
	domainbonds "bondregistry/internal/domain/entity/bonds"
	"bondregistry/internal/domain/entity/lei"
	domainusers "bondregistry/internal/domain/entity/users"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	msgNotFound          = "Not found."
	msgNotAuthenticated  = "Authentication credentials were not provided."
	msgInvalidToken      = "Invalid token."
	msgInvalidTokenHdr   = "Invalid token header. No credentials provided."
	msgBadCredentials    = "Unable to log in with provided credentials."
	msgUsernameTaken     = "A user with that username already exists."
	msgNotAString        = "Not a valid string."
	msgInternalServerErr = "A server error occurred."
)

var setupValidatorOnce sync.Once

// setupValidator reports validation failures under JSON field names.
func setupValidator() {
	setupValidatorOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})
		}
	})
}

// bindErrors converts a ShouldBindJSON failure into per-field messages.
// ok is false when the body is not valid JSON at all.
func bindErrors(err error) (fields domainbonds.FieldErrors, ok bool) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields = domainbonds.FieldErrors{}
		for _, fe := range validationErrs {
			fields.Add(fe.Field(), validationMessage(fe))
		}
		return fields, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		msg := msgNotAString
		switch typeErr.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Ptr:
			msg = domainbonds.MsgInvalidInteger
		}
		return domainbonds.FieldErrors{typeErr.Field: {msg}}, true
	}
	return nil, false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return domainbonds.MsgRequired
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "len":
		return "Ensure this field has exactly " + fe.Param() + " characters."
	case "datetime":
		return domainbonds.MsgInvalidDate
	default:
		return domainbonds.MsgInvalid
	}
}

// renderError maps service errors onto the API's error bodies.
func (h *Handler) renderError(c *gin.Context, err error) {
	var fieldErrs domainbonds.FieldErrors
	var resolutionErr *lei.ResolutionError

	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, fieldErrs)
	case errors.As(err, &resolutionErr):
		c.JSON(http.StatusInternalServerError, gin.H{"lei_lookup_error": resolutionErr.Error()})
	case errors.Is(err, domainbonds.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
	case errors.Is(err, domainusers.ErrUsernameTaken):
		c.JSON(http.StatusConflict, domainbonds.FieldErrors{"username": {msgUsernameTaken}})
	case errors.Is(err, domainusers.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgBadCredentials})
	case errors.Is(err, appusers.ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, domainbonds.FieldErrors{"username": {err.Error()}})
	case errors.Is(err, appusers.ErrEmptyPassword), errors.Is(err, appusers.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, domainbonds.FieldErrors{"password": {err.Error()}})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		writeError(c, http.StatusInternalServerError, errors.New(msgInternalServerErr))
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
