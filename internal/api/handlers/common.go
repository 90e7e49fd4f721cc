package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yoockh/jobportal/internal/utils"
)

type APIError struct {
	Code    utils.Code        `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

var exposeDetail bool

// ExposeErrorDetail adds the wrapped error text to error bodies. Only for
// development.
func ExposeErrorDetail(on bool) { exposeDetail = on }

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		body := APIError{
			Code:    ae.Code,
			Message: ae.Message,
			Fields:  ae.Fields,
		}
		if exposeDetail && ae.Err != nil {
			body.Detail = ae.Err.Error()
		}
		c.AbortWithStatusJSON(status, body)
		return
	}

	body := APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	}
	if exposeDetail {
		body.Detail = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// bindError turns a binding failure into INVALID_ARGUMENT, listing the
// offending fields when the validator reported them.
func bindError(op string, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return utils.E(utils.CodeInvalidArgument, op, "invalid request body", err)
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fieldPath(fe.Namespace())] = fe.Tag()
	}
	return utils.Invalid(op, "validation failed", fields)
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// queryInt reads an optional integer query parameter. Absent means def.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.Invalid("query", key+" must be an integer", map[string]string{key: "integer"})
	}
	return n, nil
}
