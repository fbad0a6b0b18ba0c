package handlers

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/medstudy-backend/internal/platform/apierr"
)

var registerFieldNames sync.Once

// useJSONFieldNames makes validation errors report wire names (subjectId)
// instead of Go field names (SubjectID).
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON decodes and validates the body into dst. An empty body decodes
// as an empty object so handlers can report their own required-field errors.
func bindJSON(c *gin.Context, dst any) error {
	useJSONFieldNames()
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		if verr := binding.Validator.ValidateStruct(dst); verr != nil {
			return validationError(verr)
		}
		return nil
	}
	return validationError(err)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		return apierr.Validation(strings.Join(msgs, "; "))
	}
	return apierr.Validation("invalid request body: " + err.Error())
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return field + " is invalid"
	}
}

const maxQueryLimit = 200

// queryLimit reads ?limit; absent or unparsable values give 0, which the
// repos treat as their default.
func queryLimit(c *gin.Context) int {
	v := strings.TrimSpace(c.Query("limit"))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}
