// internal/interfaces/http/handlers/response.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	invalidDataMessage = "The given data was invalid."

	// encoding/json has no typed error for this case
	unknownFieldPrefix = `json: unknown field "`
)

// RegisterValidators teaches gin's validator about decimal amounts and makes
// validation errors report json field names. Request bodies with unknown
// fields are rejected. Call once before serving.
func RegisterValidators() {
	binding.EnableDecoderDisallowUnknownFields = true

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindJSON decodes the request body into obj and writes the error response
// when it cannot. It reports whether the handler should continue.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	// bodies without a Content-Length hit the size limit while decoding
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large"})
		return false
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			key := fieldKey(fe)
			fields[key] = append(fields[key], validationMessage(fe))
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": invalidDataMessage,
			"errors":  fields,
		})
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		validationError(c, typeErr.Field, fmt.Sprintf("The %s field must be %s.", label(typeErr.Field), kindName(typeErr.Type.Kind())))
		return false
	}

	if field, ok := strings.CutPrefix(err.Error(), unknownFieldPrefix); ok {
		field = strings.TrimSuffix(field, `"`)
		validationError(c, field, fmt.Sprintf("The %s field is not allowed.", label(field)))
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
	return false
}

// validationError writes a 422 for a single field
func validationError(c *gin.Context, field, message string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": invalidDataMessage,
		"errors":  gin.H{field: []string{message}},
	})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message})
}

// internalError hides err from the client; the access log picks it up from c.Errors
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

// parseID reads a positive numeric path parameter. Anything else is answered
// with the resource's 404.
func parseID(c *gin.Context, param, notFoundMessage string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		notFound(c, notFoundMessage)
		return 0, false
	}
	return uint(id), true
}

// fieldKey drops the struct name from the namespace so nested errors read
// like images[0].url
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func validationMessage(fe validator.FieldError) string {
	name := label(fe.Field())
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", name)
	case "min":
		if numeric {
			return fmt.Sprintf("The %s field must be at least %s.", name, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s characters.", name, fe.Param())
	case "max":
		if numeric {
			return fmt.Sprintf("The %s field must not be greater than %s.", name, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s field must be greater than or equal to %s.", name, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s field must be less than or equal to %s.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "eqfield":
		return fmt.Sprintf("The %s field must match %s.", name, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func kindName(k reflect.Kind) string {
	switch {
	case k == reflect.String:
		return "a string"
	case k == reflect.Bool:
		return "true or false"
	case k == reflect.Float32 || k == reflect.Float64:
		return "a number"
	case k == reflect.Slice || k == reflect.Array:
		return "an array"
	case isNumeric(k):
		return "an integer"
	default:
		return "valid"
	}
}
