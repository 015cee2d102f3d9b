// Package validators holds the request decoding and struct validation shared
// by the per-resource validator middlewares.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"learnly/apperrors"
	"learnly/middleware"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// strictJSON rejects payload fields the request type does not declare.
var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || phonePattern.MatchString(s)
	})
	return v
}

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{8,20}$`)
)

// Normalizer is implemented by request types that trim or default their
// fields before validation.
type Normalizer interface {
	Normalize()
}

// Bind decodes the JSON body into dst and validates it. Every violated
// field is reported, not just the first one.
func Bind(c *fiber.Ctx, dst interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return apperrors.Field("body", "Request body is required!")
	}
	if err := strictJSON.Unmarshal(body, dst); err != nil {
		return apperrors.Validation("Invalid request body!", map[string]string{"body": err.Error()})
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	return Struct(dst)
}

// Struct runs the validate tags of dst.
func Struct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Internal(err)
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe)] = message(fe)
	}
	return apperrors.Validation("Validation failed!", details)
}

// ParamID parses a positive integer route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Field(name, "Invalid "+name+"!")
	}
	return uint(id), nil
}

// Body decodes and validates a T and stores it in c.Locals(key).
func Body[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := Bind(c, req); err != nil {
			return middleware.ErrorResponse(c, err)
		}
		c.Locals(key, req)
		return c.Next()
	}
}

// Params checks that each named route parameter is a positive id and stores
// it in c.Locals under the same name.
func Params(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		details := make(map[string]string)
		for _, name := range names {
			id, err := ParamID(c, name)
			if err != nil {
				details[name] = "Invalid " + name + "!"
				continue
			}
			c.Locals(name, id)
		}
		if len(details) > 0 {
			return middleware.ErrorResponse(c, apperrors.Validation("Validation failed!", details))
		}
		return c.Next()
	}
}

// ID returns a parameter stored by Params.
func ID(c *fiber.Ctx, name string) uint {
	id, _ := c.Locals(name).(uint)
	return id
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	// alternatives such as "len=0|url" report the last one
	if i := strings.LastIndex(tag, "|"); i >= 0 {
		tag = tag[i+1:]
	}
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required!", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s!", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s!", field, fe.Param())
	case "email":
		return "Invalid email!"
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL!", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "required_if":
		return fmt.Sprintf("%s is required here!", field)
	case "alphanumunicode", "slug":
		return fmt.Sprintf("%s contains invalid characters!", field)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long!", field, fe.Param())
	case "alpha":
		return fmt.Sprintf("%s must contain only letters!", field)
	case "phone":
		return fmt.Sprintf("%s must be a phone number with 8 to 20 digits!", field)
	case "numeric":
		return fmt.Sprintf("%s must contain only digits!", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s!", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates!", field)
	default:
		return fmt.Sprintf("%s is invalid!", field)
	}
}
