package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// skuPattern restricts SKUs to printable identifier characters so they
// survive URLs, CSV exports and barcode labels unescaped.
var skuPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("sku", validSKU)
	}
}

func validSKU(fl validator.FieldLevel) bool {
	return skuPattern.MatchString(fl.Field().String())
}
