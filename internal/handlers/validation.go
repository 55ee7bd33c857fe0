package handlers

import (
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Card UIDs are hex, optionally colon or dash separated (04:A2:1B:...), or campus card numbers.
var rfidPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9:\-]{3,63}$`)

func validateRFID(fl validator.FieldLevel) bool {
	return rfidPattern.MatchString(fl.Field().String())
}

// RegisterValidators adds the custom binding tags used by request DTOs.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := v.RegisterValidation("rfid", validateRFID); err != nil {
		slog.Error("Failed to register rfid validator", slog.String("error", err.Error()))
	}
}
