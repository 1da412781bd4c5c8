package handlers

import (
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the workflow-specific binding tags to gin's
// validator engine: pbc_status and doc_status.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("pbc_status", validatePBCStatus); err != nil {
		return err
	}
	return v.RegisterValidation("doc_status", validateDocumentRequestStatus)
}

func validatePBCStatus(fl validator.FieldLevel) bool {
	return domain.PBCStatus(fl.Field().String()).IsValid()
}

func validateDocumentRequestStatus(fl validator.FieldLevel) bool {
	_, err := domain.ParseDocumentRequestStatus(fl.Field().String())
	return err == nil
}
