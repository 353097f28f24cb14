package admin

import (
	"fmt"

	"academy/progress"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// reviewable is the progress_status rule: a committee decision is either approved or rejected
func reviewable(fl validator.FieldLevel) bool {
	status := progress.ProgressStatus(fl.Field().String())
	return status == progress.ProgressApproved || status == progress.ProgressRejected
}

// RegisterValidators adds the custom binding rules to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("progress_status", reviewable)
}
