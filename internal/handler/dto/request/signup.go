package request

import (
	"datenight/internal/domain/event"
)

type SignupRequest struct {
	Gender string `json:"gender" binding:"required,oneof=male female"`
}

func (r *SignupRequest) ToDomain() (event.Gender, error) {
	return event.ParseGender(r.Gender)
}
