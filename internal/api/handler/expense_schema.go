package handler

type submitExpenseRequest struct {
	Type        string `json:"type"         validate:"required"`
	AmountCents *int64 `json:"amount_cents" validate:"required,gte=0"`
	Description string `json:"description"`
}

type updateProfileRequest struct {
	Username  string `json:"username"   validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
}
