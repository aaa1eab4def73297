package request

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search   string `form:"search"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// CreateCustomerRequest represents a customer registration at the till
type CreateCustomerRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=255"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone" binding:"omitempty,max=50"`
	MembershipTier string `json:"membership_tier" binding:"omitempty,oneof=bronze silver gold platinum"`
}
