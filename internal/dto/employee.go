package dto

// ── employee registry DTOs ──

// RegisterEmployeeRequest creates one employee in the caller's source.
type RegisterEmployeeRequest struct {
	Name  string `json:"name"  binding:"required,min=1,max=100"`
	Role  string `json:"role"  binding:"omitempty,max=100"`
	Badge string `json:"badge" binding:"required,min=1,max=50"`
}

// UpdateEmployeeRequest partial update; nil fields are left untouched.
type UpdateEmployeeRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=1,max=100"`
	Role  *string `json:"role"  binding:"omitempty,max=100"`
	Badge *string `json:"badge" binding:"omitempty,min=1,max=50"`
}

// EmployeeResponse one registry entry.
type EmployeeResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Badge  string `json:"badge"`
	Source string `json:"source"`
}

// ImportEmployeeResponse bulk import outcome.
type ImportEmployeeResponse struct {
	Total   int                   `json:"total"`
	Success int                   `json:"success"`
	Failed  int                   `json:"failed"`
	Errors  []ImportEmployeeError `json:"errors,omitempty"`
}

// ImportEmployeeError one rejected import row.
type ImportEmployeeError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
