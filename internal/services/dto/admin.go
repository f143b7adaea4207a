package dto

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,user-role"`
}

type SetApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type SetFeaturedRequest struct {
	Featured *bool `json:"featured" validate:"required"`
}

type UserListRequest struct {
	Role   string
	Search string
	Page   int
	Limit  int
}
