package auth

import "rentify_backend/internal/models"

const (
	PermPropertyCreate     = "property:create"
	PermPropertyModerate   = "property:moderate"
	PermUsersManage        = "users:manage"
	PermSubscriptionManage = "subscription:manage"
	PermReportsManage      = "reports:manage"
	PermReportCreate       = "report:create"
)

// Permissions список разрешений по ролям.
// Доступ к контактам здесь не описан: он зависит только от подписки.
var Permissions = map[models.UserRole][]string{
	models.UserRoleAdmin: {
		PermPropertyCreate,
		PermPropertyModerate,
		PermUsersManage,
		PermSubscriptionManage,
		PermReportsManage,
		PermReportCreate,
	},
	models.UserRoleOwner: {
		PermPropertyCreate,
		PermReportCreate,
	},
	models.UserRoleTenant: {
		PermReportCreate,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// CanPerformAction проверяет может ли владелец токена выполнить действие
func CanPerformAction(claims *Claims, permission string) bool {
	if claims == nil {
		return false
	}
	return HasPermission(models.UserRole(claims.Role), permission)
}

func IsAdmin(claims *Claims) bool {
	return claims != nil && models.UserRole(claims.Role) == models.UserRoleAdmin
}
