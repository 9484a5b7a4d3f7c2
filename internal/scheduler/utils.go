package scheduler

import "github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"

func isManager(user *domain.User) bool {
	return user.Role == domain.RoleStoreManager
}
