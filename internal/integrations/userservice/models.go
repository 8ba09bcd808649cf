package userservice

// RoleAdmin роль администратора парковки
const RoleAdmin = "admin"

// User модель пользователя из UserService
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin проверяет, что пользователь администратор
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
