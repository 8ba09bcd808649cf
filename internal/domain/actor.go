package domain

// Actor пользователь, от имени которого выполняется операция
// Личность и роль приходят из внешнего слоя аутентификации
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// CanManageReservation проверяет, может ли actor освободить или отменить бронирование
// Разрешено владельцу бронирования и администратору
func CanManageReservation(actor Actor, r *Reservation) bool {
	if actor.IsAdmin {
		return true
	}
	return r != nil && r.UserID == actor.UserID
}

// CanViewUser проверяет, может ли actor видеть данные пользователя userID
func CanViewUser(actor Actor, userID int64) bool {
	return actor.IsAdmin || actor.UserID == userID
}
