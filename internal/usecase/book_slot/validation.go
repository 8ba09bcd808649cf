package book_slot

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxVehicleNumberLength максимальная длина номера автомобиля
const MaxVehicleNumberLength = 20

// validateRequest валидирует запрос и нормализует номер автомобиля
func validateRequest(req *Request) (string, error) {
	if req.UserID <= 0 {
		return "", fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return "", fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	vehicle := strings.TrimSpace(req.VehicleNumber)
	if vehicle == "" {
		return "", fmt.Errorf("%w: vehicle number is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(vehicle) > MaxVehicleNumberLength {
		return "", fmt.Errorf("%w: vehicle number must be at most %d characters", ErrInvalidInput, MaxVehicleNumberLength)
	}

	return vehicle, nil
}
