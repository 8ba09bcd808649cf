package lots

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Preton24/VehicleParking/internal/service/lots/models"
)

const (
	maxLotNameLength    = 100
	maxLocationLength   = 200
	maxAddressLength    = 255
	maxPinCodeLength    = 20
	maxSlotNumberLength = 20
)

// normalizeLotRequest проверяет данные парковки и обрезает пробелы
func normalizeLotRequest(req *models.LotRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)

	if req.Name == "" || req.Location == "" {
		return fmt.Errorf("%w: name and location are required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Name) > maxLotNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, maxLotNameLength)
	}

	if utf8.RuneCountInString(req.Location) > maxLocationLength {
		return fmt.Errorf("%w: location must be at most %d characters", ErrInvalidInput, maxLocationLength)
	}

	if req.Price != nil && *req.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}

	if req.MaximumNumberOfSpots != nil && *req.MaximumNumberOfSpots < 0 {
		return fmt.Errorf("%w: maximum number of spots cannot be negative", ErrInvalidInput)
	}

	req.Address = trimOptional(req.Address)
	if req.Address != nil && utf8.RuneCountInString(*req.Address) > maxAddressLength {
		return fmt.Errorf("%w: address must be at most %d characters", ErrInvalidInput, maxAddressLength)
	}

	req.PinCode = trimOptional(req.PinCode)
	if req.PinCode != nil && utf8.RuneCountInString(*req.PinCode) > maxPinCodeLength {
		return fmt.Errorf("%w: pin code must be at most %d characters", ErrInvalidInput, maxPinCodeLength)
	}

	return nil
}

// normalizeSlotNumber проверяет номер слота
func normalizeSlotNumber(number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", fmt.Errorf("%w: slot number is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(number) > maxSlotNumberLength {
		return "", fmt.Errorf("%w: slot number must be at most %d characters", ErrInvalidInput, maxSlotNumberLength)
	}

	return number, nil
}

// trimOptional пустая строка после обрезки превращается в nil
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
