package lots

import "errors"

var (
	// ErrLotNotFound возвращается, когда парковка не найдена
	ErrLotNotFound = errors.New("parking lot not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("parking slot not found")

	// ErrLotNameTaken возвращается, когда парковка с таким именем уже существует
	ErrLotNameTaken = errors.New("parking lot with this name already exists")

	// ErrSlotNumberTaken возвращается, когда слот с таким номером уже есть в парковке
	ErrSlotNumberTaken = errors.New("slot number already exists in this lot")

	// ErrCapacityReached возвращается, когда в парковке уже максимальное количество слотов
	ErrCapacityReached = errors.New("parking lot has reached its maximum capacity")

	// ErrSlotInUse возвращается при попытке изменить или удалить слот с активным бронированием
	ErrSlotInUse = errors.New("slot has an active reservation")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
