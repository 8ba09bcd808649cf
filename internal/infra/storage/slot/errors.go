package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: parking slot not found")

	// ErrSlotNumberTaken возвращается, когда номер слота уже занят в пределах парковки
	ErrSlotNumberTaken = errors.New("slot.repository: slot number already taken in lot")

	// ErrLotNotFound возвращается при создании слота в несуществующей парковке
	ErrLotNotFound = errors.New("slot.repository: parking lot not found")

	// ErrStatusConflict возвращается, когда текущий статус слота не совпал с ожидаемым
	ErrStatusConflict = errors.New("slot.repository: slot status changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
