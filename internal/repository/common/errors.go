package common

import "errors"

// ErrNotFound базовая ошибка отсутствия сущности. Репозитории заворачивают её
// в именованные ошибки, сохраняя совместимость с errors.Is.
var ErrNotFound = errors.New("entity not found")
