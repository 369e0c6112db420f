package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Máquina de estados de dispositivos.
	ErrIllegalTransition     = errors.New("transición de estado no permitida")
	ErrConflictingTransition = errors.New("transición concurrente perdió la carrera")
	ErrDeviceNotEligible     = errors.New("el dispositivo no cumple la precondición de negocio")

	// Facturación.
	ErrPaymentExceedsTotal = errors.New("el pago excede el total de la factura")
)
