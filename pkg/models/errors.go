package models

import "errors"

var (
	// ErrInvalidCandle нарушен инвариант OHLC при создании или загрузке
	ErrInvalidCandle = errors.New("некорректная свеча")
	// ErrInvalidField неизвестное поле для изменения
	ErrInvalidField = errors.New("некорректное поле")
	// ErrInvalidStep шаг не конечное положительное число
	ErrInvalidStep = errors.New("некорректный шаг")
	// ErrIndexOutOfRange индекс свечи вне серии
	ErrIndexOutOfRange  = errors.New("индекс свечи вне диапазона")
	ErrInvalidDirection = errors.New("некорректное направление")
	ErrEmptySeries      = errors.New("серия не может быть пустой")
)
