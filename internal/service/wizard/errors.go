package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStepIncomplete возвращается, когда текущий шаг не заполнен
	ErrStepIncomplete = errors.New("step is incomplete")

	// ErrForwardJump возвращается при попытке перейти на шаг впереди текущего
	ErrForwardJump = errors.New("cannot jump forward past the current step")

	// ErrInvalidStep возвращается для несуществующего шага
	ErrInvalidStep = errors.New("invalid step")

	// ErrAlreadySubmitted возвращается при изменении отправленной сессии
	ErrAlreadySubmitted = errors.New("booking has already been submitted")

	// ErrSubmitInProgress возвращается, пока бронирование создается
	ErrSubmitInProgress = errors.New("booking submission is in progress")

	// ErrNotOnReview возвращается при отправке не с последнего шага
	ErrNotOnReview = errors.New("booking can only be submitted from the review step")

	// ErrSessionNotFound возвращается, когда сессия не найдена или принадлежит другому пользователю
	ErrSessionNotFound = errors.New("wizard session not found")

	// ErrInvalidInput возвращается при некорректных данных шага
	ErrInvalidInput = errors.New("invalid input data")

	// ErrSubmitFailed возвращается, когда бронирование не удалось создать
	ErrSubmitFailed = errors.New("booking submission failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("wizard: internal error")
)

// ValidationError незаполненные поля шага
type ValidationError struct {
	Step   StepID
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please complete the %s step: missing %s", e.Step, strings.Join(e.Fields, ", "))
}

// Unwrap позволяет сравнивать с ErrStepIncomplete через errors.Is
func (e *ValidationError) Unwrap() error {
	return ErrStepIncomplete
}
