package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session.store: session not found")

	// ErrEncode возвращается при ошибке сериализации сессии
	ErrEncode = errors.New("session.store: failed to encode session")

	// ErrStore возвращается при ошибке обращения к хранилищу
	ErrStore = errors.New("session.store: storage error")
)
