package ui

import (
	"github.com/SergeyBogomolovv/order-desk/internal/entities"
)

// sessioned messages belong to one activation of a screen.
type sessioned interface {
	sessionID() int
}

type session int

func (s session) sessionID() int { return int(s) }

type ordersLoadedMsg struct {
	session
	orders []entities.Order
	err    error
}

type orderLoadedMsg struct {
	session
	order entities.Order
	err   error
}

type statusSavedMsg struct {
	session
	sent  entities.OrderStatus
	order entities.Order
	err   error
}

type clearSuccessMsg struct {
	session
	seq int
}

type productSavedMsg struct {
	session
	product entities.Product
	err     error
}

type navigateMsg struct {
	nav Nav
}
