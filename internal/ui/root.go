package ui

import (
	"context"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"

	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	ScreenList Screen = iota
	ScreenDetail
	ScreenForm
)

func (s Screen) String() string {
	switch s {
	case ScreenList:
		return "list"
	case ScreenDetail:
		return "detail"
	case ScreenForm:
		return "form"
	default:
		return "unknown"
	}
}

// Nav is the only navigation state; OrderID matters on ScreenDetail.
type Nav struct {
	Screen  Screen
	OrderID int64
}

type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
}

type Root struct {
	ctx     context.Context
	data    DataAccess
	nav     Nav
	session int
	current screen
}

func NewRoot(ctx context.Context, data DataAccess) *Root {
	r := &Root{ctx: ctx, data: data}
	r.activate(Nav{Screen: ScreenList})
	return r
}

func (r *Root) Nav() Nav {
	return r.nav
}

func (r *Root) Init() tea.Cmd {
	return r.current.Init()
}

func (r *Root) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (r.nav.Screen == ScreenList && msg.String() == "q") {
			return r, tea.Quit
		}
	case navigateMsg:
		return r, r.navigate(msg.nav)
	case sessioned:
		// ответ для уже закрытого экрана
		if msg.sessionID() != r.session {
			return r, nil
		}
	}
	return r, r.current.Update(msg)
}

func (r *Root) View() string {
	return r.current.View()
}

func (r *Root) navigate(nav Nav) tea.Cmd {
	r.activate(nav)
	return r.current.Init()
}

func (r *Root) activate(nav Nav) {
	r.session++
	r.nav = nav

	switch nav.Screen {
	case ScreenDetail:
		r.current = NewOrderDetail(r.ctx, r.data, r.session, nav.OrderID, r.toList)
	case ScreenForm:
		r.current = NewProductForm(r.ctx, r.data, r.session, func(entities.Product) tea.Cmd {
			return r.toList()
		}, r.toList)
	default:
		r.nav = Nav{Screen: ScreenList}
		r.current = NewOrderList(r.ctx, r.data, r.session, func(id int64) tea.Cmd {
			return navigateTo(Nav{Screen: ScreenDetail, OrderID: id})
		}, func() tea.Cmd {
			return navigateTo(Nav{Screen: ScreenForm})
		})
	}
}

func (r *Root) toList() tea.Cmd {
	return navigateTo(Nav{Screen: ScreenList})
}

func navigateTo(nav Nav) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{nav: nav}
	}
}
