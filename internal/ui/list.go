package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	PageSize = 10

	listErrorMessage = "Order API Error"
)

// OrderList loads orders once per activation and pages through them locally.
type OrderList struct {
	ctx     context.Context
	api     OrderAPI
	session session

	orders []entities.Order
	loaded bool
	failed bool
	page   int
	cursor int

	onViewOrder  func(id int64) tea.Cmd
	onAddProduct func() tea.Cmd
}

func NewOrderList(ctx context.Context, api OrderAPI, sessionID int, onViewOrder func(id int64) tea.Cmd, onAddProduct func() tea.Cmd) *OrderList {
	return &OrderList{
		ctx:          ctx,
		api:          api,
		session:      session(sessionID),
		page:         1,
		onViewOrder:  onViewOrder,
		onAddProduct: onAddProduct,
	}
}

func (l *OrderList) Init() tea.Cmd {
	return func() tea.Msg {
		orders, err := l.api.ListOrders(l.ctx)
		return ordersLoadedMsg{session: l.session, orders: orders, err: err}
	}
}

func (l *OrderList) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		l.loaded = true
		if msg.err != nil {
			l.failed = true
			l.orders = nil
			return nil
		}
		l.orders = msg.orders
		l.page = 1
		l.cursor = 0
	case tea.KeyMsg:
		return l.handleKey(msg)
	}
	return nil
}

func (l *OrderList) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "a":
		return l.onAddProduct()
	}
	if l.failed {
		return nil
	}

	switch msg.String() {
	case "right", "l", "n", "pgdown":
		l.NextPage()
	case "left", "h", "p", "pgup":
		l.PrevPage()
	case "down", "j":
		if l.cursor < len(l.PageOrders())-1 {
			l.cursor++
		}
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "enter":
		rows := l.PageOrders()
		if l.cursor < len(rows) {
			return l.onViewOrder(rows[l.cursor].ID)
		}
	}
	return nil
}

func (l *OrderList) Page() int {
	return l.page
}

func (l *OrderList) TotalPages() int {
	return (len(l.orders) + PageSize - 1) / PageSize
}

// PageOrders is the slice [(page-1)*size, page*size) clipped to the list.
func (l *OrderList) PageOrders() []entities.Order {
	start := (l.page - 1) * PageSize
	if start >= len(l.orders) {
		return nil
	}
	end := min(start+PageSize, len(l.orders))
	return l.orders[start:end]
}

func (l *OrderList) HasPrev() bool {
	return l.page > 1
}

func (l *OrderList) HasNext() bool {
	return l.page < l.TotalPages()
}

func (l *OrderList) ShowControls() bool {
	return l.TotalPages() > 1
}

func (l *OrderList) NextPage() {
	l.setPage(l.page + 1)
}

func (l *OrderList) PrevPage() {
	l.setPage(l.page - 1)
}

func (l *OrderList) setPage(page int) {
	page = max(1, min(page, l.TotalPages()))
	if page != l.page {
		l.page = page
		l.cursor = 0
	}
}

func (l *OrderList) View() string {
	if l.failed {
		return listErrorMessage + "\n"
	}

	var b strings.Builder
	b.WriteString("Orders\n\n")

	if !l.loaded {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if len(l.orders) == 0 {
		b.WriteString("No orders yet.\n")
	} else {
		fmt.Fprintf(&b, "  %-8s %-20s %12s %-10s %s\n", "ID", "Customer", "Total", "Status", "Date")
		for i, o := range l.PageOrders() {
			marker := " "
			if i == l.cursor {
				marker = ">"
			}
			fmt.Fprintf(&b, "%s %-8d %-20s %12s %-10s %s\n",
				marker, o.ID, truncate(o.CustomerName, 20), "$"+o.TotalAmount.StringFixed(2), o.Status, o.OrderDate.Format(dateLayout))
		}
	}

	if l.ShowControls() {
		prev, next := "< Prev", "Next >"
		if !l.HasPrev() {
			prev = "      "
		}
		if !l.HasNext() {
			next = ""
		}
		fmt.Fprintf(&b, "\n%s   Page %d of %d   %s\n", prev, l.page, l.TotalPages(), next)
	}

	b.WriteString("\nenter: view  ←/→: page  a: add product  q: quit\n")
	return b.String()
}

const dateLayout = "2006-01-02 15:04"

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
