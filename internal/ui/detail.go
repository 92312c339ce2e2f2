package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	statusUpdatedMessage = "Status updated"
	updateFailedMessage  = "Failed to update status"
)

// successTTL is how long "Status updated" stays on screen.
var successTTL = 3 * time.Second

type OrderDetail struct {
	ctx     context.Context
	api     OrderAPI
	session session
	id      int64

	order     *entities.Order
	edited    entities.OrderStatus
	loadErr   string
	saveErr   string
	success   string
	successID int
	saving    bool

	onBack func() tea.Cmd
}

func NewOrderDetail(ctx context.Context, api OrderAPI, sessionID int, id int64, onBack func() tea.Cmd) *OrderDetail {
	return &OrderDetail{
		ctx:     ctx,
		api:     api,
		session: session(sessionID),
		id:      id,
		onBack:  onBack,
	}
}

func (d *OrderDetail) Init() tea.Cmd {
	return func() tea.Msg {
		order, err := d.api.GetOrder(d.ctx, d.id)
		return orderLoadedMsg{session: d.session, order: order, err: err}
	}
}

func (d *OrderDetail) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case orderLoadedMsg:
		if msg.err != nil {
			d.loadErr = msg.err.Error()
			return nil
		}
		d.order = &msg.order
		d.edited = msg.order.Status
	case statusSavedMsg:
		return d.saved(msg)
	case clearSuccessMsg:
		// более новое сохранение продлевает сообщение
		if msg.seq == d.successID {
			d.success = ""
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "b", "backspace":
			return d.Back()
		case "left", "h":
			d.cycleStatus(-1)
		case "right", "l":
			d.cycleStatus(1)
		case "s", "enter":
			return d.Save()
		}
	}
	return nil
}

// Edited is the locally selected status, not yet persisted.
func (d *OrderDetail) Edited() entities.OrderStatus {
	return d.edited
}

func (d *OrderDetail) SetStatus(status entities.OrderStatus) {
	if d.order != nil {
		d.edited = status
	}
}

func (d *OrderDetail) cycleStatus(step int) {
	if d.order == nil {
		return
	}
	statuses := entities.OrderStatuses()
	i := slices.Index(statuses, d.edited)
	i = (i + step + len(statuses)) % len(statuses)
	d.edited = statuses[i]
}

// Save sends the edited status once; repeated presses wait for the reply.
func (d *OrderDetail) Save() tea.Cmd {
	if d.order == nil || d.saving {
		return nil
	}
	d.saving = true
	d.saveErr = ""

	id, status := d.order.ID, d.edited
	return func() tea.Msg {
		order, err := d.api.UpdateOrderStatus(d.ctx, id, status)
		return statusSavedMsg{session: d.session, sent: status, order: order, err: err}
	}
}

func (d *OrderDetail) saved(msg statusSavedMsg) tea.Cmd {
	d.saving = false
	if msg.err != nil {
		d.saveErr = updateFailedMessage
		d.success = ""
		return nil
	}

	d.order = &msg.order
	// выбор, сделанный во время сохранения, остается несохраненным
	if d.edited == msg.sent {
		d.edited = msg.order.Status
	}
	d.success = statusUpdatedMessage
	d.successID++

	seq, s := d.successID, d.session
	return tea.Tick(successTTL, func(time.Time) tea.Msg {
		return clearSuccessMsg{session: s, seq: seq}
	})
}

// Back leaves without saving; unsaved edits are dropped.
func (d *OrderDetail) Back() tea.Cmd {
	return d.onBack()
}

func (d *OrderDetail) View() string {
	if d.loadErr != "" {
		return d.loadErr + "\n"
	}
	if d.order == nil {
		return "Loading...\n"
	}

	o := d.order
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d\n\n", o.ID)

	if d.success != "" {
		b.WriteString(d.success + "\n\n")
	}
	if d.saveErr != "" {
		b.WriteString(d.saveErr + "\n\n")
	}

	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Email:    %s\n", o.CustomerEmail)
	fmt.Fprintf(&b, "Address:  %s\n", o.ShippingAddress)
	fmt.Fprintf(&b, "Date:     %s\n", o.OrderDate.Format(dateLayout))
	fmt.Fprintf(&b, "Total:    $%s\n\n", o.TotalAmount.StringFixed(2))

	b.WriteString("Status: ")
	for _, s := range entities.OrderStatuses() {
		if s == d.edited {
			fmt.Fprintf(&b, "[%s] ", s)
		} else {
			fmt.Fprintf(&b, " %s  ", s)
		}
	}
	if d.edited != o.Status {
		b.WriteString("(unsaved)")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%-30s %8s %12s\n", "Product", "Quantity", "Price")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%-30s %8d %12s\n", truncate(it.ProductName, 30), it.Quantity, "$"+it.PriceAtPurchase.StringFixed(2))
	}

	b.WriteString("\n←/→: status  s: save  esc: back to orders\n")
	return b.String()
}
