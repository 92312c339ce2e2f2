package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

type Field int

const (
	FieldName Field = iota
	FieldDescription
	FieldPrice
	FieldCategory
	FieldStockQuantity
	FieldImageURL

	fieldCount
)

var fieldLabels = [fieldCount]string{
	FieldName:          "Name",
	FieldDescription:   "Description",
	FieldPrice:         "Price",
	FieldCategory:      "Category",
	FieldStockQuantity: "Stock Quantity",
	FieldImageURL:      "Image URL",
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldLabels[f]
}

// FormValues holds raw input exactly as typed.
type FormValues map[Field]string

const serverErrorMessage = "Invalid product data"

// ValidateProductForm returns a message per invalid field; empty means the form can be sent.
func ValidateProductForm(values FormValues) map[Field]string {
	errs := make(map[Field]string)

	if blank(values[FieldName]) {
		errs[FieldName] = "Name is required"
	}
	if blank(values[FieldDescription]) {
		errs[FieldDescription] = "Description is required"
	}
	price, err := decimal.NewFromString(strings.TrimSpace(values[FieldPrice]))
	switch {
	case err != nil || !price.IsPositive():
		errs[FieldPrice] = "Price must be a positive number"
	case !entities.PriceFits(price):
		errs[FieldPrice] = "Price must be below 10000000000 with at most 2 decimal places"
	}
	if blank(values[FieldCategory]) {
		errs[FieldCategory] = "Category is required"
	}
	if stock, err := strconv.Atoi(strings.TrimSpace(values[FieldStockQuantity])); err != nil || stock < 0 {
		errs[FieldStockQuantity] = "Stock quantity must be non-negative"
	}
	if blank(values[FieldImageURL]) {
		errs[FieldImageURL] = "Image URL is required"
	}
	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// draftFromValues expects values that passed ValidateProductForm.
func draftFromValues(values FormValues) entities.ProductDraft {
	price := decimal.RequireFromString(strings.TrimSpace(values[FieldPrice]))
	stock, _ := strconv.Atoi(strings.TrimSpace(values[FieldStockQuantity]))

	return entities.ProductDraft{
		Name:          strings.TrimSpace(values[FieldName]),
		Description:   strings.TrimSpace(values[FieldDescription]),
		Price:         &price,
		Category:      strings.TrimSpace(values[FieldCategory]),
		StockQuantity: &stock,
		ImageURL:      strings.TrimSpace(values[FieldImageURL]),
	}
}

type ProductForm struct {
	ctx     context.Context
	api     ProductAPI
	session session

	values     FormValues
	errors     map[Field]string
	serverErr  string
	focus      Field
	submitting bool

	onSaved  func(entities.Product) tea.Cmd
	onCancel func() tea.Cmd
}

func NewProductForm(ctx context.Context, api ProductAPI, sessionID int, onSaved func(entities.Product) tea.Cmd, onCancel func() tea.Cmd) *ProductForm {
	return &ProductForm{
		ctx:      ctx,
		api:      api,
		session:  session(sessionID),
		values:   make(FormValues),
		errors:   make(map[Field]string),
		onSaved:  onSaved,
		onCancel: onCancel,
	}
}

func (f *ProductForm) Init() tea.Cmd {
	return nil
}

func (f *ProductForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case productSavedMsg:
		f.submitting = false
		if msg.err != nil {
			f.serverErr = serverErrorMessage
			return nil
		}
		return f.onSaved(msg.product)
	case tea.KeyMsg:
		return f.handleKey(msg)
	}
	return nil
}

func (f *ProductForm) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return f.Cancel()
	case tea.KeyEnter, tea.KeyCtrlS:
		return f.Submit()
	case tea.KeyTab, tea.KeyDown:
		f.focus = (f.focus + 1) % fieldCount
	case tea.KeyShiftTab, tea.KeyUp:
		f.focus = (f.focus + fieldCount - 1) % fieldCount
	case tea.KeyBackspace:
		r := []rune(f.values[f.focus])
		if len(r) > 0 {
			f.SetValue(f.focus, string(r[:len(r)-1]))
		}
	case tea.KeySpace:
		f.SetValue(f.focus, f.values[f.focus]+" ")
	case tea.KeyRunes:
		f.SetValue(f.focus, f.values[f.focus]+string(msg.Runes))
	}
	return nil
}

// SetValue edits one field and clears its error and the server error.
func (f *ProductForm) SetValue(field Field, value string) {
	f.values[field] = value
	delete(f.errors, field)
	f.serverErr = ""
}

func (f *ProductForm) Values() FormValues {
	out := make(FormValues, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f *ProductForm) Errors() map[Field]string {
	return f.errors
}

func (f *ProductForm) ServerError() string {
	return f.serverErr
}

func (f *ProductForm) CanSave() bool {
	return !f.submitting && len(ValidateProductForm(f.values)) == 0
}

// Submit re-validates and sends the draft once; invalid input makes no call.
func (f *ProductForm) Submit() tea.Cmd {
	if f.submitting {
		return nil
	}
	if errs := ValidateProductForm(f.values); len(errs) > 0 {
		f.errors = errs
		return nil
	}

	f.submitting = true
	draft := draftFromValues(f.values)
	return func() tea.Msg {
		product, err := f.api.CreateProduct(f.ctx, draft)
		return productSavedMsg{session: f.session, product: product, err: err}
	}
}

func (f *ProductForm) Cancel() tea.Cmd {
	return f.onCancel()
}

func (f *ProductForm) View() string {
	var b strings.Builder
	b.WriteString("Add Product\n\n")

	if f.serverErr != "" {
		b.WriteString(f.serverErr + "\n\n")
	}

	for field := Field(0); field < fieldCount; field++ {
		cursor := " "
		if field == f.focus {
			cursor = ">"
		}
		fmt.Fprintf(&b, "%s %-15s %s\n", cursor, field.String()+":", f.values[field])
		if msg, ok := f.errors[field]; ok {
			fmt.Fprintf(&b, "  %-15s %s\n", "", msg)
		}
	}

	save := "enter: save"
	if !f.CanSave() {
		save = "(fill all fields to save)"
	}
	fmt.Fprintf(&b, "\ntab/↑/↓: move  %s  esc: cancel\n", save)
	return b.String()
}
