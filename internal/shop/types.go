package shop

import (
	"strconv"
	"time"
)

// Category groups products in the catalog.
type Category struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	CreatedAt   time.Time
}

// Product is one catalog entry. Price is in UZS, stored as a whole number.
type Product struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	Price       int64
	ImageURL    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormattedPrice renders the price with thousand separators and the UZS
// currency code, e.g. "1 500 000 UZS".
func (p Product) FormattedPrice() string { return FormatUZS(p.Price) }

// FormatUZS renders a UZS amount with space-separated thousands.
func FormatUZS(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, c)
	}
	if neg {
		out = append([]byte{'-'}, out...)
	}
	return string(out) + " UZS"
}

// Customer is a Telegram user who has gone through checkout at least once.
type Customer struct {
	ID         int64
	TelegramID int64
	Name       string
	Phone      string
	Address    string
	CreatedAt  time.Time
}

// CartItem is a product in a customer's cart, joined with the product row
// for display.
type CartItem struct {
	ID         int64
	CustomerID int64
	ProductID  int64
	Quantity   int
	Product    Product
}

// Subtotal is the current product price times quantity.
func (ci CartItem) Subtotal() int64 { return ci.Product.Price * int64(ci.Quantity) }

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderNew        OrderStatus = "NEW"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// Order is a placed order with its line items.
type Order struct {
	ID         int64
	CustomerID int64
	Status     OrderStatus
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Items      []OrderItem
}

// Total sums the line item subtotals.
func (o Order) Total() int64 {
	var t int64
	for _, it := range o.Items {
		t += it.Subtotal()
	}
	return t
}

// OrderItem freezes the product price at order time.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       int64
}

// Subtotal is the frozen price times quantity.
func (oi OrderItem) Subtotal() int64 { return oi.Price * int64(oi.Quantity) }
