package domain

import "github.com/shopspring/decimal"

// CartItem is a product with the quantity placed in the cart.
// Product fields are flattened into the JSON object.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity
func (i CartItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an immutable cart value. Every operation returns a new Cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

// NewCart builds a cart from existing items
func NewCart(items ...CartItem) Cart {
	return Cart{Items: append([]CartItem(nil), items...)}
}

// Add puts quantity units of product in the cart, merging with an existing line.
// Non-positive quantities add a single unit.
func (c Cart) Add(product Product, quantity int) Cart {
	if quantity <= 0 {
		quantity = 1
	}

	items := make([]CartItem, 0, len(c.Items)+1)
	found := false
	for _, item := range c.Items {
		if item.ID == product.ID {
			item.Quantity += quantity
			found = true
		}
		items = append(items, item)
	}
	if !found {
		items = append(items, CartItem{Product: product, Quantity: quantity})
	}
	return Cart{Items: items}
}

// UpdateQuantity sets the quantity of a line; zero or less removes it
func (c Cart) UpdateQuantity(productID int64, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(productID)
	}

	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID == productID {
			item.Quantity = quantity
		}
		items = append(items, item)
	}
	return Cart{Items: items}
}

// Remove drops the line for productID
func (c Cart) Remove(productID int64) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID != productID {
			items = append(items, item)
		}
	}
	return Cart{Items: items}
}

// TotalPrice returns the cart total rounded to cents
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

// TotalItems returns the number of units across all lines
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CartLine identifies a product and quantity in a client-held cart
type CartLine struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0,lte=99"`
}

// CartRequest is the cart state sent by the storefront
type CartRequest struct {
	Items []CartLine `json:"items" binding:"required,dive"`
}

// CartSummary is a priced cart
type CartSummary struct {
	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Summary prices the cart
func (c Cart) Summary() CartSummary {
	return CartSummary{
		Items:      c.Items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}

// CheckoutSession is the hosted checkout page returned by the payment collaborator
type CheckoutSession struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
}
