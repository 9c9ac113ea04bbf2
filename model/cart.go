package models

// Cart is a shopping cart record.
type Cart struct {
	ID       ID         `json:"id"`
	Products []LineItem `json:"products"`
}

// LineItem is one product entry of a cart. Product is a weak reference to a
// product id; Title is a snapshot taken when the item was first added.
type LineItem struct {
	Product  ID      `json:"product"`
	Title    string  `json:"title"`
	Quantity float64 `json:"quantity"`
}

// NewCart returns an empty cart without an id.
func NewCart() Cart {
	return Cart{Products: []LineItem{}}
}

func (c Cart) RecordID() ID { return c.ID }

func (c Cart) WithID(id ID) Cart {
	c.ID = id
	return c
}

// Items returns the line-items, never nil.
func (c Cart) Items() []LineItem {
	if c.Products == nil {
		return []LineItem{}
	}
	return c.Products
}
