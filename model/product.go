package models

// Product is a catalog record.
type Product struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Status      bool     `json:"status"`
	Thumbnails  []string `json:"thumbnails"`
}

func (p Product) RecordID() ID { return p.ID }

func (p Product) WithID(id ID) Product {
	p.ID = id
	return p
}

// ProductInput is a product payload as sent by a client. Optional fields are
// pointers so that an absent value can be told apart from a zero value.
type ProductInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    string   `json:"category"`
	Status      *bool    `json:"status"`
	Thumbnails  []string `json:"thumbnails"`
}

// MissingFields lists the mandatory creation fields absent from the input.
func (in ProductInput) MissingFields() []string {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.Code == "" {
		missing = append(missing, "code")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if in.Stock == nil {
		missing = append(missing, "stock")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	return missing
}

// ProductDefaults holds the values used for optional product fields.
type ProductDefaults struct {
	Status     bool
	Thumbnails []string
}

// DefaultProductDefaults: active, no thumbnails.
func DefaultProductDefaults() ProductDefaults {
	return ProductDefaults{Status: true, Thumbnails: []string{}}
}

// Product builds a record from the input, filling optional fields from d.
// The id is left for the store to assign.
func (in ProductInput) Product(d ProductDefaults) Product {
	p := Product{
		Title:       in.Title,
		Description: in.Description,
		Code:        in.Code,
		Category:    in.Category,
		Status:      d.Status,
		Thumbnails:  in.Thumbnails,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if p.Thumbnails == nil {
		p.Thumbnails = append([]string{}, d.Thumbnails...)
	}
	return p
}
