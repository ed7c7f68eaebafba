package models

// ProductUpdate carries a partial update for a product. Nil fields are left
// untouched by Apply.
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
	StockQuantity *int     `json:"stock_quantity,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	SKU           *string  `json:"sku,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

// Apply merges the set fields over p. Stock is clamped at zero.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Cost != nil {
		p.Cost = *u.Cost
	}
	if u.StockQuantity != nil {
		p.StockQuantity = *u.StockQuantity
		if p.StockQuantity < 0 {
			p.StockQuantity = 0
		}
	}
	if u.Unit != nil {
		p.Unit = *u.Unit
	}
	if u.SKU != nil {
		p.SKU = *u.SKU
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
}

// CustomerUpdate carries a partial update for a customer. The derived
// TotalOrders/TotalSpent fields are deliberately absent: they belong to the
// stats engine.
type CustomerUpdate struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Pincode *string `json:"pincode,omitempty"`
}

// Apply merges the set fields over c.
func (u CustomerUpdate) Apply(c *Customer) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.Address != nil {
		c.Address = *u.Address
	}
	if u.City != nil {
		c.City = *u.City
	}
	if u.State != nil {
		c.State = *u.State
	}
	if u.Pincode != nil {
		c.Pincode = *u.Pincode
	}
}
