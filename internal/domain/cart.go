package domain

// Product is a catalog product as seen by the cart. The cart never mutates
// products; each line carries a snapshot taken at add time.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Price is the unit price in cents.
	Price      int64  `json:"price"`
	Stock      int    `json:"stock"`
	ImageURL   string `json:"image_url,omitempty"`
	CategoryID int64  `json:"category_id,omitempty"`
}

// CartLine is one product snapshot plus its requested quantity.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns the line price in cents.
func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart is an ordered collection of cart lines. Order is insertion order and
// carries no meaning beyond display. At most one line exists per product ID.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Total returns the sum of line subtotals in cents.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Subtotal()
	}
	return total
}

// TotalItems returns the sum of quantities across all lines, not the number
// of distinct lines.
func (c *Cart) TotalItems() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// FindLine returns the index of the line holding the given product ID, or -1.
func (c *Cart) FindLine(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() Cart {
	if len(c.Lines) == 0 {
		return Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
