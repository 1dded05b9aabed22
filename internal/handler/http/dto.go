package http

import "github.com/Fras28/dynnamo-cart/internal/domain"

type addItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type setOpenRequest struct {
	IsOpen bool `json:"isOpen"`
}

type productResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageUrl,omitempty"`
	CategoryID  int64  `json:"categoryId,omitempty"`
}

type lineResponse struct {
	Product  productResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal int64           `json:"subtotal"`
}

type cartResponse struct {
	Lines      []lineResponse `json:"lines"`
	Total      int64          `json:"total"`
	TotalItems int            `json:"totalItems"`
	IsOpen     bool           `json:"isOpen"`
}

type checkoutResponse struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
}

func toCartResponse(c domain.Cart, isOpen bool) cartResponse {
	lines := make([]lineResponse, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, lineResponse{
			Product: productResponse{
				ID:          line.Product.ID,
				Name:        line.Product.Name,
				Description: line.Product.Description,
				Price:       line.Product.Price,
				Stock:       line.Product.Stock,
				ImageURL:    line.Product.ImageURL,
				CategoryID:  line.Product.CategoryID,
			},
			Quantity: line.Quantity,
			Subtotal: line.Subtotal(),
		})
	}

	return cartResponse{
		Lines:      lines,
		Total:      c.Total(),
		TotalItems: c.TotalItems(),
		IsOpen:     isOpen,
	}
}
