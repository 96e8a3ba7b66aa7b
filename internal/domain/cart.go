package domain

// CartLineItem is one persisted row in a shopper's cart. The id is assigned
// by the store on insert and immutable afterwards.
type CartLineItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
}

// ItemInput carries the fields of a menu item being added to a cart.
// Quantity is not part of the input: a first add always stores quantity 1.
type ItemInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}
