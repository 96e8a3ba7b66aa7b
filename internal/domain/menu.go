package domain

// MenuItem is one entry on the café menu.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Popular     bool    `json:"popular"`
	Position    int     `json:"-"`
}
