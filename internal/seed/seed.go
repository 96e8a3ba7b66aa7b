package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type menuSeed struct {
	Name        string
	Price       float64
	Description string
	Popular     bool
}

type categorySeed struct {
	Title string
	Items []menuSeed
}

// Apply inserts the café menu. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	position := 0
	for _, cat := range menuCategories {
		for _, item := range cat.Items {
			position++
			if err := upsertMenuItem(ctx, pool, cat.Title, item, position); err != nil {
				return fmt.Errorf("upsert menu item %q: %w", item.Name, err)
			}
		}
	}
	return nil
}

func upsertMenuItem(ctx context.Context, pool *pgxpool.Pool, category string, item menuSeed, position int) error {
	const q = `
INSERT INTO menu_items (name, price, description, category, popular, position)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (name, category) DO UPDATE
SET price = EXCLUDED.price,
    description = EXCLUDED.description,
    popular = EXCLUDED.popular,
    position = EXCLUDED.position
`
	_, err := pool.Exec(ctx, q, item.Name, item.Price, item.Description, category, item.Popular, position)
	return err
}

var menuCategories = []categorySeed{
	{
		Title: "Hot Drinks",
		Items: []menuSeed{
			{Name: "Classic Espresso", Price: 3.50, Description: "Rich, bold shot of pure coffee perfection"},
			{Name: "Cappuccino", Price: 4.75, Description: "Espresso with steamed milk and foam art"},
			{Name: "Caramel Macchiato", Price: 5.25, Description: "Vanilla syrup, steamed milk, espresso, and caramel"},
			{Name: "House Blend Drip Coffee", Price: 2.95, Description: "Our signature medium roast blend"},
			{Name: "Mocha Latte", Price: 5.50, Description: "Chocolate and espresso with steamed milk"},
			{Name: "Chai Tea Latte", Price: 4.95, Description: "Spiced chai blend with steamed milk"},
		},
	},
	{
		Title: "Cold Drinks",
		Items: []menuSeed{
			{Name: "Iced Coffee", Price: 3.75, Description: "Smooth cold brew over ice"},
			{Name: "Frappuccino", Price: 5.95, Description: "Blended coffee drink with whipped cream"},
			{Name: "Cold Brew", Price: 4.25, Description: "Slow-steeped for 12 hours, naturally sweet"},
			{Name: "Iced Vanilla Latte", Price: 5.25, Description: "Espresso, milk, and vanilla over ice"},
			{Name: "Fruit Smoothie", Price: 6.50, Description: "Fresh fruit blended with yogurt"},
			{Name: "Iced Tea", Price: 2.95, Description: "Fresh brewed tea served over ice"},
		},
	},
	{
		Title: "Pastries & Baked Goods",
		Items: []menuSeed{
			{Name: "Croissant", Price: 3.25, Description: "Buttery, flaky French pastry", Popular: true},
			{Name: "Blueberry Muffin", Price: 3.75, Description: "Fresh blueberries in tender muffin"},
			{Name: "Chocolate Chip Cookie", Price: 2.50, Description: "Warm, gooey chocolate chip goodness"},
			{Name: "Danish Pastry", Price: 4.25, Description: "Sweet pastry with seasonal fruit"},
			{Name: "Bagel with Cream Cheese", Price: 4.50, Description: "Fresh bagel with artisan cream cheese"},
			{Name: "Scone", Price: 3.95, Description: "Traditional British pastry with jam"},
		},
	},
	{
		Title: "Snacks & Light Bites",
		Items: []menuSeed{
			{Name: "Avocado Toast", Price: 7.95, Description: "Smashed avocado on artisan bread", Popular: true},
			{Name: "Grilled Panini", Price: 8.50, Description: "Fresh ingredients pressed to perfection"},
			{Name: "Greek Yogurt Parfait", Price: 6.25, Description: "Yogurt layered with granola and berries"},
			{Name: "Quinoa Salad", Price: 9.95, Description: "Fresh vegetables with quinoa and dressing"},
			{Name: "Hummus & Veggie Wrap", Price: 7.75, Description: "Fresh vegetables with creamy hummus"},
			{Name: "Soup of the Day", Price: 5.95, Description: "Ask your barista about today's selection"},
		},
	},
}
