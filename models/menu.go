package models

import "github.com/shopspring/decimal"

type MenuItem struct {
	Name      string
	UnitPrice decimal.Decimal
}

// Menu is the fixed drink catalog, in display order.
var Menu = []MenuItem{
	{Name: "Espresso", UnitPrice: decimal.RequireFromString("2.50")},
	{Name: "Latte", UnitPrice: decimal.RequireFromString("3.50")},
	{Name: "Cappuccino", UnitPrice: decimal.RequireFromString("3.00")},
	{Name: "Americano", UnitPrice: decimal.RequireFromString("2.00")},
	{Name: "Mocha", UnitPrice: decimal.RequireFromString("4.00")},
}

var SugarOptions = []string{
	"No sugar",
	"One teaspoon",
	"Two teaspoons",
	"Three teaspoons",
}

var MilkOptions = []string{
	"No milk",
	"Whole milk",
	"Skim milk",
	"Soy milk",
	"Almond milk",
}

const (
	NoWhippedCream  = "No whipped cream"
	AddWhippedCream = "Add whipped cream"
)

var WhippedCreamOptions = []string{NoWhippedCream, AddWhippedCream}

// MenuNames returns catalog names in display order.
func MenuNames() []string {
	names := make([]string, len(Menu))
	for i, m := range Menu {
		names[i] = m.Name
	}
	return names
}

// FindMenuItem looks up a catalog entry by exact name.
func FindMenuItem(name string) (MenuItem, bool) {
	for _, m := range Menu {
		if m.Name == name {
			return m, true
		}
	}
	return MenuItem{}, false
}

// FormatPrice renders an amount as dollars with two decimals, e.g. "$3.50".
func FormatPrice(p decimal.Decimal) string {
	return "$" + p.StringFixed(2)
}
