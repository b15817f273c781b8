package models

import "time"

// Food is what customers order and machines produce. Two foods are the same
// food when their names match.
type Food struct {
	Name     string
	CookTime int // abstract units, scaled by the kitchen's time unit
}

// String returns the food's name
func (f Food) String() string {
	return f.Name
}

// Duration converts the food's cook time to wall time using unit
func (f Food) Duration(unit time.Duration) time.Duration {
	return time.Duration(f.CookTime) * unit
}

// The four foods on the menu
var (
	Wings = Food{Name: "wings", CookTime: 350}
	Pizza = Food{Name: "pizza", CookTime: 600}
	Sub   = Food{Name: "sub", CookTime: 250}
	Soda  = Food{Name: "soda", CookTime: 20}
)

// Menu lists every food in a stable order
var Menu = []Food{Wings, Pizza, Sub, Soda}

// FixedOrder is the order every customer places when orders are not randomized
func FixedOrder() Items {
	return Items{Wings, Pizza, Sub, Soda}
}
