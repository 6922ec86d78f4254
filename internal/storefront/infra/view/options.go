package view

import "github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/cart"

// CustomizationGroup is one radio group of the product customization form.
type CustomizationGroup struct {
	Field   string
	Choices []string
}

// CustomizationGroups lists the options offered on every product page.
var CustomizationGroups = []CustomizationGroup{
	{
		Field:   cart.WillowTypeField,
		Choices: []string{"english_willow", "duo_core_willow", "premium_english_willow", "practice_willow"},
	},
	{
		Field:   "handle_type",
		Choices: []string{"round_handle", "oval_handle"},
	},
	{
		Field:   "grip_color",
		Choices: []string{"black", "red", "blue", "white"},
	},
}
