package drinks

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/model"
)

// FieldSet declares which optional form fields apply to a drink type.
type FieldSet struct {
	Iced            bool `json:"iced"`
	Milk            bool `json:"milk"`
	MilkAmount      bool `json:"milkAmount"`
	Sweetener       bool `json:"sweetener"`
	SweetenerAmount bool `json:"sweetenerAmount"`
	Notes           bool `json:"notes"`
}

// Config describes one drink type: its named variants and the shape of the
// order form when the type is selected.
type Config struct {
	Type                 string   `json:"type"`
	Variants             []string `json:"variants"`
	AllowOtherVariant    bool     `json:"allowOtherVariant"`
	AllowCustomDrinkName bool     `json:"allowCustomDrinkName"`
	Fields               FieldSet `json:"fields"`
}

var Catalog = []Config{
	{
		Type:              "Coffee",
		Variants:          []string{"Americano", "Latte", "Cappuccino", "Flat White", "Espresso", "Mocha"},
		AllowOtherVariant: true,
		Fields:            FieldSet{Iced: true, Milk: true, MilkAmount: true, Sweetener: true, SweetenerAmount: true, Notes: true},
	},
	{
		Type:              "Tea",
		Variants:          []string{"English Breakfast", "Earl Grey", "Green", "Peppermint", "Chamomile"},
		AllowOtherVariant: true,
		Fields:            FieldSet{Iced: true, Milk: true, MilkAmount: true, Sweetener: true, SweetenerAmount: true, Notes: true},
	},
	{
		Type:     "Hot Chocolate",
		Variants: []string{"Classic", "White", "Mint"},
		Fields:   FieldSet{Milk: true, MilkAmount: true, Notes: true},
	},
	{
		Type:              "Juice",
		Variants:          []string{"Orange", "Apple", "Cranberry"},
		AllowOtherVariant: true,
		Fields:            FieldSet{Notes: true},
	},
	{
		Type:                 "Other",
		Variants:             []string{},
		AllowCustomDrinkName: true,
		Fields:               FieldSet{Notes: true},
	},
}

var (
	MilkTypes   = []string{"None", "Regular", "Semi-skimmed", "Oat", "Almond", "Soy"}
	MilkAmounts = []string{"Splish", "Splash", "Splosh"}

	SweetenerTypes = []string{"Sugar", "Brown Sugar", "Honey", "Sweetener", "None"}
)

const (
	SweetenerMin  = 0.0
	SweetenerMax  = 5.0
	SweetenerStep = 0.5

	defaultMilkAmount = "Splash"
)

// Lookup returns the config for a drink type.
func Lookup(drinkType string) (Config, bool) {
	for _, c := range Catalog {
		if c.Type == drinkType {
			return c, true
		}
	}
	return Config{}, false
}

// Types lists the catalog's drink type names in display order.
func Types() []string {
	types := make([]string, len(Catalog))
	for i, c := range Catalog {
		types[i] = c.Type
	}
	return types
}

// EmptyForm returns a blank order form with the field defaults.
func EmptyForm() model.OrderForm {
	return model.OrderForm{
		MilkType:      "None",
		MilkAmount:    defaultMilkAmount,
		SweetenerType: "None",
	}
}

// ApplyType switches the form to a new drink type. Variant, custom variant,
// iced and the amounts always reset; milk and sweetener selections survive the
// switch when the new type still allows them, otherwise they drop to None.
// The custom drink name only survives on types that use one.
func ApplyType(form model.OrderForm, drinkType string) model.OrderForm {
	config, _ := Lookup(drinkType)

	next := form
	next.DrinkType = drinkType
	next.Variant = ""
	next.CustomVariant = ""
	next.Iced = false
	next.MilkAmount = defaultMilkAmount
	next.SweetenerAmount = 0
	if !config.Fields.Milk {
		next.MilkType = "None"
	}
	if !config.Fields.Sweetener {
		next.SweetenerType = "None"
	}
	if !config.AllowCustomDrinkName {
		next.CustomDrinkName = ""
	}
	return next
}

var (
	ErrPersonNameRequired = errors.New("person name is required")
	ErrDrinkTypeRequired  = errors.New("drink type is required")
)

// ValidateForm applies the submission gate: a trimmed person name and a
// chosen drink type. Everything else on the form is free-form.
func ValidateForm(form model.OrderForm) error {
	if strings.TrimSpace(form.PersonName) == "" {
		return ErrPersonNameRequired
	}
	if form.DrinkType == "" {
		return ErrDrinkTypeRequired
	}
	return nil
}

// Aspect is one pill of an order's display summary.
type Aspect struct {
	Category string `json:"category"`
	Label    string `json:"label"`
}

// Summary derives the pill row shown on an order card: drink type, then the
// iced / variant / milk / sweetener aspects that apply.
func Summary(form model.OrderForm) []Aspect {
	aspects := []Aspect{{Category: "drink", Label: form.DrinkType}}

	if form.Iced {
		aspects = append(aspects, Aspect{Category: "iced", Label: "Iced"})
	}
	if form.Variant != "" && form.Variant != "Other" {
		aspects = append(aspects, Aspect{Category: "variant", Label: form.Variant})
	}
	if form.CustomVariant != "" {
		aspects = append(aspects, Aspect{Category: "variant", Label: form.CustomVariant})
	}
	if form.CustomDrinkName != "" {
		aspects = append(aspects, Aspect{Category: "variant", Label: form.CustomDrinkName})
	}
	if form.MilkType != "" && form.MilkType != "None" {
		aspects = append(aspects, Aspect{
			Category: "milk",
			Label:    strings.TrimSpace(fmt.Sprintf("%s %s milk", form.MilkAmount, form.MilkType)),
		})
	}
	if form.SweetenerType != "" && form.SweetenerType != "None" {
		aspects = append(aspects, Aspect{
			Category: "sweetener",
			Label:    fmt.Sprintf("%g %s", form.SweetenerAmount, form.SweetenerType),
		})
	}
	return aspects
}
