package model

// TimestampLayout is RFC3339 with fixed-width nanoseconds. RFC3339Nano trims
// trailing fractional zeros, which breaks lexicographic ordering of the
// encoded strings; the fixed width keeps string order equal to time order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one ordering session for a group. A run stays active until it is
// archived; it is never deleted.
type Run struct {
	ID         string  `json:"id"`
	UserID     string  `json:"userId"`
	CreatedAt  string  `json:"createdAt"`
	ArchivedAt *string `json:"archivedAt"`
}

// Active reports whether the run has not been archived yet.
func (r Run) Active() bool {
	return r.ArchivedAt == nil
}

// OrderForm holds the user-editable part of an order. It is also the payload
// stored inside a SavedOrder template.
type OrderForm struct {
	PersonName      string  `json:"personName"`
	DrinkType       string  `json:"drinkType"`
	Variant         string  `json:"variant"`
	CustomVariant   string  `json:"customVariant"`
	Iced            bool    `json:"iced"`
	MilkType        string  `json:"milkType"`
	MilkAmount      string  `json:"milkAmount"`
	SweetenerType   string  `json:"sweetenerType"`
	SweetenerAmount float64 `json:"sweetenerAmount"`
	CustomDrinkName string  `json:"customDrinkName"`
	Notes           string  `json:"notes"`
}

// Order is one person's drink request within a run.
type Order struct {
	ID    string `json:"id"`
	RunID string `json:"runId"`
	OrderForm
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// OrderPatch carries a partial order update; nil fields are left untouched.
type OrderPatch struct {
	PersonName      *string  `json:"personName"`
	DrinkType       *string  `json:"drinkType"`
	Variant         *string  `json:"variant"`
	CustomVariant   *string  `json:"customVariant"`
	Iced            *bool    `json:"iced"`
	MilkType        *string  `json:"milkType"`
	MilkAmount      *string  `json:"milkAmount"`
	SweetenerType   *string  `json:"sweetenerType"`
	SweetenerAmount *float64 `json:"sweetenerAmount"`
	CustomDrinkName *string  `json:"customDrinkName"`
	Notes           *string  `json:"notes"`
}

// Apply merges the patch onto form and returns the result.
func (p OrderPatch) Apply(form OrderForm) OrderForm {
	if p.PersonName != nil {
		form.PersonName = *p.PersonName
	}
	if p.DrinkType != nil {
		form.DrinkType = *p.DrinkType
	}
	if p.Variant != nil {
		form.Variant = *p.Variant
	}
	if p.CustomVariant != nil {
		form.CustomVariant = *p.CustomVariant
	}
	if p.Iced != nil {
		form.Iced = *p.Iced
	}
	if p.MilkType != nil {
		form.MilkType = *p.MilkType
	}
	if p.MilkAmount != nil {
		form.MilkAmount = *p.MilkAmount
	}
	if p.SweetenerType != nil {
		form.SweetenerType = *p.SweetenerType
	}
	if p.SweetenerAmount != nil {
		form.SweetenerAmount = *p.SweetenerAmount
	}
	if p.CustomDrinkName != nil {
		form.CustomDrinkName = *p.CustomDrinkName
	}
	if p.Notes != nil {
		form.Notes = *p.Notes
	}
	return form
}

// PatchFrom builds a patch that sets every field of form. Used when a whole
// form submission edits an existing order.
func PatchFrom(form OrderForm) OrderPatch {
	return OrderPatch{
		PersonName:      &form.PersonName,
		DrinkType:       &form.DrinkType,
		Variant:         &form.Variant,
		CustomVariant:   &form.CustomVariant,
		Iced:            &form.Iced,
		MilkType:        &form.MilkType,
		MilkAmount:      &form.MilkAmount,
		SweetenerType:   &form.SweetenerType,
		SweetenerAmount: &form.SweetenerAmount,
		CustomDrinkName: &form.CustomDrinkName,
		Notes:           &form.Notes,
	}
}

// SavedOrder is a reusable order template ("usual") owned by a user,
// independent of any run.
type SavedOrder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	OrderData OrderForm `json:"orderData"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}
