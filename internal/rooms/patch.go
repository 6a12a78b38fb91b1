package rooms

// Patch lists the room fields a host may overwrite. Nil fields are left alone;
// host identity and the booked flag are not patchable.
type Patch struct {
	Title       *string  `json:"title"`
	Location    *string  `json:"location"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Price       *float64 `json:"price"`
	Guests      *int     `json:"guests"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	From        *string  `json:"from"`
	To          *string  `json:"to"`
}

// assignments returns the columns to set and their values, in a stable order.
func (p Patch) assignments() ([]string, []interface{}) {
	var cols []string
	var args []interface{}
	add := func(col string, set bool, v interface{}) {
		if set {
			cols = append(cols, col)
			args = append(args, v)
		}
	}
	add("title", p.Title != nil, deref(p.Title))
	add("location", p.Location != nil, deref(p.Location))
	add("category", p.Category != nil, deref(p.Category))
	add("description", p.Description != nil, deref(p.Description))
	add("image", p.Image != nil, deref(p.Image))
	if p.Price != nil {
		add("price", true, *p.Price)
	}
	if p.Guests != nil {
		add("guests", true, *p.Guests)
	}
	if p.Bedrooms != nil {
		add("bedrooms", true, *p.Bedrooms)
	}
	if p.Bathrooms != nil {
		add("bathrooms", true, *p.Bathrooms)
	}
	add("from_date", p.From != nil, deref(p.From))
	add("to_date", p.To != nil, deref(p.To))
	return cols, args
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool {
	cols, _ := p.assignments()
	return len(cols) == 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
