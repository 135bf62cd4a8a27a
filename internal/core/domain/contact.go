package domain

// Address is a user-owned postal address. For a fixed owner at most one
// address has IsDefault set, and exactly one whenever the collection is
// non-empty.
type Address struct {
	ID        string
	UserID    string
	Street    string
	City      string
	State     string
	Country   string
	IsDefault bool
}

// Phone is a user-owned phone number, subject to the same single-default
// rule as addresses.
type Phone struct {
	ID        string
	UserID    string
	Number    string
	IsDefault bool
}

// DefaultItem is implemented by the pointer form of any per-user collection
// element carrying a default flag.
type DefaultItem[T any] interface {
	*T
	Key() string
	Default() bool
	SetDefault(bool)
}

func (a *Address) Key() string       { return a.ID }
func (a *Address) Default() bool     { return a.IsDefault }
func (a *Address) SetDefault(v bool) { a.IsDefault = v }

func (p *Phone) Key() string       { return p.ID }
func (p *Phone) Default() bool     { return p.IsDefault }
func (p *Phone) SetDefault(v bool) { p.IsDefault = v }

// NextDefault picks the replacement default after the item with removedKey
// is deleted: the first remaining item, in collection order. Returns false
// when nothing remains.
func NextDefault[T any, PT DefaultItem[T]](items []T, removedKey string) (string, bool) {
	for i := range items {
		item := PT(&items[i])
		if item.Key() != removedKey {
			return item.Key(), true
		}
	}
	return "", false
}

// HasDefault reports whether any item in the collection carries the default
// flag.
func HasDefault[T any, PT DefaultItem[T]](items []T) bool {
	for i := range items {
		if PT(&items[i]).Default() {
			return true
		}
	}
	return false
}
