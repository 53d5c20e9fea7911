package domain

// Who to reach at a stop.
type ContactInfo struct {
	Name    string `validate:"required,max=120"`
	Phone   string `validate:"required,max=32"`
	Email   string `validate:"omitempty,email"`
	Company string `validate:"max=120"`
	Notes   string `validate:"max=1000"`
}

// RenumberContacts mirrors RemoveStop for contacts keyed by stop ordinal: the
// removed ordinal is dropped and every later key shifts down by one.
func RenumberContacts(contacts map[int]ContactInfo, removed int) map[int]ContactInfo {
	out := make(map[int]ContactInfo, len(contacts))
	for ordinal, c := range contacts {
		switch {
		case ordinal == removed:
			continue
		case ordinal > removed:
			out[ordinal-1] = c
		default:
			out[ordinal] = c
		}
	}
	return out
}

// ReorderContacts re-keys contacts after stops were permuted. mapping holds
// old ordinal -> new ordinal.
func ReorderContacts(contacts map[int]ContactInfo, mapping map[int]int) map[int]ContactInfo {
	out := make(map[int]ContactInfo, len(contacts))
	for ordinal, c := range contacts {
		if to, ok := mapping[ordinal]; ok {
			out[to] = c
			continue
		}
		out[ordinal] = c
	}
	return out
}
