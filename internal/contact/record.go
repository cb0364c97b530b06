package contact

// Record is the structured result of one extraction. Empty string means the
// field was not found.
type Record struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Title   string `json:"title"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Address string `json:"address"`
	Notes   string `json:"notes"` // user-owned, never filled by extraction
	Raw     string `json:"raw"`   // untouched input text
}

// Columns is the fixed field order used by tabular exports.
var Columns = []string{"name", "company", "title", "phone", "email", "website", "address", "notes"}

// Field returns the value of a column by name, or "" for unknown names.
func (r Record) Field(name string) string {
	switch name {
	case "name":
		return r.Name
	case "company":
		return r.Company
	case "title":
		return r.Title
	case "phone":
		return r.Phone
	case "email":
		return r.Email
	case "website":
		return r.Website
	case "address":
		return r.Address
	case "notes":
		return r.Notes
	case "raw":
		return r.Raw
	default:
		return ""
	}
}

// Values returns the record in Columns order.
func (r Record) Values() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = r.Field(c)
	}
	return out
}

// IsEmpty reports whether no contact field (ignoring Notes and Raw) was found.
func (r Record) IsEmpty() bool {
	return r.Name == "" && r.Company == "" && r.Title == "" && r.Phone == "" &&
		r.Email == "" && r.Website == "" && r.Address == ""
}
