package domain

// Company is one set of books loaded in Tally. Identity is ID.
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TaxID    string `json:"gstin"`
	Currency string `json:"currency"`
}

// FindCompany returns the company with the given id, if present.
func FindCompany(companies []Company, id string) (Company, bool) {
	for _, c := range companies {
		if c.ID == id {
			return c, true
		}
	}
	return Company{}, false
}
