package models

// Cookie is the wire shape of one record in the cookie export file.
//
// Browser extensions ("Get cookies.txt", EditThisCookie, ...) write
// expiry as a float "expirationDate"; the DevTools protocol wants an
// integer "expires". Both fields are accepted here and reconciled by
// the cookies package.
type Cookie struct {
	Name           string   `json:"name"`
	Value          string   `json:"value"`
	Domain         string   `json:"domain"`
	Path           string   `json:"path,omitempty"`
	Secure         bool     `json:"secure,omitempty"`
	HTTPOnly       bool     `json:"httpOnly,omitempty"`
	Expires        *float64 `json:"expires,omitempty"`
	ExpirationDate *float64 `json:"expirationDate,omitempty"`
}

// MenuItem is one discovered navigation link, in discovery order.
type MenuItem struct {
	Index int    // 1-based position within the winning selector's matches
	Label string // trimmed visible text of the anchor
	URL   string // fully-qualified target URL
}

// ItemStatus is the outcome of one export-loop iteration.
type ItemStatus string

const (
	StatusProcessed ItemStatus = "processed"
	StatusSkipped   ItemStatus = "skipped"
	StatusErrored   ItemStatus = "errored"
)

// ItemResult records what happened to a single menu item.
type ItemResult struct {
	Item   MenuItem
	Status ItemStatus
	File   string // output path, set for processed and skipped items
	Err    error  // set for errored items
}

// Summary aggregates a full export run.
type Summary struct {
	Selector  string // the winning navigation selector
	Processed int
	Skipped   int
	Errored   int
	Results   []ItemResult
}

// Add records one item result and bumps the matching counter.
func (s *Summary) Add(r ItemResult) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusProcessed:
		s.Processed++
	case StatusSkipped:
		s.Skipped++
	case StatusErrored:
		s.Errored++
	}
}
