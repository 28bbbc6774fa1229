package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 250
)

type Pagination struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Normalize clamps Limit into [1, MaxLimit], using fallback when unset.
func (p Pagination) Normalize(fallback int) Pagination {
	if fallback <= 0 {
		fallback = DefaultLimit
	}
	if p.Limit <= 0 {
		p.Limit = fallback
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
