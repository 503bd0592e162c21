package pagination

import "gorm.io/gorm"

const defaultLimit = 10

// LimitOffset holds offset-based pagination parameters parsed from
// query strings. Out-of-range values are coerced to defaults rather
// than rejected.
type LimitOffset struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Defaults coerces non-positive limits and negative offsets.
func (p *LimitOffset) Defaults() {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT.
func Paginate(p LimitOffset) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}
