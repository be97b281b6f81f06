package domain

// StatusActive marks master records that take part in matching
const StatusActive = "Active"

// Stockist is a distributor from the stockist master list
type Stockist struct {
	Code   string `json:"code" yaml:"code" db:"stockist_code" validate:"required"`
	Name   string `json:"name" yaml:"name" db:"stockist_name" validate:"required"`
	City   string `json:"city,omitempty" yaml:"city" db:"city"`
	HQ     string `json:"hq,omitempty" yaml:"hq" db:"hq"`
	Status string `json:"status,omitempty" yaml:"status" db:"status"`
}

// Product is a catalog entry from the product master
type Product struct {
	Code           string  `json:"code" yaml:"code" db:"product_code" validate:"required"`
	Name           string  `json:"name" yaml:"name" db:"product_name" validate:"required"`
	Pack           string  `json:"pack,omitempty" yaml:"pack" db:"pack"`
	PackConversion string  `json:"packConversion,omitempty" yaml:"pack_conversion" db:"pack_conversion"`
	Division       string  `json:"division,omitempty" yaml:"division" db:"division"`
	Group          string  `json:"group,omitempty" yaml:"group" db:"product_group"`
	PTS            float64 `json:"pts" yaml:"pts" db:"pts" validate:"gte=0"`
	PTR            float64 `json:"ptr" yaml:"ptr" db:"ptr" validate:"gte=0"`
	MRP            float64 `json:"mrp" yaml:"mrp" db:"mrp" validate:"gte=0"`
	Status         string  `json:"status,omitempty" yaml:"status" db:"status"`
}

// IsActive reports whether the stockist takes part in matching. An empty status counts as active.
func (s Stockist) IsActive() bool {
	return s.Status == "" || s.Status == StatusActive
}

// IsActive reports whether the product takes part in matching. An empty status counts as active.
func (p Product) IsActive() bool {
	return p.Status == "" || p.Status == StatusActive
}
