package valueobject

import (
	"encoding/json"
	"errors"
	"strings"
)

// Address is a value object for shipping and billing addresses.
// It is immutable; construct via NewAddress.
type Address struct {
	fullName string
	phone    string
	line1    string
	line2    string
	ward     string
	district string
	city     string
	country  string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithLine2 sets the optional second address line
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithWard sets the ward subdivision
func WithWard(ward string) AddressOption {
	return func(a *Address) {
		a.ward = strings.TrimSpace(ward)
	}
}

// WithCountry overrides the default country
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// NewAddress creates a new Address. Full name, phone, first line,
// district and city are required.
func NewAddress(fullName, phone, line1, district, city string, opts ...AddressOption) (Address, error) {
	fullName = strings.TrimSpace(fullName)
	phone = strings.TrimSpace(phone)
	line1 = strings.TrimSpace(line1)
	district = strings.TrimSpace(district)
	city = strings.TrimSpace(city)

	if fullName == "" {
		return Address{}, errors.New("recipient name is required")
	}
	if phone == "" {
		return Address{}, errors.New("phone number is required")
	}
	if line1 == "" {
		return Address{}, errors.New("address line is required")
	}
	if district == "" {
		return Address{}, errors.New("district is required")
	}
	if city == "" {
		return Address{}, errors.New("city is required")
	}

	addr := Address{
		fullName: fullName,
		phone:    phone,
		line1:    line1,
		district: district,
		city:     city,
		country:  "Vietnam",
	}
	for _, opt := range opts {
		opt(&addr)
	}
	return addr, nil
}

// FullName returns the recipient name
func (a Address) FullName() string { return a.fullName }

// Phone returns the contact phone number
func (a Address) Phone() string { return a.phone }

// Line1 returns the first address line
func (a Address) Line1() string { return a.line1 }

// Line2 returns the optional second address line
func (a Address) Line2() string { return a.line2 }

// Ward returns the ward subdivision
func (a Address) Ward() string { return a.ward }

// District returns the district
func (a Address) District() string { return a.district }

// City returns the city
func (a Address) City() string { return a.city }

// Country returns the country
func (a Address) Country() string { return a.country }

// IsZero reports whether the address is empty
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns a single-line rendering of the address
func (a Address) String() string {
	parts := []string{a.line1}
	if a.line2 != "" {
		parts = append(parts, a.line2)
	}
	if a.ward != "" {
		parts = append(parts, a.ward)
	}
	parts = append(parts, a.district, a.city, a.country)
	return strings.Join(parts, ", ")
}

// addressJSON is the JSON representation of Address
type addressJSON struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	Ward     string `json:"ward,omitempty"`
	District string `json:"district"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		FullName: a.fullName,
		Phone:    a.phone,
		Line1:    a.line1,
		Line2:    a.line2,
		Ward:     a.ward,
		District: a.district,
		City:     a.city,
		Country:  a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var raw addressJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	opts := []AddressOption{}
	if raw.Line2 != "" {
		opts = append(opts, WithLine2(raw.Line2))
	}
	if raw.Ward != "" {
		opts = append(opts, WithWard(raw.Ward))
	}
	if raw.Country != "" {
		opts = append(opts, WithCountry(raw.Country))
	}
	addr, err := NewAddress(raw.FullName, raw.Phone, raw.Line1, raw.District, raw.City, opts...)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
