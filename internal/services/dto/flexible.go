package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

/*
Нормализация входящих данных.

JSON-клиенты присылают вложенные объекты (rent, address, area, contactInfo)
и amenities как обычный JSON, а multipart-формы присылают те же поля строками
с JSON внутри. Типы ниже принимают оба варианта, поэтому после декодирования
бизнес-логика всегда видит один канонический запрос.
*/

// unmarshalFlexible decodes data into dst, unwrapping one level of JSON string
// encoding first. An empty string or null leaves dst untouched.
func unmarshalFlexible(data []byte, dst interface{}) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return nil
		}
		data = []byte(inner)
	}
	return json.Unmarshal(data, dst)
}

type MoneyInput struct {
	Amount   float64 `json:"amount" validate:"gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3,alpha"`
}

func (m *MoneyInput) UnmarshalJSON(data []byte) error {
	type plain MoneyInput
	return unmarshalFlexible(data, (*plain)(m))
}

type AddressInput struct {
	Street  string `json:"street" validate:"max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Country string `json:"country" validate:"max=100"`
	Pincode string `json:"pincode" validate:"required,pincode"`
}

func (a *AddressInput) UnmarshalJSON(data []byte) error {
	type plain AddressInput
	return unmarshalFlexible(data, (*plain)(a))
}

type AreaInput struct {
	Size float64 `json:"size" validate:"gt=0"`
	Unit string  `json:"unit" validate:"omitempty,area-unit"`
}

func (a *AreaInput) UnmarshalJSON(data []byte) error {
	type plain AreaInput
	return unmarshalFlexible(data, (*plain)(a))
}

type ContactInput struct {
	Phone       string `json:"phone" validate:"max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	ShowContact bool   `json:"showContact"`
}

func (c *ContactInput) UnmarshalJSON(data []byte) error {
	type plain ContactInput
	return unmarshalFlexible(data, (*plain)(c))
}

// StringList accepts a JSON array, a JSON-encoded array string, or a
// comma separated string ("wifi, parking").
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "[") {
			data = []byte(s)
		} else {
			*l = cleanList(strings.Split(s, ","))
			return nil
		}
	}
	var items []string
	if err := unmarshalFlexible(data, &items); err != nil {
		return err
	}
	*l = cleanList(items)
	return nil
}

// cleanList trims entries and drops blanks and duplicates, keeping order.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// Date accepts RFC 3339 timestamps and plain "2006-01-02" dates.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// Ptr returns nil for the zero date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
