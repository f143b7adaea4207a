package dto

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentify_backend/internal/models"
)

func TestCreatePropertyRequest_NestedObjectsOrStrings(t *testing.T) {
	asObjects := `{
		"title": "2BHK",
		"rent": {"amount": 18000, "currency": "inr"},
		"address": {"city": "Pune", "state": "MH", "pincode": "411001"},
		"area": {"size": 900},
		"contactInfo": {"phone": "+91 98000 00000", "showContact": true},
		"amenities": ["wifi", " lift ", "wifi"]
	}`
	asStrings := `{
		"title": "2BHK",
		"rent": "{\"amount\": 18000, \"currency\": \"inr\"}",
		"address": "{\"city\": \"Pune\", \"state\": \"MH\", \"pincode\": \"411001\"}",
		"area": "{\"size\": 900}",
		"contactInfo": "{\"phone\": \"+91 98000 00000\", \"showContact\": true}",
		"amenities": "[\"wifi\", \" lift \", \"wifi\"]"
	}`

	var a, b CreatePropertyRequest
	require.NoError(t, json.Unmarshal([]byte(asObjects), &a))
	require.NoError(t, json.Unmarshal([]byte(asStrings), &b))
	assert.Equal(t, a, b)

	assert.Equal(t, 18000.0, a.Rent.Amount)
	assert.Equal(t, "411001", a.Address.Pincode)
	assert.Equal(t, StringList{"wifi", "lift"}, a.Amenities)

	m := a.ToModel("owner-1")
	assert.Equal(t, "INR", m.Rent.Currency)
	assert.Equal(t, models.AreaUnitSqft, m.Area.Unit)
	assert.Equal(t, models.FurnishingUnfurnished, m.Furnished)
	assert.True(t, m.Available)
	assert.False(t, m.Approved)
	assert.Equal(t, "owner-1", m.OwnerID)
}

func TestStringList(t *testing.T) {
	cases := map[string]StringList{
		`["a","b"]`:        {"a", "b"},
		`"a, b ,, c"`:      {"a", "b", "c"},
		`"[\"x\",\"y\"]"`:  {"x", "y"},
		`"single"`:         {"single"},
		`""`:               {},
		`[" dup ", "dup"]`: {"dup"},
	}
	for in, want := range cases {
		var got StringList
		require.NoError(t, json.Unmarshal([]byte(in), &got), in)
		assert.Equal(t, want, got, in)
	}
}

func TestFlexibleInput_RejectsGarbage(t *testing.T) {
	var m MoneyInput
	assert.Error(t, json.Unmarshal([]byte(`"not json"`), &m))

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"next week"`), &d))
}

func TestDate(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-04-01"`), &d))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), d.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2026-04-01T10:30:00+05:30"`), &d))
	assert.Equal(t, time.Date(2026, 4, 1, 5, 0, 0, 0, time.UTC), d.Time)

	var empty *Date
	assert.Nil(t, empty.Ptr())
}

func TestFormToJSON(t *testing.T) {
	raw, err := FormToJSON(url.Values{
		"title":     {"42"},
		"bhk":       {"2"},
		"deposit":   {"5000.5"},
		"available": {"false"},
		"rent":      {`{"amount":12000}`},
		"amenities": {"wifi", "parking"},
		"floor":     {""},
	})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "42", doc["title"], "string fields stay strings")
	assert.Equal(t, 2.0, doc["bhk"])
	assert.Equal(t, 5000.5, doc["deposit"])
	assert.Equal(t, false, doc["available"])
	assert.Equal(t, `{"amount":12000}`, doc["rent"])
	assert.Equal(t, []interface{}{"wifi", "parking"}, doc["amenities"])
	assert.NotContains(t, doc, "floor")
}

func TestDecodePropertyForm_BadNumber(t *testing.T) {
	_, err := DecodePropertyForm(url.Values{"bhk": {"two"}})
	assert.Error(t, err)
}

func TestUpdatePropertyRequest_ToUpdates(t *testing.T) {
	var req UpdatePropertyRequest
	require.NoError(t, json.Unmarshal([]byte(`{"deposit": 0, "address": {"city":"Goa","state":"GA","pincode":"403001"}}`), &req))

	updates := req.ToUpdates()
	assert.Equal(t, 0.0, updates["deposit"])
	assert.Equal(t, "Goa", updates["address_city"])
	assert.Equal(t, "India", updates["address_country"])
	assert.NotContains(t, updates, "title")
	assert.NotContains(t, updates, "owner_id")
}

func TestNewPropertyResponse_ContactCollapse(t *testing.T) {
	p := &models.Property{
		ContactInfo: models.ContactInfo{Phone: "+91", Email: "o@x.com"},
		Owner:       &models.User{Name: "Owner", Email: "o@x.com", PasswordHash: "secret"},
	}

	hidden := NewPropertyResponse(p, false)
	assert.Equal(t, models.ContactInfo{ShowContact: false}, hidden.ContactInfo)
	require.NotNil(t, hidden.Owner)
	assert.Equal(t, "Owner", hidden.Owner.Name)

	shown := NewPropertyResponse(p, true)
	assert.Equal(t, "+91", shown.ContactInfo.Phone)

	p.ContactInfo.ShowContact = true
	assert.Equal(t, "o@x.com", NewPropertyResponse(p, false).ContactInfo.Email)

	body, err := json.Marshal(hidden)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret")
	assert.NotContains(t, string(body), `"phone":"+91"`)
}

func TestParsePropertySearch(t *testing.T) {
	sortKeys := []string{"createdAt", "rent"}
	q := url.Values{
		"city":         {" Bengaluru "},
		"minRent":      {"10000"},
		"maxRent":      {"40000"},
		"bhk":          {"2,3", "4"},
		"propertyType": {"apartment,villa"},
		"amenities":    {"wifi", "gym,wifi"},
		"available":    {"true"},
		"sortBy":       {"rent"},
		"sortOrder":    {"DESC"},
		"page":         {"2"},
		"limit":        {"20"},
	}

	req, errs := ParsePropertySearch(q, sortKeys)
	require.Empty(t, errs)
	assert.Equal(t, "Bengaluru", req.City)
	require.NotNil(t, req.MinRent)
	assert.Equal(t, 10000.0, *req.MinRent)
	assert.Equal(t, []int{2, 3, 4}, req.BHK)
	assert.Equal(t, []string{"apartment", "villa"}, req.PropertyTypes)
	assert.Equal(t, []string{"wifi", "gym"}, req.Amenities)
	require.NotNil(t, req.Available)
	assert.True(t, *req.Available)
	assert.Nil(t, req.IsFeatured)
	assert.Equal(t, "desc", req.SortOrder)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 20, req.Limit)
}

func TestParsePropertySearch_Malformed(t *testing.T) {
	q := url.Values{
		"minRent":      {"cheap"},
		"maxArea":      {"NaN"},
		"bhk":          {"11"},
		"propertyType": {"castle"},
		"available":    {"yes"},
		"sortBy":       {"password"},
		"sortOrder":    {"sideways"},
		"page":         {"0"},
		"limit":        {"x"},
	}

	_, errs := ParsePropertySearch(q, []string{"createdAt"})
	for _, key := range []string{"minRent", "maxArea", "bhk", "propertyType", "available", "sortBy", "sortOrder", "page", "limit"} {
		assert.Contains(t, errs, key)
	}
}
