package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentify_backend/internal/models"
	"rentify_backend/internal/services/dto"
	"rentify_backend/internal/storage"
	"rentify_backend/pkg/apperrors"
)

func createRequest(pincode string) *dto.CreatePropertyRequest {
	return &dto.CreatePropertyRequest{
		Title:        "Spacious 3BHK near Whitefield",
		Description:  "Gated community, 24x7 security",
		Rent:         dto.MoneyInput{Amount: 32000},
		Deposit:      100000,
		PropertyType: "apartment",
		BHK:          3,
		Furnished:    "furnished",
		Amenities:    dto.StringList{"gym", "pool"},
		Address: dto.AddressInput{
			Street:  "ITPL Main Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			Pincode: pincode,
		},
		Area:        dto.AreaInput{Size: 1600},
		ContactInfo: dto.ContactInput{Phone: "+919800000000", Email: "Owner@Example.com"},
	}
}

func imageUploads(names ...string) []storage.ImageUpload {
	out := make([]storage.ImageUpload, 0, len(names))
	for _, n := range names {
		out = append(out, storage.ImageUpload{
			Filename:    n,
			ContentType: "image/jpeg",
			Size:        4,
			Reader:      strings.NewReader("jpeg"),
		})
	}
	return out
}

func TestCreateProperty_PincodeRoundTrip(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	ctx := context.Background()

	created, err := f.svc.PropertyService.CreateProperty(ctx, actorOf(owner), createRequest("560103"), nil)
	require.NoError(t, err)
	assert.Equal(t, "560103", created.Address.Pincode)

	for _, bad := range []string{"12345", "0560103"} {
		_, err := f.svc.PropertyService.CreateProperty(ctx, actorOf(owner), createRequest(bad), nil)
		appErr := requireCode(t, err, apperrors.CodeValidationFailed)
		details, ok := appErr.Details.(map[string]string)
		require.True(t, ok)
		assert.Contains(t, details, "address.pincode", bad)
	}
}

func TestCreateProperty_DefaultsAndModeration(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)

	created, err := f.svc.PropertyService.CreateProperty(context.Background(), actorOf(owner), createRequest("560066"), nil)
	require.NoError(t, err)

	stored := f.reloadProperty(t, created.ID)
	assert.False(t, stored.Approved, "new listings wait for moderation")
	assert.True(t, stored.Available)
	assert.False(t, stored.IsFeatured)
	assert.False(t, stored.ContactInfo.ShowContact)
	assert.Equal(t, owner.ID, stored.OwnerID)
	assert.Equal(t, "INR", stored.Rent.Currency)
	assert.Equal(t, "India", stored.Address.Country)
	assert.Equal(t, models.AreaUnitSqft, stored.Area.Unit)
	assert.Equal(t, "owner@example.com", stored.ContactInfo.Email)
	assert.Equal(t, []string{"gym", "pool"}, []string(stored.Amenities))
	assert.Zero(t, stored.Views)
}

func TestCreateProperty_ExplicitlyUnavailable(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	req := createRequest("560066")
	no := false
	req.Available = &no

	created, err := f.svc.PropertyService.CreateProperty(context.Background(), actorOf(owner), req, nil)
	require.NoError(t, err)
	assert.False(t, f.reloadProperty(t, created.ID).Available)
}

func TestCreateProperty_Validation(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)

	cases := map[string]func(r *dto.CreatePropertyRequest){
		"rent.amount":  func(r *dto.CreatePropertyRequest) { r.Rent.Amount = 0 },
		"propertyType": func(r *dto.CreatePropertyRequest) { r.PropertyType = "castle" },
		"bhk":          func(r *dto.CreatePropertyRequest) { r.BHK = 11 },
		"furnished":    func(r *dto.CreatePropertyRequest) { r.Furnished = "half" },
		"area.size":    func(r *dto.CreatePropertyRequest) { r.Area.Size = 0 },
		"area.unit":    func(r *dto.CreatePropertyRequest) { r.Area.Unit = "acre" },
		"address.city": func(r *dto.CreatePropertyRequest) { r.Address.City = "" },
		"floor": func(r *dto.CreatePropertyRequest) {
			floor, total := 5, 3
			r.Floor, r.TotalFloors = &floor, &total
		},
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			req := createRequest("560066")
			mutate(req)
			_, err := f.svc.PropertyService.CreateProperty(context.Background(), actorOf(owner), req, nil)
			appErr := requireCode(t, err, apperrors.CodeValidationFailed)
			assert.Contains(t, appErr.Details, field)
		})
	}
}

func TestCreateProperty_TenantForbidden(t *testing.T) {
	f := newFixture(t)
	tenant := f.user(t, models.UserRoleTenant)

	_, err := f.svc.PropertyService.CreateProperty(context.Background(), actorOf(tenant), createRequest("560066"), nil)
	appErr := requireCode(t, err, apperrors.CodeForbidden)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestCreateProperty_ImagesFirstIsPrimaryByDefault(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)

	created, err := f.svc.PropertyService.CreateProperty(context.Background(), actorOf(owner),
		createRequest("560066"), imageUploads("a.jpg", "b.jpg"))
	require.NoError(t, err)

	require.Len(t, created.Images, 2)
	assert.True(t, created.Images[0].IsPrimary)
	assert.False(t, created.Images[1].IsPrimary)
	assert.NotEmpty(t, created.Images[0].ProviderID)
	assert.True(t, strings.HasPrefix(created.Images[0].URL, "https://img.test/"))

	stored := f.reloadProperty(t, created.ID)
	assert.Len(t, stored.Images, 2)
}

func TestCreateProperty_PrimaryImageFlag(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	req := createRequest("560066")
	idx := 1
	req.PrimaryImage = &idx

	created, err := f.svc.PropertyService.CreateProperty(context.Background(), actorOf(owner), req, imageUploads("a.jpg", "b.jpg"))
	require.NoError(t, err)
	assert.False(t, created.Images[0].IsPrimary)
	assert.True(t, created.Images[1].IsPrimary)

	idx = 5
	_, err = f.svc.PropertyService.CreateProperty(context.Background(), actorOf(owner), req, imageUploads("a.jpg"))
	requireCode(t, err, apperrors.CodeValidationFailed)
}

func TestCreateProperty_UploadFailureKeepsEarlierImagesAndStoresNothing(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	f.images.failAt = 2

	_, err := f.svc.PropertyService.CreateProperty(context.Background(), actorOf(owner),
		createRequest("560066"), imageUploads("a.jpg", "b.jpg", "c.jpg"))
	appErr := requireCode(t, err, apperrors.CodeExternalServiceError)
	assert.Equal(t, 502, appErr.HTTPCode)

	// the first upload is not rolled back
	assert.Len(t, f.images.uploaded, 1)
	assert.Empty(t, f.images.Deleted())

	var count int64
	require.NoError(t, f.db.Model(&models.Property{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateProperty_TooManyImages(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)

	_, err := f.svc.PropertyService.CreateProperty(context.Background(), actorOf(owner),
		createRequest("560066"), imageUploads("1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg"))
	requireCode(t, err, apperrors.CodeValidationFailed)
	assert.Zero(t, f.images.calls)
}

func TestCreateProperty_FromMultipartStrings(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)

	req, err := dto.DecodePropertyForm(map[string][]string{
		"title":        {"Independent house in Jayanagar"},
		"propertyType": {"independent"},
		"bhk":          {"4"},
		"deposit":      {"200000"},
		"rent":         {`{"amount": 60000}`},
		"address":      {`{"city":"Bengaluru","state":"Karnataka","pincode":"560041"}`},
		"area":         {`{"size": 2400, "unit": "sqft"}`},
		"contactInfo":  {`{"phone":"+919811111111","showContact":true}`},
		"amenities":    {"garden, parking"},
	})
	require.NoError(t, err)

	created, err := f.svc.PropertyService.CreateProperty(context.Background(), actorOf(owner), req, nil)
	require.NoError(t, err)
	assert.Equal(t, 60000.0, created.Rent.Amount)
	assert.Equal(t, 4, created.BHK)
	assert.Equal(t, "560041", created.Address.Pincode)
	assert.Equal(t, []string{"garden", "parking"}, created.Amenities)
	assert.True(t, created.ContactInfo.ShowContact)
}

func TestUpdateProperty_OnlyOwner(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	other := f.user(t, models.UserRoleOwner)
	admin := f.user(t, models.UserRoleAdmin)
	p := f.property(t, owner.ID)
	title := "Changed"

	for _, u := range []*models.User{other, admin} {
		_, err := f.svc.PropertyService.UpdateProperty(context.Background(), actorOf(u), p.ID, &dto.UpdatePropertyRequest{Title: &title})
		requireCode(t, err, apperrors.CodeForbidden)
	}
	assert.NotEqual(t, title, f.reloadProperty(t, p.ID).Title)
}

func TestUpdateProperty_PartialUpdate(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	p := f.property(t, owner.ID)

	var req dto.UpdatePropertyRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "Renovated 2BHK",
		"rent": "{\"amount\": 27000}",
		"amenities": ["wifi", "lift"],
		"available": false
	}`), &req))

	updated, err := f.svc.PropertyService.UpdateProperty(context.Background(), actorOf(owner), p.ID, &req)
	require.NoError(t, err)
	assert.Equal(t, "Renovated 2BHK", updated.Title)
	assert.Equal(t, 27000.0, updated.Rent.Amount)
	assert.Equal(t, "INR", updated.Rent.Currency)
	assert.Equal(t, []string{"wifi", "lift"}, updated.Amenities)
	assert.False(t, updated.Available)

	// untouched fields survive
	assert.Equal(t, p.Description, updated.Description)
	assert.Equal(t, p.Address, updated.Address)
	assert.Equal(t, owner.ID, updated.OwnerID)
	require.NotNil(t, updated.Owner)
	assert.Equal(t, owner.Email, updated.Owner.Email)
}

func TestUpdateProperty_ValidatesFields(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	p := f.property(t, owner.ID)
	bad := &dto.UpdatePropertyRequest{Address: &dto.AddressInput{City: "Pune", State: "MH", Pincode: "12345"}}

	_, err := f.svc.PropertyService.UpdateProperty(context.Background(), actorOf(owner), p.ID, bad)
	requireCode(t, err, apperrors.CodeValidationFailed)
}

func TestDeleteProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, models.UserRoleOwner)
	other := f.user(t, models.UserRoleOwner)
	tenant := f.user(t, models.UserRoleTenant)
	p := f.property(t, owner.ID, func(p *models.Property) {
		p.Images = []models.PropertyImage{
			{URL: "https://img.test/1", ProviderID: "img-1", IsPrimary: true},
			{URL: "https://img.test/2", ProviderID: "img-2"},
		}
	})
	_, err := f.svc.PropertyService.CheckAccess(ctx, tenant.ID, p.ID)
	require.NoError(t, err)

	err = f.svc.PropertyService.DeleteProperty(ctx, actorOf(other), p.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	require.NoError(t, f.svc.PropertyService.DeleteProperty(ctx, actorOf(owner), p.ID))

	_, err = f.svc.PropertyService.GetPropertyDetail(ctx, p.ID, "")
	requireCode(t, err, apperrors.CodeNotFound)

	n, err := f.repos.Views.CountByProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"img-1", "img-2"}, f.images.Deleted())
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDeleteProperty_AdminMayDelete(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	admin := f.user(t, models.UserRoleAdmin)
	p := f.property(t, owner.ID)

	require.NoError(t, f.svc.PropertyService.DeleteProperty(context.Background(), actorOf(admin), p.ID))
}

func TestMyProperties_IgnoresPublicBaseline(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	f.property(t, owner.ID)
	f.property(t, owner.ID, func(p *models.Property) { p.Approved = false })
	f.property(t, owner.ID, func(p *models.Property) { p.Available = false })
	f.property(t, f.user(t, models.UserRoleOwner).ID)

	page, err := f.svc.PropertyService.MyProperties(context.Background(), owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 3)
	for _, item := range page.Items {
		assert.Equal(t, owner.ID, item.OwnerID)
		assert.NotEmpty(t, item.ContactInfo.Phone, "owners see their own contact details")
	}
}

func TestSearchProperties_PublicBaselineAndPaging(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserRoleOwner)
	for i := 0; i < 3; i++ {
		f.property(t, owner.ID)
	}
	f.property(t, owner.ID, func(p *models.Property) { p.Approved = false })
	f.property(t, owner.ID, func(p *models.Property) { p.Available = false })
	shown := f.property(t, owner.ID, func(p *models.Property) { p.ContactInfo.ShowContact = true })

	yes := true
	page, err := f.svc.PropertyService.SearchProperties(context.Background(), dto.PropertySearchRequest{
		Available: &yes,
		Limit:     3,
		Page:      1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Items, 3)

	page, err = f.svc.PropertyService.SearchProperties(context.Background(), dto.PropertySearchRequest{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	all, err := f.svc.PropertyService.SearchProperties(context.Background(), dto.PropertySearchRequest{Limit: 100})
	require.NoError(t, err)
	for _, item := range all.Items {
		assert.True(t, item.Approved)
		assert.True(t, item.Available)
		require.NotNil(t, item.Owner)
		assert.Equal(t, owner.Name, item.Owner.Name)
		if item.ID == shown.ID {
			assert.NotEmpty(t, item.ContactInfo.Phone)
		} else {
			assert.Empty(t, item.ContactInfo.Phone)
			assert.Empty(t, item.ContactInfo.Email)
		}
	}
}

func TestSearchProperties_NoMatchesIsNotAnError(t *testing.T) {
	f := newFixture(t)

	page, err := f.svc.PropertyService.SearchProperties(context.Background(), dto.PropertySearchRequest{City: "Atlantis"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.Pages)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}
