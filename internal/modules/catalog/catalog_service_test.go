package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"laundry-service/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items map[string]*models.LaundryItem
}

func (f *fakeRepo) Create(ctx context.Context, item *models.LaundryItem) error {
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*models.LaundryItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return it, nil
}

func (f *fakeRepo) List(ctx context.Context, category string) ([]*models.LaundryItem, error) {
	out := []*models.LaundryItem{}
	for _, it := range f.items {
		if category == "" || it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func TestCreateItem(t *testing.T) {
	svc := NewService(&fakeRepo{items: map[string]*models.LaundryItem{}})

	item, err := svc.CreateItem(context.Background(), models.CreateItemRequest{
		Name:     " Saree ",
		Price:    decimal.RequireFromString("149.499"),
		Category: models.CategoryPremium,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Saree", item.Name)
	assert.Equal(t, "149.5", item.Price.String())
}

func TestCreateItemRejectsNonPositivePrice(t *testing.T) {
	svc := NewService(&fakeRepo{items: map[string]*models.LaundryItem{}})

	for _, p := range []string{"0", "-10"} {
		_, err := svc.CreateItem(context.Background(), models.CreateItemRequest{
			Name: "Shirt", Price: decimal.RequireFromString(p), Category: models.CategoryRegular,
		})
		assert.ErrorIs(t, err, models.ErrInvalidPrice)
	}
}

func TestListItemsByCategoryAndDelete(t *testing.T) {
	repo := &fakeRepo{items: map[string]*models.LaundryItem{
		"shirt": {ID: "shirt", Category: models.CategoryRegular},
		"saree": {ID: "saree", Category: models.CategoryPremium},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	premium, err := svc.ListItems(ctx, "PREMIUM")
	require.NoError(t, err)
	require.Len(t, premium, 1)
	assert.Equal(t, "saree", premium[0].ID)

	require.NoError(t, svc.DeleteItem(ctx, "saree"))
	assert.ErrorIs(t, svc.DeleteItem(ctx, "saree"), models.ErrNotFound)

	_, err = svc.GetItem(ctx, "saree")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHandlerItemRoutes(t *testing.T) {
	repo := &fakeRepo{items: map[string]*models.LaundryItem{
		"shirt": {ID: "shirt", Name: "Shirt", Price: decimal.NewFromInt(20), Category: models.CategoryRegular},
	}}
	e := echo.New()
	api := e.Group("/api")
	NewHandler(NewService(repo)).RegisterRoutes(api, api)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/api/items/shirt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Shirt"`)
	assert.Equal(t, http.StatusNotFound, get("/api/items/coat").Code)

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"name": "Coat", "price": 0, "category": "premium"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get("/api/items?category=regular")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"shirt"`)
}
