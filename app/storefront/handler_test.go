package storefront

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/greenbasket/storefront/models"
	"github.com/greenbasket/storefront/session"
)

// --- Mock Repos ---

type MockProductRepo struct {
	SourceProducts []models.Product
	Err            error

	// Fields to capture call arguments
	lastLatestLimit  int
	lastCategoryID   uint
	lastMaxRate      *decimal.Decimal
	lastManufSince   *time.Time
	byCategoryCalled bool
	byMaxRateCalled  bool
	manufSinceCalled bool
}

func (m *MockProductRepo) GetLatest(limit int) ([]models.Product, error) {
	m.lastLatestLimit = limit
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > len(m.SourceProducts) {
		limit = len(m.SourceProducts)
	}
	return m.SourceProducts[:limit], nil
}

func (m *MockProductRepo) GetByID(id uint) (*models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.SourceProducts {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *MockProductRepo) GetByCategory(categoryID uint) ([]models.Product, error) {
	m.byCategoryCalled = true
	m.lastCategoryID = categoryID
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Product
	for _, p := range m.SourceProducts {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockProductRepo) GetByMaxRate(max decimal.Decimal) ([]models.Product, error) {
	m.byMaxRateCalled = true
	m.lastMaxRate = &max
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Product
	for _, p := range m.SourceProducts {
		if p.Rate.LessThanOrEqual(max) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockProductRepo) GetManufacturedSince(since time.Time) ([]models.Product, error) {
	m.manufSinceCalled = true
	m.lastManufSince = &since
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Product
	for _, p := range m.SourceProducts {
		if !p.ManufactureDate.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

type MockCategoryRepo struct {
	Categories []models.Category
	Err        error

	lastFindTerm string
}

func (m *MockCategoryRepo) GetAllCategories() ([]models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}

func (m *MockCategoryRepo) GetByID(id uint) (*models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.Categories {
		if c.ID == id {
			category := c
			return &category, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryRepo) FindByName(term string) (*models.Category, error) {
	m.lastFindTerm = term
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.Categories {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(term)) {
			category := c
			return &category, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

// --- Helpers ---

func newTestProduct(id uint, name string, rate float64, categoryID uint) models.Product {
	return models.Product{
		ID:         id,
		Name:       name,
		Rate:       decimal.NewFromFloat(rate),
		CategoryID: categoryID,
	}
}

func testCatalog() ([]models.Product, []models.Category) {
	products := []models.Product{
		newTestProduct(1, "Apples", 10.0, 1),
		newTestProduct(2, "Bread", 4.5, 2),
		newTestProduct(3, "Milk", 2.0, 2),
	}
	categories := []models.Category{
		{ID: 1, Name: "Fruit"},
		{ID: 2, Name: "Staples"},
	}
	return products, categories
}

func withSession(r *http.Request, s *session.Session) (*http.Request, *session.State) {
	st := session.NewState("test-session", s, session.NewMemoryStore())
	return r.WithContext(session.ContextWithState(r.Context(), st)), st
}

func formRequest(method, path string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// --- Tests ---

func TestHandleHome(t *testing.T) {
	products, categories := testCatalog()
	repo := &MockProductRepo{SourceProducts: products}
	handler := NewStorefrontHandler(repo, &MockCategoryRepo{Categories: categories})

	rec := httptest.NewRecorder()
	handler.HandleHome(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, repo.lastLatestLimit)
	assert.Contains(t, rec.Body.String(), "Apples")
}

func TestHandleSearch(t *testing.T) {
	testCases := []struct {
		name       string
		form       url.Values
		checkCalls func(t *testing.T, products *MockProductRepo, categories *MockCategoryRepo)
		checkBody  func(t *testing.T, body string)
	}{
		{
			name: "No criteria returns categories and no products",
			form: url.Values{},
			checkCalls: func(t *testing.T, products *MockProductRepo, categories *MockCategoryRepo) {
				assert.False(t, products.byCategoryCalled)
				assert.False(t, products.byMaxRateCalled)
				assert.False(t, products.manufSinceCalled)
			},
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "Fruit")
				assert.Contains(t, body, "Staples")
				assert.NotContains(t, body, "Apples")
			},
		},
		{
			name: "Category criterion",
			form: url.Values{"search_category": {"sta"}},
			checkCalls: func(t *testing.T, products *MockProductRepo, categories *MockCategoryRepo) {
				assert.Equal(t, "sta", categories.lastFindTerm)
				assert.True(t, products.byCategoryCalled)
				assert.Equal(t, uint(2), products.lastCategoryID)
			},
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "Bread")
				assert.Contains(t, body, "Milk")
				assert.NotContains(t, body, "Apples")
			},
		},
		{
			name: "Price criterion",
			form: url.Values{"search_price": {"5.00"}},
			checkCalls: func(t *testing.T, products *MockProductRepo, categories *MockCategoryRepo) {
				assert.True(t, products.byMaxRateCalled)
				assert.Equal(t, "5.00", products.lastMaxRate.String())
			},
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "Bread")
				assert.NotContains(t, body, "Apples")
			},
		},
		{
			name: "Category takes precedence over price and date",
			form: url.Values{
				"search_category":         {"fruit"},
				"search_price":            {"5.00"},
				"search_manufacture_date": {"2024-01-01"},
			},
			checkCalls: func(t *testing.T, products *MockProductRepo, categories *MockCategoryRepo) {
				assert.True(t, products.byCategoryCalled)
				assert.False(t, products.byMaxRateCalled, "price must be ignored when category is present")
				assert.False(t, products.manufSinceCalled, "date must be ignored when category is present")
			},
		},
		{
			name: "Price takes precedence over date",
			form: url.Values{
				"search_price":            {"5.00"},
				"search_manufacture_date": {"2024-01-01"},
			},
			checkCalls: func(t *testing.T, products *MockProductRepo, categories *MockCategoryRepo) {
				assert.True(t, products.byMaxRateCalled)
				assert.False(t, products.manufSinceCalled)
			},
		},
		{
			name: "Date criterion alone",
			form: url.Values{"search_manufacture_date": {"2024-01-01"}},
			checkCalls: func(t *testing.T, products *MockProductRepo, categories *MockCategoryRepo) {
				assert.True(t, products.manufSinceCalled)
			},
		},
		{
			name: "Unmatched category still renders navigation",
			form: url.Values{"search_category": {"nonexistent"}},
			checkCalls: func(t *testing.T, products *MockProductRepo, categories *MockCategoryRepo) {
				assert.False(t, products.byCategoryCalled)
			},
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "Fruit")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			products, categories := testCatalog()
			productRepo := &MockProductRepo{SourceProducts: products}
			categoryRepo := &MockCategoryRepo{Categories: categories}
			handler := NewStorefrontHandler(productRepo, categoryRepo)

			req, _ := withSession(formRequest("POST", "/search", tc.form), &session.Session{UserID: 2})
			rec := httptest.NewRecorder()

			handler.HandleSearch(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			if tc.checkCalls != nil {
				tc.checkCalls(t, productRepo, categoryRepo)
			}
			if tc.checkBody != nil {
				tc.checkBody(t, rec.Body.String())
			}
		})
	}
}

func TestHandleSearchMalformedPriceIsBadRequest(t *testing.T) {
	products, categories := testCatalog()
	handler := NewStorefrontHandler(&MockProductRepo{SourceProducts: products}, &MockCategoryRepo{Categories: categories})

	req, _ := withSession(formRequest("POST", "/search", url.Values{"search_price": {"cheap"}}), &session.Session{UserID: 2})
	rec := httptest.NewRecorder()

	handler.HandleSearch(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCategory(t *testing.T) {
	products, categories := testCatalog()
	handler := NewStorefrontHandler(&MockProductRepo{SourceProducts: products}, &MockCategoryRepo{Categories: categories})

	req := httptest.NewRequest("GET", "/category/2", nil)
	req.SetPathValue("id", "2")
	req, _ = withSession(req, &session.Session{UserID: 2})
	rec := httptest.NewRecorder()

	handler.HandleCategory(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Staples")
	assert.Contains(t, rec.Body.String(), "Bread")
	assert.NotContains(t, rec.Body.String(), "Apples")
}

func TestHandleCategoryUnknownIDRedirectsHome(t *testing.T) {
	products, categories := testCatalog()
	handler := NewStorefrontHandler(&MockProductRepo{SourceProducts: products}, &MockCategoryRepo{Categories: categories})

	req := httptest.NewRequest("GET", "/category/99", nil)
	req.SetPathValue("id", "99")
	req, _ = withSession(req, &session.Session{UserID: 2})
	rec := httptest.NewRecorder()

	handler.HandleCategory(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

// The category-page POST is the same snapshot add as /add_to_cart: one entry,
// merged by product id.
func TestHandleCategoryPostAddsToCart(t *testing.T) {
	products, categories := testCatalog()
	handler := NewStorefrontHandler(&MockProductRepo{SourceProducts: products}, &MockCategoryRepo{Categories: categories})

	s := &session.Session{UserID: 2}
	form := url.Values{"product_id": {"2"}, "quantity": {"2"}}

	req := formRequest("POST", "/category/2", form)
	req.SetPathValue("id", "2")
	req, st := withSession(req, s)
	rec := httptest.NewRecorder()
	handler.HandleCategory(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, st.Session.Cart.Items(), 1)
	assert.Equal(t, uint(2), st.Session.Cart.Items()[0].ProductID)
	assert.Equal(t, 2, st.Session.Cart.Items()[0].Quantity)
	assert.Equal(t, "4.5", st.Session.Cart.Items()[0].Rate.String())

	// Posting again merges rather than duplicating.
	req = formRequest("POST", "/category/2", form)
	req.SetPathValue("id", "2")
	req = req.WithContext(session.ContextWithState(req.Context(), st))
	rec = httptest.NewRecorder()
	handler.HandleCategory(rec, req)

	assert.Len(t, st.Session.Cart.Items(), 1)
	assert.Equal(t, 4, st.Session.Cart.Items()[0].Quantity)
}

func TestHandleAddToCart(t *testing.T) {
	products, categories := testCatalog()

	testCases := []struct {
		name             string
		pathID           string
		quantity         string
		existingCart     func(s *session.Session)
		expectedStatus   int
		expectedLocation string
		checkCart        func(t *testing.T, s *session.Session)
	}{
		{
			name:             "Adds snapshot entry and redirects to category",
			pathID:           "1",
			quantity:         "2",
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/category/1",
			checkCart: func(t *testing.T, s *session.Session) {
				assert.Len(t, s.Cart.Items(), 1)
				assert.Equal(t, "Apples", s.Cart.Items()[0].Name)
				assert.Equal(t, "10", s.Cart.Items()[0].Rate.String())
			},
		},
		{
			name:     "Merges into an existing entry",
			pathID:   "1",
			quantity: "3",
			existingCart: func(s *session.Session) {
				p := newTestProduct(1, "Apples", 10.0, 1)
				_ = s.Cart.Add(&p, 2)
			},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/category/1",
			checkCart: func(t *testing.T, s *session.Session) {
				assert.Len(t, s.Cart.Items(), 1)
				assert.Equal(t, 5, s.Cart.Items()[0].Quantity)
			},
		},
		{
			name:             "Unknown product is a silent redirect home",
			pathID:           "99",
			quantity:         "2",
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/",
			checkCart: func(t *testing.T, s *session.Session) {
				assert.True(t, s.Cart.Empty())
			},
		},
		{
			name:             "Non-positive quantity is a silent redirect home",
			pathID:           "1",
			quantity:         "0",
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/",
			checkCart: func(t *testing.T, s *session.Session) {
				assert.True(t, s.Cart.Empty())
			},
		},
		{
			name:           "Non-numeric quantity is a bad request",
			pathID:         "1",
			quantity:       "lots",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewStorefrontHandler(&MockProductRepo{SourceProducts: products}, &MockCategoryRepo{Categories: categories})

			s := &session.Session{UserID: 2}
			if tc.existingCart != nil {
				tc.existingCart(s)
			}

			req := formRequest("POST", "/add_to_cart/"+tc.pathID, url.Values{"quantity": {tc.quantity}})
			req.SetPathValue("id", tc.pathID)
			req, st := withSession(req, s)
			rec := httptest.NewRecorder()

			handler.HandleAddToCart(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedLocation != "" {
				assert.Equal(t, tc.expectedLocation, rec.Header().Get("Location"))
			}
			if tc.checkCart != nil {
				tc.checkCart(t, st.Session)
			}
		})
	}
}

// An admin rate edit between add and checkout must not change the carted
// total: the entry snapshotted the rate at add time.
func TestCartTotalSurvivesRateEdit(t *testing.T) {
	products, categories := testCatalog()
	productRepo := &MockProductRepo{SourceProducts: products}
	handler := NewStorefrontHandler(productRepo, &MockCategoryRepo{Categories: categories})

	s := &session.Session{UserID: 2, UserName: "demo"}
	req := formRequest("POST", "/add_to_cart/1", url.Values{"quantity": {"2"}})
	req.SetPathValue("id", "1")
	req, st := withSession(req, s)
	handler.HandleAddToCart(httptest.NewRecorder(), req)

	// Simulate the admin editing the catalog price.
	productRepo.SourceProducts[0].Rate = decimal.NewFromFloat(50.0)

	cartReq, _ := withSession(httptest.NewRequest("GET", "/cart", nil), st.Session)
	rec := httptest.NewRecorder()
	handler.HandleCart(rec, cartReq)

	assert.Contains(t, rec.Body.String(), "Total: 20")
	assert.NotContains(t, rec.Body.String(), "100")
}

func TestHandleCart(t *testing.T) {
	products, categories := testCatalog()
	handler := NewStorefrontHandler(&MockProductRepo{SourceProducts: products}, &MockCategoryRepo{Categories: categories})

	s := &session.Session{UserID: 2}
	apples := newTestProduct(1, "Apples", 10.0, 1)
	bread := newTestProduct(2, "Bread", 4.5, 2)
	_ = s.Cart.Add(&apples, 2)
	_ = s.Cart.Add(&bread, 1)

	req, _ := withSession(httptest.NewRequest("GET", "/cart", nil), s)
	rec := httptest.NewRecorder()
	handler.HandleCart(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Apples")
	assert.Contains(t, rec.Body.String(), "Bread")
	assert.Contains(t, rec.Body.String(), "Total: 24.5")
}

func TestHandlePurchaseSummary(t *testing.T) {
	products, categories := testCatalog()
	handler := NewStorefrontHandler(&MockProductRepo{SourceProducts: products}, &MockCategoryRepo{Categories: categories})

	s := &session.Session{UserID: 2, UserName: "demo"}
	apples := newTestProduct(1, "Apples", 10.0, 1)
	_ = s.Cart.Add(&apples, 2)

	req, st := withSession(httptest.NewRequest("GET", "/purchase_summary", nil), s)
	rec := httptest.NewRecorder()
	handler.HandlePurchaseSummary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "demo")
	assert.Contains(t, rec.Body.String(), "20")
	assert.True(t, st.Session.Cart.Empty(), "checkout clears the cart")

	// A subsequent cart view shows an empty cart.
	cartReq, _ := withSession(httptest.NewRequest("GET", "/cart", nil), st.Session)
	rec = httptest.NewRecorder()
	handler.HandleCart(rec, cartReq)
	assert.Contains(t, rec.Body.String(), "Cart is empty")
}

func TestHandlePurchaseSummaryEmptyCartRedirects(t *testing.T) {
	products, categories := testCatalog()
	handler := NewStorefrontHandler(&MockProductRepo{SourceProducts: products}, &MockCategoryRepo{Categories: categories})

	req, _ := withSession(httptest.NewRequest("GET", "/purchase_summary", nil), &session.Session{UserID: 2})
	rec := httptest.NewRecorder()
	handler.HandlePurchaseSummary(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))
}
