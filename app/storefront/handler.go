// Package storefront implements the customer-facing pages: the landing page,
// catalog search, category browsing, the cart, and the purchase summary.
package storefront

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/greenbasket/storefront/cart"
	"github.com/greenbasket/storefront/forms"
	"github.com/greenbasket/storefront/models"
	"github.com/greenbasket/storefront/session"
	"github.com/greenbasket/storefront/views"
)

// latestCount is how many products the landing page shows.
const latestCount = 5

type ProductProvider interface {
	GetLatest(limit int) ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	GetByCategory(categoryID uint) ([]models.Product, error)
	GetByMaxRate(max decimal.Decimal) ([]models.Product, error)
	GetManufacturedSince(since time.Time) ([]models.Product, error)
}

type CategoryProvider interface {
	GetAllCategories() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	FindByName(term string) (*models.Category, error)
}

type StorefrontHandler struct {
	products   ProductProvider
	categories CategoryProvider
}

func NewStorefrontHandler(products ProductProvider, categories CategoryProvider) *StorefrontHandler {
	return &StorefrontHandler{
		products:   products,
		categories: categories,
	}
}

type indexPage struct {
	Products []models.Product
}

type homePage struct {
	Categories []models.Category
	Selected   *models.Category
	Products   []models.Product
}

type categoryPage struct {
	Category *models.Category
	Products []models.Product
}

type cartPage struct {
	Items []cart.Entry
	Total decimal.Decimal
}

type summaryPage struct {
	Username string
	Total    decimal.Decimal
}

// HandleHome shows the latest products to anyone, logged in or not.
func (h *StorefrontHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetLatest(latestCount)
	if err != nil {
		http.Error(w, "failed to fetch products", http.StatusInternalServerError)
		return
	}
	views.Render(w, "index.html", indexPage{Products: products})
}

// HandleSearch honors exactly one of the three criteria, first present wins:
// category name, then maximum price, then minimum manufacture date. With no
// criterion it still returns the category list so navigation renders.
func (h *StorefrontHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseSearch(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	categories, err := h.categories.GetAllCategories()
	if err != nil {
		http.Error(w, "failed to fetch categories", http.StatusInternalServerError)
		return
	}

	page := homePage{Categories: categories}

	switch {
	case form.Category != "":
		selected, err := h.categories.FindByName(form.Category)
		if err == nil {
			page.Selected = selected
			page.Products, err = h.products.GetByCategory(selected.ID)
			if err != nil {
				http.Error(w, "failed to fetch products", http.StatusInternalServerError)
				return
			}
		}
	case form.MaxRate != nil:
		page.Products, err = h.products.GetByMaxRate(*form.MaxRate)
		if err != nil {
			http.Error(w, "failed to fetch products", http.StatusInternalServerError)
			return
		}
	case form.ManufacturedSince != nil:
		page.Products, err = h.products.GetManufacturedSince(*form.ManufacturedSince)
		if err != nil {
			http.Error(w, "failed to fetch products", http.StatusInternalServerError)
			return
		}
	}

	views.Render(w, "home.html", page)
}

// HandleCategory shows one category's products. A POST is an add-to-cart from
// the category page; it goes through the same snapshot add as /add_to_cart.
func (h *StorefrontHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		form, err := forms.ParseCategoryAdd(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.addToCart(w, r, form.ProductID, form.Quantity)
	}

	category, err := h.categories.GetByID(uint(id))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	products, err := h.products.GetByCategory(category.ID)
	if err != nil {
		http.Error(w, "failed to fetch products", http.StatusInternalServerError)
		return
	}

	views.Render(w, "category.html", categoryPage{Category: category, Products: products})
}

// HandleCart renders the session cart and its total.
func (h *StorefrontHandler) HandleCart(w http.ResponseWriter, r *http.Request) {
	st := session.FromContext(r.Context())
	views.Render(w, "cart.html", cartPage{
		Items: st.Session.Cart.Items(),
		Total: st.Session.Cart.Total(),
	})
}

// HandleAddToCart merges the posted quantity of the product into the cart
// and bounces back to the product's category page. An unknown product or a
// non-positive quantity is a silent no-op redirect home.
func (h *StorefrontHandler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	qty, err := forms.ParseQuantity(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := h.products.GetByID(uint(id))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	st := session.FromContext(r.Context())
	if err := st.Session.Cart.Add(product, qty); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := st.Save(r.Context()); err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/category/"+strconv.FormatUint(uint64(product.CategoryID), 10), http.StatusSeeOther)
}

// HandlePurchaseSummary is the checkout: it shows the total, then clears the
// cart. Checking out an empty cart just redirects back to the cart page.
func (h *StorefrontHandler) HandlePurchaseSummary(w http.ResponseWriter, r *http.Request) {
	st := session.FromContext(r.Context())
	if st.Session.Cart.Empty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	total := st.Session.Cart.Total()
	username := st.Session.UserName
	st.Session.Cart.Clear()
	if err := st.Save(r.Context()); err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	views.Render(w, "purchase_summary.html", summaryPage{Username: username, Total: total})
}

// addToCart is the shared snapshot add used by the category-page POST. The
// original had a second code path here storing live product references; both
// routes now mutate the cart identically.
func (h *StorefrontHandler) addToCart(w http.ResponseWriter, r *http.Request, productID uint, qty int) {
	product, err := h.products.GetByID(productID)
	if err != nil {
		return // unknown product: the page still renders
	}

	st := session.FromContext(r.Context())
	if err := st.Session.Cart.Add(product, qty); err != nil {
		return // non-positive quantity: no-op
	}
	if err := st.Save(r.Context()); err != nil {
		log.Printf("add to cart: save session: %v", err)
	}
}
