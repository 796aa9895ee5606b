// Package admin implements the management surface: CRUD over categories and
// products. Every route here sits behind the admin gate. Deletes are
// unconditional and never cascade; a missing id silently redirects back to
// the listing page.
package admin

import (
	"net/http"
	"strconv"

	"github.com/greenbasket/storefront/forms"
	"github.com/greenbasket/storefront/models"
	"github.com/greenbasket/storefront/views"
)

type CategoryProvider interface {
	GetAllCategories() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	CreateCategory(category *models.Category) error
	UpdateCategory(category *models.Category) error
	DeleteCategory(id uint) error
}

type ProductProvider interface {
	GetAllProducts() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	CreateProduct(p *models.Product) error
	UpdateProduct(p *models.Product) error
	DeleteProduct(id uint) error
}

type AdminHandler struct {
	categories CategoryProvider
	products   ProductProvider
}

func NewAdminHandler(categories CategoryProvider, products ProductProvider) *AdminHandler {
	return &AdminHandler{
		categories: categories,
		products:   products,
	}
}

type categoriesPage struct {
	Categories []models.Category
}

type categoryFormPage struct {
	Category *models.Category
}

type productsPage struct {
	Products   []models.Product
	Categories []models.Category
}

type productEditPage struct {
	Product    *models.Product
	Categories []models.Category
}

// --- Categories ---

func (h *AdminHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetAllCategories()
	if err != nil {
		http.Error(w, "failed to fetch categories", http.StatusInternalServerError)
		return
	}
	views.Render(w, "admin_categories.html", categoriesPage{Categories: categories})
}

func (h *AdminHandler) HandleAddCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		views.Render(w, "admin_category_form.html", categoryFormPage{})
		return
	}

	form, err := forms.ParseCategory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.categories.CreateCategory(&models.Category{Name: form.Name}); err != nil {
		http.Error(w, "failed to create category", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (h *AdminHandler) HandleEditCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		views.Render(w, "admin_category_form.html", categoryFormPage{Category: category})
		return
	}

	form, err := forms.ParseCategory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	category.Name = form.Name
	if err := h.categories.UpdateCategory(category); err != nil {
		http.Error(w, "failed to update category", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// HandleRemoveCategory confirms on GET and deletes on POST. The delete only
// removes the category row; products referencing it are left in place.
func (h *AdminHandler) HandleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		views.Render(w, "admin_category_remove.html", categoryFormPage{Category: category})
		return
	}

	if err := h.categories.DeleteCategory(category.ID); err != nil {
		http.Error(w, "failed to delete category", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// --- Products ---

func (h *AdminHandler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAllProducts()
	if err != nil {
		http.Error(w, "failed to fetch products", http.StatusInternalServerError)
		return
	}
	categories, err := h.categories.GetAllCategories()
	if err != nil {
		http.Error(w, "failed to fetch categories", http.StatusInternalServerError)
		return
	}
	views.Render(w, "admin_products.html", productsPage{Products: products, Categories: categories})
}

func (h *AdminHandler) HandleAddProduct(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseProduct(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.categories.GetByID(form.CategoryID); err != nil {
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return
	}

	product := &models.Product{
		Name:            form.Name,
		Rate:            form.Rate,
		Quantity:        form.Quantity,
		CategoryID:      form.CategoryID,
		ManufactureDate: form.ManufactureDate,
		ExpiryDate:      form.ExpiryDate,
	}
	if err := h.products.CreateProduct(product); err != nil {
		http.Error(w, "failed to create product", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

func (h *AdminHandler) HandleEditProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromPath(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		categories, err := h.categories.GetAllCategories()
		if err != nil {
			http.Error(w, "failed to fetch categories", http.StatusInternalServerError)
			return
		}
		views.Render(w, "admin_product_edit.html", productEditPage{Product: product, Categories: categories})
		return
	}

	form, err := forms.ParseProduct(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product.Name = form.Name
	product.Rate = form.Rate
	product.Quantity = form.Quantity
	product.ManufactureDate = form.ManufactureDate
	product.ExpiryDate = form.ExpiryDate
	// The category only changes when the posted id resolves.
	if _, err := h.categories.GetByID(form.CategoryID); err == nil {
		product.CategoryID = form.CategoryID
	}

	if err := h.products.UpdateProduct(product); err != nil {
		http.Error(w, "failed to update product", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// HandleRemoveProduct deletes immediately on GET, as the original did.
func (h *AdminHandler) HandleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromPath(w, r)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(product.ID); err != nil {
		http.Error(w, "failed to delete product", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// categoryFromPath resolves {id}; on any failure it redirects to the listing
// and reports false.
func (h *AdminHandler) categoryFromPath(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
		return nil, false
	}
	category, err := h.categories.GetByID(uint(id))
	if err != nil {
		http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
		return nil, false
	}
	return category, true
}

func (h *AdminHandler) productFromPath(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return nil, false
	}
	product, err := h.products.GetByID(uint(id))
	if err != nil {
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return nil, false
	}
	return product, true
}
