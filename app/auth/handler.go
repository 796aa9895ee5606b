// Package auth implements the two login surfaces and the gates protecting
// customer and admin routes. Authentication marks the session; there are no
// tokens, attempt counters, or lockouts.
package auth

import (
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/greenbasket/storefront/forms"
	"github.com/greenbasket/storefront/models"
	"github.com/greenbasket/storefront/session"
	"github.com/greenbasket/storefront/views"
)

type UserProvider interface {
	GetByUsername(username string) (*models.User, error)
}

type AuthHandler struct {
	users UserProvider
}

func NewAuthHandler(users UserProvider) *AuthHandler {
	return &AuthHandler{users: users}
}

type loginPage struct {
	Error bool
}

// verify runs the bcrypt comparison. A missing user and a wrong password are
// indistinguishable to the caller.
func (h *AuthHandler) verify(username, password string) (*models.User, bool) {
	user, err := h.users.GetByUsername(username)
	if err != nil {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, false
	}
	return user, true
}

// HandleLogin serves the customer login form and processes submissions.
// Success marks the session with the customer's id and name.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		views.Render(w, "login.html", loginPage{})
		return
	}

	form, err := forms.ParseLogin(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, ok := h.verify(form.Username, form.Password)
	if !ok {
		views.Render(w, "login.html", loginPage{Error: true})
		return
	}

	st := session.FromContext(r.Context())
	st.Session.UserID = user.ID
	st.Session.UserName = user.Username
	if err := st.Save(r.Context()); err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/search", http.StatusSeeOther)
}

// HandleLogout clears the customer marker. The cart survives only until the
// session expires; logout does not touch it, matching the original behavior.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	st := session.FromContext(r.Context())
	st.Session.UserID = 0
	st.Session.UserName = ""
	if err := st.Save(r.Context()); err != nil {
		log.Printf("logout: save session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleAdminLogin is the admin variant: the same credential check plus a
// role test. Only the admin's id is stored.
func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		views.Render(w, "admin_login.html", loginPage{})
		return
	}

	form, err := forms.ParseLogin(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, ok := h.verify(form.Username, form.Password)
	if !ok || user.Role != models.RoleAdmin {
		views.Render(w, "admin_login.html", loginPage{Error: true})
		return
	}

	st := session.FromContext(r.Context())
	st.Session.AdminID = user.ID
	if err := st.Save(r.Context()); err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (h *AuthHandler) HandleAdminLogout(w http.ResponseWriter, r *http.Request) {
	st := session.FromContext(r.Context())
	st.Session.AdminID = 0
	if err := st.Save(r.Context()); err != nil {
		log.Printf("admin logout: save session: %v", err)
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// RequireCustomer admits the request only when the session carries a
// customer marker; otherwise it redirects to the login page and the wrapped
// handler never runs.
func RequireCustomer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := session.FromContext(r.Context())
		if st == nil || st.Session.UserID == 0 {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// RequireAdmin is the admin gate. A logged-in customer without the admin
// marker is redirected the same as an anonymous visitor.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := session.FromContext(r.Context())
		if st == nil || st.Session.AdminID == 0 {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
