package api

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/grocart/internal/models"
)

// Users is the client of the users resource: registration, login and
// logout.
type Users struct {
	http *resty.Client
}

// NewUsers creates a users client bound to the given base URL.
func NewUsers(baseURL string, timeout time.Duration) *Users {
	return &Users{http: newRestyClient(baseURL, timeout)}
}

// Register creates a new user account and returns the resulting user.
func (c *Users) Register(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	var registered models.User

	response, err := c.http.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&registered).
		Post("/register")
	if err := checkResponse(response, err); err != nil {
		return models.User{}, err
	}

	if err := validateShape(registered); err != nil {
		return models.User{}, err
	}

	return registered, nil
}

// Login authenticates by email and password, passed as query parameters
// the way the backend expects them, and returns the user together with
// its session number.
func (c *Users) Login(ctx context.Context, email, password string) (models.User, error) {
	var loggedIn models.User

	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("email", email).
		SetQueryParam("password", password).
		SetResult(&loggedIn).
		Post("/login")
	if err := checkResponse(response, err); err != nil {
		return models.User{}, err
	}

	if err := validateShape(loggedIn); err != nil {
		return models.User{}, err
	}

	return loggedIn, nil
}

// Logout invalidates the given session number server-side.
func (c *Users) Logout(ctx context.Context, session string) error {
	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("session", session).
		Post("/logout")

	return checkResponse(response, err)
}
