package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/grocart/internal/models"
)

const testTimeout = 5 * time.Second

func jsonResponse(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func TestUsersLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "dana@example.com", r.URL.Query().Get("email"))
		assert.Equal(t, "secret", r.URL.Query().Get("password"))

		jsonResponse(t, w, http.StatusOK, models.User{
			ID:      "user-1",
			Name:    "Dana",
			Email:   "dana@example.com",
			Session: "session-1",
		})
	}))
	defer server.Close()

	loggedIn, err := NewUsers(server.URL, testTimeout).Login(context.Background(), "dana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", loggedIn.ID)
	assert.Equal(t, "session-1", loggedIn.Session)
}

func TestUsersLoginCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusUnauthorized, models.ErrorResponse{Message: "wrong email or password"})
	}))
	defer server.Close()

	_, err := NewUsers(server.URL, testTimeout).Login(context.Background(), "dana@example.com", "bad")
	require.Error(t, err)

	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "wrong email or password", apiErr.Message)
}

func TestUsersLoginRejectsMalformedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A user without an identifier must fail boundary validation
		// instead of flowing into the stores as a zero value.
		jsonResponse(t, w, http.StatusOK, map[string]string{"email": "dana@example.com"})
	}))
	defer server.Close()

	_, err := NewUsers(server.URL, testTimeout).Login(context.Background(), "dana@example.com", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response shape")
}

func TestUsersRegisterSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/register", r.URL.Path)

		var request models.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "Dana", request.Name)

		jsonResponse(t, w, http.StatusCreated, models.User{
			ID:    "user-1",
			Name:  request.Name,
			Email: request.Email,
		})
	}))
	defer server.Close()

	registered, err := NewUsers(server.URL, testTimeout).Register(context.Background(), models.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", registered.ID)
}

func TestUsersLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/logout", r.URL.Path)
		assert.Equal(t, "session-1", r.URL.Query().Get("session"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, NewUsers(server.URL, testTimeout).Logout(context.Background(), "session-1"))
}

func TestCartsCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/new", r.URL.Path)

		var owner models.User
		require.NoError(t, json.NewDecoder(r.Body).Decode(&owner))
		assert.Equal(t, "user-1", owner.ID)

		jsonResponse(t, w, http.StatusCreated, models.SavedCart{ID: "cart-1", UserID: owner.ID})
	}))
	defer server.Close()

	created, err := NewCarts(server.URL, testTimeout).Create(context.Background(), models.User{
		ID:    "user-1",
		Email: "dana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "cart-1", created.ID)
}

func TestCartsArchiveSendsName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cart-1/archive", r.URL.Path)

		var archive models.ArchiveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&archive))
		assert.Equal(t, "weekly shop", archive.Name)

		jsonResponse(t, w, http.StatusOK, models.SavedCart{ID: "cart-1", Archived: true})
	}))
	defer server.Close()

	assert.NoError(t, NewCarts(server.URL, testTimeout).Archive(context.Background(), "cart-1", "weekly shop"))
}

func TestCartsActivateAndDelete(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewCarts(server.URL, testTimeout)

	require.NoError(t, client.Activate(context.Background(), "cart-1"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/cart-1/activate", gotPath)

	require.NoError(t, client.Delete(context.Background(), "cart-1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/cart-1", gotPath)
}

func TestCartsHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history/user-1", r.URL.Path)

		jsonResponse(t, w, http.StatusOK, []models.SavedCart{
			{ID: "cart-1", UserID: "user-1", CreatedAt: time.Now().UTC()},
			{ID: "cart-2", UserID: "user-1", CreatedAt: time.Now().UTC()},
		})
	}))
	defer server.Close()

	history, err := NewCarts(server.URL, testTimeout).History(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCartItemsAddAndRemove(t *testing.T) {
	var gotMethod, gotPath, gotQuantity string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotQuantity = r.URL.Query().Get("quantity")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewCartItems(server.URL, testTimeout)

	require.NoError(t, client.Add(context.Background(), "cart-1", "7", 3))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/cart-1/items/7", gotPath)
	assert.Equal(t, "3", gotQuantity)

	require.NoError(t, client.Remove(context.Background(), "cart-1", "7", 2))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/cart-1/items/7", gotPath)
	assert.Equal(t, "2", gotQuantity)
}

func TestCategoriesEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/general":
			jsonResponse(t, w, http.StatusOK, []string{"Dairy", "Produce"})
		case "/sub":
			assert.Equal(t, "Dairy", r.URL.Query().Get("general"))
			jsonResponse(t, w, http.StatusOK, []string{"Milk", "Cheese"})
		case "/specific":
			assert.Equal(t, "Dairy", r.URL.Query().Get("general"))
			assert.Equal(t, "Milk", r.URL.Query().Get("sub"))
			jsonResponse(t, w, http.StatusOK, []string{"Fresh Milk"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewCategories(server.URL, testTimeout)
	ctx := context.Background()

	generals, err := client.General(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dairy", "Produce"}, generals)

	subs, err := client.Sub(ctx, "Dairy")
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk", "Cheese"}, subs)

	specifics, err := client.Specific(ctx, "Dairy", "Milk")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh Milk"}, specifics)
}

func TestItemsSearchByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/by-name", r.URL.Path)
		assert.Equal(t, "milk", r.URL.Query().Get("name"))

		jsonResponse(t, w, http.StatusOK, []models.Item{
			{ID: "1", Name: "Milk", Prices: map[string]float64{"ShopA": 2}},
		})
	}))
	defer server.Close()

	items, err := NewItems(server.URL, testTimeout).SearchByName(context.Background(), "milk")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
}

func TestItemsSearchRejectsMalformedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusOK, []map[string]string{{"name": "Milk"}})
	}))
	defer server.Close()

	_, err := NewItems(server.URL, testTimeout).SearchByName(context.Background(), "milk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response shape")
}

func TestItemsByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/by-id/7", r.URL.Path)
		jsonResponse(t, w, http.StatusOK, models.Item{ID: "7", Name: "Coffee"})
	}))
	defer server.Close()

	item, err := NewItems(server.URL, testTimeout).ByID(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", item.Name)
}

func TestItemsByCategoryPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "Dairy", query.Get("generalCategory"))
		assert.Equal(t, "Milk", query.Get("subCategory"))
		assert.Equal(t, "2", query.Get("page"))
		assert.Equal(t, "5", query.Get("size"))

		jsonResponse(t, w, http.StatusOK, []models.Item{})
	}))
	defer server.Close()

	items, err := NewItems(server.URL, testTimeout).ByCategory(context.Background(), "Dairy", "Milk", 2, 5)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestErrorWithoutBodyStillCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewCarts(server.URL, testTimeout).Delete(context.Background(), "cart-1")
	require.Error(t, err)

	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}
