package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LVVS666/yatube-project/models"
)

func TestRegisterAndMe(t *testing.T) {
	r, db := setupRouter(t)

	form := url.Values{
		"username": {"newcomer"},
		"password": {"password123"},
		"email":    {"newcomer@example.com"},
	}
	w := doForm(r, http.MethodPost, "/auth/register/", "", form)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "newcomer", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	var stored models.User
	require.NoError(t, db.Where("username = ?", "newcomer").First(&stored).Error)
	assert.NotEqual(t, "password123", stored.PasswordHash)

	w = doGet(r, "/auth/me/", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeData(t, w)
	assert.Equal(t, "newcomer", me["username"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r, db := setupRouter(t)
	createUser(t, db, "taken")

	form := url.Values{
		"username": {"taken"},
		"password": {"password123"},
	}
	w := doForm(r, http.MethodPost, "/auth/register/", "", form)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterInvalidUsername(t *testing.T) {
	r, _ := setupRouter(t)

	form := url.Values{
		"username": {"no spaces allowed"},
		"password": {"password123"},
	}
	w := doForm(r, http.MethodPost, "/auth/register/", "", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	r, db := setupRouter(t)
	createUser(t, db, "walker")

	form := url.Values{
		"username": {"walker"},
		"password": {"password123"},
	}
	w := doForm(r, http.MethodPost, "/auth/login/", "", form)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	token, _ := data["token"].(string)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	r, db := setupRouter(t)
	createUser(t, db, "walker")

	form := url.Values{
		"username": {"walker"},
		"password": {"wrong-password"},
	}
	w := doForm(r, http.MethodPost, "/auth/login/", "", form)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	r, db := setupRouter(t)
	user := createUser(t, db, "departing-user")
	auth := authHeader(t, user)

	w := doForm(r, http.MethodPost, "/auth/logout/", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/auth/me/", auth)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
