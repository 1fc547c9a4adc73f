package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alaik/settlerr/internal/db"
	"github.com/alaik/settlerr/internal/types"
)

func TestGetUser(t *testing.T) {
	s, store := newTestServer(t)
	userID := seedUser(t, store, &db.NewUser{
		Username:  "amina",
		Name:      "Amina Diallo",
		Email:     "amina@example.com",
		Status:    "S",
		Interests: []string{"soccer"},
		Location:  "Calgary",
	})

	w := doJSON(t, s, http.MethodGet, "/users/"+userID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile types.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "Amina Diallo", profile.Name)
	assert.Equal(t, "Calgary", profile.Location)
}

func TestGetUser_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/users/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUser_InvalidID(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/users/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserByUsername(t *testing.T) {
	s, store := newTestServer(t)
	userID := seedUser(t, store, &db.NewUser{
		Username: "amina",
		Name:     "Amina Diallo",
		Email:    "amina@example.com",
	})

	w := doJSON(t, s, http.MethodGet, "/users/by-username?username=amina", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile types.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, userID, profile.ID)

	w = doJSON(t, s, http.MethodGet, "/users/by-username?username=nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodGet, "/users/by-username", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUser(t *testing.T) {
	s, store := newTestServer(t)
	userID, token := registerTestUser(t, s, "amina")

	w := doJSON(t, s, http.MethodPut, "/users/"+userID.String(), token, types.UpdateProfileRequest{
		Bio:       "Recently moved to Calgary, love board games.",
		Interests: []string{"board games", "hiking"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile types.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Recently moved to Calgary, love board games.", profile.Bio)
	assert.Equal(t, []string{"board games", "hiking"}, profile.Interests)

	// Fields absent from the request stay untouched.
	stored := store.users[userID]
	require.NotNil(t, stored)
	assert.Equal(t, "Test User", stored.Name)
	assert.Equal(t, "S", stored.Status)
}

func TestUpdateUser_RequiresAuth(t *testing.T) {
	s, _ := newTestServer(t)
	userID, _ := registerTestUser(t, s, "amina")

	w := doJSON(t, s, http.MethodPut, "/users/"+userID.String(), "", types.UpdateProfileRequest{Bio: "new bio"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateUser_OtherUserForbidden(t *testing.T) {
	s, _ := newTestServer(t)
	aminaID, _ := registerTestUser(t, s, "amina")
	_, bartToken := registerTestUser(t, s, "bart")

	w := doJSON(t, s, http.MethodPut, "/users/"+aminaID.String(), bartToken, types.UpdateProfileRequest{Bio: "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateUser_Validation(t *testing.T) {
	s, _ := newTestServer(t)
	userID, token := registerTestUser(t, s, "amina")

	w := doJSON(t, s, http.MethodPut, "/users/"+userID.String(), token, types.UpdateProfileRequest{Status: "Z"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error")
}

func TestDeleteUser(t *testing.T) {
	s, _ := newTestServer(t)
	userID, token := registerTestUser(t, s, "amina")

	w := doJSON(t, s, http.MethodDelete, "/users/"+userID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/users/"+userID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUser_OtherUserForbidden(t *testing.T) {
	s, _ := newTestServer(t)
	aminaID, _ := registerTestUser(t, s, "amina")
	_, bartToken := registerTestUser(t, s, "bart")

	w := doJSON(t, s, http.MethodDelete, "/users/"+aminaID.String(), bartToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdatePassword(t *testing.T) {
	s, _ := newTestServer(t)
	userID, token := registerTestUser(t, s, "amina")

	w := doJSON(t, s, http.MethodPut, "/users/"+userID.String()+"/password", token, types.UpdatePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// The old password no longer works; the new one does.
	w = doJSON(t, s, http.MethodPost, "/auth/login", "", types.LoginRequest{
		Username: "amina", Password: "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s, http.MethodPost, "/auth/login", "", types.LoginRequest{
		Username: "amina", Password: "newpassword456",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	s, _ := newTestServer(t)
	userID, token := registerTestUser(t, s, "amina")

	w := doJSON(t, s, http.MethodPut, "/users/"+userID.String()+"/password", token, types.UpdatePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "newpassword456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "current password is incorrect")

	// The original password still works.
	w = doJSON(t, s, http.MethodPost, "/auth/login", "", types.LoginRequest{
		Username: "amina", Password: "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestUpdatePassword_Validation(t *testing.T) {
	s, _ := newTestServer(t)
	userID, token := registerTestUser(t, s, "amina")

	w := doJSON(t, s, http.MethodPut, "/users/"+userID.String()+"/password", token, types.UpdatePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPut, "/users/"+userID.String()+"/password", token, types.UpdatePasswordRequest{
		NewPassword: "newpassword456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePassword_RequiresAuth(t *testing.T) {
	s, _ := newTestServer(t)
	userID, _ := registerTestUser(t, s, "amina")

	w := doJSON(t, s, http.MethodPut, "/users/"+userID.String()+"/password", "", types.UpdatePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdatePassword_OtherUserForbidden(t *testing.T) {
	s, _ := newTestServer(t)
	targetID, _ := registerTestUser(t, s, "amina")
	_, otherToken := registerTestUser(t, s, "bilal")

	w := doJSON(t, s, http.MethodPut, "/users/"+targetID.String()+"/password", otherToken, types.UpdatePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListUsersByInterest(t *testing.T) {
	s, store := newTestServer(t)
	seedUser(t, store, &db.NewUser{Username: "amina", Name: "Amina", Email: "amina@example.com",
		Interests: []string{"soccer", "cooking"}})
	seedUser(t, store, &db.NewUser{Username: "bilal", Name: "Bilal", Email: "bilal@example.com",
		Interests: []string{"soccer"}})
	seedUser(t, store, &db.NewUser{Username: "chen", Name: "Chen", Email: "chen@example.com",
		Interests: []string{"chess"}})

	w := doJSON(t, s, http.MethodGet, "/users?interest=soccer", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Users []types.UserProfile `json:"users"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "amina", resp.Users[0].Username)
	assert.Equal(t, "bilal", resp.Users[1].Username)
}

func TestListUsersByInterest_Limit(t *testing.T) {
	s, store := newTestServer(t)
	seedUser(t, store, &db.NewUser{Username: "amina", Name: "Amina", Email: "amina@example.com",
		Interests: []string{"soccer"}})
	seedUser(t, store, &db.NewUser{Username: "bilal", Name: "Bilal", Email: "bilal@example.com",
		Interests: []string{"soccer"}})

	w := doJSON(t, s, http.MethodGet, "/users?interest=soccer&limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestListUsersByInterest_ParamValidation(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "interest")

	w = doJSON(t, s, http.MethodGet, "/users?interest=soccer&limit=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
