package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_Login(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.auth.AddPassword(context.Background(), "sparkle")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "sparkle"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":null,"message":"Login successful"}`, w.Body.String())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"success":false,"data":null,"message":"Invalid password"}`, w.Body.String())
	})

	t.Run("MissingPasswordField", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid password", decode(t, w).Message)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", `{"password":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decode(t, w).Success)
	})
}

func TestAuthController_Passwords(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/getallpasswords", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Fetched successfully", resp.Message)
	assert.JSONEq(t, `[]`, string(resp.Data))

	w = env.do(t, http.MethodPost, "/api/auth/passwords", map[string]string{"password": "newpass"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	assert.Equal(t, "Password added successfully", resp.Message)
	assert.NotContains(t, string(resp.Data), "newpass")
	assert.NotContains(t, string(resp.Data), "password")

	var added struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &added))
	require.NotZero(t, added.ID)

	w = env.do(t, http.MethodGet, "/api/auth/getallpasswords", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &listed))
	require.Len(t, listed, 1)
	assert.NotContains(t, listed[0], "password")

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "newpass"})
	assert.Equal(t, http.StatusOK, w.Code)

	path := fmt.Sprintf("/api/auth/passwords/%d", added.ID)
	w = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":null,"message":"Password deleted successfully"}`, w.Body.String())

	w = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"data":null,"message":"Password not found"}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "newpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_AddPasswordValidation(t *testing.T) {
	env := setupTestEnv(t)

	cases := []struct {
		name string
		body any
	}{
		{"Blank", map[string]string{"password": "  "}},
		{"Missing", map[string]string{}},
		{"TooLong", map[string]string{"password": strings.Repeat("a", 80)}},
		{"Malformed", `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/passwords", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, decode(t, w).Success)
		})
	}
}

func TestAuthController_DeletePasswordBadID(t *testing.T) {
	env := setupTestEnv(t)

	for _, id := range []string{"abc", "0", "-1"} {
		w := env.do(t, http.MethodDelete, "/api/auth/passwords/"+id, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
}
