package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"books-api/internal/shared/apperror"
	"books-api/internal/shared/patch"
)

func ptr[T any](v T) *T { return &v }

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	appErr, ok := apperror.FromValidation(err).(*apperror.Error)
	require.True(t, ok, "expected validation error, got %v", err)
	names := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestCreateAuthorRequestValidate(t *testing.T) {
	valid := CreateAuthorRequest{Name: "Ursula K. Le Guin", BirthDate: "1929-10-21"}
	require.NoError(t, valid.Validate())

	err := CreateAuthorRequest{Name: "U", BirthDate: "21/10/1929", Biography: ptr(strings.Repeat("x", 151))}.Validate()
	assert.Equal(t, []string{"biography", "birthDate", "name"}, fieldNames(t, err))

	err = CreateAuthorRequest{}.Validate()
	assert.Equal(t, []string{"birthDate", "name"}, fieldNames(t, err))
}

func TestCreateAuthorRequestToAuthor(t *testing.T) {
	a := CreateAuthorRequest{Name: "Octavia Butler", BirthDate: "1947-06-22", Biography: ptr("")}.ToAuthor()
	assert.Equal(t, "Octavia Butler", a.Name)
	assert.Equal(t, time.Date(1947, 6, 22, 0, 0, 0, 0, time.UTC), a.BirthDate)
	assert.Equal(t, ptr(""), a.Biography)
}

func TestUpdateAuthorRequestValidate(t *testing.T) {
	require.NoError(t, UpdateAuthorRequest{}.Validate())
	require.NoError(t, UpdateAuthorRequest{Name: ptr(""), Biography: patch.Some("")}.Validate())

	err := UpdateAuthorRequest{Name: ptr("A"), BirthDate: ptr("yesterday")}.Validate()
	assert.Equal(t, []string{"birthDate", "name"}, fieldNames(t, err))
}

func TestUpdateAuthorRequestFields(t *testing.T) {
	req := UpdateAuthorRequest{Name: ptr(""), BirthDate: ptr("1947-06-22"), Biography: patch.Some("")}

	plan := patch.Compile(int64(3), req.Fields()...)

	assert.Equal(t, []string{"birth_date = $1", "biography = $2"}, plan.Clauses)
	assert.Equal(t, []any{time.Date(1947, 6, 22, 0, 0, 0, 0, time.UTC), "", int64(3)}, plan.Args)
}

func TestUpdateAuthorRequestBiographyPresence(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		want     []string
		wantArgs []any
	}{
		{"absent", `{"name":"Octavia Butler"}`, []string{"name = $1"}, []any{"Octavia Butler", int64(3)}},
		{"empty", `{"biography":""}`, []string{"biography = $1"}, []any{"", int64(3)}},
		{"null clears", `{"biography":null}`, []string{"biography = $1"}, []any{nil, int64(3)}},
		{"value", `{"biography":"Kindred"}`, []string{"biography = $1"}, []any{"Kindred", int64(3)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req UpdateAuthorRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			require.NoError(t, req.Validate())

			plan := patch.Compile(int64(3), req.Fields()...)
			assert.Equal(t, tc.want, plan.Clauses)
			assert.Equal(t, tc.wantArgs, plan.Args)
		})
	}
}

func TestUpdateAuthorRequestBiographyTooLong(t *testing.T) {
	err := UpdateAuthorRequest{Biography: patch.Some(strings.Repeat("x", 151))}.Validate()
	assert.Equal(t, []string{"biography"}, fieldNames(t, err))
}
