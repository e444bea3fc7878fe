package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	var p payload
	require.NoError(t, DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`)), &p))
	assert.Equal(t, "x", p.Name)

	err := DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &p)
	assert.ErrorIs(t, err, ErrEmptyBody)

	err = DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`)), &p)
	assert.Error(t, err)

	assert.NoError(t, DecodeOptionalJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &p))
}

func TestPathInt64(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{value: "42", want: 42},
		{value: "0", wantErr: true},
		{value: "-1", wantErr: true},
		{value: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tt.value})
			got, err := PathInt64(r, "id")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?a=1,2&a=3&price=9.5&page=2&q=%20%20&n=x", nil)

	assert.Equal(t, []string{"1", "2", "3"}, QueryList(r, "a"))
	assert.Empty(t, QueryList(r, "missing"))

	price, err := QueryFloat(r, "price")
	require.NoError(t, err)
	assert.Equal(t, 9.5, *price)

	page, err := QueryInt(r, "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page)

	size, err := QueryInt(r, "pageSize", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, size)

	assert.Nil(t, QueryString(r, "q"))

	_, err = QueryInt64(r, "n")
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestRespondUnprocessable(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondUnprocessable(rec, "please complete the info step", []string{"email"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrorResponse{Code: 422, Message: "please complete the info step", Fields: []string{"email"}}, resp)
}
