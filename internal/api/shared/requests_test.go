package shared

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nameRequest struct {
	Name string `json:"name" validate:"required,max=5"`
}

type selfValidating struct {
	OK bool `json:"ok"`
}

func (s selfValidating) Validate() error {
	if !s.OK {
		return errors.New("not ok")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"abc"}`, want: "abc"},
		{name: "empty body", body: ``, wantErr: true},
		{name: "unknown field", body: `{"name":"abc","extra":1}`, wantErr: true},
		{name: "trailing data", body: `{"name":"abc"}{"name":"def"}`, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			var req nameRequest
			err := DecodeJSON(w, r, &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Name)
		})
	}
}

func TestDecodeJSON_EmptyBodySentinel(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(""))
	var req nameRequest
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &req), ErrEmptyBody)
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(nameRequest{Name: "abc"}))
	assert.Error(t, ValidateRequest(nameRequest{}))
	assert.Error(t, ValidateRequest(nameRequest{Name: "toolong"}))

	assert.NoError(t, ValidateRequest(selfValidating{OK: true}))
	assert.EqualError(t, ValidateRequest(selfValidating{}), "not ok")
}
