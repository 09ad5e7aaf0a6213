package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSetRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := newTestServices(t)
	h := NewSetHandler(svc.collection, svc.logger)
	return newRouter(
		route{http.MethodGet, "/api/sets", h.ListSets},
		route{http.MethodPost, "/api/sets", h.CreateSet},
		route{http.MethodPost, "/api/sets/import", h.ImportSet},
		route{http.MethodGet, "/api/sets/{id}", h.GetSet},
		route{http.MethodPatch, "/api/sets/{id}", h.RenameSet},
		route{http.MethodDelete, "/api/sets/{id}", h.DeleteSet},
		route{http.MethodPost, "/api/sets/{id}/cards", h.AddCard},
		route{http.MethodPut, "/api/sets/{id}/cards/{index}", h.UpdateCard},
		route{http.MethodDelete, "/api/sets/{id}/cards/{index}", h.DeleteCard},
	)
}

func TestSetHandler_Lifecycle(t *testing.T) {
	router := newSetRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sets", CreateSetRequest{
		Name:  "Spanish",
		Cards: []CardRequest{{Question: "perro", Answer: "dog"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[SetResponse](t, w)
	assert.Equal(t, 1, created.CardCount)

	w = doJSON(t, router, http.MethodPost, "/api/sets", CreateSetRequest{Name: "spanish"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "A set with this name already exists", decode[errorBody](t, w).Error)

	base := "/api/sets/" + created.ID
	w = doJSON(t, router, http.MethodPost, base+"/cards", CardRequest{Question: "gato", Answer: "cat"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, decode[SetResponse](t, w).CardCount)

	w = doJSON(t, router, http.MethodPut, base+"/cards/1", CardRequest{Question: "gato", Answer: "kitty"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "kitty", decode[SetResponse](t, w).Cards[1].Answer)

	w = doJSON(t, router, http.MethodPut, base+"/cards/9", CardRequest{Question: "q", Answer: "a"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, base+"/cards/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, base+"/cards/0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gato", decode[SetResponse](t, w).Cards[0].Question)

	w = doJSON(t, router, http.MethodPatch, base, RenameSetRequest{Name: "Español"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Español", decode[SetResponse](t, w).Name)

	w = doJSON(t, router, http.MethodGet, "/api/sets", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]SetResponse](t, w), 1)

	w = doJSON(t, router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code, "deleting an unknown set is a no-op")

	w = doJSON(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetHandler_CreateValidation(t *testing.T) {
	router := newSetRouter(t)

	tests := []struct {
		name string
		body interface{}
		want string
	}{
		{"missing name", CreateSetRequest{}, "Invalid name: required field"},
		{"blank name", CreateSetRequest{Name: "   "}, "Name cannot be empty"},
		{"card without answer", CreateSetRequest{Name: "x", Cards: []CardRequest{{Question: "q"}}}, "Invalid answer: required field"},
		{"bad image", CreateSetRequest{Name: "x", Cards: []CardRequest{{Question: "q", Answer: "a", Image: "http://x"}}}, "Cards[0].image must be an image data URI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/sets", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode[errorBody](t, w).Error)
		})
	}
}

func multipartUpload(t *testing.T, filename, content, name string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if name != "" {
		require.NoError(t, mw.WriteField("name", name))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sets/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSetHandler_Import(t *testing.T) {
	router := newSetRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "capitals.csv", "question,answer\nFrance,Paris\nSpain,\n", ""))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[ImportResponse](t, w)
	assert.Equal(t, "capitals", res.Set.Name)
	assert.Equal(t, 1, res.Set.CardCount)
	assert.Equal(t, 1, res.Skipped)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "notes.txt", "France,Paris\n", "Notes"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "empty.csv", "question,answer\n", "Empty"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/sets/import", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
