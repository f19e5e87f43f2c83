package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandleStatus(t *testing.T) {
	t.Run("reports installed state", func(t *testing.T) {
		inst := &MockInstaller{}
		inst.On("Installed", mock.Anything).Return(true, nil)
		s := newTestServer(t, inst, readyChecklist)

		w := serve(s, httptest.NewRequest("GET", "/status", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		var resp StatusResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Installed)
		assert.NotEmpty(t, resp.Version)
	})

	t.Run("reports not installed before migrations", func(t *testing.T) {
		inst := &MockInstaller{}
		inst.On("Installed", mock.Anything).Return(false, errors.New(`relation "users" does not exist`))
		s := newTestServer(t, inst, readyChecklist)

		w := serve(s, httptest.NewRequest("GET", "/status", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"installed":false`)
	})
}

func TestRootRedirectsToInstaller(t *testing.T) {
	s := newTestServer(t, &MockInstaller{}, readyChecklist)

	w := serve(s, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, PathIndex, w.Header().Get("Location"))
}

func TestStaticStylesheet(t *testing.T) {
	s := newTestServer(t, &MockInstaller{}, readyChecklist)

	w := serve(s, httptest.NewRequest("GET", "/css/install.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".help-block")
}
