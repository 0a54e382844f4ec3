package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/service"
)

func TestGetPathParam(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		path        string
		expectError bool
		expected    string
	}{
		{
			name:     "present parameter",
			pattern:  "/folders/{folder}",
			path:     "/folders/math",
			expected: "math",
		},
		{
			name:        "missing parameter",
			pattern:     "/folders",
			path:        "/folders",
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var (
				got string
				err error
			)
			r := chi.NewRouter()
			r.Get(tc.pattern, func(w http.ResponseWriter, r *http.Request) {
				got, err = getPathParam(r, "folder")
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))

			if tc.expectError {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseStatsQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		expectedKey service.SortKey
		expectDesc  bool
		expectedErr error
	}{
		{name: "defaults", query: "", expectedKey: service.SortByAccuracy, expectDesc: true},
		{name: "sort by name", query: "?sort=name", expectedKey: service.SortByName, expectDesc: true},
		{name: "ascending", query: "?sort=wrong&asc=true", expectedKey: service.SortByWrong, expectDesc: false},
		{name: "explicit descending", query: "?asc=false", expectedKey: service.SortByAccuracy, expectDesc: true},
		{name: "unknown sort key", query: "?sort=speed", expectedErr: service.ErrInvalidSortKey},
		{name: "malformed asc", query: "?asc=maybe", expectedErr: domain.ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/folders/math/stats"+tc.query, nil)

			key, desc, err := parseStatsQuery(req)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedKey, key)
			assert.Equal(t, tc.expectDesc, desc)
		})
	}
}
