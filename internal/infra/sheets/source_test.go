package sheets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *WatchlistSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger, _ := test.NewNullLogger()
	return NewWatchlistSource("sheet-123", "対象リスト", "E", logger,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
}

func TestCodesReadsColumnA(t *testing.T) {
	var gotPath string
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "COLUMNS", r.URL.Query().Get("majorDimension"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"range": "'対象リスト'!A1:A6",
			"majorDimension": "COLUMNS",
			"values": [["コード", " E00001 ", "", "E00002", "memo", "E00001"]]
		}`)
	})

	codes, err := src.Codes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"E00001", "E00002", "E00001"}, codes)
	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-123/values/"), gotPath)
}

func TestCodesEmptySheet(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"range": "'対象リスト'!A1:A1000", "majorDimension": "COLUMNS"}`)
	})

	codes, err := src.Codes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestCodesClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			name:   "spreadsheet missing",
			status: http.StatusNotFound,
			body:   `{"error": {"code": 404, "message": "Requested entity was not found.", "status": "NOT_FOUND"}}`,
			want:   ErrSpreadsheetNotFound,
		},
		{
			name:   "worksheet missing",
			status: http.StatusBadRequest,
			body:   `{"error": {"code": 400, "message": "Unable to parse range: '対象リスト'!A:A", "status": "INVALID_ARGUMENT"}}`,
			want:   ErrWorksheetNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := src.Codes(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCodesPermissionDenied(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error": {"code": 403, "message": "The caller does not have permission", "status": "PERMISSION_DENIED"}}`)
	})

	_, err := src.Codes(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSpreadsheetNotFound)
	assert.NotErrorIs(t, err, ErrWorksheetNotFound)
}
