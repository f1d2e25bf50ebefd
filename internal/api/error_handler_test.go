package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/apperror"
)

func TestCustomHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedKind string
	}{
		{
			name:         "検証エラーは400",
			err:          apperror.Validation(errors.New("座席IDは必須です")),
			expectedCode: http.StatusBadRequest,
			expectedKind: "validation",
		},
		{
			name:         "競合エラーは409",
			err:          apperror.Conflict("座席 42 はこの区間では既に予約されています", 42, nil),
			expectedCode: http.StatusConflict,
			expectedKind: "conflict",
		},
		{
			name:         "未検出エラーは404",
			err:          apperror.NotFound("予約が見つからないか、操作する権限がありません", "booking-123"),
			expectedCode: http.StatusNotFound,
			expectedKind: "not_found",
		},
		{
			name:         "タイムアウトエラーは504",
			err:          apperror.Timeout("制限時間超過", nil),
			expectedCode: http.StatusGatewayTimeout,
			expectedKind: "timeout",
		},
		{
			name:         "内部エラーは500",
			err:          apperror.Internal("予約作成に失敗", errors.New("接続が切断されました")),
			expectedCode: http.StatusInternalServerError,
			expectedKind: "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			CustomHTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.expectedCode, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedKind, resp.Kind)
			assert.Equal(t, tt.expectedCode, resp.Code)
		})
	}

	t.Run("内部エラーの詳細はレスポンスに含めない", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		CustomHTTPErrorHandler(apperror.Internal("予約作成に失敗", errors.New("password=secret")), c)

		assert.NotContains(t, rec.Body.String(), "password=secret")
		assert.Contains(t, rec.Body.String(), "内部サーバーエラー")
	})

	t.Run("競合エラーは座席IDを構造化フィールドで返す", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		CustomHTTPErrorHandler(apperror.Conflict("競合しました", 42, nil), c)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.SeatID)
	})

	t.Run("echoのHTTPErrorはそのままのステータスで返す", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		CustomHTTPErrorHandler(echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です"), c)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "ユーザーIDが必要です")
	})

	t.Run("分類されていないエラーは500", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		CustomHTTPErrorHandler(errors.New("未分類のエラー"), c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
