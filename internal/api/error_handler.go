package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/apperror"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
// kind による分岐を想定しており、メッセージ文字列での判定はしない
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Code      int    `json:"code,omitempty"`
	SeatID    int64  `json:"seat_id,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
// apperror の分類をHTTPステータスへ写像する
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = "内部サーバーエラー"
		resp    ErrorResponse
	)

	var ae *apperror.Error
	if errors.As(err, &ae) {
		code = statusFromKind(ae.Kind)
		message = ae.Message
		if ae.Kind == apperror.KindInternal {
			// 内部の詳細は漏らさない
			message = "内部サーバーエラー"
		}
		resp = ErrorResponse{
			Error:     message,
			Kind:      ae.Kind.String(),
			Code:      code,
			SeatID:    ae.SeatID,
			BookingID: ae.BookingID,
		}
	} else if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
		resp = ErrorResponse{Error: message, Code: code}
	} else {
		resp = ErrorResponse{Error: message, Code: code}
	}

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, resp); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}

func statusFromKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
