// Package handler はlogodetectionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	advisor "stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/logodetection/domain/entity"
	"stock_advisor/internal/feature/logodetection/transport/http/dto"
	"stock_advisor/internal/feature/logodetection/usecase"
	"stock_advisor/internal/platform/http/middleware"
)

// LogoDetectionUsecase はロゴ検出とロゴ起点の投資クエリのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type LogoDetectionUsecase interface {
	DetectLogos(ctx context.Context, imageData []byte) ([]entity.DetectedLogo, error)
	AskAboutLogo(ctx context.Context, imageData []byte, question string) (*entity.LogoAnswer, error)
}

// ResultRecorder は成功したクエリ結果を履歴に保存します。
type ResultRecorder interface {
	Record(ctx context.Context, res advisor.QueryResult) error
}

// LogoDetectionHandler はロゴ検出のHTTPリクエストを処理します。
type LogoDetectionHandler struct {
	uc       LogoDetectionUsecase
	recorder ResultRecorder
	now      func() time.Time
}

// NewLogoDetectionHandler はLogoDetectionHandlerの新しいインスタンスを生成します。recorder は nil でも構いません。
func NewLogoDetectionHandler(uc LogoDetectionUsecase, recorder ResultRecorder) *LogoDetectionHandler {
	return &LogoDetectionHandler{uc: uc, recorder: recorder, now: time.Now}
}

// DetectLogos は画像をアップロードしてロゴを検出します。
//
// エンドポイント: POST /v1/logo/detect
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル、最大10MB）
func (h *LogoDetectionHandler) DetectLogos(c *gin.Context) {
	imageData, ok := readImage(c)
	if !ok {
		return
	}

	logos, err := h.uc.DetectLogos(c.Request.Context(), imageData)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDetectedLogos(logos))
}

// AskAboutLogo は画像から企業を特定し、その企業について投資クエリを実行します。
//
// エンドポイント: POST /v1/logo/ask
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル）, question（任意）
func (h *LogoDetectionHandler) AskAboutLogo(c *gin.Context) {
	imageData, ok := readImage(c)
	if !ok {
		return
	}

	ans, err := h.uc.AskAboutLogo(c.Request.Context(), imageData, c.PostForm("question"))
	if err != nil {
		writeError(c, err)
		return
	}

	if ans.Result.Success && h.recorder != nil {
		if err := h.recorder.Record(c.Request.Context(), ans.Result); err != nil {
			slog.Error("failed to save query history",
				"request_id", middleware.GetRequestID(c), "ticker", ans.Result.Ticker, "error", err)
		}
	}
	c.JSON(http.StatusOK, dto.NewLogoAskResponse(ans, h.now()))
}

func readImage(c *gin.Context) ([]byte, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return nil, false
	}
	if file.Size > usecase.MaxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": usecase.ErrImageTooLarge.Error()})
		return nil, false
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return nil, false
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	imageData, err := io.ReadAll(f)
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return nil, false
	}
	return imageData, true
}

// writeError はユースケースのエラーをHTTPステータスに変換します。
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmptyImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNoLogo), errors.Is(err, usecase.ErrInvalidCompanyName):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		slog.Error("ロゴ検出に失敗", "request_id", middleware.GetRequestID(c), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "logo detection failed"})
	}
}
