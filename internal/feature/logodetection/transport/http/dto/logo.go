// Package dto はlogodetectionフィーチャーのHTTPレスポンス型を定義します。
package dto

import (
	"time"

	advisordto "stock_advisor/internal/feature/advisor/transport/http/dto"
	"stock_advisor/internal/feature/logodetection/domain/entity"
)

// DetectedLogoResponse は検出されたロゴ1件です。
type DetectedLogoResponse struct {
	Name       string  `json:"name"`
	Confidence float32 `json:"confidence"`
}

// LogoAskResponse は POST /v1/logo/ask のレスポンスです。
type LogoAskResponse struct {
	Logo   DetectedLogoResponse     `json:"logo"`
	Result advisordto.QueryResponse `json:"result"`
}

// NewDetectedLogos は検出結果をレスポンス用に変換します。
func NewDetectedLogos(logos []entity.DetectedLogo) []DetectedLogoResponse {
	out := make([]DetectedLogoResponse, 0, len(logos))
	for _, l := range logos {
		out = append(out, DetectedLogoResponse{Name: l.Name, Confidence: l.Confidence})
	}
	return out
}

// NewLogoAskResponse は LogoAnswer をレスポンス用に変換します。
func NewLogoAskResponse(ans *entity.LogoAnswer, now time.Time) LogoAskResponse {
	return LogoAskResponse{
		Logo:   DetectedLogoResponse{Name: ans.Logo.Name, Confidence: ans.Logo.Confidence},
		Result: advisordto.NewQueryResponse(ans.Result, now),
	}
}
