// Package usecase はlogodetectionフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	advisor "stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/logodetection/domain/entity"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// MaxCompanyNameLength は企業名の最大文字数（rune数）です。
	MaxCompanyNameLength = 100
	// MinConfidence はロゴを企業として採用する最小の信頼度です。
	MinConfidence = 0.5
	// DefaultQuestion は質問が空の場合に使う質問文です。
	DefaultQuestion = "Is this company a good investment right now?"
)

var (
	// ErrEmptyImage は画像データが空の場合に返されます。
	ErrEmptyImage = errors.New("image data is empty")
	// ErrImageTooLarge は画像が MaxImageSize を超える場合に返されます。
	ErrImageTooLarge = fmt.Errorf("image size exceeds maximum of %d bytes", MaxImageSize)
	// ErrNoLogo は採用できるロゴが検出されなかった場合に返されます。
	ErrNoLogo = errors.New("no logo detected with sufficient confidence")
	// ErrInvalidCompanyName は検出名が企業名として扱えない場合に返されます。
	ErrInvalidCompanyName = errors.New("detected company name is invalid")
)

// validCompanyName は企業名に許可される文字パターンです。
var validCompanyName = regexp.MustCompile(`^[\p{L}\p{N}\s・\-\.&,']+$`)

// LogoDetector は画像からロゴを検出するインターフェースです。
type LogoDetector interface {
	// DetectLogos は画像バイト列からロゴを検出し、検出結果を返します。
	DetectLogos(ctx context.Context, imageData []byte) ([]entity.DetectedLogo, error)
}

// InvestmentAdvisor は企業名に対する投資クエリを処理します。
type InvestmentAdvisor interface {
	AnalyzeInvestmentQuery(ctx context.Context, companyOrTicker, question string) advisor.QueryResult
}

// logodetectionUsecase はロゴ検出と、ロゴから特定した企業への投資クエリを提供します。
type logodetectionUsecase struct {
	logoDetector LogoDetector
	advisor      InvestmentAdvisor
}

// NewLogoDetectionUsecase はlogodetectionUsecaseの新しいインスタンスを生成します。
func NewLogoDetectionUsecase(ld LogoDetector, adv InvestmentAdvisor) *logodetectionUsecase {
	return &logodetectionUsecase{logoDetector: ld, advisor: adv}
}

// DetectLogos は画像データからロゴを検出します。
func (u *logodetectionUsecase) DetectLogos(ctx context.Context, imageData []byte) ([]entity.DetectedLogo, error) {
	if len(imageData) == 0 {
		return nil, ErrEmptyImage
	}
	if len(imageData) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	return u.logoDetector.DetectLogos(ctx, imageData)
}

// AskAboutLogo は最も信頼度の高いロゴの企業について投資クエリを実行します。
// 質問が空の場合は DefaultQuestion を使います。
func (u *logodetectionUsecase) AskAboutLogo(ctx context.Context, imageData []byte, question string) (*entity.LogoAnswer, error) {
	logos, err := u.DetectLogos(ctx, imageData)
	if err != nil {
		return nil, err
	}

	best, ok := bestLogo(logos)
	if !ok {
		return nil, ErrNoLogo
	}
	name := strings.TrimSpace(best.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxCompanyNameLength || !validCompanyName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCompanyName, best.Name)
	}

	if strings.TrimSpace(question) == "" {
		question = DefaultQuestion
	}
	res := u.advisor.AnalyzeInvestmentQuery(ctx, name, question)
	return &entity.LogoAnswer{Logo: best, Result: res}, nil
}

func bestLogo(logos []entity.DetectedLogo) (entity.DetectedLogo, bool) {
	var best entity.DetectedLogo
	found := false
	for _, l := range logos {
		if l.Confidence < MinConfidence {
			continue
		}
		if !found || l.Confidence > best.Confidence {
			best, found = l, true
		}
	}
	return best, found
}
