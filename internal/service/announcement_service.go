package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

const (
	generatedAnnouncementTitle = "Generated Announcement"
	announcementPreviewRunes   = 50
	announcementSent           = "sent"
)

type announcementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
}

// AnnouncementService turns teacher notices into stored announcements and
// per-channel delivery links.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AnnouncementService{repo: repo, validator: validate, logger: logger}
	if err := svc.validator.RegisterValidation("channel", func(fl validator.FieldLevel) bool {
		for _, ch := range models.AnnouncementChannels {
			if string(ch) == fl.Field().String() {
				return true
			}
		}
		return false
	}); err != nil {
		logger.Error("register channel validation", zap.Error(err))
	}
	return svc
}

// Generate formalises raw text and persists it as a new announcement.
func (s *AnnouncementService) Generate(ctx context.Context, actor models.Actor, req dto.GenerateAnnouncementRequest) (*dto.GenerateAnnouncementResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation(err, "invalid announcement payload")
	}
	formal := FormalText(req.RawText)
	if formal == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "raw_text must not be blank")
	}

	announcement := &models.Announcement{
		TeacherID: actor.UserID,
		ClassID:   actor.ClassID,
		Title:     generatedAnnouncementTitle,
		Content:   formal,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, internal(err, "failed to create announcement")
	}

	s.logger.Info("announcement generated", zap.Int64("announcement_id", announcement.ID), zap.String("tone", req.Tone))
	return &dto.GenerateAnnouncementResponse{
		AnnouncementID: announcement.ID,
		FormalText:     formal,
		Preview:        Preview(formal),
		Channels:       models.AnnouncementChannels,
	}, nil
}

// Send builds the delivery link for the requested channel. Only WhatsApp
// yields a link, addressed to the first recipient.
func (s *AnnouncementService) Send(ctx context.Context, req dto.SendAnnouncementRequest) (*dto.SendAnnouncementResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation(err, "invalid send payload")
	}
	announcement, err := s.repo.GetByID(ctx, req.AnnouncementID)
	if err != nil {
		return nil, lookup(err, "Announcement")
	}

	var link *string
	if req.Channel == models.ChannelWhatsApp {
		if len(req.Recipients) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "whatsapp requires at least one recipient")
		}
		l, linkErr := WhatsAppLink(req.Recipients[0], announcement.Content)
		if linkErr != nil {
			return nil, validation(linkErr, "invalid whatsapp recipient")
		}
		link = &l
	}

	s.logger.Info("announcement sent",
		zap.Int64("announcement_id", announcement.ID),
		zap.String("channel", string(req.Channel)),
		zap.Int("recipients", len(req.Recipients)),
	)
	return &dto.SendAnnouncementResponse{
		AnnouncementID: announcement.ID,
		Channel:        req.Channel,
		Recipients:     req.Recipients,
		Status:         announcementSent,
		Link:           link,
	}, nil
}

// FormalText trims raw and upper-cases its first character.
func FormalText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToUpper(first)) + trimmed[size:]
}

// Preview truncates text to 50 characters followed by "...".
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= announcementPreviewRunes {
		return text
	}
	return string([]rune(text)[:announcementPreviewRunes]) + "..."
}

// WhatsAppLink builds a wa.me deep link for recipient carrying text.
func WhatsAppLink(recipient, text string) (string, error) {
	var digits strings.Builder
	for _, r := range recipient {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", errors.New("recipient has no digits")
	}
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + digits.String() + "?text=" + encoded, nil
}
