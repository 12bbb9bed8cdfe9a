package dto

import "github.com/noah-isme/teach-assist-api/internal/models"

// GenerateAnnouncementRequest carries the teacher's raw notice.
type GenerateAnnouncementRequest struct {
	RawText string `json:"raw_text" validate:"required"`
	Tone    string `json:"tone"`
}

// GenerateAnnouncementResponse is the persisted formal announcement.
type GenerateAnnouncementResponse struct {
	AnnouncementID int64                        `json:"announcement_id"`
	FormalText     string                       `json:"formal_text"`
	Preview        string                       `json:"preview"`
	Channels       []models.AnnouncementChannel `json:"channels"`
}

// SendAnnouncementRequest builds delivery links for an announcement.
type SendAnnouncementRequest struct {
	AnnouncementID int64                      `json:"announcement_id" validate:"required,gt=0"`
	Channel        models.AnnouncementChannel `json:"channel" validate:"required,channel"`
	Recipients     []string                   `json:"recipients"`
}

// SendAnnouncementResponse reports the delivery outcome.
type SendAnnouncementResponse struct {
	AnnouncementID int64                      `json:"announcement_id"`
	Channel        models.AnnouncementChannel `json:"channel"`
	Recipients     []string                   `json:"recipients"`
	Status         string                     `json:"status"`
	Link           *string                    `json:"link"`
}
