package models

import "time"

// AnnouncementChannel is a delivery channel offered for an announcement.
type AnnouncementChannel string

const (
	ChannelWhatsApp AnnouncementChannel = "whatsapp"
	ChannelEmail    AnnouncementChannel = "email"
	ChannelSMS      AnnouncementChannel = "sms"
)

// AnnouncementChannels lists the channels advertised on generation.
var AnnouncementChannels = []AnnouncementChannel{ChannelWhatsApp, ChannelEmail, ChannelSMS}

// Announcement is created once and never mutated.
type Announcement struct {
	ID        int64     `db:"id" json:"id"`
	TeacherID int64     `db:"teacher_id" json:"teacher_id"`
	ClassID   int64     `db:"class_id" json:"class_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
