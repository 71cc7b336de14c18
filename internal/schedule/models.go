package schedule

import "time"

// Type discriminates the two schedule variants stored in a collection.
type Type string

const (
	// TypeRecruit is a post with a fixed number of open slots others can join.
	TypeRecruit Type = "RECRUIT"
	// TypeWish is a standing "I want to play" post with no capacity.
	TypeWish Type = "WISH"
)

// Schedule is the persistent document for both variants. Golf and mahjong
// schedules share this shape and live in separate collections; wish-only
// fields are omitted from recruit documents and vice versa.
type Schedule struct {
	ID        string    `json:"id" bson:"id"`
	Type      Type      `json:"type" bson:"type"`
	PosterID  string    `json:"posterId" bson:"posterId"`
	DateStr   string    `json:"dateStr" bson:"dateStr"`
	MonthKey  string    `json:"monthKey" bson:"monthKey"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`

	// RECRUIT fields
	StartTime        string    `json:"startTime,omitempty" bson:"startTime,omitempty"`
	PlayTimeSlot     string    `json:"playTimeSlot,omitempty" bson:"playTimeSlot,omitempty"`
	ExpectedPlayTime string    `json:"expectedPlayTime,omitempty" bson:"expectedPlayTime,omitempty"`
	DateTime         time.Time `json:"dateTime,omitempty" bson:"dateTime,omitempty"`
	VenueName        string    `json:"venueName,omitempty" bson:"venueName,omitempty"`
	PlayFee          int       `json:"playFee" bson:"playFee"`
	RecruitCount     int       `json:"recruitCount" bson:"recruitCount"`
	Participants     []string  `json:"participants" bson:"participants"`
	IsCompetition    bool      `json:"isCompetition,omitempty" bson:"isCompetition,omitempty"`
	CompetitionName  string    `json:"competitionName,omitempty" bson:"competitionName,omitempty"`

	// WISH fields
	WishDateStart time.Time  `json:"wishDateStart,omitempty" bson:"wishDateStart,omitempty"`
	WishDateEnd   *time.Time `json:"wishDateEnd,omitempty" bson:"wishDateEnd,omitempty"`
	WishVenueName string     `json:"wishVenueName,omitempty" bson:"wishVenueName,omitempty"`
	WishArea      string     `json:"wishArea,omitempty" bson:"wishArea,omitempty"`
	MaxPlayFee    int        `json:"maxPlayFee,omitempty" bson:"maxPlayFee,omitempty"`
}

// Form carries the fields a poster submits when creating a schedule.
type Form struct {
	Type             Type     `json:"type"`
	DateStr          string   `json:"dateStr"`
	StartTime        string   `json:"startTime"`
	PlayTimeSlot     string   `json:"playTimeSlot"`
	ExpectedPlayTime string   `json:"expectedPlayTime"`
	VenueName        string   `json:"venueName"`
	PlayFee          int      `json:"playFee"`
	RecruitCount     int      `json:"recruitCount"`
	Participants     []string `json:"participants"`
	IsCompetition    bool     `json:"isCompetition"`
	CompetitionName  string   `json:"competitionName"`

	WishVenueName string `json:"wishVenueName"`
	WishArea      string `json:"wishArea"`
	MaxPlayFee    int    `json:"maxPlayFee"`
}

// RecruitUpdate carries the editable fields of a recruit post. MonthKey and
// DateTime are derived by the service, never taken from the caller, so the
// month partition can never diverge from the date.
type RecruitUpdate struct {
	DateStr          string   `json:"dateStr"`
	StartTime        string   `json:"startTime"`
	PlayTimeSlot     string   `json:"playTimeSlot"`
	ExpectedPlayTime string   `json:"expectedPlayTime"`
	VenueName        string   `json:"venueName"`
	PlayFee          int      `json:"playFee"`
	RecruitCount     int      `json:"recruitCount"`
	Participants     []string `json:"participants"`
	IsCompetition    bool     `json:"isCompetition"`
	CompetitionName  string   `json:"competitionName"`

	monthKey string
	dateTime time.Time
}

// MonthKey returns the YYYY-MM partition key for a YYYY-MM-DD date string.
func MonthKey(dateStr string) string {
	if len(dateStr) < 7 {
		return dateStr
	}
	return dateStr[:7]
}
