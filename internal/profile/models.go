package profile

import "time"

// UserProfile merges LINE-provided display attributes with the fields users
// edit themselves. The LINE attributes are refreshed on every save and are
// never the source of truth here.
type UserProfile struct {
	UserID        string   `json:"userId" bson:"userId"`
	DisplayName   string   `json:"displayName" bson:"displayName"`
	PictureURL    string   `json:"pictureUrl,omitempty" bson:"pictureUrl,omitempty"`
	StatusMessage string   `json:"statusMessage,omitempty" bson:"statusMessage,omitempty"`
	CompanyName   string   `json:"companyName" bson:"companyName"`
	AverageScore  *float64 `json:"averageScore" bson:"averageScore"`
	PlayStyle     string   `json:"playStyle" bson:"playStyle"`
	// ProfileCheckboxes is the notification tag set used for bulk targeting.
	ProfileCheckboxes []string `json:"profileCheckboxes" bson:"profileCheckboxes"`
	// MahjongRecruitNotify opts the user into mahjong recruiting broadcasts.
	MahjongRecruitNotify bool      `json:"mahjongRecruitNotify" bson:"mahjongRecruitNotify"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updatedAt"`
}

// LineProfile carries the provider-sourced attributes supplied at save time.
type LineProfile struct {
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

// FormData carries the user-editable fields of a profile save.
type FormData struct {
	CompanyName          string   `json:"companyName"`
	AverageScore         *float64 `json:"averageScore"`
	PlayStyle            string   `json:"playStyle"`
	ProfileCheckboxes    []string `json:"profileCheckboxes"`
	MahjongRecruitNotify bool     `json:"mahjongRecruitNotify"`
}
