package notify

import (
	"fmt"
	"strings"
)

// ScheduleSummary is the schedule snapshot callers attach to notification
// requests. Golf posts carry GolfCourseName, mahjong posts VenueName; the
// renderers pick labels accordingly.
type ScheduleSummary struct {
	DateStr          string `json:"dateStr"`
	StartTime        string `json:"startTime"`
	PlayTimeSlot     string `json:"playTimeSlot"`
	ExpectedPlayTime string `json:"expectedPlayTime"`
	GolfCourseName   string `json:"golfCourseName"`
	VenueName        string `json:"venueName"`
	IsCompetition    bool   `json:"isCompetition"`
	CompetitionName  string `json:"competitionName"`
	RemainingCount   int    `json:"remainingCount"`
}

func (s *ScheduleSummary) venueLabelValue() (string, string) {
	if s.VenueName != "" {
		return "Venue", s.VenueName
	}
	return "Course", s.GolfCourseName
}

func (s *ScheduleSummary) timeLine() string {
	if s.PlayTimeSlot != "" {
		if s.ExpectedPlayTime != "" {
			return fmt.Sprintf("Time slot: %s / %s", s.PlayTimeSlot, s.ExpectedPlayTime)
		}
		return "Time slot: " + s.PlayTimeSlot
	}
	return "Time: " + s.StartTime
}

// renderBulkMessage builds the single broadcast text for a new recruiting
// post: headline, optional competition name, schedule lines, app footer.
func renderBulkMessage(s *ScheduleSummary, mahjong bool, appURL string) string {
	headline := "A new golf schedule has been posted!"
	if mahjong {
		headline = "A new mahjong session has been posted!"
	}
	label, value := s.venueLabelValue()

	var b strings.Builder
	b.WriteString(headline)
	b.WriteString("\n\n")
	if s.IsCompetition && s.CompetitionName != "" {
		fmt.Fprintf(&b, "[%s]\n", s.CompetitionName)
	}
	fmt.Fprintf(&b, "Date: %s\n", s.DateStr)
	b.WriteString(s.timeLine())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s: %s", label, value)
	b.WriteString("\n\nCheck the app for details: " + appURL)
	return b.String()
}

// renderJoinMessage builds the push text sent to a post owner when someone
// joins.
func renderJoinMessage(participantName string, s *ScheduleSummary, appURL string) string {
	label, value := s.venueLabelValue()
	var b strings.Builder
	fmt.Fprintf(&b, "%s joined your schedule.\n\n", participantName)
	fmt.Fprintf(&b, "Date: %s\n", s.DateStr)
	b.WriteString(s.timeLine())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s: %s\n", label, value)
	fmt.Fprintf(&b, "Remaining slots: %d", s.RemainingCount)
	b.WriteString("\n\nApp: " + appURL)
	return b.String()
}

// defaultUpdateMessage is used by the schedule-update path when the caller
// supplies no summary text.
const defaultUpdateMessage = "A schedule you joined has been updated. Check the app for details."
