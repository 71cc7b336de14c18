package schedule

import "strings"

// Participant is the decoded identity of one joined user. Entries recorded
// before LINE identity linking carry no user id, only a display name; both
// forms must keep comparing equal against the same person.
type Participant struct {
	UserID      string `json:"userId,omitempty"`
	DisplayName string `json:"displayName"`
}

// ParseParticipant decodes the stored string form. Qualified entries are
// "<userId>:<displayName>" (split on the first colon); anything else is a
// bare display name.
func ParseParticipant(raw string) Participant {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) == 2 {
		return Participant{UserID: parts[0], DisplayName: parts[1]}
	}
	return Participant{DisplayName: raw}
}

// Encode returns the persistence encoding of the entry.
func (p Participant) Encode() string {
	if p.UserID != "" {
		return p.UserID + ":" + p.DisplayName
	}
	return p.DisplayName
}

// nameOrID is the comparison fallback used against unqualified entries.
func (p Participant) nameOrID() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.UserID
}

// Same reports whether this stored entry denotes the same person as the
// candidate. Qualified entries match on user id or on display name (covers
// candidates that predate identity linking); bare entries compare the whole
// string against the candidate's name-or-id fallback.
func (p Participant) Same(candidate Participant) bool {
	if p.UserID != "" {
		if candidate.UserID != "" && p.UserID == candidate.UserID {
			return true
		}
		return p.DisplayName == candidate.nameOrID()
	}
	return p.DisplayName == candidate.nameOrID()
}

// DecodeParticipants decodes every stored entry of a recruit post.
func DecodeParticipants(raw []string) []Participant {
	out := make([]Participant, 0, len(raw))
	for _, r := range raw {
		out = append(out, ParseParticipant(r))
	}
	return out
}
