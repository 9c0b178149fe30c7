// Package relationship resolves directed friend-link rows into the current
// viewer's perspective: who the other party is and how the link should be
// grouped for display.
package relationship

import (
	"errors"

	"racemates/internal/models"
)

// ErrNotAParticipant is returned when the viewer is neither side of a link.
// Such links are irrelevant to the viewer and must be filtered out before
// display; hitting this at runtime is a caller bug.
var ErrNotAParticipant = errors.New("viewer is not a participant of this friend link")

// Classification describes how a resolved link should be grouped.
type Classification string

const (
	// Friend is an accepted link, regardless of direction.
	Friend Classification = "friend"
	// OutgoingPending is a pending request the viewer sent.
	OutgoingPending Classification = "outgoing_pending"
	// IncomingPending is a pending request the viewer received (actionable).
	IncomingPending Classification = "incoming_pending"
	// Inactive is a rejected or blocked link, hidden from all lists.
	Inactive Classification = "inactive"
)

// Resolution is the viewer-relative view of a friend link.
type Resolution struct {
	Link           *models.FriendLink `json:"link"`
	Classification Classification     `json:"classification"`
	OtherPartyID   uint               `json:"other_party_id"`
	// OtherParty is the denormalized profile of the opposite side. May be
	// nil when the snapshot was not loaded or the account is gone; check
	// Displayable before rendering.
	OtherParty  *models.User `json:"other_party,omitempty"`
	Displayable bool         `json:"displayable"`
}

// Resolve determines, for the given viewer, the other party and the display
// classification of a friend link. Pure: no I/O, no mutation of link.
func Resolve(selfID uint, link *models.FriendLink) (Resolution, error) {
	if selfID != link.RequesterID && selfID != link.AddresseeID {
		return Resolution{}, ErrNotAParticipant
	}

	res := Resolution{Link: link}
	if selfID == link.RequesterID {
		res.OtherPartyID = link.AddresseeID
		res.OtherParty = link.Addressee
	} else {
		res.OtherPartyID = link.RequesterID
		res.OtherParty = link.Requester
	}
	res.Displayable = res.OtherParty != nil

	switch link.Status {
	case models.FriendLinkStatusAccepted:
		res.Classification = Friend
	case models.FriendLinkStatusPending:
		if selfID == link.RequesterID {
			res.Classification = OutgoingPending
		} else {
			res.Classification = IncomingPending
		}
	default: // rejected, blocked
		res.Classification = Inactive
	}

	return res, nil
}

// Lists groups a viewer's resolved links for the three user-facing views.
type Lists struct {
	Friends  []Resolution `json:"friends"`
	Incoming []Resolution `json:"incoming"`
	Outgoing []Resolution `json:"outgoing"`
}

// Partition resolves each link from the viewer's perspective and groups the
// results. Inactive links and links the viewer is not part of are dropped.
func Partition(selfID uint, links []models.FriendLink) Lists {
	var out Lists
	for i := range links {
		res, err := Resolve(selfID, &links[i])
		if err != nil {
			continue
		}
		switch res.Classification {
		case Friend:
			out.Friends = append(out.Friends, res)
		case IncomingPending:
			out.Incoming = append(out.Incoming, res)
		case OutgoingPending:
			out.Outgoing = append(out.Outgoing, res)
		}
	}
	return out
}
