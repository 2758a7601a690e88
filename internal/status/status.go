// Package status defines the closed status and reason enums shared by
// publications and reports, including the publication transition table.
package status

// Publication is a publication lifecycle status.
type Publication string

const (
	PublicationActive   Publication = "active"
	PublicationResolved Publication = "resolved"
	PublicationInactive Publication = "inactive"
)

// Valid reports whether s is a known publication status.
func (s Publication) Valid() bool {
	switch s {
	case PublicationActive, PublicationResolved, PublicationInactive:
		return true
	}
	return false
}

// ownerTransitions is the owner-initiated transition table. Resolved is
// terminal for owners; only an admin override can leave it.
var ownerTransitions = map[Publication][]Publication{
	PublicationActive:   {PublicationResolved, PublicationInactive},
	PublicationInactive: {PublicationActive},
	PublicationResolved: {},
}

// CanTransitionTo reports whether an owner may move a publication from s
// to target. Re-issuing the current status is handled by the caller as an
// idempotent no-op, not through this table.
func (s Publication) CanTransitionTo(target Publication) bool {
	for _, t := range ownerTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// PubliclyVisible reports whether listings in this status appear in the
// public directory. Inactive listings are visible only to their owner.
func (s Publication) PubliclyVisible() bool {
	return s == PublicationActive || s == PublicationResolved
}

// PublicStatuses returns the statuses shown in the public directory.
func PublicStatuses() []Publication {
	return []Publication{PublicationActive, PublicationResolved}
}

// PublicationType distinguishes found-pet from lost-pet listings.
type PublicationType string

const (
	TypeFound PublicationType = "found"
	TypeLost  PublicationType = "lost"
)

func (t PublicationType) Valid() bool {
	return t == TypeFound || t == TypeLost
}

// Report is a report review status.
type Report string

const (
	ReportPending   Report = "pending"
	ReportReviewed  Report = "reviewed"
	ReportResolved  Report = "resolved"
	ReportDismissed Report = "dismissed"
)

// Valid reports whether r is a known report status. Unlike publication
// statuses there is no transition table: moderation is a human action and
// any valid status is reachable from any other.
func (r Report) Valid() bool {
	switch r {
	case ReportPending, ReportReviewed, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

// Reason is a report reason.
type Reason string

const (
	ReasonInappropriate Reason = "contenido_inapropiado"
	ReasonFalseInfo     Reason = "informacion_falsa"
	ReasonSpam          Reason = "spam"
	ReasonOther         Reason = "otro"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonInappropriate, ReasonFalseInfo, ReasonSpam, ReasonOther:
		return true
	}
	return false
}
