package model

import "time"

// Support message vocabulary.
var (
	SupportTypes    = []string{"quick", "custom"}
	SupportStatuses = []string{"visible", "hidden", "flagged"}
	ReportReasons   = []string{"spam", "abuse", "suspicious", "other"}
)

// ReportFlagThreshold is the number of distinct reports that auto-flags a
// support message for moderation.
const ReportFlagThreshold = 3

// SupportMessage is a short encouragement left on a campaign by a donor.
// Quick messages carry a preset key; custom messages carry free text that is
// screened before publication.
type SupportMessage struct {
	ID               uint64    // campaign_support_messages.id
	CampaignID       uint64    // campaign_support_messages.campaign_id
	ActorUserID      uint64    // campaign_support_messages.actor_user_id
	Type             string    // "quick" | "custom"
	QuickKey         *string   // preset key, set only for quick messages
	Message          *string   // free text, set only for custom messages
	Status           string    // "visible" | "hidden" | "flagged"
	AutoFlag         bool      // true when moderation flagged it automatically
	ModerationReason *string   // why it was flagged/hidden (nullable)
	CreatedAt        time.Time // campaign_support_messages.created_at
}

// SupportReport is one user's report against a support message. A user may
// report a given message at most once.
type SupportReport struct {
	ID             uint64    // support_reports.id
	SupportID      uint64    // support_reports.support_id
	ReporterUserID uint64    // support_reports.reporter_user_id
	Reason         string    // support_reports.reason
	Note           *string   // support_reports.note (nullable)
	CreatedAt      time.Time // support_reports.created_at
}

func ValidSupportType(v string) bool   { return contains(SupportTypes, v) }
func ValidSupportStatus(v string) bool { return contains(SupportStatuses, v) }
func ValidReportReason(v string) bool  { return contains(ReportReasons, v) }
