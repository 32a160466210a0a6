package dto

import "time"

// InviteTokenResponse carries a freshly issued team-join token.
type InviteTokenResponse struct {
	Token     string    `json:"token"`
	TeamID    uint      `json:"team_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TeamJoinResponse confirms a successful enrollment.
type TeamJoinResponse struct {
	TeamID   uint `json:"team_id"`
	UserID   uint `json:"user_id"`
	MemberID uint `json:"member_id"`
}
