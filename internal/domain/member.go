package domain

import "time"

const (
	MembershipGuest    = "guest"
	MembershipStandard = "standard"
	MembershipPremium  = "premium"
	MembershipVIP      = "vip"

	WalkInMemberName = "Walk-in"
)

// MembershipTypes lista os tipos de associação conhecidos, do sem vínculo ao vip
var MembershipTypes = []string{MembershipGuest, MembershipStandard, MembershipPremium, MembershipVIP}

func IsValidMembershipType(membershipType string) bool {
	for _, t := range MembershipTypes {
		if t == membershipType {
			return true
		}
	}
	return false
}

type Member struct {
	ID             string     `json:"id"`
	ClubID         string     `json:"club_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	MembershipType string     `json:"membership_type"`
	JoinDate       time.Time  `json:"join_date"`
	LastVisit      *time.Time `json:"last_visit"`
	TotalSpent     float64    `json:"total_spent"`
	VisitCount     int        `json:"visit_count"`
}

// CheckIn é um registro de presença de um membro, independente de transações
type CheckIn struct {
	ID        int64     `json:"id"`
	ClubID    string    `json:"club_id"`
	MemberID  string    `json:"member_id"`
	Timestamp time.Time `json:"timestamp"`
}
