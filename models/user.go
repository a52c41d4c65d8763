package models

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RolePlayer    UserRole = "player"
)

// Actor описывает того, кто выполняет операцию (для журнала аудита).
type Actor struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
}

func (a Actor) CanManageCompetitions() bool {
	return a.Role == RoleAdmin || a.Role == RoleOrganizer
}
