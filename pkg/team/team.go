package team

import (
	"context"
	"errors"
	"time"

	"github.com/kamgaa/lab-reservation/pkg/user"
)

var (
	ErrTeamExists   = errors.New("TEAM_EXISTS")
	ErrTeamNotFound = errors.New("TEAM_NOT_FOUND")
)

// Team - quota is accounted per team. Color is only used by clients drawing the
// day schedule.
type Team struct {
	TeamName  string `gorm:"primaryKey;type:varchar(64);column:team_name"`
	Color     string `gorm:"type:varchar(16);not null;column:color"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Members []*user.User `gorm:"foreignKey:TeamName;references:TeamName"`
}

// DefaultTeams are the lab teams seeded on startup.
var DefaultTeams = []Team{
	{TeamName: "CAD_UAV", Color: "#1f77b4"},
	{TeamName: "Palletrone", Color: "#ff7f0e"},
	{TeamName: "Ja!warm", Color: "#2ca02c"},
	{TeamName: "Crazyflie", Color: "#d62728"},
}

type TeamsRepo interface {
	CreateTeam(ctx context.Context, teamName, color string) (*Team, error)
	GetTeam(ctx context.Context, teamName string) (*Team, error)
	ListTeams(ctx context.Context) ([]*Team, error)
	EnsureTeams(ctx context.Context, teams []Team) error
}
