package team

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeamsRepoPg struct {
	logger *zap.SugaredLogger
	db     *gorm.DB
}

func NewTeamsRepoPg(logger *zap.SugaredLogger, db *gorm.DB) *TeamsRepoPg {
	return &TeamsRepoPg{
		logger: logger,
		db:     db,
	}
}

func (repo *TeamsRepoPg) CreateTeam(ctx context.Context, teamName, color string) (*Team, error) {
	repo.logger.Debugw("CreateTeam()", "teamName", teamName, "color", color)

	team := Team{
		TeamName: teamName,
		Color:    color,
	}
	if err := repo.db.WithContext(ctx).Create(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "SQLSTATE 23505") {
			repo.logger.Warnw("couldnt create team - already exists", "teamName", teamName)
			return nil, ErrTeamExists
		}
		repo.logger.Errorw("error creating team", "teamName", teamName, "err", err)
		return nil, err
	}

	repo.logger.Debugw("team created", "teamName", teamName)
	return &team, nil
}

func (repo *TeamsRepoPg) GetTeam(ctx context.Context, teamName string) (*Team, error) {
	repo.logger.Debugw("GetTeam()", "teamName", teamName)

	var team Team
	if err := repo.db.WithContext(ctx).
		Preload("Members").
		First(&team, "team_name = ?", teamName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			repo.logger.Warnw("team does not exist", "teamName", teamName)
			return nil, ErrTeamNotFound
		}
		repo.logger.Errorw("failed to query team", "teamName", teamName, "err", err)
		return nil, err
	}

	repo.logger.Debugw("Team found", "teamName", teamName, "membersCount", len(team.Members))
	return &team, nil
}

func (repo *TeamsRepoPg) ListTeams(ctx context.Context) ([]*Team, error) {
	repo.logger.Debugw("ListTeams()")

	var teams []*Team
	if err := repo.db.WithContext(ctx).Order("team_name ASC").Find(&teams).Error; err != nil {
		repo.logger.Errorw("failed to list teams", "err", err)
		return nil, err
	}

	return teams, nil
}

// EnsureTeams inserts the given teams, leaving already existing ones untouched.
func (repo *TeamsRepoPg) EnsureTeams(ctx context.Context, teams []Team) error {
	repo.logger.Debugw("EnsureTeams()", "teamsCount", len(teams))

	if len(teams) == 0 {
		return nil
	}

	seed := make([]Team, len(teams))
	copy(seed, teams)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error; err != nil {
		repo.logger.Errorw("failed to seed teams", "err", err)
		return err
	}

	return nil
}
