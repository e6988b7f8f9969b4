package team_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kamgaa/lab-reservation/pkg/team"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(TeamsMatcher()),
	)
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{})

	require.NoError(t, err)

	return gdb, mock, func() { mockDB.Close() }
}

func TeamsMatcher() sqlmock.QueryMatcher {
	return sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		normalize := func(s string) string {
			return strings.Join(strings.Fields(s), " ")
		}

		act := normalize(actual)
		exp := normalize(expected)

		if strings.HasPrefix(act, exp) {
			return nil
		}

		return sqlmock.ErrCancelled
	})
}

func TestTeamsRepoPg_CreateTeam(t *testing.T) {
	tests := []struct {
		name     string
		mockFunc func(sqlmock.Sqlmock)
		wantErr  error
	}{
		{
			name: "success",
			mockFunc: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(`INSERT INTO "teams"`).
					WithArgs("CAD_UAV", "#1f77b4", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
				m.ExpectCommit()
			},
		},
		{
			name: "team already exists",
			mockFunc: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(`INSERT INTO "teams"`).
					WithArgs("CAD_UAV", "#1f77b4", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnError(errors.New("SQLSTATE 23505"))
				m.ExpectRollback()
			},
			wantErr: team.ErrTeamExists,
		},
		{
			name: "sql error",
			mockFunc: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(`INSERT INTO "teams"`).
					WithArgs("CAD_UAV", "#1f77b4", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnError(gorm.ErrInvalidDB)
				m.ExpectRollback()
			},
			wantErr: gorm.ErrInvalidDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()

			repo := team.NewTeamsRepoPg(zap.NewNop().Sugar(), db)
			tt.mockFunc(mock)

			got, err := repo.CreateTeam(context.Background(), "CAD_UAV", "#1f77b4")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, "CAD_UAV", got.TeamName)
				require.Equal(t, "#1f77b4", got.Color)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTeamsRepoPg_GetTeam(t *testing.T) {
	tests := []struct {
		name        string
		teamName    string
		mockFunc    func(sqlmock.Sqlmock)
		wantErr     error
		wantMembers []string
	}{
		{
			name:     "success",
			teamName: "Palletrone",
			mockFunc: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"team_name", "color", "created_at", "updated_at",
				}).AddRow(
					"Palletrone", "#ff7f0e", time.Now(), time.Now(),
				)
				m.ExpectQuery(`SELECT * FROM "teams"`).
					WithArgs("Palletrone", 1).
					WillReturnRows(rows)
				userRows := sqlmock.NewRows([]string{
					"user_id", "name", "password_hash", "team_name", "created_at", "updated_at",
				}).AddRow(
					"24510047", "홍길동", "hash", "Palletrone", time.Now(), time.Now(),
				).AddRow(
					"24510048", "김철수", "hash", "Palletrone", time.Now(), time.Now(),
				)
				m.ExpectQuery(`SELECT * FROM "users"`).
					WithArgs("Palletrone").
					WillReturnRows(userRows)
			},
			wantMembers: []string{"24510047", "24510048"},
		},
		{
			name:     "team not found",
			teamName: "unknown",
			mockFunc: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`SELECT * FROM "teams"`).
					WithArgs("unknown", 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			wantErr: team.ErrTeamNotFound,
		},
		{
			name:     "sql error",
			teamName: "Palletrone",
			mockFunc: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`SELECT * FROM "teams"`).
					WithArgs("Palletrone", 1).
					WillReturnError(gorm.ErrInvalidDB)
			},
			wantErr: gorm.ErrInvalidDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()

			repo := team.NewTeamsRepoPg(zap.NewNop().Sugar(), db)
			tt.mockFunc(mock)

			got, err := repo.GetTeam(context.Background(), tt.teamName)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.teamName, got.TeamName)
				require.Len(t, got.Members, len(tt.wantMembers))
				for i, member := range got.Members {
					require.Equal(t, tt.wantMembers[i], member.UserID)
					require.Equal(t, tt.teamName, member.TeamName)
				}
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTeamsRepoPg_ListTeams(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := team.NewTeamsRepoPg(zap.NewNop().Sugar(), db)

	rows := sqlmock.NewRows([]string{"team_name", "color", "created_at", "updated_at"}).
		AddRow("CAD_UAV", "#1f77b4", time.Now(), time.Now()).
		AddRow("Crazyflie", "#d62728", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT * FROM "teams" ORDER BY team_name ASC`).WillReturnRows(rows)

	got, err := repo.ListTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Crazyflie", got[1].TeamName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamsRepoPg_EnsureTeams(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := team.NewTeamsRepoPg(zap.NewNop().Sugar(), db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "teams"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.EnsureTeams(context.Background(), team.DefaultTeams))
	require.NoError(t, repo.EnsureTeams(context.Background(), nil))

	require.NoError(t, mock.ExpectationsWereMet())
}
