package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kamgaa/lab-reservation/internal/admission"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`
	LogLevel    string `envconfig:"LOG_LEVEL" required:"true"`
	Environment string `envconfig:"ENVIRONMENT" default:"LOCAL"`

	// DB
	PGDSN string `envconfig:"PG_DSN" required:"true"`

	// Admission
	Timezone         string  `envconfig:"TIMEZONE" default:"Asia/Seoul"`
	WeeklyQuotaHours float64 `envconfig:"WEEKLY_QUOTA_HOURS" default:"24"`
	SlotMinutes      int     `envconfig:"SLOT_MINUTES" default:"30"`

	// JWT
	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTimeout   time.Duration `envconfig:"JWT_TIMEOUT" default:"12h"`
	AdminUserIDs []string      `envconfig:"ADMIN_USER_IDS"`

	// RabbitMQ, optional
	RabbitURL           string `envconfig:"RABBIT_URL"`
	ReservationExchange string `envconfig:"RESERVATION_EXCHANGE" default:"reservation.exchange"`
}

var ErrEmptyRequired = errors.New("required key has an empty value")

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}

	// envconfig only checks that required keys are set, not that they hold anything
	for key, value := range map[string]string{
		"LOG_LEVEL":  c.LogLevel,
		"PG_DSN":     c.PGDSN,
		"JWT_SECRET": c.JWTSecret,
	} {
		if strings.TrimSpace(value) == "" {
			return c, fmt.Errorf("%w: %s", ErrEmptyRequired, key)
		}
	}

	return c, nil
}

// Policy builds the admission policy. The slot step must evenly divide a day.
func (c Config) Policy() (admission.Policy, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return admission.Policy{}, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}

	if c.SlotMinutes <= 0 || timeslot.MinutesPerDay%c.SlotMinutes != 0 {
		return admission.Policy{}, fmt.Errorf("SLOT_MINUTES %d does not divide a day", c.SlotMinutes)
	}

	if c.WeeklyQuotaHours <= 0 {
		return admission.Policy{}, fmt.Errorf("WEEKLY_QUOTA_HOURS must be positive, got %v", c.WeeklyQuotaHours)
	}

	return admission.Policy{
		WeeklyQuota: time.Duration(c.WeeklyQuotaHours * float64(time.Hour)),
		SlotMinutes: c.SlotMinutes,
		Location:    loc,
	}, nil
}

func (c Config) IsAdmin(userID string) bool {
	return slices.Contains(c.AdminUserIDs, userID)
}

func (c Config) IsLocal() bool {
	return c.Environment == "LOCAL"
}
