package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"binary-signal-bot-go/internal/models"
	"binary-signal-bot-go/internal/quota"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Validation errors surfaced to the caller as form-level rejections.
var (
	ErrMissingFields = errors.New("email and password are required")
	ErrMissingName   = errors.New("username is required for sign up")
	ErrUnknownPlan   = errors.New("unknown plan tier")
)

// Credentials are the simulated sign-in form fields.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service is the fake authentication collaborator. There is no backend:
// the session is a single persisted flag and the "account" is the locally
// stored profile row.
type Service struct {
	db     *gorm.DB
	quota  *quota.Tracker
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an auth Service.
func NewService(db *gorm.DB, tracker *quota.Tracker, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		quota:  tracker,
		logger: logger.Named("auth"),
		now:    time.Now,
	}
}

// Profile returns the stored profile, falling back to the default profile
// when the row is missing or unreadable.
func (s *Service) Profile() models.UserProfile {
	var profile models.UserProfile
	if err := s.db.First(&profile).Error; err != nil {
		s.logger.Warn("Failed to load stored profile, using default", zap.Error(err))
		return models.DefaultProfile()
	}
	return profile
}

// SignIn validates the form and activates the local session. Sign-up
// creates a fresh profile and unconditionally resets the quota for the new
// account; sign-in reconciles the quota against today instead.
// The returned bool reports whether this was a new user.
func (s *Service) SignIn(creds Credentials, signUp bool) (models.UserProfile, bool, error) {
	if strings.TrimSpace(creds.Email) == "" || strings.TrimSpace(creds.Password) == "" {
		return models.UserProfile{}, false, ErrMissingFields
	}
	if signUp && strings.TrimSpace(creds.Username) == "" {
		return models.UserProfile{}, false, ErrMissingName
	}

	profile := s.Profile()
	today := quota.Today(s.now())

	if signUp {
		profile.Username = creds.Username
		profile.Email = creds.Email
		profile.Plan = models.PlanFree
		profile.AvatarInitials = initials(creds.Username)

		if err := s.db.Save(&profile).Error; err != nil {
			return models.UserProfile{}, false, fmt.Errorf("failed to store new profile: %w", err)
		}
		if err := s.quota.ResetForNewUser(today, models.PlanAllotment(profile.Plan)); err != nil {
			return models.UserProfile{}, false, err
		}
		if err := s.setSession(true, false); err != nil {
			return models.UserProfile{}, false, err
		}
		s.logger.Info("New account created", zap.String("username", profile.Username))
		return profile, true, nil
	}

	// Existing user: keep the stored username/plan, refresh the email.
	profile.Email = creds.Email
	if err := s.db.Save(&profile).Error; err != nil {
		return models.UserProfile{}, false, fmt.Errorf("failed to update profile: %w", err)
	}
	if _, err := s.quota.Reconcile(today, models.PlanAllotment(profile.Plan)); err != nil {
		return models.UserProfile{}, false, err
	}
	if err := s.setActive(true); err != nil {
		return models.UserProfile{}, false, err
	}
	s.logger.Info("Signed in", zap.String("username", profile.Username))
	return profile, false, nil
}

// SignOut deactivates the session. Profile, history and quota stay intact.
func (s *Service) SignOut() error {
	if err := s.setActive(false); err != nil {
		return err
	}
	s.logger.Info("Signed out")
	return nil
}

// Session returns the persisted session state.
func (s *Service) Session() (models.SessionState, error) {
	var session models.SessionState
	if err := s.db.First(&session).Error; err != nil {
		return models.SessionState{}, fmt.Errorf("failed to load session state: %w", err)
	}
	return session, nil
}

// Active reports whether a session is currently active. Read errors count
// as signed out.
func (s *Service) Active() bool {
	session, err := s.Session()
	if err != nil {
		return false
	}
	return session.Active
}

// MarkWelcomeSeen records that the welcome splash has been shown.
func (s *Service) MarkWelcomeSeen() error {
	return s.updateSession(func(session *models.SessionState) {
		session.SeenWelcome = true
	})
}

// UpdateProfile stores an edited profile. A plan change immediately
// re-baselines the trade allotment to the new tier.
func (s *Service) UpdateProfile(updated models.UserProfile) (models.UserProfile, error) {
	if !models.ValidPlan(updated.Plan) {
		return models.UserProfile{}, ErrUnknownPlan
	}

	current := s.Profile()
	planChanged := current.Plan != updated.Plan

	current.Username = updated.Username
	current.Email = updated.Email
	current.Plan = updated.Plan
	current.AvatarInitials = initials(updated.Username)

	if err := s.db.Save(&current).Error; err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to store profile: %w", err)
	}

	if planChanged {
		if err := s.quota.Rebaseline(models.PlanAllotment(current.Plan)); err != nil {
			return models.UserProfile{}, err
		}
		s.logger.Info("Plan changed",
			zap.String("plan", current.Plan),
			zap.Int("allotment", models.PlanAllotment(current.Plan)))
	}
	return current, nil
}

func (s *Service) setSession(active, seenWelcome bool) error {
	return s.updateSession(func(session *models.SessionState) {
		session.Active = active
		session.SeenWelcome = seenWelcome
	})
}

func (s *Service) setActive(active bool) error {
	return s.updateSession(func(session *models.SessionState) {
		session.Active = active
	})
}

func (s *Service) updateSession(mutate func(*models.SessionState)) error {
	session, err := s.Session()
	if err != nil {
		return err
	}
	mutate(&session)
	if err := s.db.Save(&session).Error; err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

func initials(username string) string {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "TP"
	}
	if len(trimmed) == 1 {
		return strings.ToUpper(trimmed)
	}
	return strings.ToUpper(trimmed[:2])
}
