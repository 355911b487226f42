package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/event"
	"staffhub/internal/models"
	"staffhub/internal/repository"
	"staffhub/utils"
)

type IAuthService interface {
	Register(ctx context.Context, username, email, password, roleName string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Logout(ctx context.Context, userID string) error
	GetUserByID(userID string) (*models.User, error)
	GetAllUsers(limit, offset int) (*models.GetAllUsersResponse, error)
	BanUser(userID string, until int64) error
	UnbanUser(userID string) error
	DeactivateUser(userID string) error
}

type AuthService struct {
	userRepo       repository.IUserRepository
	auditRepo      repository.IAuditRepository
	cacheRepo      repository.CacheRepository
	sessionService *SessionService
	roleService    *RoleService
	jwtService     *JWTService
	eventPublisher *event.StaffEventPublisher

	globalLoginAttempt map[string]int
	mu                 *sync.Mutex

	now func() time.Time
}

func NewAuthService(
	userRepo repository.IUserRepository,
	auditRepo repository.IAuditRepository,
	cacheRepo repository.CacheRepository,
	sessionService *SessionService,
	jwtService *JWTService,
	roleService *RoleService,
	eventPublisher *event.StaffEventPublisher,
) *AuthService {
	return &AuthService{
		userRepo:           userRepo,
		auditRepo:          auditRepo,
		cacheRepo:          cacheRepo,
		sessionService:     sessionService,
		jwtService:         jwtService,
		roleService:        roleService,
		eventPublisher:     eventPublisher,
		globalLoginAttempt: make(map[string]int),
		mu:                 &sync.Mutex{},
		now:                time.Now,
	}
}

// WithClock overrides the time source. Tests use this to pin lock windows.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

var (
	passwordNumberRegex = regexp.MustCompile(`[0-9]`)
	passwordLetterRegex = regexp.MustCompile(`[a-zA-Z]`)
)

func (s *AuthService) Register(ctx context.Context, username, email, password, roleName string) (*models.User, error) {
	if isvalid, err := utils.ValidateUsername(username); !isvalid {
		return nil, apperrors.BadRequest("invalid username: %v", err)
	}
	if isvalid, err := utils.ValidateEmail(email); !isvalid {
		return nil, apperrors.BadRequest("invalid email: %v", err)
	}
	if len(password) < 8 || !passwordNumberRegex.MatchString(password) || !passwordLetterRegex.MatchString(password) {
		return nil, apperrors.BadRequest("password must be at least 8 characters with letters and digits")
	}

	if _, err := s.userRepo.GetUserByUsername(username); err == nil {
		return nil, apperrors.Conflict("username %s is already taken", username)
	}
	if _, err := s.userRepo.GetUserByEmail(email); err == nil {
		return nil, apperrors.Conflict("email %s is already registered", email)
	}

	newUser := models.User{
		ID:           "US" + utils.GenerateRandomStringWithLength(8),
		Username:     username,
		Email:        email,
		PasswordHash: password,
		Status:       models.UserStatusActive,
		LockedUntil:  0,
	}
	if err := s.userRepo.CreateUser(&newUser); err != nil {
		return nil, fmt.Errorf("error creating new user: %w", err)
	}

	if roleName == "" {
		roleName = models.RoleEmployee
	}
	if err := s.roleService.AssignRoleByName(newUser.ID, roleName, nil); err != nil {
		log.Printf("failed to assign role %s to user %s: %v", roleName, newUser.ID, err)
		return nil, fmt.Errorf("error assigning role: %w", err)
	}

	s.audit(&newUser.ID, models.AuditActionRegister, true, nil)
	s.publishEvent(event.StaffEvent{
		Type:    event.EventUserRegistered,
		UserID:  newUser.ID,
		Subject: newUser.Username,
	})

	return &newUser, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	user := s.getCachedUser(ctx, username)
	if user == nil {
		var err error
		user, err = s.userRepo.GetUserByUsername(username)
		if err != nil {
			// An unknown username reads exactly like a wrong password, so the
			// endpoint cannot be used to enumerate accounts.
			log.Printf("user searching failed: %s \n", err)
			return nil, apperrors.Unauthorized("username or password incorrect")
		}
		s.cacheUser(ctx, user)
	}

	if !s.userRepo.CheckPasswordHash(password, user.PasswordHash) {
		attemptCount := s.incrementLoginAttempts(ctx, user.ID)

		if attemptCount%5 == 0 {
			log.Printf("Suspicious login activity detected for user %s: %d attempts", user.ID, attemptCount)
			s.publishEvent(event.StaffEvent{
				Type:    event.EventSuspiciousLogin,
				UserID:  user.ID,
				Subject: user.Username,
			})
		}
		if attemptCount%10 == 0 {
			log.Println("account blocked due to too many failed login attempts")
			s.BanUser(user.ID, s.now().Unix()+(int64(attemptCount)*60))
			s.audit(&user.ID, models.AuditActionLogin, false, strPtr("account locked"))
			return nil, apperrors.Unauthorized("account blocked due to too many failed login attempts")
		}
		s.audit(&user.ID, models.AuditActionLogin, false, strPtr("invalid password"))
		return nil, apperrors.Unauthorized("username or password incorrect")
	}

	if user.Status == models.UserStatusSuspended {
		if user.LockedUntil > 0 && s.now().Unix() > user.LockedUntil {
			if err := s.UnbanUser(user.ID); err != nil {
				log.Printf("Failed to automatically unban user %s: %v", user.ID, err)
				return nil, apperrors.Forbidden("account blocked, contact an administrator")
			}
			user.Status = models.UserStatusActive
			user.LockedUntil = 0
		} else {
			return nil, apperrors.Forbidden("account blocked, contact an administrator")
		}
	}
	if user.Status == models.UserStatusDeactivated {
		return nil, apperrors.Forbidden("account deactivated, contact an administrator")
	}

	roles, err := s.roleService.GetUserRoles(user.ID, true)
	if err != nil {
		log.Println("error get user roles: ", err)
		return nil, fmt.Errorf("error get user roles: %w", err)
	}
	roleNames := []string{}
	for _, role := range roles {
		roleNames = append(roleNames, role.Name)
	}

	token, err := s.jwtService.GenerateNewToken(roleNames, user.Username, user.Email, user.ID)
	if err != nil {
		log.Println("error generating token: ", err)
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	// A new login rotates the refresh session, so any previously issued
	// refresh token stops working.
	session, err := s.sessionService.IssueSession(ctx, user.ID)
	if err != nil {
		log.Println("error issuing session: ", err)
		return nil, fmt.Errorf("error issuing session: %w", err)
	}

	s.resetLoginAttempts(ctx, user.ID)

	nowTime := s.now()
	user.LastLogin = &nowTime
	if err := s.userRepo.UpdateUser(user); err != nil {
		log.Printf("failed to record last login for user %s: %v", user.ID, err)
	}
	s.cacheUser(ctx, user)

	s.audit(&user.ID, models.AuditActionLogin, true, nil)

	return &models.AuthResponse{
		AccessToken:  token,
		RefreshToken: session.Token,
		TokenType:    "Bearer",
		Username:     user.Username,
		Email:        user.Email,
		Roles:        roleNames,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	session, err := s.sessionService.RedeemSession(ctx, refreshToken)
	if err != nil {
		s.audit(nil, models.AuditActionRefresh, false, strPtr("refresh rejected"))
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading user for refresh: %w", err)
	}
	if user.Status != models.UserStatusActive {
		// The account was locked or deactivated after the session was issued.
		s.sessionService.InvalidateUserSessions(ctx, user.ID)
		return nil, apperrors.Forbidden("account is not active")
	}

	roles, err := s.roleService.GetUserRoles(user.ID, true)
	if err != nil {
		return nil, fmt.Errorf("error get user roles: %w", err)
	}
	roleNames := []string{}
	for _, role := range roles {
		roleNames = append(roleNames, role.Name)
	}

	token, err := s.jwtService.GenerateNewToken(roleNames, user.Username, user.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.audit(&user.ID, models.AuditActionRefresh, true, nil)

	return &models.AuthResponse{
		AccessToken:  token,
		RefreshToken: session.Token,
		TokenType:    "Bearer",
		Username:     user.Username,
		Email:        user.Email,
		Roles:        roleNames,
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !s.userRepo.CheckPasswordHash(currentPassword, user.PasswordHash) {
		s.audit(&user.ID, models.AuditActionChangePassword, false, strPtr("current password incorrect"))
		return apperrors.BadRequest("current password is incorrect")
	}
	if len(newPassword) < 8 || !passwordNumberRegex.MatchString(newPassword) || !passwordLetterRegex.MatchString(newPassword) {
		return apperrors.BadRequest("password must be at least 8 characters with letters and digits")
	}

	if err := s.userRepo.UpdatePassword(user.ID, newPassword); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	// Every outstanding refresh session dies with the old password.
	if err := s.sessionService.InvalidateUserSessions(ctx, user.ID); err != nil {
		log.Printf("failed to invalidate sessions after password change for user %s: %v", user.ID, err)
	}
	s.invalidateCachedUser(ctx, user.Username)

	s.audit(&user.ID, models.AuditActionChangePassword, true, nil)
	s.publishEvent(event.StaffEvent{
		Type:    event.EventPasswordChanged,
		UserID:  user.ID,
		Subject: user.Username,
	})

	return nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.BadRequest("user ID cannot be empty")
	}

	if err := s.sessionService.InvalidateUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("error invalidating sessions: %w", err)
	}

	s.audit(&userID, models.AuditActionLogout, true, nil)
	return nil
}

func (s *AuthService) GetUserByID(userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(userID)
}

func (s *AuthService) GetAllUsers(limit, offset int) (*models.GetAllUsersResponse, error) {
	users, err := s.userRepo.GetAllUsers(limit, offset)
	if err != nil {
		log.Printf("Failed to get all users: %v", err)
		return nil, err
	}

	return &models.GetAllUsersResponse{
		Users:  users,
		Total:  len(users),
		Limit:  limit,
		Offset: offset,
	}, nil
}

// BanUser suspends a user until the given unix timestamp and revokes their
// refresh sessions.
func (s *AuthService) BanUser(userID string, until int64) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}
	user.Status = models.UserStatusSuspended
	user.LockedUntil = until
	if err := s.userRepo.UpdateUser(user); err != nil {
		log.Printf("Failed to ban user %s: %v", userID, err)
		return fmt.Errorf("failed to ban user: %w", err)
	}
	s.invalidateCachedUser(context.Background(), user.Username)

	if err := s.sessionService.InvalidateUserSessions(context.Background(), userID); err != nil {
		log.Printf("Failed to invalidate sessions for banned user %s: %v", userID, err)
	}

	log.Printf("User %s has been banned until %v", userID, time.Unix(until, 0))
	return nil
}

// UnbanUser reactivates a suspended user and clears the lock.
func (s *AuthService) UnbanUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}
	user.Status = models.UserStatusActive
	user.LockedUntil = 0
	if err := s.userRepo.UpdateUser(user); err != nil {
		log.Printf("Failed to unban user %s: %v", userID, err)
		return fmt.Errorf("failed to unban user: %w", err)
	}
	s.invalidateCachedUser(context.Background(), user.Username)

	s.resetLoginAttempts(context.Background(), userID)

	log.Printf("User %s has been unbanned and reactivated", userID)
	return nil
}

// DeactivateUser disables an account for good. Unlike a ban there is no
// expiry; reactivation takes an administrator.
func (s *AuthService) DeactivateUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if err := s.userRepo.SoftDeleteUser(userID); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	s.invalidateCachedUser(context.Background(), user.Username)

	if err := s.sessionService.InvalidateUserSessions(context.Background(), userID); err != nil {
		log.Printf("Failed to invalidate sessions for deactivated user %s: %v", userID, err)
	}

	log.Printf("User %s has been deactivated", userID)
	return nil
}

// Cache helper methods. The cache repo is optional; every path degrades to
// the database when it is absent or unreachable.
func (s *AuthService) getCachedUser(ctx context.Context, username string) *models.User {
	if s.cacheRepo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	user, err := s.cacheRepo.GetCachedUser(ctx, username)
	if err != nil {
		return nil
	}
	return user
}

func (s *AuthService) cacheUser(ctx context.Context, user *models.User) {
	if s.cacheRepo == nil || user == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	if err := s.cacheRepo.CacheUser(ctx, user); err != nil {
		log.Println("error caching user:", err)
	}
}

func (s *AuthService) invalidateCachedUser(ctx context.Context, username string) {
	if s.cacheRepo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	if err := s.cacheRepo.InvalidateUser(ctx, username); err != nil {
		log.Println("error invalidating cached user:", err)
	}
}

func (s *AuthService) incrementLoginAttempts(ctx context.Context, userID string) int {
	if s.cacheRepo != nil {
		ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		defer cancel()

		count, err := s.cacheRepo.IncrementLoginAttempts(ctx, userID)
		if err == nil {
			return int(count)
		}
	}

	// Fallback to in-memory with proper locking
	s.mu.Lock()
	s.globalLoginAttempt[userID]++
	attempts := s.globalLoginAttempt[userID]
	s.mu.Unlock()
	return attempts
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID string) {
	if s.cacheRepo != nil {
		ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		if err := s.cacheRepo.ResetLoginAttempts(ctx, userID); err != nil {
			log.Println("error resetting login attempts:", err)
		}
	}

	s.mu.Lock()
	delete(s.globalLoginAttempt, userID)
	s.mu.Unlock()
}

func (s *AuthService) audit(userID *string, action string, success bool, errMsg *string) {
	if s.auditRepo == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		Success:      success,
		ErrorMessage: errMsg,
		Timestamp:    s.now(),
	}
	if err := s.auditRepo.CreateAuditLog(entry); err != nil {
		slog.Error("failed to write audit log", "action", action, "error", err)
	}
}

func (s *AuthService) publishEnabled() bool {
	return s.eventPublisher != nil
}

func (s *AuthService) publishEvent(ev event.StaffEvent) {
	if !s.publishEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.eventPublisher.Publish(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("failed to publish event", "type", ev.Type, "error", err)
		}
	}()
}

func strPtr(s string) *string {
	return &s
}
