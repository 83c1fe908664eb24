package auth

import (
	"log/slog"

	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/access"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	"github.com/grupomivyca/mivyca-backend/internal/user"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user service the auth flow needs.
type UserStore interface {
	GetUser(id string) (*user.User, error)
	GetUserByEmail(email string) (*user.User, error)
	CreateUser(dto user.CreateUserDTO) (*user.User, error)
}

// AccessResolver answers which role a user holds in a company and seeds the
// first grant during registration.
type AccessResolver interface {
	RoleIn(userID, companyID string) (*access.Role, error)
	GrantInitial(userID, companyID string, role access.Role) (*access.CompanyAccess, error)
	ListForUser(userID string) ([]*access.CompanyAccess, error)
}

// dummyHash is compared against when the email lookup misses, keeping the
// login cost constant whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("credential-timing-pad"), bcrypt.DefaultCost)

type Service struct {
	users          UserStore
	accessResolver AccessResolver
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(users UserStore, resolver AccessResolver, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		users:          users,
		accessResolver: resolver,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Authenticate validates credentials and issues a token pair scoped to one
// company. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) Authenticate(dto LoginDTO) (*SessionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	metrics.RecordAuthAttempt()

	u, err := s.users.GetUserByEmail(dto.Email)
	if err != nil {
		// Burn a hash comparison so an unknown email costs the same as a
		// wrong password.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(dto.Password))
		metrics.RecordAuthError()
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		metrics.RecordAuthError()
		return nil, internal.ErrInvalidCredentials
	}

	if !u.IsActive {
		metrics.RecordAuthError()
		return nil, internal.ErrUserInactive
	}

	companyID := dto.CompanyID
	if companyID == "" && u.DefaultCompanyID != nil {
		companyID = *u.DefaultCompanyID
	}
	if companyID == "" {
		return nil, internal.NewValidationError("companyId is required", internal.ErrCodeValidationFailed)
	}

	session, err := s.issueSession(u, companyID)
	if err != nil {
		metrics.RecordAuthError()
		return nil, err
	}

	metrics.RecordAuthSuccess()
	s.logger.Info("user authenticated", "user_id", u.ID, "company_id", companyID)
	return session, nil
}

// Register creates a user and grants them USER access in the chosen company,
// then signs them in.
func (s *Service) Register(dto RegisterDTO) (*SessionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.CreateUser(user.CreateUserDTO{
		Email:            dto.Email,
		Password:         dto.Password,
		FirstName:        dto.FirstName,
		LastName:         dto.LastName,
		DefaultCompanyID: &dto.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.accessResolver.GrantInitial(u.ID, dto.CompanyID, access.RoleUser); err != nil {
		return nil, err
	}

	session, err := s.issueSession(u, dto.CompanyID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "company_id", dto.CompanyID)
	return session, nil
}

// RefreshTokens re-resolves the user's role before reissuing: a grant revoked
// after login invalidates the refresh path.
func (s *Service) RefreshTokens(refreshToken string) (*SessionResponse, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetUser(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}

	return s.issueSession(u, claims.CompanyID)
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// Companies lists the companies the user can authenticate into.
func (s *Service) Companies(userID string) ([]*access.CompanyAccess, error) {
	return s.accessResolver.ListForUser(userID)
}

func (s *Service) issueSession(u *user.User, companyID string) (*SessionResponse, error) {
	role, err := s.accessResolver.RoleIn(u.ID, companyID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, internal.ErrCrossTenant
	}

	claims := Claims{
		UserID:    u.ID,
		Email:     u.Email,
		CompanyID: companyID,
		Role:      string(*role),
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign refresh token", err)
	}

	return &SessionResponse{
		AuthTokens: AuthTokens{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		User: SessionUser{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			CompanyID: companyID,
			Role:      string(*role),
		},
	}, nil
}
