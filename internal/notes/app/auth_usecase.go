package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"yanote/internal/notes/domain/entities"
	domain "yanote/internal/notes/domain/services"
	"yanote/internal/notes/ports/repositories"
	svc "yanote/internal/notes/ports/services"
	"yanote/pkg/logger"
)

const (
	methodSignUp          = "SignUp"
	methodLogin           = "Login"
	methodLogout          = "Logout"
	methodResolveIdentity = "ResolveIdentity"

	msgStartSignUp          = "starting user registration"
	msgInvalidSignupForm    = "signup form is invalid"
	msgUsernameExists       = "user with this username already exists"
	msgUserRegistered       = "user registered successfully"
	msgLoginAttempt         = "login attempt"
	msgLoginUnknownUser     = "login attempt with unknown username"
	msgLoginWrongPassword   = "invalid password provided"
	msgUserLoggedIn         = "user logged in successfully"
	msgLogoutAnonymous      = "logout without session"
	msgUserLoggedOut        = "user logged out successfully"
	msgRevokedTokenAttempt  = "attempt to use revoked token"
	msgSessionUserMissing   = "session belongs to missing user"
	msgErrCheckExistingUser = "failed to check existing user"
	msgErrHashPassword      = "failed to hash password"
	msgErrCreateUser        = "failed to create user"
	msgErrFindingUser       = "error finding user by username"
	msgErrVerifyingPassword = "error verifying password"
	msgErrGenerateToken     = "failed to generate session token"
	msgErrRevokingToken     = "failed to revoke session token"
	msgErrCheckRevocation   = "failed to check token revocation"

	errCtxValidatingForm    = "validating form"
	errCtxCheckingUser      = "checking existing user"
	errCtxHashingPassword   = "hashing password"
	errCtxCreatingUser      = "creating user"
	errCtxFindingUser       = "finding user"
	errCtxVerifyingPassword = "verifying password"
	errCtxGeneratingToken   = "generating session token"
	errCtxRevokingToken     = "revoking token"
	errCtxCheckingToken     = "checking token"
)

// Session выпущенный при входе токен и соответствующая ему личность.
type Session struct {
	Token    string
	Identity *entities.Identity
}

// AuthUseCase регистрация, вход, выход и восстановление пользователя из токена.
type AuthUseCase struct {
	users       repositories.UserRepository
	passwords   svc.PasswordService
	tokens      svc.TokenService
	revocations svc.TokenRevocationStore
	forms       *domain.FormValidator
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	users repositories.UserRepository,
	passwords svc.PasswordService,
	tokens svc.TokenService,
	revocations svc.TokenRevocationStore,
	forms *domain.FormValidator,
) *AuthUseCase {
	return &AuthUseCase{
		users:       users,
		passwords:   passwords,
		tokens:      tokens,
		revocations: revocations,
		forms:       forms,
	}
}

// SignUp создает учетную запись. Ошибки формы и занятое имя возвращаются как *domain.ValidationError.
func (a *AuthUseCase) SignUp(ctx context.Context, form domain.SignupForm) (*entities.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	log := logger.Log(ctx).With(zap.String("method", methodSignUp), zap.String("username", form.Username))
	log.Debug(ctx, msgStartSignUp)

	if err := a.forms.ValidateSignup(form); err != nil {
		log.Debug(ctx, msgInvalidSignupForm, zap.Error(err))
		return nil, formError(err)
	}

	existing, err := a.users.FindByUsername(ctx, form.Username)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing != nil {
		log.Debug(ctx, msgUsernameExists)
		return nil, usernameTaken()
	}

	hash, err := a.passwords.Hash(ctx, form.Password1)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	user, err := entities.NewUser(form.Username, hash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	created, err := a.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, entities.ErrUsernameTaken) {
			log.Debug(ctx, msgUsernameExists)
			return nil, usernameTaken()
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", created.ID))
	return created, nil
}

// Login проверяет учетные данные и выпускает сессионный токен.
// Неверные имя или пароль дают ErrInvalidCredentials вместе с ошибкой формы.
func (a *AuthUseCase) Login(ctx context.Context, form domain.LoginForm) (*Session, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("username", form.Username))
	log.Debug(ctx, msgLoginAttempt)

	if err := a.forms.ValidateLogin(form); err != nil {
		return nil, formError(err)
	}

	user, err := a.users.FindByUsername(ctx, form.Username)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginUnknownUser)
			return nil, invalidCredentials()
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	ok, err := a.passwords.Verify(ctx, form.Password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !ok {
		log.Debug(ctx, msgLoginWrongPassword)
		return nil, invalidCredentials()
	}

	token, identity, err := a.tokens.Generate(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrGenerateToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingToken, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	return &Session{Token: token, Identity: identity}, nil
}

// Logout отзывает токен текущей сессии до момента его истечения.
// Для анонимного пользователя ничего не делает.
func (a *AuthUseCase) Logout(ctx context.Context, rc entities.RequestContext) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))

	if !rc.IsAuthenticated() || rc.Identity.TokenID == "" {
		log.Debug(ctx, msgLogoutAnonymous)
		return nil
	}

	if err := a.revocations.Revoke(ctx, rc.Identity.TokenID, rc.Identity.ExpiresAt); err != nil {
		log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut, zap.String("userID", rc.UserID()))
	return nil
}

// ResolveIdentity восстанавливает пользователя из сессионного токена.
// Отозванный токен дает svc.ErrRevokedToken, токен удаленного пользователя svc.ErrInvalidToken.
func (a *AuthUseCase) ResolveIdentity(ctx context.Context, token string) (*entities.Identity, error) {
	log := logger.Log(ctx).With(zap.String("method", methodResolveIdentity))

	identity, err := a.tokens.Validate(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCheckingToken, err)
	}

	revoked, err := a.revocations.IsRevoked(ctx, identity.TokenID)
	if err != nil {
		log.Error(ctx, msgErrCheckRevocation, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingToken, err)
	}
	if revoked {
		log.Debug(ctx, msgRevokedTokenAttempt, zap.String("userID", identity.UserID))
		return nil, svc.ErrRevokedToken
	}

	user, err := a.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgSessionUserMissing, zap.String("userID", identity.UserID))
			return nil, svc.ErrInvalidToken
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	identity.Username = user.Username
	return identity, nil
}

func formError(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return fmt.Errorf("%s: %w", errCtxValidatingForm, err)
}

func usernameTaken() error {
	return fmt.Errorf("%w: %w", entities.ErrUsernameTaken, domain.FieldError("username", domain.MsgUsernameTaken))
}

func invalidCredentials() error {
	return fmt.Errorf("%w: %w", ErrInvalidCredentials, domain.FieldError(domain.NonFieldErrors, domain.MsgInvalidLogin))
}
