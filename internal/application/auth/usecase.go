package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/pkg/jwt"
)

// RoleAdmin único rol emitido por el login.
const RoleAdmin = "admin"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminCredentials email y hash bcrypt del administrador (desde config).
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// AuthUseCase login del administrador que protege los endpoints de configuración.
type AuthUseCase struct {
	admin  AdminCredentials
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(admin AdminCredentials, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{admin: admin, jwtCfg: jwtCfg}
}

// Login verifica email/password contra las credenciales configuradas y genera un JWT.
// Cualquier fallo (incluido admin sin configurar) devuelve ErrUnauthorized.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.admin.Email == "" || uc.admin.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if !strings.EqualFold(strings.TrimSpace(in.Email), uc.admin.Email) {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.admin.Email, RoleAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		Role:      RoleAdmin,
	}, nil
}
