package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/response"
)

// Role 使用者角色
type Role string

// 角色
const (
	RoleCustomer Role = "customer"
	RoleCashier  Role = "cashier"
	RoleAdmin    Role = "admin"
)

// context key
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Claims 存取權杖內容（簽發由登入服務負責，這裡只做驗證）
type Claims struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator 驗證 HS256 Bearer token
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator issuer 為空時不檢查 iss
func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// Parse 解析並驗證 token
func (a *Authenticator) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if _, err := shared.UserIDFromString(claims.UserID); err != nil {
		return nil, errors.New("invalid user_id claim")
	}
	switch claims.Role {
	case RoleCustomer, RoleCashier, RoleAdmin:
	case "":
		claims.Role = RoleCustomer
	default:
		return nil, errors.New("invalid role claim")
	}
	return claims, nil
}

// Auth 要求有效的 Bearer token
func (a *Authenticator) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "缺少 Authorization")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authorization 格式錯誤")
			return
		}

		claims, err := a.Parse(parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "無效的存取權杖")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole 限制角色（需在 Auth 之後）
func RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, response.CodeForbidden, "權限不足")
	}
}

// CurrentUserID 目前使用者 ID（未認證時為空字串）
func CurrentUserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// CurrentRole 目前使用者角色
func CurrentRole(c *gin.Context) Role {
	v, ok := c.Get(CtxRole)
	if !ok {
		return ""
	}
	role, _ := v.(Role)
	return role
}

// IsStaff 收銀員或管理員
func IsStaff(c *gin.Context) bool {
	role := CurrentRole(c)
	return role == RoleCashier || role == RoleAdmin
}
