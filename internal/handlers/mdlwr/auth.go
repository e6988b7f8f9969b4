package mdlwr

import (
	"context"
	"net/http"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	"github.com/kamgaa/lab-reservation/internal/handlers/apierr"
	"github.com/kamgaa/lab-reservation/pkg/user"
)

const (
	IdentityKey = "user_id"
	roleKey     = "role"

	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Identity is what the token middleware stores in the gin context under IdentityKey.
type Identity struct {
	UserID string
	Role   string
}

type Authenticator interface {
	Authenticate(ctx context.Context, userID, password string) (*user.User, error)
}

type AuthOptions struct {
	Secret  string
	Timeout time.Duration
	// IsAdmin decides the role put into the token at login.
	IsAdmin func(userID string) bool
}

type loginReq struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResp struct {
	Token  string    `json:"token"`
	Expire time.Time `json:"expire"`
}

// GetAuthMiddleware accepts any valid token. Its LoginHandler issues tokens.
func GetAuthMiddleware(opts AuthOptions, users Authenticator) (*jwt.GinJWTMiddleware, error) {
	return newMiddleware("lab reservation", opts, users, func(data interface{}, _ *gin.Context) bool {
		_, ok := data.(*Identity)
		return ok
	})
}

// GetAdminAuthMiddleware accepts only tokens issued with the admin role.
func GetAdminAuthMiddleware(opts AuthOptions, users Authenticator) (*jwt.GinJWTMiddleware, error) {
	return newMiddleware("admin zone", opts, users, func(data interface{}, _ *gin.Context) bool {
		id, ok := data.(*Identity)
		return ok && id.Role == RoleAdmin
	})
}

func newMiddleware(realm string, opts AuthOptions, users Authenticator, authorize func(interface{}, *gin.Context) bool) (*jwt.GinJWTMiddleware, error) {
	isAdmin := opts.IsAdmin
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}

	return jwt.New(&jwt.GinJWTMiddleware{
		Realm:         realm,
		Key:           []byte(opts.Secret),
		Timeout:       opts.Timeout,
		MaxRefresh:    opts.Timeout,
		IdentityKey:   IdentityKey,
		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		Unauthorized:  unauthorizedHandler,
		LoginResponse: loginResponse,
		Authenticator: func(c *gin.Context) (interface{}, error) {
			var req loginReq
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, jwt.ErrMissingLoginValues
			}

			u, err := users.Authenticate(c.Request.Context(), req.UserID, req.Password)
			if err != nil {
				return nil, jwt.ErrFailedAuthentication
			}

			role := RoleMember
			if isAdmin(u.UserID) {
				role = RoleAdmin
			}
			return &Identity{UserID: u.UserID, Role: role}, nil
		},
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if id, ok := data.(*Identity); ok {
				return jwt.MapClaims{
					IdentityKey: id.UserID,
					roleKey:     id.Role,
				}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(c *gin.Context) interface{} {
			claims := jwt.ExtractClaims(c)
			userID, _ := claims[IdentityKey].(string)
			role, _ := claims[roleKey].(string)
			return &Identity{UserID: userID, Role: role}
		},
		Authorizator: authorize,
	})
}

func unauthorizedHandler(c *gin.Context, code int, _ string) {
	if code == http.StatusForbidden {
		c.AbortWithStatusJSON(http.StatusForbidden, apierr.ErrResponse{Error: apierr.Forbidden})
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, apierr.ErrResponse{Error: apierr.Unauthorized})
}

func loginResponse(c *gin.Context, code int, token string, expire time.Time) {
	c.JSON(code, loginResp{Token: token, Expire: expire})
}

// CurrentIdentity returns the caller set by the token middleware.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	if !ok || id.UserID == "" {
		return nil, false
	}
	return id, true
}
