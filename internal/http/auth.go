package http

import (
	"context"
	"net/http"
	cl "photostream/pkg/gallery"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	httputils "github.com/twitsprout/tools/http"
	"github.com/twitsprout/tools/requestid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type ctxKey int

const userIDKey ctxKey = 0

type createTokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type refreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

type accessTokenResponse struct {
	Access string `json:"access"`
}

// CreateToken exchanges a username/password pair for an access/refresh
// token pair.
func (h *Handler) CreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	var req createTokenRequest
	if err := httputils.ReadJSON(r.Body, &req); err != nil {
		h.Logger.Error("[CreateToken] error parsing request",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.UserStore.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if err == cl.ErrNotFound {
			_ = httputils.WriteJSONError(w, v, cl.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
			return
		}

		h.Logger.Error("[CreateToken] error getting user",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		_ = httputils.WriteJSONError(w, v, cl.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}

	access, err := h.signToken(user, tokenTypeAccess, accessTokenTTL)
	if err == nil {
		var refresh string
		refresh, err = h.signToken(user, tokenTypeRefresh, refreshTokenTTL)
		if err == nil {
			_ = httputils.WriteJSON(w, v, tokenPairResponse{Access: access, Refresh: refresh}, http.StatusOK)
			return
		}
	}

	h.Logger.Error("[CreateToken] error signing token",
		"request_id", reqID,
		"details", err.Error(),
	)
	_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
}

// RefreshToken exchanges a valid refresh token for a fresh access
// token.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	var req refreshTokenRequest
	if err := httputils.ReadJSON(r.Body, &req); err != nil {
		h.Logger.Error("[RefreshToken] error parsing request",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.parseToken(req.Refresh, tokenTypeRefresh)
	if err != nil {
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusUnauthorized)
		return
	}

	access, err := h.signToken(user, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		h.Logger.Error("[RefreshToken] error signing token",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = httputils.WriteJSON(w, v, accessTokenResponse{Access: access}, http.StatusOK)
}

// requireAuth rejects requests without a valid bearer access token and
// stores the authenticated user id in the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || raw == "" {
			_ = httputils.WriteJSONError(w, r.URL.Query(), "authorization header with bearer token required", http.StatusUnauthorized)
			return
		}

		user, err := h.parseToken(raw, tokenTypeAccess)
		if err != nil {
			_ = httputils.WriteJSONError(w, r.URL.Query(), err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the authenticated user id stored by requireAuth.
func userID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func (h *Handler) signToken(user cl.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"username":   user.Username,
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.TokenSecret))
	return signed, errors.Wrap(err, "sign token")
}

// parseToken validates a signed token of the given type and returns
// the user identity embedded in its claims. An access token is not
// accepted where a refresh token is expected and vice versa.
func (h *Handler) parseToken(raw, tokenType string) (cl.User, error) {
	var user cl.User
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(h.TokenSecret), nil
	})
	if err != nil {
		return user, errors.Wrap(err, "parse token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return user, errors.New("invalid token")
	}
	if claims["token_type"] != tokenType {
		return user, errors.Errorf("token is not a valid %s token", tokenType)
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return user, errors.New("token missing user_id claim")
	}
	username, _ := claims["username"].(string)

	user = cl.User{
		ID:       int64(id),
		Username: username,
	}
	return user, nil
}
