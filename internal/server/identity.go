package server

import (
	"context"
	"net/http"

	liftmcp "github.com/claude/liftcalc/internal/mcp"
	"github.com/claude/liftcalc/internal/storage"
	"tailscale.com/client/tailscale/apitype"
)

type contextKey int

const (
	userIDKey contextKey = iota
	userInfoKey
)

// UserInfo identifies the person behind a request.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

var devUser = UserInfo{Login: "local", DisplayName: "Local Dev User"}

// WhoIser resolves a remote address to a tailnet identity. Satisfied by the
// tsnet local client.
type WhoIser interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

func withIdentity(ctx context.Context, userID int, info UserInfo) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, userInfoKey, info)
	return liftmcp.WithUserID(ctx, userID)
}

// DevIdentity attributes every request to the local user.
func DevIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), storage.LocalUserID, devUser)))
	})
}

// identity uses DevIdentity until SetTailscale is called, then resolves each
// request to its tailnet login.
func (s *Server) identity(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.ts == nil {
			dev.ServeHTTP(w, r)
			return
		}
		who, err := s.ts.WhoIs(r.Context(), r.RemoteAddr)
		if err != nil {
			s.log.Warn("whois failed", "remote", r.RemoteAddr, "error", err)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unknown tailnet peer"})
			return
		}
		if who.UserProfile == nil || who.UserProfile.LoginName == "" {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "tagged nodes are not allowed"})
			return
		}
		info := UserInfo{Login: who.UserProfile.LoginName, DisplayName: who.UserProfile.DisplayName}

		uid := storage.LocalUserID
		if s.users != nil {
			uid, err = s.users.GetOrCreateUser(r.Context(), info.Login, info.DisplayName)
			if err != nil {
				s.log.Error("resolving user", "login", info.Login, "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "user lookup failed"})
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), uid, info)))
	})
}

func userIDFromContext(r *http.Request) int {
	if id, ok := r.Context().Value(userIDKey).(int); ok {
		return id
	}
	return storage.LocalUserID
}

func userInfoFromContext(r *http.Request) UserInfo {
	if info, ok := r.Context().Value(userInfoKey).(UserInfo); ok {
		return info
	}
	return devUser
}
