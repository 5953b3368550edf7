// Package session stores the authenticated principal in the cookie session.
package session

import (
	"encoding/gob"

	"bookshelf/web/entity"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const loginPrincipal = "LOGIN_PRINCIPAL"

// CookieName is the session cookie written by the sessions middleware.
const CookieName = "bookshelf"

func init() {
	gob.Register(entity.Principal{})
}

func SetPrincipal(c *gin.Context, principal *entity.Principal) error {
	s := sessions.Default(c)
	s.Set(loginPrincipal, *principal)
	return s.Save()
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: maxAge,
	})
	return s.Save()
}

func GetPrincipal(c *gin.Context) *entity.Principal {
	s := sessions.Default(c)
	if obj := s.Get(loginPrincipal); obj != nil {
		if principal, ok := obj.(entity.Principal); ok {
			return &principal
		}
	}
	return nil
}

// GetIdentity returns the logged-in username, empty when unauthenticated.
func GetIdentity(c *gin.Context) string {
	if principal := GetPrincipal(c); principal != nil {
		return principal.Identity
	}
	return ""
}

func IsLogin(c *gin.Context) bool {
	return GetPrincipal(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	return nil
}
