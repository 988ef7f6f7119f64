// Package controllers handles the browser-facing HTTP surface: it binds
// form posts, talks to the backend through the gateway and renders the
// HTML pages.
package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ursmart/webapp/internal/app/session"
	"github.com/ursmart/webapp/internal/app/state"
)

// baseData assembles the fields every page needs: auth status for the
// header, the profile with karma and level, and any pending one-shot
// banner.
func baseData(sess *session.Store, st *state.AppState) gin.H {
	return gin.H{
		"Authenticated": sess.IsAuthenticated(),
		"User":          sess.User(),
		"Notice":        st.TakeNotice(),
	}
}

// merge folds extra page fields into the base data.
func merge(base gin.H, extra gin.H) gin.H {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
