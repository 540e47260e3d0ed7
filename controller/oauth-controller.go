package controller

import (
	"net/http"

	"clubhouse/auth"
	"clubhouse/config"
	"clubhouse/service"

	"github.com/gin-gonic/gin"
)

type OauthController struct {
	oauthService *service.OauthService
}

func NewOauthController() *OauthController {
	return &OauthController{
		oauthService: service.NewOauthService(),
	}
}

func setupOauthController() []RouteInfo {
	e := NewOauthController()
	basePath := "/oauth2"
	routes := []RouteInfo{
		{Method: "GET", Path: "/discord", HandlerFunc: e.discordOauthHandler()},
		{Method: "GET", Path: "/discord/redirect", HandlerFunc: e.discordRedirectHandler()},
		{Method: "POST", Path: "/logout", HandlerFunc: e.logoutHandler()},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id DiscordLogin
// @Description Redirects to the discord oauth consent screen
// @Tags oauth
// @Produce json
// @Param last_url query string false "Url to return to after login"
// @Success 302
// @Router /oauth2/discord [get]
func (e *OauthController) discordOauthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		lastUrl := c.Request.URL.Query().Get("last_url")
		c.Redirect(http.StatusTemporaryRedirect, e.oauthService.GetRedirectUrl(lastUrl))
	}
}

// @id DiscordRedirect
// @Description Redirect handler for discord oauth
// @Tags oauth
// @Produce json
// @Success 302
// @Router /oauth2/discord/redirect [get]
func (e *OauthController) discordRedirectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		errorString := c.Request.URL.Query().Get("error")
		if errorString != "" {
			c.JSON(400, gin.H{"error": errorString + ": " + c.Request.URL.Query().Get("error_description")})
			return
		}
		code := c.Request.URL.Query().Get("code")
		state := c.Request.URL.Query().Get("state")
		user, lastUrl, err := e.oauthService.VerifyDiscord(state, code)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		authToken, err := auth.CreateToken(user)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie("auth", authToken, 60*60*24*21, "/", "", config.IsProduction(), true)
		c.Redirect(http.StatusTemporaryRedirect, config.Env().FrontendURL+lastUrl)
	}
}

// @id Logout
// @Description Clears the auth cookie
// @Tags oauth
// @Produce json
// @Success 200
// @Router /oauth2/logout [post]
func (e *OauthController) logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie("auth", "", -1, "/", "", config.IsProduction(), true)
		c.JSON(200, gin.H{})
	}
}
