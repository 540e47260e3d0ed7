package controller

import (
	"strconv"

	"clubhouse/repository"
	"clubhouse/service"
	"clubhouse/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController() *UserController {
	return &UserController{
		userService: service.NewUserService(),
	}
}

func setupUserController() []RouteInfo {
	e := NewUserController()
	basePath := ""
	routes := []RouteInfo{
		{Method: "GET", Path: "/users", HandlerFunc: e.getAllUsersHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "GET", Path: "/users/self", HandlerFunc: e.getUserHandler(), Authenticated: true},
		{Method: "PATCH", Path: "/users/self", HandlerFunc: e.updateUserHandler(), Authenticated: true},
		{Method: "GET", Path: "/users/:user_id", HandlerFunc: e.getUserByIdHandler()},
		{Method: "PATCH", Path: "/users/:user_id", HandlerFunc: e.changePermissionsHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetAllUsers
// @Description Fetches all users
// @Tags user
// @Produce json
// @Success 200 {array} User
// @Security BearerAuth
// @Router /users [get]
func (e *UserController) getAllUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := e.userService.GetAllUsers()
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(users, toUserResponse))
	}
}

// @id GetUser
// @Description Fetches the authenticated user
// @Tags user
// @Produce json
// @Success 200 {object} User
// @Security BearerAuth
// @Router /users/self [get]
func (e *UserController) getUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromContext(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		c.JSON(200, toUserResponse(user))
	}
}

// @id UpdateUser
// @Description Updates the authenticated users display name
// @Tags user
// @Accept json
// @Produce json
// @Param user body UserUpdate true "User"
// @Success 200 {object} User
// @Security BearerAuth
// @Router /users/self [patch]
func (e *UserController) updateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromContext(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		var userUpdate UserUpdate
		if err := c.BindJSON(&userUpdate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user.DisplayName = userUpdate.DisplayName
		user, err = e.userService.SaveUser(user)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, toUserResponse(user))
	}
}

// @id GetUserById
// @Description Fetches a user by ID
// @Tags user
// @Produce json
// @Param user_id path int true "User Id"
// @Success 200 {object} MinimalUser
// @Router /users/{user_id} [get]
func (e *UserController) getUserByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.GetUserById(userId)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(404, gin.H{"error": "User not found"})
			} else {
				c.JSON(500, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(200, toMinimalUserResponse(user))
	}
}

// @id ChangePermissions
// @Description Changes the permissions of a user
// @Tags user
// @Accept json
// @Produce json
// @Param user_id path int true "User Id"
// @Param permissions body []repository.Permission true "Permissions"
// @Success 200 {object} User
// @Security BearerAuth
// @Router /users/{user_id} [patch]
func (e *UserController) changePermissionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		var permissions []repository.Permission
		if err := c.BindJSON(&permissions); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.ChangePermissions(userId, permissions)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, toUserResponse(user))
	}
}

type UserUpdate struct {
	DisplayName string `json:"display_name" binding:"required"`
}

type User struct {
	Id          int      `json:"id" binding:"required"`
	DisplayName string   `json:"display_name" binding:"required"`
	DiscordId   *string  `json:"discord_id"`
	DiscordName *string  `json:"discord_name"`
	Permissions []string `json:"permissions" binding:"required"`
}

type MinimalUser struct {
	Id          int    `json:"id" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

func toUserResponse(user *repository.User) *User {
	response := &User{
		Id:          user.Id,
		DisplayName: user.DisplayName,
		Permissions: user.Permissions,
	}
	for _, oauth := range user.OauthAccounts {
		if oauth.Provider == repository.ProviderDiscord {
			response.DiscordId = &oauth.AccountId
			response.DiscordName = &oauth.Name
		}
	}
	return response
}

func toMinimalUserResponse(user *repository.User) *MinimalUser {
	if user == nil {
		return nil
	}
	return &MinimalUser{
		Id:          user.Id,
		DisplayName: user.DisplayName,
	}
}
