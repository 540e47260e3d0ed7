package controller

import (
	"strconv"
	"time"

	"clubhouse/app_error"
	"clubhouse/repository"
	"clubhouse/service"
	"clubhouse/utils"

	"github.com/gin-gonic/gin"
)

type PoolController struct {
	poolService *service.PoolService
	userService *service.UserService
}

func NewPoolController() *PoolController {
	return &PoolController{
		poolService: service.NewPoolService(),
		userService: service.NewUserService(),
	}
}

func setupPoolController() []RouteInfo {
	e := NewPoolController()
	basePath := ""
	routes := []RouteInfo{
		{Method: "GET", Path: "/pools", HandlerFunc: e.getOwnPoolsHandler(), Authenticated: true},
		{Method: "POST", Path: "/pools", HandlerFunc: e.createPrivatePoolHandler(), Authenticated: true},
		{Method: "POST", Path: "/pools/join", HandlerFunc: e.joinByInviteHandler(), Authenticated: true},
		{Method: "GET", Path: "/pools/:pool_id", HandlerFunc: e.getPoolHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/pools/:pool_id", HandlerFunc: e.deletePoolHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "POST", Path: "/pools/:pool_id/join", HandlerFunc: e.joinPoolHandler(), Authenticated: true},
		{Method: "POST", Path: "/pools/:pool_id/leave", HandlerFunc: e.leavePoolHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/pools/:pool_id/entrants/:user_id", HandlerFunc: e.removeEntrantHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "GET", Path: "/tournaments/:tournament_id/pools", HandlerFunc: e.getPoolsForTournamentHandler()},
		{Method: "POST", Path: "/tournaments/:tournament_id/pools/public", HandlerFunc: e.openTournamentPoolHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetOwnPools
// @Description Fetches the pools the authenticated user has joined
// @Tags pool
// @Produce json
// @Success 200 {array} Pool
// @Security BearerAuth
// @Router /pools [get]
func (e *PoolController) getOwnPoolsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromContext(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		pools, err := e.poolService.GetPoolsForUser(user.Id)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(pools, func(pool *repository.Pool) *Pool {
			return toPoolResponse(pool, user)
		}))
	}
}

// @id CreatePrivatePool
// @Description Creates an invite-only pool; the creator joins immediately
// @Tags pool
// @Accept json
// @Produce json
// @Param pool body PoolCreate true "Pool"
// @Success 201 {object} Pool
// @Security BearerAuth
// @Router /pools [post]
func (e *PoolController) createPrivatePoolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromContext(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		var poolCreate PoolCreate
		if err := c.BindJSON(&poolCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		pool, err := e.poolService.CreatePrivatePool(user, poolCreate.TournamentId, poolCreate.Name, poolCreate.DraftStartsAt)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(201, toPoolResponse(pool, user))
	}
}

// @id JoinByInvite
// @Description Joins a private pool using an invite token
// @Tags pool
// @Accept json
// @Produce json
// @Param invite body InviteJoin true "Invite"
// @Success 200 {object} Pool
// @Security BearerAuth
// @Router /pools/join [post]
func (e *PoolController) joinByInviteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromContext(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		var invite InviteJoin
		if err := c.BindJSON(&invite); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		pool, err := e.poolService.JoinByInviteToken(invite.Token, user)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toPoolResponse(pool, user))
	}
}

// @id GetPool
// @Description Fetches one pool with entrants and tournament
// @Tags pool
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 200 {object} Pool
// @Security BearerAuth
// @Router /pools/{pool_id} [get]
func (e *PoolController) getPoolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.GetUserFromContext(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		pool, err := e.poolService.GetPoolById(poolId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toPoolResponse(pool, user))
	}
}

// @id DeletePool
// @Description Deletes a pool, rolling back its draft and finalization
// @Tags pool
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 204
// @Security BearerAuth
// @Router /pools/{pool_id} [delete]
func (e *PoolController) deletePoolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.poolService.DeletePool(poolId); err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

// @id JoinPool
// @Description Joins a public pool
// @Tags pool
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 200 {object} Pool
// @Security BearerAuth
// @Router /pools/{pool_id}/join [post]
func (e *PoolController) joinPoolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.GetUserFromContext(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		if err := e.poolService.JoinPool(poolId, user); err != nil {
			app_error.Abort(c, err)
			return
		}
		pool, err := e.poolService.GetPoolById(poolId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toPoolResponse(pool, user))
	}
}

// @id LeavePool
// @Description Leaves a pool before its draft has started
// @Tags pool
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 204
// @Security BearerAuth
// @Router /pools/{pool_id}/leave [post]
func (e *PoolController) leavePoolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.GetUserFromContext(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		if err := e.poolService.LeavePool(poolId, user.Id); err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

// @id RemoveEntrant
// @Description Removes an entrant from a pool before its draft has started
// @Tags pool
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Param user_id path int true "User Id"
// @Success 204
// @Security BearerAuth
// @Router /pools/{pool_id}/entrants/{user_id} [delete]
func (e *PoolController) removeEntrantHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		userId, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.poolService.RemoveEntrant(poolId, userId); err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

// @id GetPoolsForTournament
// @Description Fetches all pools of a tournament
// @Tags pool
// @Produce json
// @Param tournament_id path int true "Tournament Id"
// @Success 200 {array} Pool
// @Router /tournaments/{tournament_id}/pools [get]
func (e *PoolController) getPoolsForTournamentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		pools, err := e.poolService.GetPoolsForTournament(tournamentId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(pools, func(pool *repository.Pool) *Pool {
			return toPoolResponse(pool, nil)
		}))
	}
}

// @id OpenTournamentPool
// @Description Returns the tournament's public pool, creating it on first open
// @Tags pool
// @Produce json
// @Param tournament_id path int true "Tournament Id"
// @Success 200 {object} Pool
// @Security BearerAuth
// @Router /tournaments/{tournament_id}/pools/public [post]
func (e *PoolController) openTournamentPoolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.GetUserFromContext(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		pool, err := e.poolService.OpenTournamentPool(tournamentId, user)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toPoolResponse(pool, user))
	}
}

type PoolCreate struct {
	TournamentId  int        `json:"tournament_id" binding:"required"`
	Name          string     `json:"name" binding:"required"`
	DraftStartsAt *time.Time `json:"draft_starts_at"`
}

type InviteJoin struct {
	Token string `json:"token" binding:"required"`
}

type Entrant struct {
	User     *MinimalUser `json:"user" binding:"required"`
	JoinedAt time.Time    `json:"joined_at" binding:"required"`
}

type Pool struct {
	Id               int         `json:"id" binding:"required"`
	TournamentId     int         `json:"tournament_id" binding:"required"`
	Name             string      `json:"name" binding:"required"`
	CreatedBy        int         `json:"created_by" binding:"required"`
	Private          bool        `json:"private" binding:"required"`
	DraftStatus      string      `json:"draft_status" binding:"required"`
	DraftStartsAt    *time.Time  `json:"draft_starts_at"`
	DraftStartedAt   *time.Time  `json:"draft_started_at"`
	DraftCompletedAt *time.Time  `json:"draft_completed_at"`
	InviteToken      *string     `json:"invite_token,omitempty"`
	InviteExpiresAt  *time.Time  `json:"invite_expires_at,omitempty"`
	Entrants         []*Entrant  `json:"entrants"`
	Tournament       *Tournament `json:"tournament,omitempty"`
}

// toPoolResponse renders a pool; the invite token only goes out to the
// creator or an admin.
func toPoolResponse(pool *repository.Pool, requester *repository.User) *Pool {
	response := &Pool{
		Id:               pool.Id,
		TournamentId:     pool.TournamentId,
		Name:             pool.Name,
		CreatedBy:        pool.CreatedBy,
		Private:          pool.Private,
		DraftStatus:      string(pool.DraftStatus),
		DraftStartsAt:    pool.DraftStartsAt,
		DraftStartedAt:   pool.DraftStartedAt,
		DraftCompletedAt: pool.DraftCompletedAt,
		Entrants:         make([]*Entrant, 0, len(pool.Entrants)),
	}
	if requester != nil && (requester.Id == pool.CreatedBy || requester.HasPermission(repository.PermissionAdmin)) {
		response.InviteToken = pool.InviteToken
		response.InviteExpiresAt = pool.InviteExpiresAt
	}
	for _, entrant := range pool.Entrants {
		response.Entrants = append(response.Entrants, &Entrant{
			User:     toMinimalUserResponse(entrant.User),
			JoinedAt: entrant.JoinedAt,
		})
	}
	if pool.Tournament != nil {
		response.Tournament = toTournamentResponse(pool.Tournament)
	}
	return response
}
