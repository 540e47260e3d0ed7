package controller

import (
	"net/http"
	"strconv"
	"sync"

	"clubhouse/app_error"
	"clubhouse/metrics"
	"clubhouse/repository"
	"clubhouse/service"
	"clubhouse/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type DraftController struct {
	draftService     *service.DraftService
	alternateService *service.AlternateService
	userService      *service.UserService
	mu               sync.Mutex
	connections      map[int]map[*websocket.Conn]int
}

func NewDraftController() *DraftController {
	return &DraftController{
		draftService:     service.NewDraftService(),
		alternateService: service.NewAlternateService(),
		userService:      service.NewUserService(),
		connections:      make(map[int]map[*websocket.Conn]int),
	}
}

func setupDraftController() []RouteInfo {
	e := NewDraftController()
	basePath := "/pools/:pool_id"
	routes := []RouteInfo{
		{Method: "GET", Path: "/draft", HandlerFunc: e.getDraftStateHandler()},
		{Method: "GET", Path: "/draft/turn", HandlerFunc: e.getDraftTurnHandler()},
		{Method: "GET", Path: "/draft/ws", HandlerFunc: e.draftWebSocketHandler()},
		{Method: "POST", Path: "/draft/start", HandlerFunc: e.startDraftHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/draft", HandlerFunc: e.resetDraftHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "POST", Path: "/draft/picks", HandlerFunc: e.makePickHandler(), Authenticated: true},
		{Method: "PATCH", Path: "/draft/picks/:pick_id", HandlerFunc: e.swapPickHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "GET", Path: "/alternates", HandlerFunc: e.getAlternatesHandler()},
		{Method: "PUT", Path: "/alternate", HandlerFunc: e.selectAlternateHandler(), Authenticated: true},
		{Method: "PUT", Path: "/entrants/:user_id/alternate", HandlerFunc: e.updateAlternateHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetDraftState
// @Description Fetches the draft room state of a pool
// @Tags draft
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 200 {object} DraftState
// @Router /pools/{pool_id}/draft [get]
func (e *DraftController) getDraftStateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		state, err := e.draftService.GetDraftState(poolId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toDraftStateResponse(state))
	}
}

// @id GetDraftTurn
// @Description Fetches who is on the clock in a pool's draft
// @Tags draft
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 200 {object} DraftTurn
// @Router /pools/{pool_id}/draft/turn [get]
func (e *DraftController) getDraftTurnHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		state, err := e.draftService.GetDraftState(poolId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, &DraftTurn{
			OnTheClock: state.OnTheClock,
			NextPick:   state.NextPick,
			Round:      state.Round,
			Complete:   state.Complete,
		})
	}
}

// @id DraftWebSocket
// @Description Opens a websocket that pushes the draft state on every pick
// @Tags draft
// @Param pool_id path int true "Pool Id"
// @Param token query string false "Auth token"
// @Router /pools/{pool_id}/draft/ws [get]
func (e *DraftController) draftWebSocketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		// Browsers cannot set headers on websocket connects, so the token
		// arrives as a query parameter. Spectators connect without one.
		userId := 0
		if token := c.Request.URL.Query().Get("token"); token != "" {
			c.Request.Header.Set("Authorization", "Bearer "+token)
			if user, err := e.userService.GetUserFromContext(c); err == nil {
				userId = user.Id
			}
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upgrade connection"})
			return
		}
		e.addConnection(poolId, conn, userId)
		defer e.removeConnection(poolId, conn)
		if state, err := e.draftService.GetDraftState(poolId); err == nil {
			if err := conn.WriteJSON(toDraftStateResponse(state)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

// @id StartDraft
// @Description Starts a pool's draft, fixing the snake order
// @Tags draft
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 201 {object} DraftState
// @Security BearerAuth
// @Router /pools/{pool_id}/draft/start [post]
func (e *DraftController) startDraftHandler() gin.HandlerFunc {
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
		if _, err := e.draftService.StartDraft(poolId, user); err != nil {
			app_error.Abort(c, err)
			return
		}
		state, err := e.draftService.GetDraftState(poolId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		e.broadcastState(poolId)
		c.JSON(201, toDraftStateResponse(state))
	}
}

// @id ResetDraft
// @Description Rolls a draft back to not started, dropping picks and alternates
// @Tags draft
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 204
// @Security BearerAuth
// @Router /pools/{pool_id}/draft [delete]
func (e *DraftController) resetDraftHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.draftService.ResetDraft(poolId); err != nil {
			app_error.Abort(c, err)
			return
		}
		e.broadcastState(poolId)
		c.JSON(204, nil)
	}
}

// @id MakePick
// @Description Drafts a golfer for the authenticated user's current turn
// @Tags draft
// @Accept json
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Param pick body PickCreate true "Pick"
// @Success 201 {object} DraftPick
// @Security BearerAuth
// @Router /pools/{pool_id}/draft/picks [post]
func (e *DraftController) makePickHandler() gin.HandlerFunc {
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
		var pickCreate PickCreate
		if err := c.BindJSON(&pickCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		pick, err := e.draftService.MakePick(poolId, user.Id, pickCreate.GolferId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		e.broadcastState(poolId)
		c.JSON(201, toDraftPickResponse(pick))
	}
}

// @id SwapPick
// @Description Replaces the golfer of an existing pick
// @Tags draft
// @Accept json
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Param pick_id path int true "Pick Id"
// @Param pick body PickCreate true "Pick"
// @Success 200 {object} DraftPick
// @Security BearerAuth
// @Router /pools/{pool_id}/draft/picks/{pick_id} [patch]
func (e *DraftController) swapPickHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		pickId, err := strconv.Atoi(c.Param("pick_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		var pickCreate PickCreate
		if err := c.BindJSON(&pickCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		pick, err := e.draftService.SwapPick(poolId, pickId, pickCreate.GolferId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		e.broadcastState(poolId)
		c.JSON(200, toDraftPickResponse(pick))
	}
}

// @id GetAlternates
// @Description Fetches the alternates selected in a pool
// @Tags draft
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 200 {array} Alternate
// @Router /pools/{pool_id}/alternates [get]
func (e *DraftController) getAlternatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		alternates, err := e.alternateService.GetAlternatesForPool(poolId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(alternates, toAlternateResponse))
	}
}

// @id SelectAlternate
// @Description Sets the authenticated user's alternate before the tournament starts
// @Tags draft
// @Accept json
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Param alternate body PickCreate true "Alternate"
// @Success 200 {object} Alternate
// @Security BearerAuth
// @Router /pools/{pool_id}/alternate [put]
func (e *DraftController) selectAlternateHandler() gin.HandlerFunc {
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
		var pickCreate PickCreate
		if err := c.BindJSON(&pickCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		alternate, err := e.alternateService.SelectAlternate(poolId, user.Id, pickCreate.GolferId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toAlternateResponse(alternate))
	}
}

// @id UpdateAlternate
// @Description Sets an entrant's alternate, regardless of the selection window
// @Tags draft
// @Accept json
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Param user_id path int true "User Id"
// @Param alternate body PickCreate true "Alternate"
// @Success 200 {object} Alternate
// @Security BearerAuth
// @Router /pools/{pool_id}/entrants/{user_id}/alternate [put]
func (e *DraftController) updateAlternateHandler() gin.HandlerFunc {
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
		var pickCreate PickCreate
		if err := c.BindJSON(&pickCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		alternate, err := e.alternateService.UpdateAlternate(poolId, userId, pickCreate.GolferId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toAlternateResponse(alternate))
	}
}

func (e *DraftController) addConnection(poolId int, conn *websocket.Conn, userId int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.connections[poolId] == nil {
		e.connections[poolId] = make(map[*websocket.Conn]int)
	}
	e.connections[poolId][conn] = userId
	metrics.DraftSocketGauge.Inc()
}

func (e *DraftController) removeConnection(poolId int, conn *websocket.Conn) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.connections[poolId][conn]; ok {
		delete(e.connections[poolId], conn)
		metrics.DraftSocketGauge.Dec()
	}
	conn.Close()
}

// broadcastState pushes the current draft state to every connection of the
// pool's draft room.
func (e *DraftController) broadcastState(poolId int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.connections[poolId]) == 0 {
		return
	}
	state, err := e.draftService.GetDraftState(poolId)
	if err != nil {
		return
	}
	response := toDraftStateResponse(state)
	for conn := range e.connections[poolId] {
		if err := conn.WriteJSON(response); err != nil {
			conn.Close()
			delete(e.connections[poolId], conn)
			metrics.DraftSocketGauge.Dec()
		}
	}
}

type PickCreate struct {
	GolferId int `json:"golfer_id" binding:"required"`
}

type DraftSlot struct {
	Position int          `json:"position" binding:"required"`
	User     *MinimalUser `json:"user" binding:"required"`
}

type DraftPick struct {
	Id         int     `json:"id" binding:"required"`
	PickNumber int     `json:"pick_number" binding:"required"`
	Round      int     `json:"round" binding:"required"`
	UserId     int     `json:"user_id" binding:"required"`
	Golfer     *Golfer `json:"golfer" binding:"required"`
}

type DraftTurn struct {
	OnTheClock *int `json:"on_the_clock"`
	NextPick   int  `json:"next_pick" binding:"required"`
	Round      int  `json:"round" binding:"required"`
	Complete   bool `json:"complete" binding:"required"`
}

type DraftState struct {
	PoolId      int          `json:"pool_id" binding:"required"`
	DraftStatus string       `json:"draft_status" binding:"required"`
	Slots       []*DraftSlot `json:"slots"`
	Picks       []*DraftPick `json:"picks"`
	NextPick    int          `json:"next_pick" binding:"required"`
	Round       int          `json:"round" binding:"required"`
	OnTheClock  *int         `json:"on_the_clock"`
	Complete    bool         `json:"complete" binding:"required"`
}

type Alternate struct {
	UserId int     `json:"user_id" binding:"required"`
	Golfer *Golfer `json:"golfer" binding:"required"`
}

func toDraftPickResponse(pick *repository.DraftPick) *DraftPick {
	response := &DraftPick{
		Id:         pick.Id,
		PickNumber: pick.PickNumber,
		Round:      pick.Round,
		UserId:     pick.UserId,
	}
	if pick.Golfer != nil {
		response.Golfer = toGolferResponse(pick.Golfer)
	}
	return response
}

func toAlternateResponse(alternate *repository.Alternate) *Alternate {
	response := &Alternate{UserId: alternate.UserId}
	if alternate.Golfer != nil {
		response.Golfer = toGolferResponse(alternate.Golfer)
	}
	return response
}

func toDraftStateResponse(state *service.DraftState) *DraftState {
	users := make(map[int]*repository.User)
	for _, entrant := range state.Pool.Entrants {
		users[entrant.UserId] = entrant.User
	}
	response := &DraftState{
		PoolId:      state.Pool.Id,
		DraftStatus: string(state.Pool.DraftStatus),
		Slots:       make([]*DraftSlot, 0, len(state.Slots)),
		Picks:       utils.Map(state.Picks, toDraftPickResponse),
		NextPick:    state.NextPick,
		Round:       state.Round,
		OnTheClock:  state.OnTheClock,
		Complete:    state.Complete,
	}
	for _, slot := range state.Slots {
		response.Slots = append(response.Slots, &DraftSlot{
			Position: slot.Position,
			User:     toMinimalUserResponse(users[slot.UserId]),
		})
	}
	return response
}
