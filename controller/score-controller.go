package controller

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"clubhouse/app_error"
	"clubhouse/metrics"
	"clubhouse/repository"
	"clubhouse/scoring"
	"clubhouse/service"
	"clubhouse/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type ScoreController struct {
	scoreService *service.ScoreService
	mu           sync.Mutex
	connections  map[int]map[*websocket.Conn]int
}

func NewScoreController() *ScoreController {
	controller := &ScoreController{
		scoreService: service.NewScoreService(),
		connections:  make(map[int]map[*websocket.Conn]int),
	}
	controller.StartLeaderboardUpdater()
	return controller
}

func setupScoreController() []RouteInfo {
	e := NewScoreController()
	basePath := ""
	routes := []RouteInfo{
		{Method: "GET", Path: "/pools/:pool_id/leaderboard", HandlerFunc: e.getLeaderboardHandler()},
		{Method: "GET", Path: "/pools/:pool_id/leaderboard/ws", HandlerFunc: e.leaderboardWebSocketHandler()},
		{Method: "GET", Path: "/pools/:pool_id/payments", HandlerFunc: e.getPaymentsHandler()},
		{Method: "GET", Path: "/pools/:pool_id/bounty", HandlerFunc: e.getBountyHandler()},
		{Method: "POST", Path: "/pools/:pool_id/finalize", HandlerFunc: e.finalizeHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "DELETE", Path: "/pools/:pool_id/finalize", HandlerFunc: e.resetFinalizationHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "GET", Path: "/seasons/:year", HandlerFunc: e.getSeasonStandingsHandler()},
		{Method: "GET", Path: "/users/:user_id/seasons", HandlerFunc: e.getSeasonsForUserHandler()},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetLeaderboard
// @Description Fetches the pool standings, live until the pool is finalized
// @Tags scores
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 200 {object} Leaderboard
// @Router /pools/{pool_id}/leaderboard [get]
func (e *ScoreController) getLeaderboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		view, err := e.scoreService.GetLeaderboard(poolId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toLeaderboardResponse(view))
	}
}

// @id LeaderboardWebSocket
// @Description Opens a websocket that pushes the pool standings while results come in
// @Tags scores
// @Param pool_id path int true "Pool Id"
// @Router /pools/{pool_id}/leaderboard/ws [get]
func (e *ScoreController) leaderboardWebSocketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upgrade connection"})
			return
		}
		defer conn.Close()
		if view, err := e.scoreService.GetLeaderboard(poolId); err == nil {
			serialized, err := json.Marshal(toLeaderboardResponse(view))
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, serialized); err != nil {
				return
			}
		}
		e.mu.Lock()
		if _, ok := e.connections[poolId]; !ok {
			e.connections[poolId] = make(map[*websocket.Conn]int)
		}
		e.connections[poolId][conn] = poolId
		metrics.LeaderboardSocketGauge.Inc()
		e.mu.Unlock()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				e.mu.Lock()
				if _, ok := e.connections[poolId][conn]; ok {
					delete(e.connections[poolId], conn)
					metrics.LeaderboardSocketGauge.Dec()
				}
				if len(e.connections[poolId]) == 0 {
					delete(e.connections, poolId)
				}
				e.mu.Unlock()
				return
			}
		}
	}
}

// StartLeaderboardUpdater pushes fresh standings to every open leaderboard
// socket. Pools without subscribers are not recomputed.
func (e *ScoreController) StartLeaderboardUpdater() {
	go func() {
		for {
			e.mu.Lock()
			poolIds := utils.Keys(e.connections)
			e.mu.Unlock()
			for _, poolId := range poolIds {
				view, err := e.scoreService.GetLeaderboard(poolId)
				if err != nil {
					continue
				}
				serialized, err := json.Marshal(toLeaderboardResponse(view))
				if err != nil {
					continue
				}
				e.mu.Lock()
				for conn := range e.connections[poolId] {
					if err := conn.WriteMessage(websocket.TextMessage, serialized); err != nil {
						conn.Close()
						delete(e.connections[poolId], conn)
						metrics.LeaderboardSocketGauge.Dec()
					}
				}
				e.mu.Unlock()
			}
			time.Sleep(5 * time.Second)
		}
	}()
}

// @id GetPayments
// @Description Fetches the settled payments of a finalized pool
// @Tags scores
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 200 {array} Payment
// @Router /pools/{pool_id}/payments [get]
func (e *ScoreController) getPaymentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		payments, err := e.scoreService.GetPayments(poolId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(payments, toPaymentResponse))
	}
}

// @id GetBounty
// @Description Fetches the bounty of a finalized pool, if one was awarded
// @Tags scores
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 200 {object} BountyAward
// @Router /pools/{pool_id}/bounty [get]
func (e *ScoreController) getBountyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		bounty, err := e.scoreService.GetBounty(poolId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		if bounty == nil {
			c.JSON(404, gin.H{"error": "No bounty awarded in this pool"})
			return
		}
		c.JSON(200, toBountyResponse(bounty))
	}
}

// @id FinalizePool
// @Description Freezes the pool standings and settles payments and season totals
// @Tags scores
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 200 {object} Leaderboard
// @Security BearerAuth
// @Router /pools/{pool_id}/finalize [post]
func (e *ScoreController) finalizeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.Finalize(poolId); err != nil {
			app_error.Abort(c, err)
			return
		}
		view, err := e.scoreService.GetLeaderboard(poolId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toLeaderboardResponse(view))
	}
}

// @id ResetFinalization
// @Description Unwinds a pool's finalization, restoring the live standings
// @Tags scores
// @Produce json
// @Param pool_id path int true "Pool Id"
// @Success 204
// @Security BearerAuth
// @Router /pools/{pool_id}/finalize [delete]
func (e *ScoreController) resetFinalizationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		poolId, err := strconv.Atoi(c.Param("pool_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.scoreService.ResetFinalization(poolId); err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

// @id GetSeasonStandings
// @Description Fetches the season standings of a year, ordered by winnings
// @Tags scores
// @Produce json
// @Param year path int true "Year"
// @Success 200 {array} SeasonTotal
// @Router /seasons/{year} [get]
func (e *ScoreController) getSeasonStandingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		totals, err := e.scoreService.GetSeasonStandings(year)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(totals, toSeasonTotalResponse))
	}
}

// @id GetSeasonsForUser
// @Description Fetches a user's season totals across years
// @Tags scores
// @Produce json
// @Param user_id path int true "User Id"
// @Success 200 {array} SeasonTotal
// @Router /users/{user_id}/seasons [get]
func (e *ScoreController) getSeasonsForUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		totals, err := e.scoreService.GetSeasonForUser(userId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(totals, toSeasonTotalResponse))
	}
}

type GolferLine struct {
	GolferId      int  `json:"golfer_id" binding:"required"`
	ToPar         int  `json:"to_par" binding:"required"`
	Round         int  `json:"round,omitempty"`
	Strokes       *int `json:"strokes,omitempty"`
	FromAlternate bool `json:"from_alternate,omitempty"`
	Penalized     bool `json:"penalized,omitempty"`
	MissedCut     bool `json:"missed_cut,omitempty"`
}

type LeaderboardRow struct {
	Position      int           `json:"position" binding:"required"`
	User          *MinimalUser  `json:"user" binding:"required"`
	TeamToPar     int           `json:"team_to_par" binding:"required"`
	TeamStrokes   int           `json:"team_strokes" binding:"required"`
	UsedAlternate bool          `json:"used_alternate"`
	Golfers       []*GolferLine `json:"golfers"`
	PaymentCents  *int          `json:"payment_cents,omitempty"`
	BountyCents   *int          `json:"bounty_cents,omitempty"`
}

type Leaderboard struct {
	PoolId    int               `json:"pool_id" binding:"required"`
	Finalized bool              `json:"finalized" binding:"required"`
	Entries   []*LeaderboardRow `json:"entries"`
}

type Payment struct {
	FromUserId  int    `json:"from_user_id" binding:"required"`
	ToUserId    int    `json:"to_user_id" binding:"required"`
	AmountCents int    `json:"amount_cents" binding:"required"`
	Kind        string `json:"kind" binding:"required"`
}

type BountyAward struct {
	WinnerUserId     int `json:"winner_user_id" binding:"required"`
	GolferId         int `json:"golfer_id" binding:"required"`
	PickRound        int `json:"pick_round" binding:"required"`
	TotalAmountCents int `json:"total_amount_cents" binding:"required"`
}

type SeasonTotal struct {
	UserId        int          `json:"user_id" binding:"required"`
	User          *MinimalUser `json:"user,omitempty"`
	Year          int          `json:"year" binding:"required"`
	PoolsPlayed   int          `json:"pools_played" binding:"required"`
	PoolsWon      int          `json:"pools_won" binding:"required"`
	WinningsCents int          `json:"winnings_cents" binding:"required"`
	BountiesCents int          `json:"bounties_cents" binding:"required"`
}

func toLeaderboardResponse(view *service.LeaderboardView) *Leaderboard {
	users := make(map[int]*repository.User)
	for _, entrant := range view.Pool.Entrants {
		users[entrant.UserId] = entrant.User
	}
	response := &Leaderboard{
		PoolId:    view.Pool.Id,
		Finalized: view.Finalized,
		Entries:   make([]*LeaderboardRow, 0),
	}
	if view.Finalized {
		for _, score := range view.Frozen {
			response.Entries = append(response.Entries, toFrozenRowResponse(score, users[score.UserId]))
		}
		return response
	}
	for _, entry := range view.Live {
		response.Entries = append(response.Entries, toLiveRowResponse(entry, users[entry.UserId]))
	}
	return response
}

func toLiveRowResponse(entry *scoring.LeaderboardEntry, user *repository.User) *LeaderboardRow {
	row := &LeaderboardRow{
		Position:      entry.Position,
		User:          toMinimalUserResponse(user),
		TeamToPar:     entry.TeamToPar,
		TeamStrokes:   entry.TeamStrokes,
		UsedAlternate: entry.UsedAlternate,
		Golfers:       make([]*GolferLine, 0, len(entry.Contributions)),
	}
	for _, contribution := range entry.Contributions {
		row.Golfers = append(row.Golfers, &GolferLine{
			GolferId:      contribution.GolferId,
			ToPar:         contribution.ToPar,
			Round:         contribution.Round,
			Strokes:       contribution.Strokes,
			FromAlternate: contribution.FromAlternate,
			Penalized:     contribution.Penalized,
			MissedCut:     contribution.MissedCut,
		})
	}
	return row
}

// toFrozenRowResponse renders a settled score row. Frozen rows only keep the
// resolved golfer ids and their to-par contributions, plus the money moved.
func toFrozenRowResponse(score *repository.PoolScore, user *repository.User) *LeaderboardRow {
	payment := score.NetPaymentCents
	bounty := score.NetBountyCents
	row := &LeaderboardRow{
		Position:      score.Position,
		User:          toMinimalUserResponse(user),
		TeamToPar:     score.TeamToPar,
		TeamStrokes:   score.TeamStrokes,
		UsedAlternate: score.UsedAlternate,
		Golfers:       make([]*GolferLine, 0, len(score.GolferIds)),
		PaymentCents:  &payment,
		BountyCents:   &bounty,
	}
	for i, golferId := range score.GolferIds {
		line := &GolferLine{GolferId: int(golferId)}
		if i < len(score.Contributions) {
			line.ToPar = int(score.Contributions[i])
		}
		row.Golfers = append(row.Golfers, line)
	}
	return row
}

func toPaymentResponse(payment *repository.Payment) *Payment {
	return &Payment{
		FromUserId:  payment.FromUserId,
		ToUserId:    payment.ToUserId,
		AmountCents: payment.AmountCents,
		Kind:        string(payment.Kind),
	}
}

func toBountyResponse(bounty *repository.Bounty) *BountyAward {
	return &BountyAward{
		WinnerUserId:     bounty.WinnerUserId,
		GolferId:         bounty.GolferId,
		PickRound:        bounty.PickRound,
		TotalAmountCents: bounty.TotalAmountCents,
	}
}

func toSeasonTotalResponse(total *repository.SeasonTotal) *SeasonTotal {
	response := &SeasonTotal{
		UserId:        total.UserId,
		Year:          total.Year,
		PoolsPlayed:   total.PoolsPlayed,
		PoolsWon:      total.PoolsWon,
		WinningsCents: total.WinningsCents,
		BountiesCents: total.BountiesCents,
	}
	if total.User != nil {
		response.User = toMinimalUserResponse(total.User)
	}
	return response
}
