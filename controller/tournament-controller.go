package controller

import (
	"strconv"
	"time"

	"clubhouse/app_error"
	"clubhouse/repository"
	"clubhouse/service"
	"clubhouse/utils"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type TournamentController struct {
	tournamentService *service.TournamentService
	resultService     *service.ResultService
}

func NewTournamentController() *TournamentController {
	return &TournamentController{
		tournamentService: service.NewTournamentService(),
		resultService:     service.NewResultService(),
	}
}

func setupTournamentController(cacheStore *persistence.InMemoryStore) []RouteInfo {
	e := NewTournamentController()
	basePath := ""
	routes := []RouteInfo{
		{Method: "GET", Path: "/tournaments", HandlerFunc: cache.CachePage(cacheStore, time.Minute, e.getScheduleHandler())},
		{Method: "GET", Path: "/tournaments/:tournament_id", HandlerFunc: e.getTournamentHandler()},
		{Method: "GET", Path: "/tournaments/:tournament_id/results", HandlerFunc: e.getResultsHandler()},
		{Method: "PUT", Path: "/tournaments/:tournament_id/results/:golfer_id", HandlerFunc: e.editResultHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "POST", Path: "/tournaments/sync", HandlerFunc: e.syncScheduleHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "GET", Path: "/golfers", HandlerFunc: cache.CachePage(cacheStore, 5*time.Minute, e.getGolfersHandler())},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetSchedule
// @Description Fetches the tournament schedule
// @Tags tournament
// @Produce json
// @Success 200 {array} Tournament
// @Router /tournaments [get]
func (e *TournamentController) getScheduleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournaments, err := e.tournamentService.GetSchedule()
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(tournaments, toTournamentResponse))
	}
}

// @id GetTournament
// @Description Fetches one tournament
// @Tags tournament
// @Produce json
// @Param tournament_id path int true "Tournament Id"
// @Success 200 {object} Tournament
// @Router /tournaments/{tournament_id} [get]
func (e *TournamentController) getTournamentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		tournament, err := e.tournamentService.GetTournamentById(tournamentId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toTournamentResponse(tournament))
	}
}

// @id GetTournamentResults
// @Description Fetches the synced results of a tournament
// @Tags tournament
// @Produce json
// @Param tournament_id path int true "Tournament Id"
// @Success 200 {array} TournamentResult
// @Router /tournaments/{tournament_id}/results [get]
func (e *TournamentController) getResultsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		results, err := e.resultService.GetResultsForTournament(tournamentId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(results, toResultResponse))
	}
}

// @id EditResult
// @Description Overrides one golfer's result; the feed sync will not touch it again
// @Tags tournament
// @Accept json
// @Produce json
// @Param tournament_id path int true "Tournament Id"
// @Param golfer_id path int true "Golfer Id"
// @Param result body ResultEdit true "Result"
// @Success 200 {object} TournamentResult
// @Security BearerAuth
// @Router /tournaments/{tournament_id}/results/{golfer_id} [put]
func (e *TournamentController) editResultHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentId, err := strconv.Atoi(c.Param("tournament_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		golferId, err := strconv.Atoi(c.Param("golfer_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		var edit ResultEdit
		if err := c.BindJSON(&edit); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		result, err := e.resultService.EditResult(edit.toModel(tournamentId, golferId))
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toResultResponse(result))
	}
}

// @id SyncSchedule
// @Description Triggers an immediate schedule sync from the feed
// @Tags tournament
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /tournaments/sync [post]
func (e *TournamentController) syncScheduleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := e.tournamentService.SyncSchedule(time.Now().Year())
		if err != nil {
			c.JSON(502, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"tournaments": count})
	}
}

// @id GetGolfers
// @Description Fetches all known golfers
// @Tags tournament
// @Produce json
// @Success 200 {array} Golfer
// @Router /golfers [get]
func (e *TournamentController) getGolfersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		golfers, err := e.tournamentService.GetGolfers()
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(golfers, toGolferResponse))
	}
}

type Tournament struct {
	Id           int       `json:"id" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	Course       string    `json:"course"`
	Par          int       `json:"par" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	Status       string    `json:"status" binding:"required"`
	CurrentRound int       `json:"current_round"`
}

type Golfer struct {
	Id      int    `json:"id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Country string `json:"country"`
}

type TournamentResult struct {
	GolferId       int       `json:"golfer_id" binding:"required"`
	ToPar          *int      `json:"to_par"`
	Strokes        *int      `json:"strokes"`
	Position       *int      `json:"position"`
	MadeCut        *bool     `json:"made_cut"`
	Withdrawn      bool      `json:"withdrawn"`
	RoundToPar     []int64   `json:"round_to_par"`
	ManualOverride bool      `json:"manual_override"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ResultEdit struct {
	ToPar      *int    `json:"to_par"`
	Strokes    *int    `json:"strokes"`
	Position   *int    `json:"position"`
	MadeCut    *bool   `json:"made_cut"`
	Withdrawn  bool    `json:"withdrawn"`
	RoundToPar []int64 `json:"round_to_par"`
}

func (r *ResultEdit) toModel(tournamentId int, golferId int) *repository.TournamentResult {
	roundToPar := pq.Int64Array(r.RoundToPar)
	if roundToPar == nil {
		roundToPar = pq.Int64Array{}
	}
	return &repository.TournamentResult{
		TournamentId: tournamentId,
		GolferId:     golferId,
		ToPar:        r.ToPar,
		Strokes:      r.Strokes,
		Position:     r.Position,
		MadeCut:      r.MadeCut,
		Withdrawn:    r.Withdrawn,
		RoundToPar:   roundToPar,
		UpdatedAt:    time.Now(),
	}
}

func toTournamentResponse(tournament *repository.Tournament) *Tournament {
	return &Tournament{
		Id:           tournament.Id,
		Name:         tournament.Name,
		Course:       tournament.Course,
		Par:          tournament.Par,
		StartTime:    tournament.StartTime,
		EndTime:      tournament.EndTime,
		Status:       string(tournament.Status),
		CurrentRound: tournament.CurrentRound,
	}
}

func toGolferResponse(golfer *repository.Golfer) *Golfer {
	return &Golfer{
		Id:      golfer.Id,
		Name:    golfer.Name,
		Country: golfer.Country,
	}
}

func toResultResponse(result *repository.TournamentResult) *TournamentResult {
	return &TournamentResult{
		GolferId:       result.GolferId,
		ToPar:          result.ToPar,
		Strokes:        result.Strokes,
		Position:       result.Position,
		MadeCut:        result.MadeCut,
		Withdrawn:      result.Withdrawn,
		RoundToPar:     result.RoundToPar,
		ManualOverride: result.ManualOverride,
		UpdatedAt:      result.UpdatedAt,
	}
}
