package service

import (
	"clubhouse/app_error"
	"clubhouse/draft"
	"clubhouse/repository"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
)

var db *gorm.DB
var enumQueries = []string{
	`CREATE TYPE clubhouse.tournament_status AS ENUM ('scheduled', 'in_progress', 'completed')`,
	`CREATE TYPE clubhouse.draft_status AS ENUM ('not_started', 'in_progress', 'completed')`,
	`CREATE TYPE clubhouse.payment_kind AS ENUM ('main', 'bounty')`,
}

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "DATABASE_NAME=postgres"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(600) // Tell docker to hard kill the container in 10 minutes
	sqlInfo := fmt.Sprintf(
		"host=localhost port=%s user=postgres password=postgres dbname=postgres sslmode=disable search_path=clubhouse",
		resource.GetPort("5432/tcp"))

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	if err := pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(sqlInfo), &gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				TablePrefix:   "clubhouse.",
				SingularTable: false,
			},
			Logger: logger.Default.LogMode(logger.Silent),
		})

		if err != nil {
			return err
		}
		db.Exec(`CREATE SCHEMA IF NOT EXISTS clubhouse`)
		for _, query := range enumQueries {
			x := db.Exec(query)
			if x.Error != nil {
				if strings.Contains(x.Error.Error(), "already exists") {
					continue
				}
			}
		}
		return db.AutoMigrate(
			&repository.User{},
			&repository.Oauth{},
			&repository.Tournament{},
			&repository.Golfer{},
			&repository.Pool{},
			&repository.Entrant{},
			&repository.DraftSlot{},
			&repository.DraftPick{},
			&repository.Alternate{},
			&repository.TournamentResult{},
			&repository.PoolScore{},
			&repository.Payment{},
			&repository.Bounty{},
			&repository.SeasonTotal{},
		)

	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	// as of go1.15 testing.M returns the exit code of m.Run(), so it is safe to use defer here
	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}

	}()
	m.Run()
}

func TearDown() {
	db.Exec("DELETE FROM clubhouse.season_totals")
	db.Exec("DELETE FROM clubhouse.bounties")
	db.Exec("DELETE FROM clubhouse.payments")
	db.Exec("DELETE FROM clubhouse.pool_scores")
	db.Exec("DELETE FROM clubhouse.alternates")
	db.Exec("DELETE FROM clubhouse.draft_picks")
	db.Exec("DELETE FROM clubhouse.draft_slots")
	db.Exec("DELETE FROM clubhouse.entrants")
	db.Exec("DELETE FROM clubhouse.pools")
	db.Exec("DELETE FROM clubhouse.tournament_results")
	db.Exec("DELETE FROM clubhouse.golfers")
	db.Exec("DELETE FROM clubhouse.tournaments")
	db.Exec("DELETE FROM clubhouse.users")
}

func newTestDraftService() *DraftService {
	return &DraftService{
		poolRepository:       &repository.PoolRepository{DB: db},
		draftRepository:      &repository.DraftRepository{DB: db},
		golferRepository:     &repository.GolferRepository{DB: db},
		tournamentRepository: &repository.TournamentRepository{DB: db},
		scoreRepository:      &repository.ScoreRepository{DB: db},
	}
}

func newTestPoolService() *PoolService {
	return &PoolService{
		poolRepository:       &repository.PoolRepository{DB: db},
		tournamentRepository: &repository.TournamentRepository{DB: db},
		draftService:         newTestDraftService(),
	}
}

func newTestAlternateService() *AlternateService {
	return &AlternateService{
		poolRepository:       &repository.PoolRepository{DB: db},
		draftRepository:      &repository.DraftRepository{DB: db},
		golferRepository:     &repository.GolferRepository{DB: db},
		tournamentRepository: &repository.TournamentRepository{DB: db},
	}
}

type fixture struct {
	tournament *repository.Tournament
	pool       *repository.Pool
	users      []*repository.User
	golfers    []*repository.Golfer
}

// SetUpPool creates a tournament starting three days out with an open pool
// holding the first `entrants` of four users, draft not yet started.
func SetUpPool(entrants int) *fixture {
	users := []*repository.User{
		{DisplayName: "user1"},
		{DisplayName: "user2"},
		{DisplayName: "user3"},
		{DisplayName: "user4"},
	}
	if err := db.Create(&users).Error; err != nil {
		log.Fatalf("Error creating users: %v", err)
	}
	golfers := make([]*repository.Golfer, 0, 12)
	for i := range 12 {
		golfers = append(golfers, &repository.Golfer{
			ExternalId: fmt.Sprintf("golfer-%d", i+1),
			Name:       fmt.Sprintf("Golfer %d", i+1),
		})
	}
	if err := db.Create(&golfers).Error; err != nil {
		log.Fatalf("Error creating golfers: %v", err)
	}

	tournament := &repository.Tournament{
		ExternalId: "t-1",
		Name:       "The Memorial",
		Par:        72,
		StartTime:  time.Now().Add(72 * time.Hour),
		EndTime:    time.Now().Add(96 * time.Hour),
		Status:     repository.TournamentScheduled,
	}
	if err := db.Create(tournament).Error; err != nil {
		log.Fatalf("Error creating tournament: %v", err)
	}

	poolEntrants := make([]*repository.Entrant, 0, entrants)
	for i := 0; i < entrants; i++ {
		poolEntrants = append(poolEntrants, &repository.Entrant{UserId: users[i].Id, JoinedAt: time.Now()})
	}
	pool := &repository.Pool{
		TournamentId: tournament.Id,
		Name:         tournament.Name,
		CreatedBy:    users[0].Id,
		DraftStatus:  repository.DraftNotStarted,
		Entrants:     poolEntrants,
	}
	if err := db.Create(pool).Error; err != nil {
		log.Fatalf("Error creating pool: %v", err)
	}
	return &fixture{tournament: tournament, pool: pool, users: users, golfers: golfers}
}

// completeDraft starts the draft and plays every pick in turn order, using
// one fixture golfer per pick. Leaves the pool in the completed state.
func completeDraft(t *testing.T, f *fixture) []*repository.DraftSlot {
	service := newTestDraftService()
	slots, err := service.StartDraft(f.pool.Id, nil)
	assert.NoError(t, err)
	slotUserIds := make([]int, len(slots))
	for i, slot := range slots {
		slotUserIds[i] = slot.UserId
	}
	for picksMade := 0; picksMade < draft.TotalPicks(len(slots)); picksMade++ {
		userId, _, ok := draft.OnTheClock(slotUserIds, picksMade)
		assert.True(t, ok)
		_, err = service.MakePick(f.pool.Id, userId, f.golfers[picksMade].Id)
		assert.NoError(t, err)
	}
	return slots
}

func loadPool(t *testing.T, poolId int) *repository.Pool {
	pool := &repository.Pool{}
	assert.NoError(t, db.First(pool, poolId).Error)
	return pool
}

func TestStartDraftOpensPoolAndFixesOrder(t *testing.T) {
	f := SetUpPool(4)
	defer TearDown()
	service := newTestDraftService()

	slots, err := service.StartDraft(f.pool.Id, f.users[0])
	assert.NoError(t, err)
	assert.Len(t, slots, 4)

	seen := map[int]bool{}
	for i, slot := range slots {
		assert.Equal(t, i+1, slot.Position)
		seen[slot.UserId] = true
	}
	for i := range 4 {
		assert.True(t, seen[f.users[i].Id], "every entrant gets exactly one slot")
	}

	pool := loadPool(t, f.pool.Id)
	assert.Equal(t, repository.DraftInProgress, pool.DraftStatus)
	assert.NotNil(t, pool.DraftStartedAt)

	_, err = service.StartDraft(f.pool.Id, f.users[0])
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
}

func TestStartDraftPermissions(t *testing.T) {
	f := SetUpPool(4)
	defer TearDown()
	service := newTestDraftService()

	_, err := service.StartDraft(f.pool.Id, f.users[1])
	assert.Error(t, err)
	assert.Equal(t, 403, app_error.HTTPStatus(err))

	admin := f.users[3]
	admin.Permissions = pq.StringArray{string(repository.PermissionAdmin)}
	_, err = service.StartDraft(f.pool.Id, admin)
	assert.NoError(t, err)
}

func TestStartDraftNeedsTwoEntrants(t *testing.T) {
	f := SetUpPool(1)
	defer TearDown()

	_, err := newTestDraftService().StartDraft(f.pool.Id, nil)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "two entrants")
}

func TestStartDraftRejectsStartedTournament(t *testing.T) {
	f := SetUpPool(4)
	defer TearDown()
	db.Model(&repository.Tournament{}).Where("id = ?", f.tournament.Id).Update("status", repository.TournamentInProgress)

	_, err := newTestDraftService().StartDraft(f.pool.Id, nil)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
}

func TestStartDraftSeedsOrderFromLastSharedPool(t *testing.T) {
	f := SetUpPool(3)
	defer TearDown()

	// user1 won the last pool user1 and user2 settled together, so user2
	// must now pick before user1. user3 has no history and lands anywhere.
	lastWeek := &repository.Pool{
		TournamentId: f.tournament.Id,
		Name:         "last week",
		CreatedBy:    f.users[0].Id,
		Private:      true,
		DraftStatus:  repository.DraftCompleted,
	}
	assert.NoError(t, db.Create(lastWeek).Error)
	scores := []*repository.PoolScore{
		{PoolId: lastWeek.Id, UserId: f.users[0].Id, Position: 1, TeamToPar: -10, TeamStrokes: 850, GolferIds: pq.Int64Array{}, Contributions: pq.Int64Array{}, Year: 2025},
		{PoolId: lastWeek.Id, UserId: f.users[1].Id, Position: 2, TeamToPar: -4, TeamStrokes: 856, GolferIds: pq.Int64Array{}, Contributions: pq.Int64Array{}, Year: 2025},
	}
	assert.NoError(t, db.Create(&scores).Error)

	slots, err := newTestDraftService().StartDraft(f.pool.Id, nil)
	assert.NoError(t, err)
	assert.Len(t, slots, 3)

	positions := map[int]int{}
	for _, slot := range slots {
		positions[slot.UserId] = slot.Position
	}
	assert.Less(t, positions[f.users[1].Id], positions[f.users[0].Id], "last pool's runner-up drafts before its winner")
}

func TestMakePickWalksTheSnakeOrder(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestDraftService()

	slots, err := service.StartDraft(f.pool.Id, nil)
	assert.NoError(t, err)
	first, second := slots[0].UserId, slots[1].UserId

	_, err = service.MakePick(f.pool.Id, second, f.golfers[0].Id)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "not your turn")

	pick, err := service.MakePick(f.pool.Id, first, f.golfers[0].Id)
	assert.NoError(t, err)
	assert.Equal(t, 1, pick.PickNumber)
	assert.Equal(t, 1, pick.Round)
	assert.Equal(t, f.golfers[0].Name, pick.Golfer.Name)

	_, err = service.MakePick(f.pool.Id, second, f.golfers[0].Id)
	assert.Error(t, err)
	assert.Equal(t, 409, app_error.HTTPStatus(err))

	// rounds two and three reverse and re-reverse the order
	expected := []struct {
		userId int
		round  int
	}{
		{second, 1},
		{second, 2},
		{first, 2},
		{first, 3},
		{second, 3},
	}
	for i, turn := range expected {
		pick, err = service.MakePick(f.pool.Id, turn.userId, f.golfers[i+1].Id)
		assert.NoError(t, err)
		assert.Equal(t, i+2, pick.PickNumber)
		assert.Equal(t, turn.round, pick.Round)
	}

	pool := loadPool(t, f.pool.Id)
	assert.Equal(t, repository.DraftCompleted, pool.DraftStatus)
	assert.NotNil(t, pool.DraftCompletedAt)

	_, err = service.MakePick(f.pool.Id, first, f.golfers[8].Id)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "not running")
}

func TestMakePickRejectsUnknownGolfer(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestDraftService()

	slots, err := service.StartDraft(f.pool.Id, nil)
	assert.NoError(t, err)

	_, err = service.MakePick(f.pool.Id, slots[0].UserId, 999999)
	assert.Error(t, err)
	assert.Equal(t, 404, app_error.HTTPStatus(err))
}

func TestMakePickClosesWhenTournamentStarts(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestDraftService()

	slots, err := service.StartDraft(f.pool.Id, nil)
	assert.NoError(t, err)
	db.Model(&repository.Tournament{}).Where("id = ?", f.tournament.Id).Update("status", repository.TournamentInProgress)

	_, err = service.MakePick(f.pool.Id, slots[0].UserId, f.golfers[0].Id)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "picks are closed")
}

func TestGetDraftState(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestDraftService()

	state, err := service.GetDraftState(f.pool.Id)
	assert.NoError(t, err)
	assert.Nil(t, state.OnTheClock)
	assert.False(t, state.Complete)
	assert.Len(t, state.Slots, 0)

	slots, err := service.StartDraft(f.pool.Id, nil)
	assert.NoError(t, err)
	slotUserIds := []int{slots[0].UserId, slots[1].UserId}

	state, err = service.GetDraftState(f.pool.Id)
	assert.NoError(t, err)
	assert.NotNil(t, state.OnTheClock)
	assert.Equal(t, slots[0].UserId, *state.OnTheClock)
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, 1, state.NextPick)

	_, err = service.MakePick(f.pool.Id, slots[0].UserId, f.golfers[0].Id)
	assert.NoError(t, err)

	state, err = service.GetDraftState(f.pool.Id)
	assert.NoError(t, err)
	assert.Equal(t, slots[1].UserId, *state.OnTheClock)
	assert.Equal(t, 2, state.NextPick)

	for picksMade := 1; picksMade < 6; picksMade++ {
		userId, _, ok := draft.OnTheClock(slotUserIds, picksMade)
		assert.True(t, ok)
		_, err = service.MakePick(f.pool.Id, userId, f.golfers[picksMade].Id)
		assert.NoError(t, err)
	}

	state, err = service.GetDraftState(f.pool.Id)
	assert.NoError(t, err)
	assert.Nil(t, state.OnTheClock)
	assert.True(t, state.Complete)
	assert.Len(t, state.Picks, 6)
	assert.Equal(t, 7, state.NextPick)
}

func TestResetDraftRoundTrip(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestDraftService()

	completeDraft(t, f)
	assert.NoError(t, db.Create(&repository.Alternate{PoolId: f.pool.Id, UserId: f.users[0].Id, GolferId: f.golfers[8].Id}).Error)

	assert.NoError(t, service.ResetDraft(f.pool.Id))

	var picks, slots, alternates int64
	db.Model(&repository.DraftPick{}).Where("pool_id = ?", f.pool.Id).Count(&picks)
	db.Model(&repository.DraftSlot{}).Where("pool_id = ?", f.pool.Id).Count(&slots)
	db.Model(&repository.Alternate{}).Where("pool_id = ?", f.pool.Id).Count(&alternates)
	assert.Equal(t, int64(0), picks)
	assert.Equal(t, int64(0), slots)
	assert.Equal(t, int64(0), alternates)

	pool := loadPool(t, f.pool.Id)
	assert.Equal(t, repository.DraftNotStarted, pool.DraftStatus)
	assert.Nil(t, pool.DraftStartedAt)
	assert.Nil(t, pool.DraftCompletedAt)

	// the same pool can draft again from scratch
	_, err := service.StartDraft(f.pool.Id, nil)
	assert.NoError(t, err)
}

func TestSwapPick(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestDraftService()

	slots, err := service.StartDraft(f.pool.Id, nil)
	assert.NoError(t, err)
	firstPick, err := service.MakePick(f.pool.Id, slots[0].UserId, f.golfers[0].Id)
	assert.NoError(t, err)
	secondPick, err := service.MakePick(f.pool.Id, slots[1].UserId, f.golfers[1].Id)
	assert.NoError(t, err)

	swapped, err := service.SwapPick(f.pool.Id, firstPick.Id, f.golfers[5].Id)
	assert.NoError(t, err)
	assert.Equal(t, f.golfers[5].Id, swapped.GolferId)

	stored := &repository.DraftPick{}
	assert.NoError(t, db.First(stored, firstPick.Id).Error)
	assert.Equal(t, f.golfers[5].Id, stored.GolferId)

	_, err = service.SwapPick(f.pool.Id, secondPick.Id, f.golfers[5].Id)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "already drafted")

	_, err = service.SwapPick(f.pool.Id, 999999, f.golfers[6].Id)
	assert.Error(t, err)
	assert.Equal(t, 404, app_error.HTTPStatus(err))
}
