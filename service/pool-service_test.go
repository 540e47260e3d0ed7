package service

import (
	"clubhouse/app_error"
	"clubhouse/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func countEntrants(poolId int) int64 {
	var count int64
	db.Model(&repository.Entrant{}).Where("pool_id = ?", poolId).Count(&count)
	return count
}

func TestOpenTournamentPoolIsLazySingleton(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestPoolService()

	tournament := &repository.Tournament{
		ExternalId: "t-2",
		Name:       "The Open",
		Par:        71,
		StartTime:  time.Now().Add(7 * 24 * time.Hour),
		EndTime:    time.Now().Add(8 * 24 * time.Hour),
		Status:     repository.TournamentScheduled,
	}
	assert.NoError(t, db.Create(tournament).Error)

	created, err := service.OpenTournamentPool(tournament.Id, f.users[0])
	assert.NoError(t, err)
	assert.Equal(t, tournament.Name, created.Name)
	assert.False(t, created.Private)
	assert.Nil(t, created.InviteToken)

	// the second open finds the first pool instead of making another
	found, err := service.OpenTournamentPool(tournament.Id, f.users[1])
	assert.NoError(t, err)
	assert.Equal(t, created.Id, found.Id)

	// opening never joins anyone, entering is a separate step
	assert.Equal(t, int64(0), countEntrants(created.Id))

	_, err = service.OpenTournamentPool(999999, f.users[0])
	assert.Error(t, err)
	assert.Equal(t, 404, app_error.HTTPStatus(err))
}

func TestCreatePrivatePool(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestPoolService()

	draftStartsAt := time.Now().Add(24 * time.Hour)
	pool, err := service.CreatePrivatePool(f.users[2], f.tournament.Id, "  Saturday Crew  ", &draftStartsAt)
	assert.NoError(t, err)
	assert.Equal(t, "Saturday Crew", pool.Name)
	assert.True(t, pool.Private)
	assert.NotNil(t, pool.InviteToken)
	assert.Len(t, *pool.InviteToken, 36)
	assert.NotNil(t, pool.InviteExpiresAt)
	assert.WithinDuration(t, draftStartsAt, *pool.InviteExpiresAt, time.Second)

	// the creator is already in
	entrant, err := newTestPoolService().poolRepository.GetEntrant(pool.Id, f.users[2].Id)
	assert.NoError(t, err)
	assert.Equal(t, f.users[2].Id, entrant.UserId)

	// without a scheduled draft the invite lives until the tournament starts
	pool, err = service.CreatePrivatePool(f.users[2], f.tournament.Id, "No Schedule", nil)
	assert.NoError(t, err)
	assert.WithinDuration(t, f.tournament.StartTime, *pool.InviteExpiresAt, time.Second)
}

func TestCreatePrivatePoolValidation(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestPoolService()

	_, err := service.CreatePrivatePool(f.users[0], f.tournament.Id, "   ", nil)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))

	past := time.Now().Add(-time.Hour)
	_, err = service.CreatePrivatePool(f.users[0], f.tournament.Id, "Too Late", &past)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))

	_, err = service.CreatePrivatePool(f.users[0], 999999, "Nowhere", nil)
	assert.Error(t, err)
	assert.Equal(t, 404, app_error.HTTPStatus(err))

	db.Model(&repository.Tournament{}).Where("id = ?", f.tournament.Id).Update("status", repository.TournamentInProgress)
	_, err = service.CreatePrivatePool(f.users[0], f.tournament.Id, "After The Gun", nil)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
}

func TestJoinByInviteToken(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestPoolService()

	pool, err := service.CreatePrivatePool(f.users[0], f.tournament.Id, "Invite Only", nil)
	assert.NoError(t, err)

	_, err = service.JoinByInviteToken("not-a-token", f.users[1])
	assert.Error(t, err)
	assert.Equal(t, 404, app_error.HTTPStatus(err))

	joined, err := service.JoinByInviteToken(*pool.InviteToken, f.users[1])
	assert.NoError(t, err)
	assert.Equal(t, pool.Id, joined.Id)
	assert.Equal(t, int64(2), countEntrants(pool.Id))

	_, err = service.JoinByInviteToken(*pool.InviteToken, f.users[1])
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "already in this pool")

	db.Model(&repository.Pool{}).Where("id = ?", pool.Id).Update("invite_expires_at", time.Now().Add(-time.Minute))
	_, err = service.JoinByInviteToken(*pool.InviteToken, f.users[2])
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "expired")
}

func TestJoinPool(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestPoolService()

	assert.NoError(t, service.JoinPool(f.pool.Id, f.users[2]))
	assert.Equal(t, int64(3), countEntrants(f.pool.Id))

	private, err := service.CreatePrivatePool(f.users[0], f.tournament.Id, "Invite Only", nil)
	assert.NoError(t, err)
	err = service.JoinPool(private.Id, f.users[2])
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "invite only")

	db.Model(&repository.Pool{}).Where("id = ?", f.pool.Id).Update("draft_status", repository.DraftInProgress)
	err = service.JoinPool(f.pool.Id, f.users[3])
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "draft has already started")

	err = service.JoinPool(999999, f.users[3])
	assert.Error(t, err)
	assert.Equal(t, 404, app_error.HTTPStatus(err))
}

func TestLeavePool(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestPoolService()

	assert.NoError(t, service.LeavePool(f.pool.Id, f.users[1].Id))
	assert.Equal(t, int64(1), countEntrants(f.pool.Id))

	err := service.LeavePool(f.pool.Id, f.users[1].Id)
	assert.Error(t, err)
	assert.Equal(t, 404, app_error.HTTPStatus(err))

	db.Model(&repository.Pool{}).Where("id = ?", f.pool.Id).Update("draft_status", repository.DraftInProgress)
	err = service.LeavePool(f.pool.Id, f.users[0].Id)
	assert.Error(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
	assert.Contains(t, err.Error(), "cannot leave")
}

func TestDeletePoolRollsBackDraftState(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestPoolService()

	completeDraft(t, f)
	assert.NoError(t, db.Create(&repository.Alternate{PoolId: f.pool.Id, UserId: f.users[0].Id, GolferId: f.golfers[8].Id}).Error)

	assert.NoError(t, service.DeletePool(f.pool.Id))

	_, err := service.GetPoolById(f.pool.Id)
	assert.Error(t, err)
	assert.Equal(t, 404, app_error.HTTPStatus(err))

	var picks, slots, alternates int64
	db.Model(&repository.DraftPick{}).Where("pool_id = ?", f.pool.Id).Count(&picks)
	db.Model(&repository.DraftSlot{}).Where("pool_id = ?", f.pool.Id).Count(&slots)
	db.Model(&repository.Alternate{}).Where("pool_id = ?", f.pool.Id).Count(&alternates)
	assert.Equal(t, int64(0), picks)
	assert.Equal(t, int64(0), slots)
	assert.Equal(t, int64(0), alternates)
	assert.Equal(t, int64(0), countEntrants(f.pool.Id))
}

func TestPoolListings(t *testing.T) {
	f := SetUpPool(2)
	defer TearDown()
	service := newTestPoolService()

	_, err := service.CreatePrivatePool(f.users[0], f.tournament.Id, "Invite Only", nil)
	assert.NoError(t, err)

	pools, err := service.GetPoolsForTournament(f.tournament.Id)
	assert.NoError(t, err)
	assert.Len(t, pools, 2)

	mine, err := service.GetPoolsForUser(f.users[0].Id)
	assert.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := service.GetPoolsForUser(f.users[3].Id)
	assert.NoError(t, err)
	assert.Len(t, none, 0)
}
