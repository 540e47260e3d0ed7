package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnSnakesThroughRounds(t *testing.T) {
	expected := []struct {
		round    int
		position int
	}{
		{1, 1}, {1, 2}, {1, 3}, {1, 4},
		{2, 4}, {2, 3}, {2, 2}, {2, 1},
		{3, 1}, {3, 2}, {3, 3}, {3, 4},
	}
	for i, exp := range expected {
		round, position := Turn(i+1, 4)
		assert.Equal(t, exp.round, round, "round for pick %d", i+1)
		assert.Equal(t, exp.position, position, "position for pick %d", i+1)
	}
}

func TestTurnTwoEntrants(t *testing.T) {
	expected := []struct {
		round    int
		position int
	}{
		{1, 1}, {1, 2},
		{2, 2}, {2, 1},
		{3, 1}, {3, 2},
	}
	for i, exp := range expected {
		round, position := Turn(i+1, 2)
		assert.Equal(t, exp.round, round, "round for pick %d", i+1)
		assert.Equal(t, exp.position, position, "position for pick %d", i+1)
	}
}

func TestCompleteBoundary(t *testing.T) {
	assert.False(t, Complete(8, 3))
	assert.True(t, Complete(9, 3))
	assert.True(t, Complete(10, 3))
	assert.Equal(t, 9, TotalPicks(3))
}

func TestOnTheClockWalksTheSnake(t *testing.T) {
	slots := []int{10, 20, 30}

	userId, round, ok := OnTheClock(slots, 0)
	assert.True(t, ok)
	assert.Equal(t, 10, userId)
	assert.Equal(t, 1, round)

	// round two starts with the entrant who just picked
	userId, round, ok = OnTheClock(slots, 3)
	assert.True(t, ok)
	assert.Equal(t, 30, userId)
	assert.Equal(t, 2, round)

	userId, round, ok = OnTheClock(slots, 8)
	assert.True(t, ok)
	assert.Equal(t, 30, userId)
	assert.Equal(t, 3, round)

	_, _, ok = OnTheClock(slots, 9)
	assert.False(t, ok)
}

func TestOnTheClockEmptySlots(t *testing.T) {
	_, _, ok := OnTheClock([]int{}, 0)
	assert.False(t, ok)
}

func TestShuffledOrderIsPermutation(t *testing.T) {
	userIds := []int{1, 2, 3, 4, 5, 6}
	order := ShuffledOrder(userIds)
	assert.ElementsMatch(t, userIds, order)
	// input must not be reordered in place
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, userIds)
}

func TestSeededOrderWorstFirst(t *testing.T) {
	userIds := []int{1, 2, 3, 4}
	priorPositions := map[int]int{1: 1, 2: 2, 3: 3, 4: 4}
	order := SeededOrder(userIds, priorPositions)
	assert.Equal(t, []int{4, 3, 2, 1}, order)
}

func TestSeededOrderSplicesUnknowns(t *testing.T) {
	userIds := []int{1, 2, 3, 4, 5}
	priorPositions := map[int]int{1: 2, 3: 5, 4: 1}
	order := SeededOrder(userIds, priorPositions)
	assert.ElementsMatch(t, userIds, order)

	indexOf := func(id int) int {
		for i, v := range order {
			if v == id {
				return i
			}
		}
		return -1
	}
	// known entrants keep worst-first relative order
	assert.Less(t, indexOf(3), indexOf(1))
	assert.Less(t, indexOf(1), indexOf(4))
}

func TestSeededOrderAllUnknownFallsBackToShuffle(t *testing.T) {
	userIds := []int{7, 8, 9}
	order := SeededOrder(userIds, map[int]int{})
	assert.ElementsMatch(t, userIds, order)
}
