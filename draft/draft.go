// Package draft implements the snake draft order and turn math. Everything
// here is pure; persistence and locking live in the draft service.
package draft

import (
	"math/rand/v2"
	"sort"
)

// Rounds is the number of golfers each entrant drafts.
const Rounds = 3

// TotalPicks returns the number of picks in a complete draft.
func TotalPicks(numSlots int) int {
	return Rounds * numSlots
}

// Complete reports whether all picks have been made.
func Complete(picksMade int, numSlots int) bool {
	return picksMade >= TotalPicks(numSlots)
}

// Turn maps a 1-based pick number to its round and slot position. Odd
// rounds walk the slots forward, even rounds backward, so the entrant who
// picks last in one round picks first in the next.
func Turn(pickNumber int, numSlots int) (round int, position int) {
	round = (pickNumber-1)/numSlots + 1
	idx := (pickNumber - 1) % numSlots
	if round%2 == 1 {
		position = idx + 1
	} else {
		position = numSlots - idx
	}
	return round, position
}

// OnTheClock returns the user holding the next pick. slotUserIds is indexed
// by position-1. ok is false once the draft is complete.
func OnTheClock(slotUserIds []int, picksMade int) (userId int, round int, ok bool) {
	if len(slotUserIds) == 0 || Complete(picksMade, len(slotUserIds)) {
		return 0, 0, false
	}
	round, position := Turn(picksMade+1, len(slotUserIds))
	return slotUserIds[position-1], round, true
}

// ShuffledOrder returns a random permutation of the entrants.
func ShuffledOrder(userIds []int) []int {
	order := make([]int, len(userIds))
	copy(order, userIds)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// SeededOrder builds a worst-picks-first order from a previous pool's final
// positions. Entrants without a prior position are spliced in at random
// spots; entrants with one keep their relative order, last place first.
func SeededOrder(userIds []int, priorPositions map[int]int) []int {
	known := make([]int, 0, len(userIds))
	unknown := make([]int, 0)
	for _, id := range userIds {
		if _, ok := priorPositions[id]; ok {
			known = append(known, id)
		} else {
			unknown = append(unknown, id)
		}
	}
	if len(known) == 0 {
		return ShuffledOrder(userIds)
	}
	sort.SliceStable(known, func(i, j int) bool {
		return priorPositions[known[i]] > priorPositions[known[j]]
	})
	order := known
	for _, id := range unknown {
		at := rand.IntN(len(order) + 1)
		order = append(order[:at], append([]int{id}, order[at:]...)...)
	}
	return order
}
