package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler drives each enemy's movement decision on a fixed interval, one
// goroutine per enemy, for the duration of an active match. Drivers are
// independent: there is no ordering or barrier between enemies' ticks, and a
// faulting driver terminates alone while the others keep ticking.
type Scheduler struct {
	board    *Board
	interval time.Duration
	log      *logrus.Entry
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler for the board's roster at the given tick
// interval.
func NewScheduler(board *Board, interval time.Duration, log *logrus.Entry) *Scheduler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scheduler{board: board, interval: interval, log: log}
}

// Start launches one driver per enemy. Cancelling ctx stops every driver
// cooperatively at its next tick boundary; there is no mid-tick preemption.
func (s *Scheduler) Start(ctx context.Context) {
	for _, agent := range s.board.Enemies() {
		s.wg.Add(1)
		go s.drive(ctx, agent)
	}
}

// Wait blocks until every driver has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// drive is one enemy's periodic loop. Each tick checks cancellation and the
// match outcome first, then runs the variant's movement and broadcasts the
// result. Normal move rejections never reach this level; a panic is an
// execution fault that terminates only this driver.
func (s *Scheduler) drive(ctx context.Context, agent EnemyAgent) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log := s.log.WithFields(logrus.Fields{"enemy": agent.ID(), "kind": agent.Kind()})
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if s.board.CheckWin() || s.board.CheckLose() {
			log.Debug("match decided, driver stopping")
			return
		}

		if !s.tick(agent, log) {
			return
		}
		s.board.NotifyPlayers(NewEnemyEvent(agent.Update()))
	}
}

// tick runs one movement calculation, converting a panic into a logged
// driver termination.
func (s *Scheduler) tick(agent EnemyAgent, log *logrus.Entry) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("enemy driver fault, terminating driver")
			ok = false
		}
	}()
	agent.CalculateMovement()
	return true
}
