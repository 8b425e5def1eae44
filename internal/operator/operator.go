package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-sync/internal/operator/actions"
	"github.com/carson-networks/budget-sync/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage *storage.Storage
	queue   chan ActionItem
	logger  *logrus.Logger
}

func NewOperator(s *storage.Storage, queue chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

// processItem runs one action inside its own writer. The writer is committed only when
// the action succeeds; a panicking action is rolled back and reported as an error.
func (o *Operator) processItem(item ActionItem) (err error) {
	log := o.logger.WithField("action", item.action.Name())
	start := time.Now()
	defer func() {
		log = log.WithField("duration", time.Since(start).Milliseconds())
		if err != nil {
			log.WithError(err).Warn("Operator.Process.Failed")
			return
		}
		log.Debug("Operator.Process.Complete")
	}()

	// the caller may have given up while the item sat in the queue
	if err := item.ctx.Err(); err != nil {
		return err
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return fmt.Errorf("open writer: %w", err)
	}

	if err := perform(item.ctx, item.action, writer); err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("Operator.Process.Rollback")
		}
		return err
	}

	return writer.Commit()
}

func perform(ctx context.Context, action actions.IAction, writer *storage.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", action.Name(), r)
		}
	}()
	return action.Perform(ctx, writer)
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
