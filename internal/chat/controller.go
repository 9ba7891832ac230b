package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bz888/chiarella/internal/logger"
)

// Input is the text field a submission is read from.
type Input interface {
	Text() string
	Clear()
}

// Dispatch runs fn on the goroutine that owns the log.
type Dispatch func(fn func())

// Controller mediates between user input, the chat server and the log.
type Controller struct {
	log      Log
	sender   Sender
	dispatch Dispatch
	logger   *logger.Logger

	// ctx is cancelled by Close
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController returns a controller rendering into log. When dispatch is nil
// replies are appended from the goroutine that received them, which is only
// correct for logs that lock internally.
func NewController(log Log, sender Sender, dispatch Dispatch) *Controller {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		log:      log,
		sender:   sender,
		dispatch: dispatch,
		logger:   logger.NewLogger("controller"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit reads input and, unless it is blank, shows it as a user entry,
// clears the field and sends it. It must be called on the log's goroutine.
// The reply is appended later through the dispatcher.
func (c *Controller) Submit(input Input) bool {
	message := input.Text()
	if !c.SubmitText(message) {
		return false
	}
	input.Clear()
	return true
}

// SubmitText is Submit for text that does not come from an input field.
func (c *Controller) SubmitText(message string) bool {
	if strings.TrimSpace(message) == "" {
		return false
	}

	c.Append(RoleUser, message)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.send(message)
	}()
	return true
}

func (c *Controller) send(message string) {
	reply, err := c.sender.Send(c.ctx, message)
	if c.ctx.Err() != nil {
		// the log may no longer be drawn
		c.logger.Debug("reply dropped after close")
		return
	}
	if err != nil {
		c.logFailure(err)
		c.dispatch(func() { c.Append(RoleBot, FallbackMessage) })
		return
	}

	c.logger.Infow("reply received", "chars", len(reply))
	c.dispatch(func() { c.Append(RoleBot, reply) })
}

func (c *Controller) logFailure(err error) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		c.logger.Errorw("chat request rejected", "status", statusErr.Code, "error", err)
		return
	}
	c.logger.Errorw("chat request failed", "error", err)
}

// Append adds one entry and scrolls the log to it.
func (c *Controller) Append(role Role, text string) {
	c.log.Append(Entry{Role: role, Text: text})
	c.log.ScrollToEnd()
}

// Wait blocks until every submission so far has handed its reply, or the
// fallback message, to the dispatcher.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close abandons outstanding requests and waits for their goroutines to
// return. Nothing is appended to the log once Close has been called.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}
