package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wishlist/api/internal/wishlist"
)

// Judge adapts a Completer to wishlist.JudgmentService. The panel is one
// logical call that fans out to the three personas concurrently and fails as
// a whole if any persona fails.
type Judge struct {
	completer Completer
	logger    *zap.Logger
}

func NewJudge(completer Completer, logger *zap.Logger) *Judge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Judge{completer: completer, logger: logger}
}

func (j *Judge) Chat(ctx context.Context, persona wishlist.Persona, message, background string) (string, error) {
	started := time.Now()
	reply, err := j.completer.Complete(ctx, SystemPrompt(persona, background), message)
	j.logger.Debug("chat completed",
		zap.String("persona", string(persona)),
		zap.Bool("background", background != ""),
		zap.Duration("elapsed", time.Since(started)),
		zap.Error(err),
	)
	return reply, err
}

func (j *Judge) Panel(ctx context.Context, question, background string) (wishlist.PanelReply, error) {
	var reply wishlist.PanelReply
	targets := []struct {
		persona wishlist.Persona
		answer  *string
	}{
		{wishlist.PersonaAngel, &reply.Angel},
		{wishlist.PersonaDevil, &reply.Devil},
		{wishlist.PersonaNicholas, &reply.Nicholas},
	}

	started := time.Now()
	group, groupCtx := errgroup.WithContext(ctx)
	for _, target := range targets {
		group.Go(func() error {
			text, err := j.completer.Complete(groupCtx, SystemPrompt(target.persona, background), question)
			if err != nil {
				return fmt.Errorf("%s: %w", target.persona, err)
			}
			*target.answer = text
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return wishlist.PanelReply{}, err
	}
	j.logger.Debug("panel completed", zap.Duration("elapsed", time.Since(started)))
	return reply, nil
}
