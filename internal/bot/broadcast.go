package bot

import (
	"fmt"
	"strings"

	"log/slog"

	"github.com/langsoc/coursebot/core/logger"
	tghelpers "github.com/langsoc/coursebot/core/telegram/helpers"
	"github.com/langsoc/coursebot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

const (
	flowBroadcast    = "broadcast"
	stepBroadcastMsg = "message"
)

func registerBroadcastFlow() error {
	return state.RegisterFlow(&state.Flow{
		Name: flowBroadcast,
		Steps: []state.Step{
			{Name: stepBroadcastMsg, Validate: requireText},
		},
	})
}

func (a *App) startBroadcast(c tele.Context) error {
	if err := a.fsm.Begin(c.Sender().ID, flowBroadcast); err != nil {
		return a.fail(c, err)
	}
	return c.Send("Send the announcement text. /cancel to abort.")
}

// broadcastInput captures the announcement and asks for confirmation.
// The session stays open until the admin confirms or discards.
func (a *App) broadcastInput(c tele.Context) error {
	userID := c.Sender().ID
	if step, ok := a.fsm.CurrentStep(userID); !ok || step.Name != stepBroadcastMsg {
		return c.Send(msgUseButtons)
	}
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return c.Send("The announcement can't be empty. Try again or /cancel.")
	}
	a.fsm.Advance(userID, stepBroadcastMsg, text)
	preview := "You're about to send this to every registered user:\n\n" + text
	return c.Send(preview, broadcastConfirmMarkup())
}

func (a *App) confirmBroadcast(c tele.Context) error {
	userID := c.Sender().ID
	fields, ok := a.fsm.Complete(userID)
	if !ok {
		return c.Send(msgUseButtons)
	}
	text, _ := fields[stepBroadcastMsg].(string)
	if text == "" {
		return c.Send(msgUseButtons)
	}

	ctx := tghelpers.BuildContext(c)
	recipients, err := a.broadcast.Recipients(ctx)
	if err != nil {
		return a.fail(c, err)
	}

	delivered := 0
	for _, id := range recipients {
		if _, err := c.Bot().Send(tele.ChatID(id), text); err != nil {
			logger.Warn(ctx, "service.broadcast", "broadcast.send_failed",
				slog.Int64("user_id", id),
				slog.String("err", err.Error()),
			)
			continue
		}
		delivered++
	}

	logger.Info(ctx, "service.broadcast", "broadcast.sent",
		slog.Int("recipients", len(recipients)),
		slog.Int("delivered", delivered),
	)
	return c.Edit(fmt.Sprintf("Announcement delivered to %d of %d users.", delivered, len(recipients)))
}

func (a *App) discardBroadcast(c tele.Context) error {
	a.fsm.Cancel(c.Sender().ID)
	return c.Edit("Announcement discarded.")
}
