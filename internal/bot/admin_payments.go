package bot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/langsoc/coursebot/core/telegram/callbacks"
	tghelpers "github.com/langsoc/coursebot/core/telegram/helpers"
	"github.com/langsoc/coursebot/internal/domain"

	tele "gopkg.in/telebot.v4"
)

// showPending lists registrations awaiting review, each with its own
// decision buttons carrying the registration id and stage.
func (a *App) showPending(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	pending, err := a.regs.Pending(ctx)
	if err != nil {
		return a.fail(c, err)
	}
	if len(pending) == 0 {
		return c.Send(msgNoPending)
	}
	for _, reg := range pending {
		stage := pendingStage(reg)
		if err := tghelpers.SendMD(c, renderPendingItem(reg), decisionMarkup(reg.ID, stage)); err != nil {
			return err
		}
	}
	return nil
}

// parseDecision decodes "registrationID|stage" from a decision button
// payload.
func parseDecision(payload string) (int64, domain.Stage, error) {
	parts := strings.Split(payload, decisionSep)
	if len(parts) != 2 {
		return 0, 0, errors.New("malformed decision payload")
	}
	regID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	stageNum, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	stage := domain.Stage(stageNum)
	if stage != domain.StageFirst && stage != domain.StageSecond {
		return 0, 0, errors.New("unknown stage")
	}
	return regID, stage, nil
}

// parseChatID reads a Telegram chat id from command arguments.
func parseChatID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one argument")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("not a chat id")
	}
	return id, nil
}

// decideLatest applies a verdict to a user's most recent pending
// registration. It backs the /approve and /reject commands, for when
// the buttoned notification is gone, such as in-person payments settled
// at the office.
func (a *App) decideLatest(approve bool) tele.HandlerFunc {
	return func(c tele.Context) error {
		tgID, err := parseChatID(c.Args())
		if err != nil {
			verb := "/reject"
			if approve {
				verb = "/approve"
			}
			return c.Send("Usage: " + verb + " <telegram id>")
		}

		ctx := tghelpers.BuildContext(c)
		reg, err := a.regs.DecideLatestForUser(ctx, tgID, approve)
		if errors.Is(err, domain.ErrNotFound) {
			return c.Send("No pending registration for that user.")
		}
		if err != nil {
			return a.fail(c, err)
		}

		if err := c.Send(renderDecisionForAdmin(reg, domain.StageFirst, approve)); err != nil {
			return err
		}
		_, err = c.Bot().Send(
			tele.ChatID(reg.TelegramID),
			renderDecisionForUser(reg, domain.StageFirst, approve),
			&tele.SendOptions{ParseMode: tele.ModeMarkdown},
		)
		return err
	}
}

// decide applies a verdict, rewrites the admin's message in place, and
// notifies the student.
func (a *App) decide(approve bool) tele.HandlerFunc {
	return func(c tele.Context) error {
		regID, stage, err := parseDecision(callbacks.CallbackPayload(c))
		if err != nil {
			return c.Send("This decision button is malformed; use /pending for a fresh list.")
		}

		ctx := tghelpers.BuildContext(c)
		reg, err := a.regs.Decide(ctx, regID, stage, approve)
		if errors.Is(err, domain.ErrNotFound) {
			return c.Send("That registration no longer exists.")
		}
		if err != nil {
			return a.fail(c, err)
		}

		// Photos carry the summary in the caption and cannot be
		// edited with plain text; fall back to a follow-up message.
		outcome := renderDecisionForAdmin(reg, stage, approve)
		if err := c.Edit(outcome); err != nil {
			if sendErr := c.Send(outcome); sendErr != nil {
				return sendErr
			}
		}

		_, err = c.Bot().Send(
			tele.ChatID(reg.TelegramID),
			renderDecisionForUser(reg, stage, approve),
			&tele.SendOptions{ParseMode: tele.ModeMarkdown},
		)
		return err
	}
}
