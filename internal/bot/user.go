package bot

import (
	"errors"
	"strconv"

	"log/slog"

	"github.com/langsoc/coursebot/core/logger"
	"github.com/langsoc/coursebot/core/telegram/callbacks"
	tghelpers "github.com/langsoc/coursebot/core/telegram/helpers"
	"github.com/langsoc/coursebot/core/telegram/keyboard"
	"github.com/langsoc/coursebot/internal/domain"

	tele "gopkg.in/telebot.v4"
)

// fail reports an error to the user without leaking internals.
func (a *App) fail(c tele.Context, err error) error {
	ctx := tghelpers.BuildContext(c)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Send("That item doesn't exist anymore.")
	case errors.Is(err, domain.ErrTransient):
		logger.Warn(ctx, "tg", "handler.transient", slog.String("err", err.Error()))
		return c.Send(msgTransient)
	default:
		logger.Error(ctx, "tg", "handler.error", slog.String("err", err.Error()))
		return c.Send(msgTransient)
	}
}

func (a *App) handleStart(c tele.Context) error {
	a.fsm.Cancel(c.Sender().ID)
	return tghelpers.SendMD(c, msgWelcome, mainMenuMarkup(a.isAdmin(c.Sender().ID)))
}

func (a *App) showMenu(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, msgWelcome, mainMenuMarkup(a.isAdmin(c.Sender().ID)))
}

func (a *App) showTerms(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	terms, err := a.catalog.Terms(ctx)
	if err != nil {
		return a.fail(c, err)
	}
	if len(terms) == 0 {
		return tghelpers.EditOrSendMD(c, msgNoTerms, mainMenuMarkup(a.isAdmin(c.Sender().ID)))
	}
	return tghelpers.EditOrSendMD(c, msgPickTerm, termsMarkup(terms))
}

func (a *App) showTeachers(c tele.Context) error {
	termID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return a.showTerms(c)
	}
	ctx := tghelpers.BuildContext(c)
	teachers, err := a.catalog.TeachersByTerm(ctx, termID)
	if err != nil {
		return a.fail(c, err)
	}
	if len(teachers) == 0 {
		return tghelpers.EditOrSendMD(c, msgNoTeachers, termsMarkup(nil))
	}
	return tghelpers.EditOrSendMD(c, msgPickTeacher, teachersMarkup(termID, teachers))
}

func (a *App) showCourse(c tele.Context) error {
	termID, teacherID, err := callbacks.PayloadTwoInt64(c, decisionSep)
	if err != nil {
		return a.showTerms(c)
	}
	ctx := tghelpers.BuildContext(c)
	course, err := a.catalog.CourseByTermTeacher(ctx, termID, teacherID)
	if errors.Is(err, domain.ErrNotFound) {
		return tghelpers.EditOrSendMD(c, msgNoCourse, teachersMarkupFallback(termID))
	}
	if err != nil {
		return a.fail(c, err)
	}
	return tghelpers.EditOrSendMD(c, renderCourse(course), courseMarkup(course.ID))
}

// teachersMarkupFallback returns back navigation to the term's teacher
// list when a course lookup dead-ends.
func teachersMarkupFallback(termID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "⬅️ Back", Unique: cbTerm, Data: strconv.FormatInt(termID, 10)},
	})
}

func (a *App) showFAQ(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	faqs, err := a.catalog.FAQs(ctx)
	if err != nil {
		return a.fail(c, err)
	}
	if len(faqs) == 0 {
		return tghelpers.EditOrSendMD(c, msgNoFAQ, mainMenuMarkup(a.isAdmin(c.Sender().ID)))
	}
	return tghelpers.EditOrSendMD(c, renderFAQ(faqs), mainMenuMarkup(a.isAdmin(c.Sender().ID)))
}

func (a *App) showAbout(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	about, err := a.catalog.About(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return tghelpers.EditOrSendMD(c, msgNoAbout, mainMenuMarkup(a.isAdmin(c.Sender().ID)))
	}
	if err != nil {
		return a.fail(c, err)
	}
	return tghelpers.EditOrSendMD(c, renderAbout(about), mainMenuMarkup(a.isAdmin(c.Sender().ID)))
}

func (a *App) showSupport(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, renderSupport(a.cfg.Payment), mainMenuMarkup(a.isAdmin(c.Sender().ID)))
}

func (a *App) showStatus(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	regs, err := a.regs.UserRegistrations(ctx, c.Sender().ID)
	if err != nil {
		return a.fail(c, err)
	}
	if len(regs) == 0 {
		return tghelpers.EditOrSendMD(c, msgNoStatus, mainMenuMarkup(a.isAdmin(c.Sender().ID)))
	}

	user, err := tghelpers.CurrentUser[domain.User](ctx, a.regs, c.Sender().ID)
	if err != nil {
		user = domain.User{}
	}
	body := renderStatus(user, regs)

	if regID, ok := secondInstallmentTarget(regs); ok {
		return tghelpers.EditOrSendMD(c, body, secondInstallmentMarkup(regID))
	}
	return tghelpers.EditOrSendMD(c, body, mainMenuMarkup(a.isAdmin(c.Sender().ID)))
}

// secondInstallmentTarget picks the newest card installment registration
// whose first stage is confirmed and whose second is still unpaid. A
// pending status means a receipt is already under review, so no button.
func secondInstallmentTarget(regs []domain.RegistrationDetails) (int64, bool) {
	for _, reg := range regs {
		if reg.PaymentMethod == domain.PaymentMethodInstallment &&
			reg.PaymentType == domain.PaymentTypeCard &&
			reg.PaymentStatus == domain.PaymentStatusConfirmed &&
			reg.FirstPaymentConfirmed && !reg.SecondPaymentConfirmed {
			return reg.ID, true
		}
	}
	return 0, false
}

func (a *App) handleCancel(c tele.Context) error {
	userID := c.Sender().ID
	if !a.fsm.InProgress(userID) {
		return c.Send(msgNothingToCancel)
	}
	a.fsm.Cancel(userID)
	return tghelpers.SendMD(c, msgFlowCancelled, mainMenuMarkup(a.isAdmin(userID)))
}
