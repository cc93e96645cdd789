package bot

import (
	"errors"
	"path/filepath"

	"github.com/langsoc/coursebot/core/telegram/callbacks"
	tghelpers "github.com/langsoc/coursebot/core/telegram/helpers"
	"github.com/langsoc/coursebot/core/telegram/state"
	"github.com/langsoc/coursebot/internal/domain"
	"github.com/langsoc/coursebot/internal/service"

	tele "gopkg.in/telebot.v4"
)

const (
	flowRegister      = "register"
	flowSecondReceipt = "second-receipt"
)

// Temp data keys shared between the flow steps and callbacks.
const (
	tmpCourseID      = "course_id"
	tmpStudentID     = "student_id"
	tmpFirstName     = "first_name"
	tmpLastName      = "last_name"
	tmpMatched       = "matched"
	tmpPaymentType   = "payment_type"
	tmpPaymentMethod = "payment_method"
	tmpAwaitReceipt  = "await_receipt"
	tmpSecondRegID   = "second_registration_id"
	stepStudentID    = "student_id"
	stepReceipt      = "receipt"
)

func registerUserFlows() error {
	if err := state.RegisterFlow(&state.Flow{
		Name: flowRegister,
		Steps: []state.Step{
			{Name: stepStudentID, Validate: service.ValidateIdentifier},
			{Name: stepReceipt},
		},
	}); err != nil {
		return err
	}
	return state.RegisterFlow(&state.Flow{
		Name: flowSecondReceipt,
		Steps: []state.Step{
			{Name: stepReceipt},
		},
	})
}

// startRegistration reacts to the register button under a course card.
func (a *App) startRegistration(c tele.Context) error {
	courseID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return a.showTerms(c)
	}
	ctx := tghelpers.BuildContext(c)
	if _, err := a.catalog.CourseByID(ctx, courseID); err != nil {
		return a.fail(c, err)
	}

	userID := c.Sender().ID
	if err := a.fsm.Begin(userID, flowRegister); err != nil {
		return a.fail(c, err)
	}
	a.fsm.SetTemp(userID, tmpCourseID, courseID)
	return c.Send(msgAskStudentID)
}

// registerFlowInput handles text and photos while the registration flow
// is active. Button presses are handled by callbacks.
func (a *App) registerFlowInput(c tele.Context) error {
	userID := c.Sender().ID
	step, ok := a.fsm.CurrentStep(userID)
	if !ok {
		return c.Send(msgUseButtons)
	}

	switch step.Name {
	case stepStudentID:
		return a.collectStudentID(c, step)
	case stepReceipt:
		return a.collectReceipt(c)
	default:
		return c.Send(msgUseButtons)
	}
}

func (a *App) collectStudentID(c tele.Context, step state.Step) error {
	text := c.Text()
	if step.Validate != nil {
		if err := step.Validate(text); err != nil {
			return c.Send(msgBadStudentID)
		}
	}

	ctx := tghelpers.BuildContext(c)
	identity, err := a.regs.VerifyIdentifier(ctx, text)
	if errors.Is(err, domain.ErrValidation) {
		return c.Send(msgBadStudentID)
	}
	if err != nil {
		return a.fail(c, err)
	}

	userID := c.Sender().ID
	a.fsm.SetTemp(userID, tmpStudentID, identity.StudentID)
	a.fsm.SetTemp(userID, tmpFirstName, identity.FirstName)
	a.fsm.SetTemp(userID, tmpLastName, identity.LastName)
	a.fsm.SetTemp(userID, tmpMatched, identity.Matched)
	return tghelpers.SendMD(c, renderIdentity(identity), identityMarkup())
}

func (a *App) tempIdentity(userID int64) (service.Identity, bool) {
	studentID, ok := a.fsm.GetTempString(userID, tmpStudentID)
	if !ok {
		return service.Identity{}, false
	}
	first, _ := a.fsm.GetTempString(userID, tmpFirstName)
	last, _ := a.fsm.GetTempString(userID, tmpLastName)
	matched, _ := a.fsm.GetTemp(userID, tmpMatched)
	m, _ := matched.(bool)
	return service.Identity{StudentID: studentID, FirstName: first, LastName: last, Matched: m}, true
}

// advanceIfAt moves the session forward only when it is waiting at the
// named step, so duplicate button taps cannot push a flow past its last
// step and strand it.
func advanceIfAt(m state.Manager, userID int64, stepName string) bool {
	step, ok := m.CurrentStep(userID)
	if !ok || step.Name != stepName {
		return false
	}
	m.Advance(userID, "", nil)
	return true
}

// confirmIdentity stores the user record and moves on to payment choice.
func (a *App) confirmIdentity(c tele.Context) error {
	userID := c.Sender().ID
	identity, ok := a.tempIdentity(userID)
	if !ok {
		return c.Send(msgUseButtons)
	}

	ctx := tghelpers.BuildContext(c)
	if err := a.regs.ConfirmIdentity(ctx, userID, identity); err != nil {
		return a.fail(c, err)
	}
	if !advanceIfAt(a.fsm, userID, stepStudentID) {
		return c.Send(msgUseButtons)
	}
	return tghelpers.EditOrSendMD(c, msgPickPaymentType, paymentTypeMarkup())
}

func (a *App) rejectIdentity(c tele.Context) error {
	return c.Send(msgAskStudentID)
}

func (a *App) cancelFlow(c tele.Context) error {
	userID := c.Sender().ID
	a.fsm.Cancel(userID)
	return tghelpers.EditOrSendMD(c, msgFlowCancelled, mainMenuMarkup(a.isAdmin(userID)))
}

func (a *App) choosePaymentType(ptype domain.PaymentType) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		if _, ok := a.fsm.ActiveFlow(userID); !ok {
			return c.Send(msgUseButtons)
		}
		a.fsm.SetTemp(userID, tmpPaymentType, string(ptype))
		return tghelpers.EditOrSendMD(c, msgPickPaymentMethod, paymentMethodMarkup())
	}
}

func (a *App) choosePaymentMethod(method domain.PaymentMethod) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		ptypeRaw, ok := a.fsm.GetTempString(userID, tmpPaymentType)
		if !ok {
			return c.Send(msgUseButtons)
		}
		courseID, ok := a.fsm.GetTempInt64(userID, tmpCourseID)
		if !ok {
			return c.Send(msgUseButtons)
		}
		ptype := domain.PaymentType(ptypeRaw)

		ctx := tghelpers.BuildContext(c)
		if ptype == domain.PaymentTypeInPerson {
			reg, err := a.regs.Create(ctx, userID, courseID, ptype, method)
			if err != nil {
				return a.fail(c, err)
			}
			a.fsm.Cancel(userID)
			due := domain.DueAmount(reg.Price, method, domain.StageFirst)
			if err := tghelpers.EditOrSendMD(c, renderOfficeInstructions(a.cfg.Payment, due)); err != nil {
				return err
			}
			return a.notifyAdminText(c, reg, domain.StageFirst)
		}

		course, err := a.catalog.CourseByID(ctx, courseID)
		if err != nil {
			return a.fail(c, err)
		}
		a.fsm.SetTemp(userID, tmpPaymentMethod, string(method))
		a.fsm.SetTemp(userID, tmpAwaitReceipt, true)
		due := domain.DueAmount(course.Price, method, domain.StageFirst)
		return tghelpers.EditOrSendMD(c, renderCardInstructions(a.cfg.Payment, due))
	}
}

// collectReceipt finalizes a card registration once the receipt photo
// arrives.
func (a *App) collectReceipt(c tele.Context) error {
	userID := c.Sender().ID
	awaiting, _ := a.fsm.GetTemp(userID, tmpAwaitReceipt)
	if ready, _ := awaiting.(bool); !ready {
		return c.Send(msgUseButtons)
	}

	photo := c.Message().Photo
	if photo == nil {
		return c.Send(msgReceiptNotPhoto)
	}

	courseID, _ := a.fsm.GetTempInt64(userID, tmpCourseID)
	methodRaw, _ := a.fsm.GetTempString(userID, tmpPaymentMethod)
	method := domain.PaymentMethod(methodRaw)

	ctx := tghelpers.BuildContext(c)
	reg, err := a.regs.Create(ctx, userID, courseID, domain.PaymentTypeCard, method)
	if err != nil {
		return a.fail(c, err)
	}
	ref, err := a.regs.AttachReceipt(ctx, reg.ID)
	if err != nil {
		return a.fail(c, err)
	}
	if err := c.Bot().Download(&photo.File, filepath.Join(a.cfg.Receipts.Dir, ref)); err != nil {
		return a.fail(c, err)
	}
	reg.ReceiptRef = &ref

	a.fsm.Cancel(userID)
	if err := tghelpers.SendMD(c, msgRegistrationDone); err != nil {
		return err
	}
	return a.notifyAdminPhoto(c, reg, domain.StageFirst, photo)
}

// startSecondInstallment reacts to the pay-second button in the status
// view.
func (a *App) startSecondInstallment(c tele.Context) error {
	regID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return a.showStatus(c)
	}
	userID := c.Sender().ID

	ctx := tghelpers.BuildContext(c)
	reg, err := a.regs.RegistrationByID(ctx, regID)
	if err != nil {
		return a.fail(c, err)
	}
	if reg.TelegramID != userID {
		return c.Send(msgUseButtons)
	}

	if err := a.fsm.Begin(userID, flowSecondReceipt); err != nil {
		return a.fail(c, err)
	}
	a.fsm.SetTemp(userID, tmpSecondRegID, regID)
	due := domain.DueAmount(reg.Price, reg.PaymentMethod, domain.StageSecond)
	return tghelpers.EditOrSendMD(c, renderCardInstructions(a.cfg.Payment, due))
}

// secondReceiptInput handles the receipt upload of the second installment.
func (a *App) secondReceiptInput(c tele.Context) error {
	userID := c.Sender().ID
	photo := c.Message().Photo
	if photo == nil {
		return c.Send(msgReceiptNotPhoto)
	}
	regID, ok := a.fsm.GetTempInt64(userID, tmpSecondRegID)
	if !ok {
		a.fsm.Cancel(userID)
		return c.Send(msgUseButtons)
	}

	ctx := tghelpers.BuildContext(c)
	reg, ref, err := a.regs.SubmitSecondInstallment(ctx, regID)
	if err != nil {
		return a.fail(c, err)
	}
	if err := c.Bot().Download(&photo.File, filepath.Join(a.cfg.Receipts.Dir, ref)); err != nil {
		return a.fail(c, err)
	}

	a.fsm.Cancel(userID)
	if err := tghelpers.SendMD(c, msgRegistrationDone); err != nil {
		return err
	}
	return a.notifyAdminPhoto(c, reg, domain.StageSecond, photo)
}

func (a *App) notifyAdminText(c tele.Context, reg domain.RegistrationDetails, stage domain.Stage) error {
	_, err := c.Bot().Send(
		tele.ChatID(a.cfg.Core.Telegram.AdminID),
		renderAdminNotification(reg, stage),
		&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: decisionMarkup(reg.ID, stage)},
	)
	return err
}

func (a *App) notifyAdminPhoto(c tele.Context, reg domain.RegistrationDetails, stage domain.Stage, photo *tele.Photo) error {
	attach := *photo
	attach.Caption = renderAdminNotification(reg, stage)
	_, err := c.Bot().Send(
		tele.ChatID(a.cfg.Core.Telegram.AdminID),
		&attach,
		&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: decisionMarkup(reg.ID, stage)},
	)
	return err
}
