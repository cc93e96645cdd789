package bot

import (
	"context"

	"github.com/langsoc/coursebot/core/telegram/commands"
	tghelpers "github.com/langsoc/coursebot/core/telegram/helpers"
	"github.com/langsoc/coursebot/core/telegram/state"
	"github.com/langsoc/coursebot/internal/domain"

	tele "gopkg.in/telebot.v4"
)

func buildCtx(c tele.Context) context.Context {
	return tghelpers.BuildContext(c)
}

func (a *App) registerFlows() error {
	if err := registerUserFlows(); err != nil {
		return err
	}
	if err := registerAdminFlows(); err != nil {
		return err
	}
	return registerBroadcastFlow()
}

func (a *App) registerFSMHandlers() {
	state.RegisterHandler(state.FlowState(flowRegister), a.registerFlowInput)
	state.RegisterHandler(state.FlowState(flowSecondReceipt), a.secondReceiptInput)
	state.RegisterHandler(state.FlowState(flowBroadcast), a.broadcastInput)
	for i := range adminFlows {
		f := &adminFlows[i]
		state.RegisterHandler(state.FlowState(f.name), a.adminFlowInput(f))
	}
}

func (a *App) registerCommands() {
	reg := a.registry

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/courses", commands.Command{
		Handler:     a.showTerms,
		Description: "Browse available courses",
	})
	reg.RegisterCommand("/status", commands.Command{
		Handler:     a.showStatus,
		Description: "Show my registrations",
	})
	reg.RegisterCommand("/faq", commands.Command{
		Handler:     a.showFAQ,
		Description: "Frequently asked questions",
	})
	reg.RegisterCommand("/about", commands.Command{
		Handler:     a.showAbout,
		Description: "About the Language Society",
	})
	reg.RegisterCommand("/support", commands.Command{
		Handler:     a.showSupport,
		Description: "Contact support",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "Cancel the current dialog",
	})

	admin := func(name, desc string, h tele.HandlerFunc) {
		reg.RegisterCommand(name, commands.Command{
			Handler:     h,
			Description: desc,
			AdminOnly:   true,
			Hidden:      true,
		})
	}
	admin("/terms", "List terms with ids", a.listTerms)
	admin("/teachers", "List teachers with ids", a.listTeachers)
	admin("/pending", "Payments awaiting review", a.showPending)
	admin("/approve", "Approve a user's latest pending registration", a.decideLatest(true))
	admin("/reject", "Reject a user's latest pending registration", a.decideLatest(false))
	admin("/broadcast", "Announce to all users", a.startBroadcast)
	admin("/addterm", "Create a term", a.startAdminFlow(flowByName(flowTermForm)))
	admin("/addteacher", "Create a teacher", a.startAdminFlow(flowByName(flowTeacherForm)))
	admin("/addcourse", "Create a course", a.startAdminFlow(flowByName(flowCourseForm)))
	admin("/addfaq", "Create a FAQ entry", a.startAdminFlow(flowByName(flowFAQForm)))
	admin("/setabout", "Replace the about text", a.startAdminFlow(flowByName(flowAboutSet)))
	admin("/editterm", "Edit a term", a.entityMenu("Pick a term to edit:", cbTermEdit, a.loadTermChoices))
	admin("/editteacher", "Edit a teacher", a.entityMenu("Pick a teacher to edit:", cbTeacherEdit, a.loadTeacherChoices))
	admin("/editcourse", "Edit a course", a.entityMenu("Pick a course to edit:", cbCourseEdit, a.loadCourseChoices))
	admin("/editfaq", "Edit a FAQ entry", a.entityMenu("Pick an entry to edit:", cbFaqEdit, a.loadFAQChoices))
	admin("/delterm", "Delete a term", a.entityMenu("Pick a term to delete:", cbTermDelAsk, a.loadTermChoices))
	admin("/delteacher", "Delete a teacher", a.entityMenu("Pick a teacher to delete:", cbTeacherDelAsk, a.loadTeacherChoices))
	admin("/delcourse", "Delete a course", a.entityMenu("Pick a course to delete:", cbCourseDelAsk, a.loadCourseChoices))
	admin("/delfaq", "Delete a FAQ entry", a.entityMenu("Pick an entry to delete:", cbFaqDelAsk, a.loadFAQChoices))
}

func flowByName(name string) *adminFlow {
	for i := range adminFlows {
		if adminFlows[i].name == name {
			return &adminFlows[i]
		}
	}
	return nil
}

// adminOnly guards callbacks that bypass the command middleware chain.
func (a *App) adminOnly(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !a.isAdmin(c.Sender().ID) {
			return c.Send(msgAdminOnly)
		}
		return h(c)
	}
}

func (a *App) registerCallbacks() error {
	reg := a.registry

	type cb struct {
		key     string
		handler tele.HandlerFunc
	}
	entries := []cb{
		{cbMenu, a.showMenu},
		{cbTerms, a.showTerms},
		{cbTerm, a.showTeachers},
		{cbTeacher, a.showCourse},
		{cbFAQ, a.showFAQ},
		{cbAbout, a.showAbout},
		{cbSupport, a.showSupport},
		{cbStatus, a.showStatus},

		{cbRegister, a.startRegistration},
		{cbIdentityYes, a.confirmIdentity},
		{cbIdentityNo, a.rejectIdentity},
		{cbCancelFlow, a.cancelFlow},
		{cbPayInPerson, a.choosePaymentType(domain.PaymentTypeInPerson)},
		{cbPayCard, a.choosePaymentType(domain.PaymentTypeCard)},
		{cbMethodFull, a.choosePaymentMethod(domain.PaymentMethodFull)},
		{cbMethodInst, a.choosePaymentMethod(domain.PaymentMethodInstallment)},
		{cbPaySecond, a.startSecondInstallment},

		{cbPendingOpen, a.adminOnly(a.showPending)},
		{cbRegApprove, a.adminOnly(a.decide(true))},
		{cbRegReject, a.adminOnly(a.decide(false))},
		{cbBroadcastSend, a.adminOnly(a.confirmBroadcast)},
		{cbBroadcastCancel, a.adminOnly(a.discardBroadcast)},
		{cbFlowTerm, a.adminOnly(a.pickFlowEntity(stepTermID))},
		{cbFlowTeacher, a.adminOnly(a.pickFlowEntity(stepTeacherID))},
		{cbTermEdit, a.adminOnly(a.startAdminEdit(flowByName(flowTermForm)))},
		{cbTeacherEdit, a.adminOnly(a.startAdminEdit(flowByName(flowTeacherForm)))},
		{cbCourseEdit, a.adminOnly(a.startAdminEdit(flowByName(flowCourseForm)))},
		{cbFaqEdit, a.adminOnly(a.startAdminEdit(flowByName(flowFAQForm)))},

		{cbTermDelAsk, a.adminOnly(a.confirmDelete("term", cbTermDel))},
		{cbTeacherDelAsk, a.adminOnly(a.confirmDelete("teacher", cbTeacherDel))},
		{cbCourseDelAsk, a.adminOnly(a.confirmDelete("course", cbCourseDel))},
		{cbFaqDelAsk, a.adminOnly(a.confirmDelete("faq entry", cbFaqDel))},
		{cbDelCancel, a.adminOnly(a.abortDelete)},
		{cbTermDel, a.adminOnly(a.deleteEntity("term", func(c tele.Context, id int64) error {
			return a.catalog.DeleteTerm(buildCtx(c), id)
		}))},
		{cbTeacherDel, a.adminOnly(a.deleteEntity("teacher", func(c tele.Context, id int64) error {
			return a.catalog.DeleteTeacher(buildCtx(c), id)
		}))},
		{cbCourseDel, a.adminOnly(a.deleteEntity("course", func(c tele.Context, id int64) error {
			return a.catalog.DeleteCourse(buildCtx(c), id)
		}))},
		{cbFaqDel, a.adminOnly(a.deleteEntity("faq entry", func(c tele.Context, id int64) error {
			return a.catalog.DeleteFAQ(buildCtx(c), id)
		}))},
	}

	for _, e := range entries {
		if err := reg.RegisterCallback(e.key, e.handler); err != nil {
			return err
		}
	}
	return nil
}
