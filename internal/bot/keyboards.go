package bot

import (
	"strconv"

	"github.com/langsoc/coursebot/core/telegram/keyboard"
	"github.com/langsoc/coursebot/internal/domain"

	tele "gopkg.in/telebot.v4"
)

// Callback unique keys. Payloads ride after the key in the callback data.
const (
	cbMenu    = "menu"
	cbTerms   = "terms"
	cbTerm    = "term"
	cbTeacher = "teacher"
	cbFAQ     = "faq"
	cbAbout   = "about"
	cbSupport = "support"
	cbStatus  = "status"

	cbRegister    = "reg"
	cbIdentityYes = "id_yes"
	cbIdentityNo  = "id_no"
	cbPayInPerson = "pt_office"
	cbPayCard     = "pt_card"
	cbMethodFull  = "pm_full"
	cbMethodInst  = "pm_inst"
	cbPaySecond   = "pay2"
	cbCancelFlow  = "flow_cancel"

	cbRegApprove  = "reg_ok"
	cbRegReject   = "reg_no"
	cbPendingOpen = "pending_open"

	cbTermDelAsk    = "term_rm"
	cbTeacherDelAsk = "teacher_rm"
	cbCourseDelAsk  = "course_rm"
	cbFaqDelAsk     = "faq_rm"
	cbTermDel       = "term_del"
	cbTeacherDel    = "teacher_del"
	cbCourseDel     = "course_del"
	cbFaqDel        = "faq_del"
	cbDelCancel     = "del_no"

	cbTermEdit    = "term_edit"
	cbTeacherEdit = "teacher_edit"
	cbCourseEdit  = "course_edit"
	cbFaqEdit     = "faq_edit"

	cbFlowTerm    = "fl_term"
	cbFlowTeacher = "fl_teacher"

	cbBroadcastSend   = "bc_ok"
	cbBroadcastCancel = "bc_no"
)

// decisionSep separates the registration id from the stage in review
// callbacks, e.g. "41|2".
const decisionSep = "|"

func mainMenuMarkup(admin bool) *tele.ReplyMarkup {
	rows := [][]keyboard.InlineBtn{
		{{Text: "📚 Courses", Unique: cbTerms}},
		{
			{Text: "🗒 My registrations", Unique: cbStatus},
			{Text: "❓ FAQ", Unique: cbFAQ},
		},
		{
			{Text: "ℹ️ About us", Unique: cbAbout},
			{Text: "☎️ Support", Unique: cbSupport},
		},
	}
	if admin {
		rows = append(rows, []keyboard.InlineBtn{{Text: "🛠 Pending payments", Unique: cbPendingOpen}})
	}
	return keyboard.InlineButtonsRows(rows...)
}

func termsMarkup(terms []domain.Term) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(terms)+1)
	for _, t := range terms {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   t.Name,
			Unique: cbTerm,
			Data:   strconv.FormatInt(t.ID, 10),
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: "⬅️ Back", Unique: cbMenu})
	return keyboard.InlineButtons(buttons)
}

func teachersMarkup(termID int64, teachers []domain.Teacher) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(teachers)+1)
	for _, t := range teachers {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   t.Name,
			Unique: cbTeacher,
			Data:   strconv.FormatInt(termID, 10) + decisionSep + strconv.FormatInt(t.ID, 10),
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: "⬅️ Back", Unique: cbTerms})
	return keyboard.InlineButtons(buttons)
}

func courseMarkup(courseID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{
			Text:   "✍️ Register",
			Unique: cbRegister,
			Data:   strconv.FormatInt(courseID, 10),
		}},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: cbTerms}},
	)
}

func identityMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✅ That's me", Unique: cbIdentityYes},
			{Text: "✏️ Re-enter", Unique: cbIdentityNo},
		},
		[]keyboard.InlineBtn{{Text: "❌ Cancel", Unique: cbCancelFlow}},
	)
}

func paymentTypeMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "🏢 In person", Unique: cbPayInPerson},
			{Text: "💳 Card to card", Unique: cbPayCard},
		},
		[]keyboard.InlineBtn{{Text: "❌ Cancel", Unique: cbCancelFlow}},
	)
}

func paymentMethodMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "💰 Full payment", Unique: cbMethodFull},
			{Text: "➗ Two installments", Unique: cbMethodInst},
		},
		[]keyboard.InlineBtn{{Text: "❌ Cancel", Unique: cbCancelFlow}},
	)
}

func decisionMarkup(registrationID int64, stage domain.Stage) *tele.ReplyMarkup {
	payload := strconv.FormatInt(registrationID, 10) + decisionSep + strconv.Itoa(int(stage))
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Approve", Unique: cbRegApprove, Data: payload},
		{Text: "🚫 Reject", Unique: cbRegReject, Data: payload},
	})
}

func secondInstallmentMarkup(registrationID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{{
		Text:   "💳 Pay second installment",
		Unique: cbPaySecond,
		Data:   strconv.FormatInt(registrationID, 10),
	}})
}

func broadcastConfirmMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "📣 Send to everyone", Unique: cbBroadcastSend},
		{Text: "❌ Discard", Unique: cbBroadcastCancel},
	})
}

// pickerMarkup renders one button per entity, carrying its id.
func pickerMarkup(unique string, ids []int64, labels []string) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(ids))
	for i, id := range ids {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   labels[i],
			Unique: unique,
			Data:   strconv.FormatInt(id, 10),
		}})
	}
	return keyboard.InlineButtonsRows(rows...)
}

func confirmDeleteMarkup(confirmUnique string, id int64) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "🗑 Yes, delete", Unique: confirmUnique, Data: strconv.FormatInt(id, 10)},
		{Text: "↩️ Keep it", Unique: cbDelCancel},
	})
}
