package bot

import (
	"fmt"
	"strings"

	"github.com/langsoc/coursebot/core/telegram/format"
	"github.com/langsoc/coursebot/internal/config"
	"github.com/langsoc/coursebot/internal/domain"
	"github.com/langsoc/coursebot/internal/service"
)

// escapeMD guards roster-sourced names against markdown metacharacters.
func escapeMD(s string) string {
	out, err := format.EscapeMarkdown(s, format.MarkdownV1)
	if err != nil {
		return s
	}
	return out
}

const (
	msgWelcome = "Welcome to the Language Society! 🎓\n" +
		"Browse our courses, register, and track your payments right here."

	msgAdminOnly       = "This action is reserved for the administrator."
	msgUnknownInput    = "I didn't catch that. Use the menu below 👇"
	msgUnexpectedPhoto = "I wasn't expecting a photo. Start a registration first if you want to submit a receipt."
	msgUseButtons      = "Please use the buttons above to continue."

	msgAskStudentID = "Please enter your student number or national id (7 to 10 digits)."
	msgBadStudentID = "That doesn't look right. Send 7 to 10 digits, nothing else."

	msgPickPaymentType   = "How would you like to pay?"
	msgPickPaymentMethod = "Pay the full amount, or split it into two installments?"

	msgAskReceipt       = "Send a photo of your transfer receipt 📷"
	msgReceiptNotPhoto  = "I need a photo of the receipt to continue."
	msgFlowCancelled    = "Cancelled. You can start again from the menu."
	msgNothingToCancel  = "Nothing to cancel."
	msgRegistrationDone = "Thanks! Your registration is recorded and awaits confirmation. You'll hear from us soon. ✅"

	msgNoTerms     = "No terms are open for registration right now."
	msgNoTeachers  = "No teachers are assigned to this term yet."
	msgNoCourse    = "No course is scheduled for this teacher yet."
	msgNoFAQ       = "No questions have been added yet."
	msgNoAbout     = "Nothing here yet."
	msgNoStatus    = "You have no registrations yet. Pick a course from the menu!"
	msgNoPending   = "No payments are waiting for review. 🎉"
	msgTransient   = "Something went wrong on our side. Please try again in a moment."
	msgPickTerm    = "Pick a term:"
	msgPickTeacher = "Pick a teacher:"
)

func renderIdentity(id service.Identity) string {
	var b strings.Builder
	b.WriteString("Is this you?\n\n")
	fmt.Fprintf(&b, "*%s %s*\nStudent id: `%s`\n", escapeMD(id.FirstName), escapeMD(id.LastName), id.StudentID)
	if !id.Matched {
		b.WriteString("\n⚠️ We couldn't find you in the university roster. " +
			"You can continue, and the office will verify your enrollment manually.")
	}
	return b.String()
}

func renderCourse(c domain.CourseDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* with *%s*\n\n", c.TermName, c.TeacherName)
	fmt.Fprintf(&b, "🗓 %s, %s\n", c.Day, c.Time)
	if c.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", c.Location)
	}
	if c.Topics != "" {
		fmt.Fprintf(&b, "📖 %s\n", c.Topics)
	}
	fmt.Fprintf(&b, "💵 %s", service.FormatAmount(c.Price))
	return b.String()
}

func renderCardInstructions(p config.PaymentConfig, amount int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transfer *%s* to:\n\n", service.FormatAmount(amount))
	fmt.Fprintf(&b, "💳 `%s`\n%s\n\n", p.CardNumber, p.CardOwner)
	b.WriteString(msgAskReceipt)
	return b.String()
}

func renderOfficeInstructions(p config.PaymentConfig, amount int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please pay *%s* at our office.\n\n", service.FormatAmount(amount))
	if p.OfficeAddress != "" {
		fmt.Fprintf(&b, "📍 %s\n", p.OfficeAddress)
	}
	if p.OfficeHours != "" {
		fmt.Fprintf(&b, "🕐 %s\n", p.OfficeHours)
	}
	b.WriteString("\nYour registration is recorded; it will be confirmed once you pay.")
	return b.String()
}

func renderSupport(p config.PaymentConfig) string {
	if strings.TrimSpace(p.SupportText) == "" {
		return "Reach us at the Language Society office."
	}
	return p.SupportText
}

// renderAdminNotification is the message the administrator receives when
// a registration needs review.
func renderAdminNotification(reg domain.RegistrationDetails, stage domain.Stage) string {
	var b strings.Builder
	b.WriteString("🔔 *New payment to review*\n\n")
	fmt.Fprintf(&b, "👤 %s %s (`%s`)\n", escapeMD(reg.FirstName), escapeMD(reg.LastName), reg.StudentID)
	fmt.Fprintf(&b, "📚 %s with %s\n", reg.TermName, reg.TeacherName)
	fmt.Fprintf(&b, "💵 %s due", service.FormatAmount(domain.DueAmount(reg.Price, reg.PaymentMethod, stage)))
	if reg.PaymentMethod == domain.PaymentMethodInstallment {
		fmt.Fprintf(&b, " (installment %d of 2)", stage)
	}
	b.WriteString("\n")
	switch reg.PaymentType {
	case domain.PaymentTypeCard:
		b.WriteString("💳 Card transfer, receipt attached\n")
	case domain.PaymentTypeInPerson:
		b.WriteString("🏢 Pays in person at the office\n")
	}
	if reg.FirstName == service.PlaceholderName {
		b.WriteString("\n⚠️ Not found in the roster, needs manual verification.")
	}
	return b.String()
}

func renderDecisionForUser(reg domain.RegistrationDetails, stage domain.Stage, approved bool) string {
	course := fmt.Sprintf("%s with %s", reg.TermName, reg.TeacherName)
	installment := ""
	if reg.PaymentMethod == domain.PaymentMethodInstallment {
		installment = fmt.Sprintf(" (installment %d of 2)", stage)
	}
	if approved {
		return fmt.Sprintf("✅ Your payment for *%s*%s was confirmed. See you in class!", course, installment)
	}
	return fmt.Sprintf("🚫 Your payment for *%s*%s was rejected. "+
		"Please contact support or try again.", course, installment)
}

func renderDecisionForAdmin(reg domain.RegistrationDetails, stage domain.Stage, approved bool) string {
	verdict := "rejected 🚫"
	if approved {
		verdict = "approved ✅"
	}
	return fmt.Sprintf("Registration #%d (%s %s, stage %d) %s",
		reg.ID, reg.FirstName, reg.LastName, stage, verdict)
}

func statusLine(reg domain.RegistrationDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• *%s* with %s", reg.TermName, reg.TeacherName)
	if !reg.CreatedAt.IsZero() {
		fmt.Fprintf(&b, " (%s)", reg.CreatedAt.Format("2006-01-02"))
	}
	switch {
	case reg.PaymentStatus == domain.PaymentStatusRejected:
		b.WriteString(" — rejected 🚫")
	case reg.PaymentMethod == domain.PaymentMethodInstallment && reg.FirstPaymentConfirmed && !reg.SecondPaymentConfirmed:
		b.WriteString(" — first installment paid, second due ➗")
	case reg.PaymentStatus == domain.PaymentStatusConfirmed:
		b.WriteString(" — confirmed ✅")
	default:
		b.WriteString(" — awaiting confirmation ⏳")
	}
	return b.String()
}

func renderStatus(user domain.User, regs []domain.RegistrationDetails) string {
	var b strings.Builder
	if user.FirstName != "" && user.FirstName != service.PlaceholderName {
		fmt.Fprintf(&b, "*Registrations for %s %s*\n\n", escapeMD(user.FirstName), escapeMD(user.LastName))
	} else {
		b.WriteString("*Your registrations*\n\n")
	}
	for _, reg := range regs {
		b.WriteString(statusLine(reg))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderPendingItem(reg domain.RegistrationDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s %s (`%s`)\n", reg.ID, reg.FirstName, reg.LastName, reg.StudentID)
	fmt.Fprintf(&b, "%s with %s, %s/%s\n", reg.TermName, reg.TeacherName, reg.PaymentType, reg.PaymentMethod)
	fmt.Fprintf(&b, "💵 %s", service.FormatAmount(domain.DueAmount(reg.Price, reg.PaymentMethod, pendingStage(reg))))
	return b.String()
}

// pendingStage infers which installment the pending decision concerns.
func pendingStage(reg domain.RegistrationDetails) domain.Stage {
	if reg.PaymentMethod == domain.PaymentMethodInstallment && reg.FirstPaymentConfirmed {
		return domain.StageSecond
	}
	return domain.StageFirst
}

func renderFAQ(faqs []domain.FAQ) string {
	var b strings.Builder
	b.WriteString("*Frequently asked questions*\n\n")
	for _, f := range faqs {
		fmt.Fprintf(&b, "❓ *%s*\n%s\n\n", f.Question, f.Answer)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAbout(a domain.About) string {
	if a.Title == "" {
		return a.Content
	}
	return fmt.Sprintf("*%s*\n\n%s", a.Title, a.Content)
}
