package domain

import "time"

// PaymentType distinguishes how the money is handed over.
type PaymentType string

const (
	PaymentTypeInPerson PaymentType = "in_person"
	PaymentTypeCard     PaymentType = "card"
)

// PaymentMethod distinguishes full payment from two installments.
type PaymentMethod string

const (
	PaymentMethodFull        PaymentMethod = "full"
	PaymentMethodInstallment PaymentMethod = "installment"
)

// PaymentStatus is the administrator's verdict on a registration.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// Stage selects which installment an admin decision applies to. Full
// payments always use StageFirst.
type Stage int

const (
	StageFirst  Stage = 1
	StageSecond Stage = 2
)

// Registration records a user's request to join a course.
type Registration struct {
	ID                     int64         `db:"id"`
	TelegramID             int64         `db:"telegram_id"`
	StudentID              string        `db:"student_id"`
	CourseID               int64         `db:"course_id"`
	TermID                 int64         `db:"term_id"`
	TeacherID              int64         `db:"teacher_id"`
	PaymentType            PaymentType   `db:"payment_type"`
	PaymentMethod          PaymentMethod `db:"payment_method"`
	PaymentStatus          PaymentStatus `db:"payment_status"`
	FirstPaymentConfirmed  bool          `db:"first_payment_confirmed"`
	SecondPaymentConfirmed bool          `db:"second_payment_confirmed"`
	ReceiptRef             *string       `db:"receipt_ref"`
	CreatedAt              time.Time     `db:"created_at"`
}

// RegistrationDetails is a registration joined with the user, course price,
// and term/teacher names, as shown to users and the administrator.
type RegistrationDetails struct {
	Registration
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Price       int64  `db:"price"`
	TermName    string `db:"term_name"`
	TeacherName string `db:"teacher_name"`
}

// DueAmount computes the amount owed at the given stage. Installments halve
// the price with integer division; the forgiven remainder is intentional.
func DueAmount(price int64, method PaymentMethod, stage Stage) int64 {
	if method == PaymentMethodInstallment {
		return price / 2
	}
	if stage == StageSecond {
		return 0
	}
	return price
}
