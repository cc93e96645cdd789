package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type senderCtx struct {
	tele.Context
	user *tele.User
}

func (c senderCtx) Sender() *tele.User { return c.user }

func TestAdminOnlyMiddlewareRejectsBeforeHandler(t *testing.T) {
	var handlerRan, rejected bool
	mw := AdminOnlyMiddleware(AdminOptions{
		AdminID: 100,
		OnReject: func(tele.Context) error {
			rejected = true
			return nil
		},
	})
	h := mw(func(tele.Context) error {
		handlerRan = true
		return nil
	})

	if err := h(senderCtx{user: &tele.User{ID: 200}}); err != nil {
		t.Fatal(err)
	}
	if handlerRan {
		t.Fatal("handler must not run for non-admin")
	}
	if !rejected {
		t.Fatal("reject hook should fire for non-admin")
	}
}

func TestAdminOnlyMiddlewarePassesAdmin(t *testing.T) {
	var handlerRan bool
	mw := AdminOnlyMiddleware(AdminOptions{AdminID: 100})
	h := mw(func(tele.Context) error {
		handlerRan = true
		return nil
	})

	if err := h(senderCtx{user: &tele.User{ID: 100}}); err != nil {
		t.Fatal(err)
	}
	if !handlerRan {
		t.Fatal("admin should reach the handler")
	}
}

func TestWithAdminCheckSkipsWhenNotAdminOnly(t *testing.T) {
	var handlerRan bool
	h := WithAdminCheck(AdminOptions{AdminID: 100}, struct {
		AdminOnly bool
		Handler   tele.HandlerFunc
	}{
		AdminOnly: false,
		Handler: func(tele.Context) error {
			handlerRan = true
			return nil
		},
	})

	if err := h(senderCtx{user: &tele.User{ID: 200}}); err != nil {
		t.Fatal(err)
	}
	if !handlerRan {
		t.Fatal("non-admin command should run for everyone")
	}
}
