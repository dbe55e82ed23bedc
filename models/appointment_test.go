package models

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusConfirmed, false},
		{StatusBooked, StatusConfirmed, true},
		{StatusBooked, StatusCancelled, true},
		{StatusBooked, StatusApproved, false},
		{StatusApproved, StatusConfirmed, true},
		{StatusApproved, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusBooked, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusBooked, false},
		{StatusUnpaid, StatusConfirmed, true},
		{StatusPaid, StatusConfirmed, true},
	}

	for _, tc := range cases {
		a := Appointment{Status: tc.from}
		if got := a.CanTransition(tc.to); got != tc.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPlanTransitionRejectsUnknownStatus(t *testing.T) {
	a := Appointment{Status: StatusBooked}
	if _, err := a.PlanTransition("scheduled"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestPlanTransitionSettledIsTerminal(t *testing.T) {
	for _, from := range []AppointmentStatus{StatusCompleted, StatusCancelled} {
		a := Appointment{Status: from}
		if _, err := a.PlanTransition(StatusConfirmed); !errors.Is(err, ErrAppointmentSettled) {
			t.Errorf("from %s: expected ErrAppointmentSettled, got %v", from, err)
		}
	}
}

func TestPlanTransitionConfirmRequiresPayment(t *testing.T) {
	a := Appointment{
		Status:  StatusBooked,
		Payment: Payment{Status: PaymentPending},
	}
	if _, err := a.PlanTransition(StatusConfirmed); !errors.Is(err, ErrPaymentRequired) {
		t.Fatalf("expected ErrPaymentRequired, got %v", err)
	}

	a.Payment.Status = PaymentCompleted
	if _, err := a.PlanTransition(StatusConfirmed); err != nil {
		t.Fatalf("paid appointment should confirm, got %v", err)
	}
}

func TestPlanTransitionConfirmAllowsOfflineDeferred(t *testing.T) {
	a := Appointment{
		Status:  StatusBooked,
		Payment: Payment{Status: PaymentPending, Method: MethodOffline},
	}
	if _, err := a.PlanTransition(StatusConfirmed); err != nil {
		t.Fatalf("offline appointment should confirm with payment deferred, got %v", err)
	}
}

func TestCancelPaidFlagsRefund(t *testing.T) {
	for _, from := range []AppointmentStatus{StatusApproved, StatusConfirmed} {
		a := Appointment{
			Status:  from,
			Payment: Payment{Status: PaymentCompleted},
		}
		got, err := a.PlanTransition(StatusCancelled)
		if err != nil {
			t.Fatalf("from %s: cancel failed: %v", from, err)
		}
		if got != PaymentRefundPending {
			t.Errorf("from %s: cancelled paid appointment must flag refund_pending, got %s", from, got)
		}
	}
}

func TestCancelUnpaidKeepsPaymentPending(t *testing.T) {
	a := Appointment{
		Status:  StatusBooked,
		Payment: Payment{Status: PaymentPending},
	}
	got, err := a.PlanTransition(StatusCancelled)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got != PaymentPending {
		t.Errorf("unpaid cancel must not touch payment status, got %s", got)
	}
}

func TestInstantMethod(t *testing.T) {
	for _, m := range []PaymentMethod{MethodGPay, MethodPaytm, MethodPhonePe} {
		if !InstantMethod(m) {
			t.Errorf("%s should be an instant method", m)
		}
	}
	for _, m := range []PaymentMethod{MethodOnline, MethodCard, MethodOffline} {
		if InstantMethod(m) {
			t.Errorf("%s should not be an instant method", m)
		}
	}
}
