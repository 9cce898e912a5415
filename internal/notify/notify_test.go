package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	permission Permission
	afterAsk   Permission
	asked      bool
	notifyErr  error
	delivered  int
}

func (s *stubNotifier) Permission() Permission { return s.permission }

func (s *stubNotifier) RequestPermission(context.Context) Permission {
	s.asked = true
	return s.afterAsk
}

func (s *stubNotifier) Notify(title, body string) error {
	if s.notifyErr != nil {
		return s.notifyErr
	}
	s.delivered++
	return nil
}

type stubAlerter struct{ alerts int }

func (s *stubAlerter) Alert(title, body string) { s.alerts++ }

func TestDeliver_GrantedDeliversWithoutAsking(t *testing.T) {
	n := &stubNotifier{permission: PermissionGranted}
	a := &stubAlerter{}

	outcome := Deliver(t.Context(), n, a, "t", "b")
	require.Equal(t, OutcomeDelivered, outcome)
	require.Equal(t, 1, n.delivered)
	require.False(t, n.asked)
	require.Zero(t, a.alerts)
}

func TestDeliver_DefaultAsksThenDelivers(t *testing.T) {
	n := &stubNotifier{permission: PermissionDefault, afterAsk: PermissionGranted}
	a := &stubAlerter{}

	outcome := Deliver(t.Context(), n, a, "t", "b")
	require.Equal(t, OutcomeDelivered, outcome)
	require.True(t, n.asked)
	require.Equal(t, 1, n.delivered)
}

func TestDeliver_DefaultAskRefusedFallsBackToAlert(t *testing.T) {
	n := &stubNotifier{permission: PermissionDefault, afterAsk: PermissionDenied}
	a := &stubAlerter{}

	outcome := Deliver(t.Context(), n, a, "t", "b")
	require.Equal(t, OutcomeAlerted, outcome)
	require.Zero(t, n.delivered)
	require.Equal(t, 1, a.alerts)
}

func TestDeliver_DeniedNeverAsksAgain(t *testing.T) {
	n := &stubNotifier{permission: PermissionDenied}
	a := &stubAlerter{}

	outcome := Deliver(t.Context(), n, a, "t", "b")
	require.Equal(t, OutcomeAlerted, outcome)
	require.False(t, n.asked)
	require.Equal(t, 1, a.alerts)
}

func TestDeliver_NotifyErrorFallsBackToAlert(t *testing.T) {
	n := &stubNotifier{permission: PermissionGranted, notifyErr: errors.New("dbus gone")}
	a := &stubAlerter{}

	outcome := Deliver(t.Context(), n, a, "t", "b")
	require.Equal(t, OutcomeAlerted, outcome)
	require.Equal(t, 1, a.alerts)
}

func TestDeliver_NoAlerterReportsFailure(t *testing.T) {
	n := &stubNotifier{permission: PermissionDenied}

	outcome := Deliver(t.Context(), n, nil, "t", "b")
	require.Equal(t, OutcomeFailed, outcome)
}

func TestWriterAlerter_WritesTitleAndBody(t *testing.T) {
	var buf bytes.Buffer
	WriterAlerter{W: &buf}.Alert("Recordatorio: amasar", "¡Es hora!")
	require.Equal(t, "Recordatorio: amasar\n¡Es hora!\n", buf.String())
}
