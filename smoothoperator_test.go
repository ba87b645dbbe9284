package smoothoperator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smoothoperator/agent"
	"github.com/hupe1980/smoothoperator/core"
	"github.com/hupe1980/smoothoperator/model"
	"github.com/hupe1980/smoothoperator/orchestrator"
)

func scriptedFactory(steps ...model.ScriptedStep) orchestrator.ModelFactory {
	mdl := model.NewScriptedModel(steps...)
	return func(string) model.Model { return mdl }
}

func TestNewDefaults(t *testing.T) {
	op, err := New(scriptedFactory())
	require.NoError(t, err)
	require.NotNil(t, op.Sessions())
}

func TestNewRejectsUnknownEntryAgent(t *testing.T) {
	_, err := New(scriptedFactory(), func(o *Options) {
		o.EntryAgent = "ghost"
	})
	assert.Error(t, err)
}

func TestNewDerivesHandoffTools(t *testing.T) {
	// A custom graph referencing handoff_to_concierge must get its handoff
	// tool registered automatically.
	_, err := New(scriptedFactory(), func(o *Options) {
		o.Agents = []agent.Definition{
			{Name: "concierge", Instructions: "entry"},
			{Name: "helper", Instructions: "helps", Tools: []string{"handoff_to_concierge"}},
		}
		o.EntryAgent = "concierge"
	})
	assert.NoError(t, err)
}

func TestRunTurnEndToEnd(t *testing.T) {
	op, err := New(scriptedFactory(model.ScriptedStep{Text: "Hello!"}))
	require.NoError(t, err)

	sess := op.Sessions().Create()
	op.Sessions().MarkPasscodeVerified(sess.ID)
	op.Sessions().SetAPIKey(sess.ID, "sk-test")

	events, err := op.RunTurn(context.Background(), sess.ID, "hi")
	require.NoError(t, err)

	var got []core.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				require.NotEmpty(t, got)
				assert.Equal(t, core.EventUserMessage, got[0].Kind)
				assert.Equal(t, core.EventDone, got[len(got)-1].Kind)
				return
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("event stream did not close")
		}
	}
}

func TestRunTurnRequiresAuthentication(t *testing.T) {
	op, err := New(scriptedFactory())
	require.NoError(t, err)

	sess := op.Sessions().Create()
	_, err = op.RunTurn(context.Background(), sess.ID, "hi")
	assert.ErrorIs(t, err, orchestrator.ErrNotAuthenticated)
}
