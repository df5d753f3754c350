package logging

import (
	"github.com/sirupsen/logrus"

	"go-headline-sync/internal/workflow"
)

// Observer writes workflow checkpoints as emoji-prefixed log lines.
type Observer struct {
	log *logrus.Logger
}

func NewObserver(logger *logrus.Logger) *Observer {
	return &Observer{log: logger}
}

func (o *Observer) entry(stage workflow.State) *logrus.Entry {
	return o.log.WithField("stage", stage.String())
}

func (o *Observer) Transition(from, to workflow.State) {
	o.log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Debug("➡️ State change")
	if to == workflow.StateClosed {
		o.log.Info("🧹 Browser session closed")
	}
}

func (o *Observer) Attempt(stage workflow.State, step string, attempt, max int, err error) {
	if err == nil {
		o.entry(stage).Debugf("✅ %s succeeded on attempt %d/%d", step, attempt, max)
		return
	}
	o.entry(stage).WithError(err).Warnf("🔁 %s attempt %d/%d failed", step, attempt, max)
}

func (o *Observer) Strategy(stage workflow.State, name string, err error) {
	if err == nil {
		o.entry(stage).Debugf("🖱️ %s click worked", name)
		return
	}
	o.entry(stage).WithError(err).Debugf("🖱️ %s click failed, trying next", name)
}

func (o *Observer) Info(stage workflow.State, msg string) {
	o.entry(stage).Info(msg)
}

func (o *Observer) Warn(stage workflow.State, msg string, err error) {
	e := o.entry(stage)
	if err != nil {
		e = e.WithError(err)
	}
	e.Warn("⚠️ " + msg)
}
