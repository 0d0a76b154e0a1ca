package bot

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/foxxcyber/price-watch/internal/models"
)

// Wizard step indices
const (
	stepIdle = iota
	stepPattern
	stepScript
	stepCommit
)

const msgCommitted = "committed"

// Wizard is the linear admin dialog for adding a URL-pattern extraction
// rule. The step index only ever moves forward one step per input until a
// reset; 0 is idle and the last index means the rule is ready to commit.
type Wizard struct {
	steps   []wizardStep
	current int
}

type wizardStep struct {
	prompt   string
	response string
}

// NewWizard creates an idle wizard
func NewWizard() *Wizard {
	return &Wizard{
		steps: []wizardStep{
			{prompt: ""},
			{prompt: "Send the URL pattern (regular expression) for the new rule"},
			{prompt: "Send the extraction script (JSON selector set: name, price, quantity)"},
			{prompt: "Send any message to commit the new rule"},
		},
	}
}

// Next records input as the response for the current step, advances one
// step and returns the prompt of the new step.
func (w *Wizard) Next(input string) string {
	w.steps[w.current].response = input
	if w.current < len(w.steps)-1 {
		w.current++
	}
	return w.steps[w.current].prompt
}

// Finished reports whether the wizard is at the ready-to-commit step
func (w *Wizard) Finished() bool {
	return w.current == len(w.steps)-1
}

// InProgress reports whether a dialog is underway
func (w *Wizard) InProgress() bool {
	return w.current != stepIdle
}

// Current returns the current step index
func (w *Wizard) Current() int {
	return w.current
}

// Reset returns the wizard to idle, clearing recorded responses
func (w *Wizard) Reset() {
	for i := range w.steps {
		w.steps[i].response = ""
	}
	w.current = stepIdle
}

// Response returns the recorded response for a step
func (w *Wizard) Response(step int) string {
	return w.steps[step].response
}

// Script builds the rule from the pattern and script step responses
func (w *Wizard) Script() *models.Script {
	return &models.Script{
		Pattern: w.steps[stepPattern].response,
		Script:  w.steps[stepScript].response,
	}
}

// handleWizardStart answers /db: it restarts the dialog, lists the rules
// currently persisted and asks for the first input.
func (b *Bot) handleWizardStart(ctx context.Context, c tele.Context) error {
	b.wizard.Reset()
	prompt := b.wizard.Next("")

	scripts, err := b.scripts.FindAllScripts(ctx)
	if err != nil {
		b.wizard.Reset()
		return b.replyFailure(c, err)
	}

	var sb strings.Builder
	if len(scripts) == 0 {
		sb.WriteString("No rules configured yet.\n")
	} else {
		sb.WriteString("Configured rules:\n")
		for _, s := range scripts {
			fmt.Fprintf(&sb, "%d. %s -> %s\n", s.ID, s.Pattern, s.Script)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(prompt)

	return c.Send(sb.String())
}

// handleWizardInput feeds one admin message to the dialog. Once the wizard
// has all its answers, the next input commits the rule and resets it.
func (b *Bot) handleWizardInput(ctx context.Context, c tele.Context, text string) error {
	if b.wizard.Finished() {
		script := b.wizard.Script()
		if err := b.scripts.SaveScript(ctx, script); err != nil {
			return b.replyFailure(c, err)
		}
		b.wizard.Reset()
		return c.Send(msgCommitted)
	}

	return c.Send(b.wizard.Next(text))
}
