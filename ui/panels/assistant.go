package panels

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"magic-paint/internal/app"
	"magic-paint/internal/i18n"
)

// AssistantPanel is the speech bubble of the drawing critic.
type AssistantPanel struct {
	state *app.State
	tr    Translator

	bubble *widget.Label
	roast  *widget.Button
	busy   *widget.ProgressBarInfinite

	container fyne.CanvasObject
}

// NewAssistantPanel creates the assistant bubble.
func NewAssistantPanel(state *app.State, tr Translator) *AssistantPanel {
	ap := &AssistantPanel{state: state, tr: tr}
	ap.bubble = widget.NewLabel("")
	ap.bubble.Wrapping = fyne.TextWrapWord
	ap.busy = widget.NewProgressBarInfinite()
	ap.busy.Hide()
	ap.roast = widget.NewButton("", ap.ask)

	card := widget.NewCard("", "", ap.bubble)
	ap.container = container.NewBorder(nil, container.NewVBox(ap.busy, ap.roast), nil, nil, card)

	ap.Retranslate()
	ap.Greet()
	return ap
}

// Container returns the panel for embedding in layouts.
func (ap *AssistantPanel) Container() fyne.CanvasObject {
	return ap.container
}

// Retranslate refreshes labels after a language change.
func (ap *AssistantPanel) Retranslate() {
	ap.roast.SetText(ap.tr.T(i18n.AssistantRoast))
}

// Say replaces the bubble text.
func (ap *AssistantPanel) Say(text string) {
	ap.bubble.SetText(text)
}

// Greet shows a random opening line.
func (ap *AssistantPanel) Greet() {
	if a := ap.state.Assistant(); a != nil {
		ap.Say(a.Greeting())
	}
}

// Farewell shows a line for an attempt to close the window.
func (ap *AssistantPanel) Farewell() {
	if a := ap.state.Assistant(); a != nil {
		ap.Say(a.Farewell())
	}
}

// ask sends the drawing, or the selection, for commentary without blocking
// the UI.
func (ap *AssistantPanel) ask() {
	if ap.state.Assistant() == nil {
		ap.Say(ap.tr.T(i18n.ErrNoAPIKey))
		return
	}
	ap.Say(ap.tr.T(i18n.AssistantThinking))
	ap.roast.Disable()
	ap.busy.Show()
	ap.busy.Start()

	go func() {
		text := ap.state.Roast(context.Background())
		ap.busy.Stop()
		ap.busy.Hide()
		ap.roast.Enable()
		ap.Say(text)
	}()
}
