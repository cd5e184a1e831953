// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	goimage "image"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"magic-paint/internal/ai"
	"magic-paint/internal/app"
	"magic-paint/internal/i18n"
	"magic-paint/internal/image"
	"magic-paint/internal/paint"
	"magic-paint/internal/shortcut"
	"magic-paint/internal/version"
	"magic-paint/pkg/colorutil"
	"magic-paint/pkg/geometry"
	"magic-paint/ui/canvas"
	"magic-paint/ui/dialogs"
	"magic-paint/ui/panels"
	"magic-paint/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	tr    *i18n.Translator
	prefs *prefs.Prefs
	log   *zap.Logger

	canvas    *canvas.PaintCanvas
	toolbox   *panels.ToolBox
	palette   *panels.PalettePanel
	layers    *panels.LayersPanel
	assistant *panels.AssistantPanel

	sizeLabel   *widget.Label
	zoomLabel   *widget.Label
	statusLabel *widget.Label
	posLabel    *widget.Label

	layersBox    fyne.CanvasObject
	assistantBox fyne.CanvasObject

	saidFarewell bool

	// OnLanguageChange runs after the translator switches language and
	// before the labels are refreshed.
	OnLanguageChange func()
}

// New creates the main window and restores the saved preferences.
func New(fyneApp fyne.App, state *app.State, tr *i18n.Translator, p *prefs.Prefs, log *zap.Logger) *MainWindow {
	if log == nil {
		log = zap.NewNop()
	}
	mw := &MainWindow{
		Window: fyneApp.NewWindow(tr.T(i18n.AppTitle)),
		app:    fyneApp,
		state:  state,
		tr:     tr,
		prefs:  p,
		log:    log,
	}

	mw.restorePrefs()
	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.SetCloseIntercept(mw.onClose)
	mw.updateStatus()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPaintCanvas(mw.state)
	mw.toolbox = panels.NewToolBox(mw.state, mw.tr)
	mw.palette = panels.NewPalettePanel(mw.state, mw.tr, mw.Window)
	mw.layers = panels.NewLayersPanel(mw.state, mw.tr, mw.Window)
	mw.assistant = panels.NewAssistantPanel(mw.state, mw.tr)

	mw.sizeLabel = widget.NewLabel("")
	mw.zoomLabel = widget.NewLabel("")
	mw.statusLabel = widget.NewLabel("")
	mw.posLabel = widget.NewLabel("")

	mw.canvas.OnHover(func(p geometry.PointInt, inside bool) {
		if inside {
			mw.posLabel.SetText(fmt.Sprintf("%d, %d", p.X, p.Y))
		} else {
			mw.posLabel.SetText("")
		}
	})

	statusBar := container.NewHBox(mw.statusLabel, widget.NewSeparator(),
		mw.sizeLabel, widget.NewSeparator(), mw.zoomLabel, widget.NewSeparator(), mw.posLabel)

	mw.layersBox = mw.layers.Container()
	mw.assistantBox = mw.assistant.Container()
	if !mw.prefs.Bool(prefs.KeyShowLayers, true) {
		mw.layersBox.Hide()
	}
	if !mw.prefs.Bool(prefs.KeyShowAssistant, true) {
		mw.assistantBox.Hide()
	}
	right := container.NewGridWithRows(2, mw.layersBox, mw.assistantBox)

	bottom := container.NewVBox(mw.palette.Container(), statusBar)

	content := container.NewBorder(
		nil,                    // top
		bottom,                 // bottom
		mw.toolbox.Container(), // left
		right,                  // right
		mw.canvas,              // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1100, 760))
}

// setupMenus creates the application menus. Called again after a language
// change.
func (mw *MainWindow) setupMenus() {
	t := mw.tr.T

	fileMenu := fyne.NewMenu(t(i18n.MenuFile),
		fyne.NewMenuItem(t(i18n.FileOpen), mw.onOpen),
		fyne.NewMenuItem(t(i18n.FileSave), mw.onSave),
		fyne.NewMenuItem(t(i18n.FileSaveSelection), mw.onSaveSelection),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(t(i18n.FileReference), mw.onLoadReference),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(t(i18n.FileExit), mw.onClose),
	)

	undo := fyne.NewMenuItem(t(i18n.EditUndo), mw.onUndo)
	undo.Disabled = !mw.state.CanUndo()
	editMenu := fyne.NewMenu(t(i18n.MenuEdit),
		undo,
		fyne.NewMenuItem(t(i18n.EditDeselect), mw.state.Deselect),
	)

	layersItem := fyne.NewMenuItem(t(i18n.ViewLayers), func() { mw.togglePanel(mw.layersBox, prefs.KeyShowLayers) })
	layersItem.Checked = mw.layersBox.Visible()
	assistantItem := fyne.NewMenuItem(t(i18n.ViewAssistant), func() { mw.togglePanel(mw.assistantBox, prefs.KeyShowAssistant) })
	assistantItem.Checked = mw.assistantBox.Visible()
	viewMenu := fyne.NewMenu(t(i18n.MenuView),
		layersItem,
		assistantItem,
		fyne.NewMenuItem(t(i18n.ViewReference), mw.onShowReference),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(t(i18n.ViewZoomIn), mw.state.ZoomIn),
		fyne.NewMenuItem(t(i18n.ViewZoomOut), mw.state.ZoomOut),
	)

	magic := fyne.NewMenuItem(t(i18n.ImageMagic), mw.onMagic)
	magic.Disabled = mw.state.Busy()
	imageMenu := fyne.NewMenu(t(i18n.MenuImage),
		fyne.NewMenuItem(t(i18n.ImageClear), mw.state.Clear),
		fyne.NewMenuItem(t(i18n.ImageInvert), mw.state.Invert),
		fyne.NewMenuItemSeparator(),
		magic,
	)

	current := mw.tr.Language().String()
	languageItem := func(id, lang string) *fyne.MenuItem {
		item := fyne.NewMenuItem(t(id), func() { mw.onLanguage(lang) })
		item.Checked = strings.HasPrefix(current, lang)
		return item
	}
	languageMenu := fyne.NewMenu(t(i18n.MenuLanguage),
		languageItem(i18n.LanguageEnglish, "en"),
		languageItem(i18n.LanguageFrench, "fr"),
	)

	helpMenu := fyne.NewMenu(t(i18n.MenuHelp),
		fyne.NewMenuItem(t(i18n.HelpAbout), mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, imageMenu, languageMenu, helpMenu))
}

// setupShortcuts routes plain keys and Ctrl combinations through the
// shortcut table.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		mw.dispatch(string(ev.Name), shortcut.Modifiers{})
	})

	for _, b := range shortcut.Bindings() {
		if !b.Mods.Ctrl {
			continue
		}
		mod := fyne.KeyModifierControl
		if b.Mods.Shift {
			mod |= fyne.KeyModifierShift
		}
		key, mods := b.Key, b.Mods
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyName(strings.ToUpper(key)), Modifier: mod},
			func(fyne.Shortcut) { mw.dispatch(key, mods) })
	}
}

func (mw *MainWindow) dispatch(key string, mods shortcut.Modifiers) {
	action, ok := shortcut.Lookup(key, mods, mw.Canvas().Focused() != nil)
	if !ok {
		return
	}
	switch action.Command {
	case shortcut.SelectTool:
		mw.state.SetTool(action.Tool)
	case shortcut.Magic:
		mw.onMagic()
	case shortcut.Undo:
		mw.onUndo()
	case shortcut.Invert:
		mw.state.Invert()
	case shortcut.Clear:
		mw.state.Clear()
	case shortcut.Deselect:
		mw.state.Deselect()
	case shortcut.Escape:
		mw.state.Escape()
	}
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventZoomChanged, func(interface{}) { mw.updateStatus() })
	mw.state.On(app.EventModified, func(interface{}) {
		mw.updateTitle()
		mw.setupMenus()
	})
	mw.state.On(app.EventGenerationStarted, func(interface{}) {
		mw.updateStatus()
		mw.setupMenus()
	})
	mw.state.On(app.EventGenerationFinished, func(interface{}) {
		mw.updateStatus()
		mw.setupMenus()
	})
	mw.state.On(app.EventGenerationFailed, func(data interface{}) {
		mw.updateStatus()
		mw.setupMenus()
		err, _ := data.(error)
		mw.showError(i18n.ErrGenerate, err)
	})
}

func (mw *MainWindow) updateStatus() {
	size := mw.state.Size()
	mw.sizeLabel.SetText(mw.tr.Tf(i18n.StatusSize, map[string]any{"Width": size.Width, "Height": size.Height}))
	mw.zoomLabel.SetText(mw.tr.Tf(i18n.StatusZoom, map[string]any{"Percent": int(mw.state.Zoom() * 100)}))
	if mw.state.Busy() {
		mw.statusLabel.SetText(mw.tr.T(i18n.StatusBusy))
	} else {
		mw.statusLabel.SetText(mw.tr.T(i18n.StatusReady))
	}
}

func (mw *MainWindow) updateTitle() {
	title := mw.tr.T(i18n.AppTitle)
	if mw.state.Modified() {
		title = "*" + title
	}
	mw.SetTitle(title)
}

func (mw *MainWindow) showError(id string, err error) {
	msg := mw.tr.T(id)
	if err != nil {
		mw.log.Warn("operation failed", zap.String("message", id), zap.Error(err))
		msg += "\n\n" + err.Error()
	}
	dialog.ShowInformation(mw.tr.T(i18n.AppTitle), msg, mw.Window)
}

func (mw *MainWindow) togglePanel(box fyne.CanvasObject, key string) {
	if box.Visible() {
		box.Hide()
	} else {
		box.Show()
	}
	mw.prefs.SetBool(key, box.Visible())
	mw.setupMenus()
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// openImage shows a file chooser for readable images.
func (mw *MainWindow) openImage(onPath func(path string)) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		onPath(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(image.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// saveImage shows a file chooser for an export path.
func (mw *MainWindow) saveImage(name string, onPath func(path string)) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		mw.saveLastDir(path)
		onPath(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(image.ExportFormats()))
	fd.SetFileName(name)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpen() {
	mw.openImage(func(path string) {
		if err := mw.state.OpenFile(path); err != nil {
			mw.showError(i18n.ErrOpen, err)
		}
	})
}

func (mw *MainWindow) onSave() {
	mw.saveImage("untitled.png", func(path string) {
		if err := mw.state.SaveImage(path); err != nil {
			mw.showError(i18n.ErrSave, err)
		}
	})
}

func (mw *MainWindow) onSaveSelection() {
	if _, ok := mw.state.Selection(); !ok {
		mw.showError(i18n.ErrNoSelection, nil)
		return
	}
	mw.saveImage("selection.png", func(path string) {
		err := mw.state.SaveSelection(path)
		switch {
		case errors.Is(err, app.ErrNoSelection):
			mw.showError(i18n.ErrNoSelection, nil)
		case err != nil:
			mw.showError(i18n.ErrSave, err)
		}
	})
}

func (mw *MainWindow) onLoadReference() {
	mw.openImage(func(path string) {
		if err := mw.state.LoadReference(path); err != nil {
			mw.showError(i18n.ErrOpen, err)
		}
	})
}

func (mw *MainWindow) onShowReference() {
	dialogs.ShowReference(mw.Window, mw.tr, mw.referenceImage(), mw.state.UseReference(), mw.state.SetUseReference)
}

// referenceImage decodes the loaded reference, or returns nil.
func (mw *MainWindow) referenceImage() goimage.Image {
	data := mw.state.Reference()
	if data == nil {
		return nil
	}
	img, err := image.DecodeBytes(data)
	if err != nil {
		mw.log.Warn("decode reference", zap.Error(err))
		return nil
	}
	return img
}

func (mw *MainWindow) onUndo() {
	mw.state.Undo()
}

// onMagic asks for a prompt and starts a generation from the composite.
func (mw *MainWindow) onMagic() {
	if mw.state.Busy() {
		mw.showError(i18n.ErrBusy, nil)
		return
	}
	ref := mw.referenceImage()
	dialogs.NewMagicDialog(mw.Window, mw.tr, ref, mw.state.UseReference(), func(prompt string, useRef bool) {
		if ref != nil {
			mw.state.SetUseReference(useRef)
		}
		err := mw.state.Generate(prompt)
		switch {
		case err == nil, errors.Is(err, ai.ErrNoPrompt):
		case errors.Is(err, app.ErrBusy):
			mw.showError(i18n.ErrBusy, nil)
		case errors.Is(err, app.ErrNoGenerator):
			mw.showError(i18n.ErrNoAPIKey, nil)
		default:
			mw.showError(i18n.ErrGenerate, err)
		}
	}).Show()
}

func (mw *MainWindow) onLanguage(lang string) {
	tag := mw.tr.SetLanguage(lang)
	mw.prefs.SetString(prefs.KeyLanguage, tag.String())
	if mw.OnLanguageChange != nil {
		mw.OnLanguageChange()
	}
	mw.Retranslate()
}

// Retranslate refreshes every label after a language change.
func (mw *MainWindow) Retranslate() {
	mw.updateTitle()
	mw.setupMenus()
	mw.toolbox.Retranslate()
	mw.palette.Retranslate()
	mw.layers.Retranslate()
	mw.assistant.Retranslate()
	mw.updateStatus()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation(mw.tr.T(i18n.HelpAbout),
		mw.tr.Tf(i18n.AboutText, map[string]any{"Version": version.String()}),
		mw.Window)
}

// onClose lets the assistant protest once before the window really closes.
func (mw *MainWindow) onClose() {
	if !mw.saidFarewell && mw.state.Assistant() != nil && mw.assistantBox.Visible() {
		mw.saidFarewell = true
		mw.assistant.Farewell()
		return
	}
	mw.savePrefs()
	mw.Close()
}

// restorePrefs applies the saved editor settings to the state.
func (mw *MainWindow) restorePrefs() {
	p := mw.prefs
	o := mw.state.ToolOptions()
	mw.state.SetLineWidth(p.Int(prefs.KeyLineWidth, o.LineWidth))
	if tip, err := paint.ParseTip(p.String(prefs.KeyTip)); err == nil {
		mw.state.SetTip(tip)
	}
	if c, err := colorutil.ParseHex(p.String(prefs.KeyPrimary)); err == nil {
		mw.state.SetPrimary(c)
	}
	if c, err := colorutil.ParseHex(p.String(prefs.KeySecondary)); err == nil {
		mw.state.SetSecondary(c)
	}
	mw.state.SetZoom(p.FloatWithFallback(prefs.KeyZoom, mw.state.Zoom()))
}

// savePrefs stores the editor settings for the next session.
func (mw *MainWindow) savePrefs() {
	p := mw.prefs
	o := mw.state.ToolOptions()
	p.SetInt(prefs.KeyLineWidth, o.LineWidth)
	p.SetString(prefs.KeyTip, o.Tip.String())
	p.SetString(prefs.KeyPrimary, colorutil.Hex(o.Primary))
	p.SetString(prefs.KeySecondary, colorutil.Hex(o.Secondary))
	p.SetFloat(prefs.KeyZoom, mw.state.Zoom())
	if err := p.Save(); err != nil {
		mw.log.Warn("save preferences", zap.Error(err))
	}
}
