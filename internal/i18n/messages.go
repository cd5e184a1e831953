package i18n

// Message ids.
const (
	AppTitle = "AppTitle"

	MenuFile     = "MenuFile"
	MenuEdit     = "MenuEdit"
	MenuView     = "MenuView"
	MenuImage    = "MenuImage"
	MenuLanguage = "MenuLanguage"
	MenuHelp     = "MenuHelp"

	FileOpen          = "FileOpen"
	FileSave          = "FileSave"
	FileSaveSelection = "FileSaveSelection"
	FileReference     = "FileReference"
	FileExit          = "FileExit"

	EditUndo     = "EditUndo"
	EditDeselect = "EditDeselect"

	ViewLayers    = "ViewLayers"
	ViewReference = "ViewReference"
	ViewAssistant = "ViewAssistant"
	ViewZoomIn    = "ViewZoomIn"
	ViewZoomOut   = "ViewZoomOut"

	ImageClear  = "ImageClear"
	ImageInvert = "ImageInvert"
	ImageMagic  = "ImageMagic"

	HelpAbout = "HelpAbout"
	AboutText = "AboutText"

	LanguageEnglish = "LanguageEnglish"
	LanguageFrench  = "LanguageFrench"

	Layers          = "Layers"
	LayerDefault    = "LayerDefault"
	Background      = "Background"
	LayerAdd        = "LayerAdd"
	LayerDelete     = "LayerDelete"
	LayerUp         = "LayerUp"
	LayerDown       = "LayerDown"
	LayerRename     = "LayerRename"
	LayerRenameHint = "LayerRenameHint"

	LineWidth = "LineWidth"
	BrushTip  = "BrushTip"
	TextLabel = "TextLabel"
	TextHint  = "TextHint"
	Colors    = "Colors"

	MagicTitle       = "MagicTitle"
	MagicPlaceholder = "MagicPlaceholder"
	MagicGenerate    = "MagicGenerate"
	Cancel           = "Cancel"
	UseReference     = "UseReference"
	NoReference      = "NoReference"

	StatusSize  = "StatusSize"
	StatusZoom  = "StatusZoom"
	StatusBusy  = "StatusBusy"
	StatusReady = "StatusReady"

	ErrGenerate    = "ErrGenerate"
	ErrOpen        = "ErrOpen"
	ErrSave        = "ErrSave"
	ErrNoSelection = "ErrNoSelection"
	ErrBusy        = "ErrBusy"
	ErrNoAPIKey    = "ErrNoAPIKey"
	ErrLayer       = "ErrLayer"

	AssistantThinking = "AssistantThinking"
	AssistantRoast    = "AssistantRoast"
	AssistantSystem   = "AssistantSystem"
	AssistantPrompt   = "AssistantPrompt"
	AssistantEmpty    = "AssistantEmpty"
	AssistantError    = "AssistantError"

	// Numbered families, read with Translator.Lines.
	AssistantStarter = "AssistantStarter"
	AssistantClose   = "AssistantClose"
)

// ToolID returns the message id naming a tool, from its identifier
// ("rounded-rectangle" -> "ToolRoundedRectangle").
func ToolID(name string) string {
	out := []byte("Tool")
	upper := true
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '-' || c == '_' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}
