// Package i18n holds the user-visible strings and picks a locale for them.
package i18n

import (
	"strings"

	"github.com/jeandeaual/go-locale"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message ids.
const (
	ThemeDark      = "ThemeDark"
	ThemeLight     = "ThemeLight"
	WrapOn         = "WrapOn"
	WrapOff        = "WrapOff"
	Saved          = "Saved"
	SaveFailed     = "SaveFailed"
	Exported       = "Exported"
	ExportFailed   = "ExportFailed"
	Opened         = "Opened"
	OpenFailed     = "OpenFailed"
	Copied         = "Copied"
	ExternalChange = "ExternalChange"
	OpenPrompt     = "OpenPrompt"
	FilenameLabel  = "FilenameLabel"
	OverlayTitle   = "OverlayTitle"
	OverlayRange   = "OverlayRange"
	OverlayHint    = "OverlayHint"
	PreviewTitle   = "PreviewTitle"
	NotFound       = "NotFound"
	Replaced       = "Replaced"
	FindPrompt     = "FindPrompt"
	ReplacePrompt  = "ReplacePrompt"
	WithPrompt     = "WithPrompt"
	LanguageTitle  = "LanguageTitle"
	OverlayBusy    = "OverlayBusy"
)

var english = []*goi18n.Message{
	{ID: ThemeDark, Other: "🌙 Dark"},
	{ID: ThemeLight, Other: "☀ Light"},
	{ID: WrapOn, Other: "↩ Wrap: ON"},
	{ID: WrapOff, Other: "↩ Wrap: OFF"},
	{ID: Saved, Other: "Saved {{.Language}}"},
	{ID: SaveFailed, Other: "Could not save: {{.Reason}}"},
	{ID: Exported, Other: "Exported {{.Name}} to {{.Where}}"},
	{ID: ExportFailed, Other: "Export failed: {{.Reason}}"},
	{ID: Opened, Other: "Opened {{.Name}} as {{.Language}}"},
	{ID: OpenFailed, Other: "Could not open file: {{.Reason}}"},
	{ID: Copied, Other: "Copied to clipboard"},
	{ID: ExternalChange, Other: "Storage changed outside this window"},
	{ID: OpenPrompt, Other: "Open file:"},
	{ID: FilenameLabel, Other: "File name:"},
	{ID: OverlayTitle, Other: "Edit text"},
	{ID: OverlayRange, Other: "Edit selection"},
	{ID: OverlayHint, Other: "ctrl+s apply • esc cancel • ctrl+d diff • F2 layout"},
	{ID: PreviewTitle, Other: "Preview"},
	{ID: NotFound, Other: "No match for {{.Query}}"},
	{ID: Replaced, Other: "Replaced {{.Count}} occurrence(s)"},
	{ID: FindPrompt, Other: "Find:"},
	{ID: ReplacePrompt, Other: "Replace:"},
	{ID: WithPrompt, Other: "With:"},
	{ID: LanguageTitle, Other: "Language"},
	{ID: OverlayBusy, Other: "The edit overlay is already open"},
}

var japanese = []*goi18n.Message{
	{ID: ThemeDark, Other: "🌙 ダーク"},
	{ID: ThemeLight, Other: "☀ ライト"},
	{ID: WrapOn, Other: "↩ 折り返し: ON"},
	{ID: WrapOff, Other: "↩ 折り返し: OFF"},
	{ID: Saved, Other: "{{.Language}} を保存しました"},
	{ID: SaveFailed, Other: "保存できませんでした: {{.Reason}}"},
	{ID: Exported, Other: "{{.Name}} を {{.Where}} に書き出しました"},
	{ID: ExportFailed, Other: "書き出しに失敗しました: {{.Reason}}"},
	{ID: Opened, Other: "{{.Name}} を {{.Language}} として開きました"},
	{ID: OpenFailed, Other: "ファイルを開けませんでした: {{.Reason}}"},
	{ID: Copied, Other: "クリップボードにコピーしました"},
	{ID: ExternalChange, Other: "ストレージが外部で変更されました"},
	{ID: OpenPrompt, Other: "ファイルを開く:"},
	{ID: FilenameLabel, Other: "ファイル名:"},
	{ID: OverlayTitle, Other: "テキスト編集"},
	{ID: OverlayRange, Other: "選択範囲を編集"},
	{ID: OverlayHint, Other: "ctrl+s 適用 • esc キャンセル • ctrl+d 差分 • F2 表示切替"},
	{ID: PreviewTitle, Other: "プレビュー"},
	{ID: NotFound, Other: "{{.Query}} は見つかりません"},
	{ID: Replaced, Other: "{{.Count}} 件置換しました"},
	{ID: FindPrompt, Other: "検索:"},
	{ID: ReplacePrompt, Other: "置換:"},
	{ID: WithPrompt, Other: "置換後:"},
	{ID: LanguageTitle, Other: "言語"},
	{ID: OverlayBusy, Other: "編集オーバーレイは既に開いています"},
}

// Supported lists the locales with a message table, default first.
var Supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(Supported)

func newBundle() *goi18n.Bundle {
	b := goi18n.NewBundle(language.English)
	if err := b.AddMessages(language.English, english...); err != nil {
		panic(err)
	}
	if err := b.AddMessages(language.Japanese, japanese...); err != nil {
		panic(err)
	}
	return b
}

var bundle = newBundle()

// Localizer renders messages in one locale. It satisfies session.Labeler.
type Localizer struct {
	tag language.Tag
	loc *goi18n.Localizer
}

// New picks the best supported locale for pref (a BCP 47 tag or a POSIX
// locale like "ja_JP.UTF-8"). An empty pref asks the operating system.
func New(pref string) *Localizer {
	if strings.TrimSpace(pref) == "" {
		pref = Detect()
	}
	tag := Match(pref)
	return &Localizer{tag: tag, loc: goi18n.NewLocalizer(bundle, tag.String())}
}

// Detect returns the system locale, or "" when it cannot be determined.
func Detect() string {
	l, err := locale.GetLocale()
	if err != nil {
		return ""
	}
	return l
}

// Match maps pref onto one of Supported, falling back to English.
func Match(pref string) language.Tag {
	pref = normalize(pref)
	if pref == "" {
		return language.English
	}
	desired, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(desired) == 0 {
		return language.English
	}
	_, idx, conf := matcher.Match(desired...)
	if conf == language.No {
		return language.English
	}
	return Supported[idx]
}

// normalize turns "ja_JP.UTF-8" into "ja-JP".
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}

func (l *Localizer) Tag() language.Tag { return l.tag }

// T renders message id with optional template data. Unknown ids render as
// the id itself.
func (l *Localizer) T(id string, data ...map[string]any) string {
	cfg := &goi18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	s, err := l.loc.Localize(cfg)
	if err != nil {
		return id
	}
	return s
}

func (l *Localizer) ThemeLabel(dark bool) string {
	if dark {
		return l.T(ThemeDark)
	}
	return l.T(ThemeLight)
}

func (l *Localizer) WrapLabel(on bool) string {
	if on {
		return l.T(WrapOn)
	}
	return l.T(WrapOff)
}
