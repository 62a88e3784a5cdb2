// Copyright
// SPDX-License-Identifier: MIT
// codepad: a terminal scratchpad that keeps one document per language
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	cfg "codepad/internal/config"
	"codepad/internal/doccache"
	"codepad/internal/docwidget"
	"codepad/internal/filename"
	"codepad/internal/i18n"
	"codepad/internal/lang"
	"codepad/internal/session"
	"codepad/internal/store"
	"codepad/internal/transfer"
	appTUI "codepad/internal/tui"
	"codepad/internal/tui/widgets/editor"
)

const Version = "0.3.0"

/* ---------- CLI ---------- */

func main() {
	if len(os.Args) < 2 {
		exit(cmdEdit(nil, false))
		return
	}
	switch os.Args[1] {
	case "help", "-h", "--help":
		if len(os.Args) > 2 {
			helpTopic(os.Args[2])
		} else {
			usage()
		}
	case "version", "--version":
		fmt.Println("codepad", Version)
	case "edit":
		exit(cmdEdit(os.Args[2:], false))
	case "open":
		exit(cmdEdit(os.Args[2:], true))
	case "import":
		exit(cmdImport(os.Args[2:]))
	case "export":
		exit(cmdExport(os.Args[2:]))
	case "langs":
		exit(cmdLangs(os.Args[2:]))
	case "status":
		exit(cmdStatus(os.Args[2:]))
	case "init":
		exit(cmdInit(os.Args[2:]))
	default:
		if strings.HasPrefix(os.Args[1], "-") {
			exit(cmdEdit(os.Args[1:], false))
			return
		}
		usage()
		os.Exit(2)
	}
}

func exit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "codepad:", err)
	os.Exit(1)
}

func usage() {
	fmt.Println(`codepad ` + Version + `
A terminal scratchpad with one persistent document per language.
USAGE
  codepad [command] [options]
COMMANDS
  edit         Open the editor (default)
  open FILE    Open the editor with FILE loaded (language detected from its name)
  import FILE  Store FILE as the document of its language without opening the editor
  export       Write a stored document to the export directory (or the clipboard)
  langs        List supported languages and what is stored for each
  status       Show config, store location and stored keys
  init         Write a default config file
  help         Show help (try: codepad help edit)
  version      Print version
NOTES
  • Every document is saved when you switch language, open a file, export or quit.
  • Logs go to <state-dir>/codepad.log while the editor runs; use -v to echo them elsewhere.`)
}

func helpTopic(name string) {
	switch name {
	case "edit", "open":
		fmt.Println(`USAGE
  codepad edit [options]
  codepad open [options] FILE
OPTIONS
  --config PATH      Config file (JSON, or YAML by extension). Default: ` + cfg.DefaultPath() + `
  --lang ID          Language to start in (see: codepad langs)
  --locale TAG       Interface language, e.g. en or ja (default: system locale)
  --state-dir DIR    Where the store and log live
  --export-dir DIR   Where downloads are written
  --theme dark|light
  --no-wrap          Start with word wrap off
  --no-color         Disable colors (NO_COLOR is honoured too)
  --ephemeral        Keep documents in memory only; nothing is saved
  --log-file PATH    Append logs to PATH instead of <state-dir>/codepad.log
  -v, -vv            More detailed logs
KEYS
  F1 shows every key binding.`)
	case "export":
		fmt.Println(`USAGE
  codepad export [--lang ID] [--name FILE] [--clipboard] [options]
DESCRIPTION
  Exports the stored document of a language exactly as the editor's download would:
  the file name is completed with the language's extension when it has none, and the
  name is remembered for next time. Existing files are never overwritten; a numbered
  copy like "code (1).js" is written instead.`)
	case "import":
		fmt.Println(`USAGE
  codepad import [options] FILE
DESCRIPTION
  Reads FILE as UTF-8 text, detects its language from the name and stores it as that
  language's document. The file name becomes the remembered export name.`)
	default:
		usage()
	}
}

/* ---------- flags & wiring ---------- */

type cliFlags struct {
	fs        *flag.FlagSet
	config    *string
	logPath   *string
	lang      *string
	locale    *string
	stateDir  *string
	exportDir *string
	theme     *string
	noWrap    *bool
	noColor   *bool
	ephemeral *bool
	verbose   *bool
	debug     *bool
}

func newFlags(name string) *cliFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() { helpTopic(name) }
	return &cliFlags{
		fs:        fs,
		config:    fs.String("config", "", "Config file (JSON or YAML)"),
		logPath:   fs.String("log-file", "", "Append logs to file (created if missing)"),
		lang:      fs.String("lang", "", "Language id"),
		locale:    fs.String("locale", "", "Interface locale (en, ja)"),
		stateDir:  fs.String("state-dir", "", "Directory for the store and log"),
		exportDir: fs.String("export-dir", "", "Directory for exported files"),
		theme:     fs.String("theme", "", "dark | light"),
		noWrap:    fs.Bool("no-wrap", false, "Start with word wrap off"),
		noColor:   fs.Bool("no-color", false, "Disable colors"),
		ephemeral: fs.Bool("ephemeral", false, "Keep documents in memory only; nothing is saved"),
		verbose:   fs.Bool("v", false, "Verbose logs (INFO)"),
		debug:     fs.Bool("vv", false, "Debug logs (DEBUG)"),
	}
}

func (f *cliFlags) parse(args []string) error {
	return f.fs.Parse(args)
}

func (f *cliFlags) configPath() string {
	if *f.config != "" {
		return *f.config
	}
	return cfg.DefaultPath()
}

// load reads the config file (missing is fine) and applies flag overrides.
func (f *cliFlags) load() (*cfg.Config, error) {
	c, err := cfg.LoadOrDefault(f.configPath())
	if err != nil {
		return nil, err
	}
	over := &cfg.Config{
		StateDir:  *f.stateDir,
		Language:  *f.lang,
		Locale:    *f.locale,
		ExportDir: *f.exportDir,
		Theme:     *f.theme,
	}
	if *f.noWrap {
		off := false
		over.Wrap = &off
	}
	c = cfg.Merge(c, over)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (f *cliFlags) verbosity() int {
	switch {
	case *f.debug:
		return 2
	case *f.verbose:
		return 1
	}
	return 0
}

// app is everything a command needs around one store.
type app struct {
	conf  *cfg.Config
	file  *store.FileBackend // nil with --ephemeral
	store *store.Store
	docs  *doccache.Cache
	names *filename.State
	reg   *lang.Registry
	loc   *i18n.Localizer
	logf  func(string, ...any)
	lf    *os.File
}

// newApp opens the store and the log. interactive keeps log lines off the
// terminal, which belongs to the editor.
func newApp(f *cliFlags, interactive bool) (*app, error) {
	conf, err := f.load()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(conf.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}

	logPath := *f.logPath
	if logPath == "" && interactive {
		logPath = conf.LogPath()
	}
	lf, err := openLogFile(logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not open log file:", err)
	}
	var echo io.Writer
	if !interactive && f.verbosity() > 0 {
		echo = os.Stderr
	}
	logf := newLogger(lf, echo, f.verbosity())

	a := &app{conf: conf, reg: lang.Default(), loc: i18n.New(conf.Locale), logf: logf, lf: lf}
	if *f.ephemeral {
		a.store = store.New(store.NewMemoryBackend(), logf)
	} else {
		a.file = store.NewFileBackend(conf.StorePath(), int(conf.Quota()))
		a.store = store.New(a.file, logf)
	}
	a.docs = doccache.New(a.store, a.reg, conf.Prefix, logf)
	a.names = filename.New(a.store, a.reg, doccache.Key(conf.Prefix, "filename"), logf)
	return a, nil
}

func (a *app) controller(w session.DocumentWidget, vp session.Viewport) (*session.Controller, error) {
	prefs := session.Preferences{Dark: a.conf.Dark(), Wrap: a.conf.WrapOn()}
	return session.New(session.Config{
		Widget:       w,
		Documents:    a.docs,
		Filename:     a.names,
		Registry:     a.reg,
		Labeler:      a.loc,
		Language:     a.conf.Language,
		Preferences:  &prefs,
		CompactWidth: a.conf.CompactWidth,
		Viewport:     vp,
		Logf:         a.logf,
	})
}

func (a *app) importer() transfer.Importer {
	return transfer.Importer{MaxBytes: a.conf.MaxImport}
}

func (a *app) downloads() *transfer.Gateway {
	return transfer.NewGateway(nil, transfer.DirSink{Dir: a.conf.ExportDir}, a.logf)
}

func (a *app) clipboard() *transfer.Gateway {
	return transfer.NewGateway(nil, transfer.ClipboardSink{}, a.logf)
}

func (a *app) storeLabel() string {
	if a.file == nil {
		return "memory"
	}
	return a.file.Path()
}

func (a *app) close() {
	if a.lf != nil {
		_ = a.lf.Close()
	}
}

// terminalViewport is the size known before the first resize event, so the
// editor starts in the right layout.
func terminalViewport() session.Viewport {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return session.Viewport{}
	}
	return session.Viewport{Width: w, Height: h}
}

/* ---------- commands ---------- */

func cmdEdit(args []string, withFile bool) error {
	name := "edit"
	if withFile {
		name = "open"
	}
	f := newFlags(name)
	if err := f.parse(args); err != nil {
		return err
	}
	openPath := ""
	if withFile {
		if f.fs.NArg() != 1 {
			helpTopic("open")
			return fmt.Errorf("open: exactly one FILE expected")
		}
		openPath = f.fs.Arg(0)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("%s needs a terminal; try codepad import or codepad export", name)
	}
	a, err := newApp(f, true)
	if err != nil {
		return err
	}
	defer a.close()

	ed := editor.New()
	ctrl, err := a.controller(ed, terminalViewport())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.logf("[codepad] editing in %s (store %s)", ctrl.Language(), a.storeLabel())
	return appTUI.Run(ctx, appTUI.Options{
		Controller: ctrl,
		Editor:     ed,
		Localizer:  a.loc,
		Downloads:  a.downloads(),
		Clipboard:  a.clipboard(),
		Importer:   a.importer(),
		Watch:      a.file,
		OpenPath:   openPath,
		NoColor:    *f.noColor,
		Logf:       a.logf,
	})
}

func cmdImport(args []string) error {
	f := newFlags("import")
	if err := f.parse(args); err != nil {
		return err
	}
	if f.fs.NArg() != 1 {
		helpTopic("import")
		return fmt.Errorf("import: exactly one FILE expected")
	}
	a, err := newApp(f, false)
	if err != nil {
		return err
	}
	defer a.close()

	file, err := a.importer().Read(context.Background(), f.fs.Arg(0))
	if err != nil {
		return err
	}
	ctrl, err := a.controller(docwidget.New(), session.Viewport{})
	if err != nil {
		return err
	}
	id := ctrl.OpenFile(file.Name, file.Content)
	ctrl.Unload()
	if res := ctrl.State().LastFlush; res.Failed() {
		return fmt.Errorf("import %s: %w", file.Name, res.Err)
	}
	fmt.Println(a.loc.T(i18n.Opened, map[string]any{"Name": file.Name, "Language": a.reg.Label(id)}))
	return nil
}

func cmdExport(args []string) error {
	f := newFlags("export")
	name := f.fs.String("name", "", "File name (extension added when missing)")
	toClipboard := f.fs.Bool("clipboard", false, "Copy to the clipboard instead of writing a file")
	if err := f.parse(args); err != nil {
		return err
	}
	a, err := newApp(f, false)
	if err != nil {
		return err
	}
	defer a.close()

	ctrl, err := a.controller(docwidget.New(), session.Viewport{})
	if err != nil {
		return err
	}
	if *name != "" {
		ctrl.SetFilename(*name)
	}
	gw := a.downloads()
	if *toClipboard {
		gw = a.clipboard()
	}
	out, err := ctrl.Export(gw)
	if err != nil {
		return err
	}
	if *toClipboard {
		fmt.Println(a.loc.T(i18n.Copied))
		return nil
	}
	fmt.Println(a.loc.T(i18n.Exported, map[string]any{"Name": out, "Where": gw.LastDestination()}))
	return nil
}

func cmdLangs(args []string) error {
	f := newFlags("langs")
	if err := f.parse(args); err != nil {
		return err
	}
	a, err := newApp(f, false)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Println("Languages:")
	for _, id := range a.reg.IDs() {
		stored := "snippet"
		if text, ok := a.docs.Stored(id); ok {
			stored = fmt.Sprintf("stored, %d chars", len([]rune(text)))
		}
		fmt.Printf("  %-12s %-12s .%-5s %s\n", id, a.reg.Label(id), a.reg.Extension(id), stored)
	}
	return nil
}

func cmdStatus(args []string) error {
	f := newFlags("status")
	if err := f.parse(args); err != nil {
		return err
	}
	a, err := newApp(f, false)
	if err != nil {
		return err
	}
	defer a.close()

	conf := a.conf
	cfgNote := ""
	if _, err := os.Stat(f.configPath()); errors.Is(err, fs.ErrNotExist) {
		cfgNote = " (not found, using defaults)"
	}
	fmt.Println("codepad status:")
	fmt.Printf("- Config: %s%s\n", f.configPath(), cfgNote)
	fmt.Printf("- Store:  %s\n", a.storeLabel())
	if a.file == nil {
		return nil
	}
	if st, err := os.Stat(a.file.Path()); err == nil {
		quota := "unlimited"
		if q := conf.Quota(); q > 0 {
			quota = fmt.Sprintf("%d", q)
		}
		fmt.Printf("- Size:   %d of %s bytes\n", st.Size(), quota)
	}
	fmt.Printf("- Export: %s\n", conf.ExportDir)
	fmt.Printf("- Locale: %s\n", a.loc.Tag())
	if name := a.names.Restore(conf.Language); name != "" {
		fmt.Println("- File name:", name)
	}
	keys, err := a.file.Keys()
	if err != nil {
		fmt.Println("- Keys: unreadable:", err)
		return nil
	}
	if len(keys) == 0 {
		fmt.Println("- Keys: (none)")
		return nil
	}
	fmt.Println("- Keys:")
	for _, k := range keys {
		v, _, _ := a.file.GetItem(k)
		fmt.Printf("    %-28s %d bytes\n", k, len(v))
	}
	return nil
}

func cmdInit(args []string) error {
	f := newFlags("init")
	force := f.fs.Bool("force", false, "Overwrite an existing config")
	if err := f.parse(args); err != nil {
		return err
	}
	path := f.configPath()
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Println(path, "already exists; not overwriting")
		return nil
	}
	conf, err := f.load()
	if err != nil {
		return err
	}
	if err := cfg.Save(path, conf); err != nil {
		return err
	}
	fmt.Println("Wrote", path)
	if err := os.MkdirAll(conf.StateDir, 0o755); err != nil {
		return err
	}
	fmt.Println("State directory:", conf.StateDir)
	return nil
}

/* ---------- logging ---------- */

var logFileMu sync.Mutex

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintf(f, "=== codepad %s started at %s ===\n", Version, time.Now().Format(time.RFC3339))
	return f, nil
}

// newLogger returns the printf-style callback handed to every component.
// Lines go to the log file and, at -v and above, to echo. Lines tagged
// "[debug]" need -vv.
func newLogger(lf *os.File, echo io.Writer, verbosity int) func(string, ...any) {
	return func(format string, args ...any) {
		if strings.HasPrefix(format, "[debug]") && verbosity < 2 {
			return
		}
		line := fmt.Sprintf(format, args...)
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		logFileMu.Lock()
		defer logFileMu.Unlock()
		if lf != nil {
			_, _ = lf.WriteString(time.Now().Format("15:04:05 ") + line)
		}
		if echo != nil {
			_, _ = io.WriteString(echo, line)
		}
	}
}
