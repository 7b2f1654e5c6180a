package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xsorter/commit"
	"github.com/alexballas/xsorter/config"
	"github.com/alexballas/xsorter/logging"
	"github.com/alexballas/xsorter/orderfile"
	"github.com/alexballas/xsorter/sequence"
	"github.com/alexballas/xsorter/session"
	"github.com/alexballas/xsorter/thumbnail"
)

// Run opens the sorting window, on dir when it is not empty, and blocks until the window is
// closed or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, dir string) error {
	a := app.NewWithID(appID)
	w := newSorterWindow(ctx, a, cfg, log)
	if dir != "" {
		if err := w.session.SetDirectory(dir); err != nil {
			return err
		}
	}

	stop := context.AfterFunc(ctx, func() {
		fyne.Do(a.Quit)
	})
	defer stop()

	w.win.ShowAndRun()
	w.close()
	return nil
}

var _ Sorter = (*sorterWindow)(nil)

type sorterWindow struct {
	app fyne.App
	win fyne.Window
	ctx context.Context
	cfg *config.Config
	log *logging.Logger

	session        *session.Session
	thumbs         *thumbnail.Loader
	removeListener func()

	selected map[string]struct{}
	anchor   int // Selection anchor for Shift-Select

	// Components
	sidebar    *sidebar
	gallery    *gallery
	breadcrumb *breadcrumb

	// UI
	status     *widget.Label
	saveBtn    *widget.Button
	saveAsBtn  *widget.Button
	applyBtn   *widget.Button
	zoomInBtn  *widget.Button
	zoomOutBtn *widget.Button
	activeMenu *widget.PopUp

	zoom       *zoom
	committing bool
}

func newSorterWindow(ctx context.Context, a fyne.App, cfg *config.Config, log *logging.Logger) *sorterWindow {
	if cfg == nil {
		cfg = config.Default()
	}
	w := &sorterWindow{
		app:      a,
		ctx:      ctx,
		cfg:      cfg,
		log:      logging.OrNop(log).With("component", "ui"),
		selected: make(map[string]struct{}),
		anchor:   -1,
		zoom:     loadZoom(a.Preferences()),
	}
	w.session = session.New(nil, cfg.Extensions, w.log)
	w.session.OnCollectionChanged(w.installCollection)

	w.win = a.NewWindow("xsorter")
	w.win.SetContent(w.makeUI())
	w.win.Resize(fyne.NewSize(1100, 750))
	w.win.SetCloseIntercept(func() {
		w.confirmDiscard(w.win.Close)
	})
	w.registerShortcuts()
	w.updateActions()
	return w
}

func (w *sorterWindow) makeUI() fyne.CanvasObject {
	w.sidebar = newSidebar(w, w.recentDirs())
	w.gallery = newGallery(w, w.log)
	w.breadcrumb = newBreadcrumb(w)

	openBtn := widget.NewButtonWithIcon(lang.L("Open Folder"), theme.FolderOpenIcon(), w.openFolderAction)
	loadBtn := widget.NewButtonWithIcon(lang.L("Load Order"), theme.DocumentIcon(), w.loadOrderAction)
	w.saveBtn = widget.NewButtonWithIcon(lang.L("Save"), theme.DocumentSaveIcon(), w.saveAction)
	w.saveAsBtn = widget.NewButtonWithIcon(lang.L("Save As"), theme.DocumentSaveIcon(), w.saveAsAction)
	w.applyBtn = widget.NewButtonWithIcon(lang.L("Apply Order"), theme.ConfirmIcon(), w.applyAction)
	w.applyBtn.Importance = widget.HighImportance
	w.zoomOutBtn = widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() {
		w.adjustZoom(-1)
	})
	w.zoomInBtn = widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() {
		w.adjustZoom(1)
	})

	controlsRow := container.NewHBox(openBtn, loadBtn, w.saveBtn, w.saveAsBtn, widget.NewSeparator(),
		w.zoomOutBtn, w.zoomInBtn, widget.NewSeparator(), w.applyBtn)
	titleLabel := widget.NewLabelWithStyle("xsorter", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	topBarScroll := container.NewHScroll(container.NewBorder(nil, nil, titleLabel, controlsRow, nil))
	topBarScroll.Direction = container.ScrollHorizontalOnly
	header := container.NewVBox(topBarScroll, widget.NewSeparator())

	w.status = widget.NewLabel("")
	w.status.Truncation = fyne.TextTruncateEllipsis

	zoomOverlay := newZoomScrollOverlay(w.adjustZoom)
	split := container.NewHSplit(
		container.NewPadded(w.sidebar.list),
		container.NewBorder(container.NewPadded(w.breadcrumb.scroll), nil, nil, nil,
			container.NewStack(w.gallery.content, zoomOverlay)),
	)
	split.SetOffset(0.2)

	return container.New(&resizeLayout{
		internal: layout.NewStackLayout(),
		onResize: func() {
			w.DismissMenu()
			w.gallery.onResize()
		},
	}, container.NewBorder(header, w.status, nil, nil, split))
}

func (w *sorterWindow) registerShortcuts() {
	c := w.win.Canvas()
	add := func(key fyne.KeyName, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierShortcutDefault},
			func(fyne.Shortcut) { fn() })
	}
	add(fyne.KeyLeft, func() { w.moveSelectionBy(-1) })
	add(fyne.KeyRight, func() { w.moveSelectionBy(1) })
	add(fyne.KeyHome, func() { w.MoveSelection(0) })
	add(fyne.KeyEnd, func() { w.MoveSelection(sequence.EndOfSequence) })
	add(fyne.KeyA, w.SelectAll)
	add(fyne.KeyO, w.openFolderAction)
	add(fyne.KeyS, w.saveAction)
	add(fyne.KeyEqual, func() { w.adjustZoom(1) })
	add(fyne.KeyMinus, func() { w.adjustZoom(-1) })
}

func (w *sorterWindow) close() {
	if w.removeListener != nil {
		w.removeListener()
	}
	if w.thumbs == nil {
		return
	}
	w.thumbs.Close()
	if removed := w.thumbs.Cache().Cleanup(); removed > 0 {
		w.log.Debug().Int("removed", removed).Msg("thumbnail cache trimmed")
	}
	w.thumbs = nil
}

// Sorter implementation

func (w *sorterWindow) Collection() *sequence.Collection {
	return w.session.Collection()
}

func (w *sorterWindow) Thumbnails() *thumbnail.Loader {
	return w.thumbs
}

func (w *sorterWindow) ItemSize() fyne.Size {
	return calculateItemSize(w.zoom.scale())
}

func (w *sorterWindow) ZoomScale() float32 {
	return w.zoom.scale()
}

func (w *sorterWindow) SetLocation(dir fyne.ListableURI) {
	w.DismissMenu()
	if dir == nil || dir.Path() == w.session.Directory() {
		return
	}
	w.confirmDiscard(func() {
		w.openDirectory(dir.Path())
	})
}

func (w *sorterWindow) ShowMenu(menu *fyne.Menu, pos fyne.Position, obj fyne.CanvasObject) {
	w.DismissMenu()

	m := widget.NewMenu(menu)
	m.OnDismiss = w.DismissMenu

	absPos := fyne.CurrentApp().Driver().AbsolutePositionForObject(obj).Add(pos)
	w.activeMenu = widget.NewPopUp(m, w.win.Canvas())
	w.activeMenu.ShowAtPosition(absPos)
}

func (w *sorterWindow) DismissMenu() {
	if w.activeMenu != nil {
		w.activeMenu.Hide()
		w.activeMenu = nil
	}
}

func (w *sorterWindow) entryName(id int) (string, bool) {
	c := w.Collection()
	if c == nil {
		return "", false
	}
	e, err := c.EntryAt(id)
	if err != nil {
		return "", false
	}
	return e.Name, true
}

func (w *sorterWindow) Select(id int) {
	name, ok := w.entryName(id)
	if !ok {
		return
	}
	w.selected = map[string]struct{}{name: {}}
	w.anchor = id
	w.selectionChanged()
}

func (w *sorterWindow) SelectMultiple(ids []int) {
	w.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if name, ok := w.entryName(id); ok {
			w.selected[name] = struct{}{}
		}
	}
	if len(ids) > 0 {
		w.anchor = ids[len(ids)-1]
	}
	w.selectionChanged()
}

func (w *sorterWindow) SelectAll() {
	c := w.Collection()
	if c == nil {
		return
	}
	w.selected = make(map[string]struct{}, c.Count())
	for _, name := range c.Names() {
		w.selected[name] = struct{}{}
	}
	w.selectionChanged()
}

func (w *sorterWindow) ToggleSelection(id int) {
	name, ok := w.entryName(id)
	if !ok {
		return
	}
	if _, selected := w.selected[name]; selected {
		delete(w.selected, name)
	} else {
		w.selected[name] = struct{}{}
	}
	w.anchor = id
	w.selectionChanged()
}

func (w *sorterWindow) ExtendSelection(id int) {
	c := w.Collection()
	if c == nil || id < 0 || id >= c.Count() {
		return
	}
	if w.anchor < 0 || w.anchor >= c.Count() {
		w.anchor = 0
	}

	start, end := min(w.anchor, id), max(w.anchor, id)
	names := c.Names()
	w.selected = make(map[string]struct{}, end-start+1)
	for _, name := range names[start : end+1] {
		w.selected[name] = struct{}{}
	}
	w.selectionChanged()
}

func (w *sorterWindow) IsSelected(name string) bool {
	_, ok := w.selected[name]
	return ok
}

// SelectedRows returns the current rows of the selected entries, ascending.
func (w *sorterWindow) SelectedRows() []int {
	c := w.Collection()
	if c == nil || len(w.selected) == 0 {
		return nil
	}
	rows := make([]int, 0, len(w.selected))
	for row, name := range c.Names() {
		if _, ok := w.selected[name]; ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func (w *sorterWindow) selectionChanged() {
	w.gallery.refresh()
	w.updateStatus()
}

// MoveSelection moves the selected rows in front of target, or to the end for
// sequence.EndOfSequence.
func (w *sorterWindow) MoveSelection(target int) {
	c := w.Collection()
	rows := w.SelectedRows()
	if c == nil || len(rows) == 0 {
		return
	}
	if err := c.MoveRows(rows, target); err != nil {
		w.log.Warn().Err(err).Str("rows", sequence.EncodeRows(rows)).Int("target", target).Msg("move rejected")
		return
	}
	if moved := w.SelectedRows(); len(moved) > 0 {
		w.anchor = moved[0]
		w.gallery.scrollTo(moved[0])
	}
}

// moveSelectionBy shifts the selected block one place towards the start (delta < 0) or the
// end of the sequence.
func (w *sorterWindow) moveSelectionBy(delta int) {
	c := w.Collection()
	rows := w.SelectedRows()
	if c == nil || len(rows) == 0 {
		return
	}

	if delta < 0 {
		if rows[0] == 0 {
			return
		}
		w.MoveSelection(rows[0] - 1)
		return
	}

	last := rows[len(rows)-1]
	if last >= c.Count()-1 {
		return
	}
	target := last + 2
	if target >= c.Count() {
		target = sequence.EndOfSequence
	}
	w.MoveSelection(target)
}

func (w *sorterWindow) Preview(id int) {
	c := w.Collection()
	if c == nil {
		return
	}
	e, err := c.EntryAt(id)
	if err != nil {
		return
	}
	img := canvas.NewImageFromFile(e.Path)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(640, 480))
	dialog.ShowCustom(sequence.SequenceName(id, sequence.SequenceDigits(c.Count()), e.Name), lang.L("Close"), img, w.win)
}

// Collection lifetime

func (w *sorterWindow) installCollection(c *sequence.Collection) {
	if w.removeListener != nil {
		w.removeListener()
	}
	if w.thumbs != nil {
		old := w.thumbs
		go old.Close()
	}
	w.thumbs = thumbnail.NewLoader(thumbnail.New(w.thumbnailOptions()), 0)
	w.removeListener = c.AddListener(w.collectionChanged)

	w.selected = make(map[string]struct{})
	w.anchor = -1

	if dir, err := storage.ListerForURI(storage.NewFileURI(c.Dir())); err == nil {
		w.breadcrumb.update(dir)
	} else {
		fyne.LogError("could not list "+c.Dir(), err)
	}
	w.rememberDirectory(c.Dir())

	w.gallery.reset()
	w.updateActions()
}

func (w *sorterWindow) collectionChanged(ch sequence.Change) {
	if ch.Phase != sequence.PhaseEnd {
		return
	}
	w.gallery.refresh()
	w.updateActions()
}

func (w *sorterWindow) thumbnailOptions() thumbnail.Options {
	opts := thumbnail.Options{
		Size:   w.cfg.Thumbnail.Size,
		Logger: w.log,
	}
	if w.cfg.Thumbnail.DiskCache {
		opts.CacheDir = w.cfg.Thumbnail.CacheDir
		opts.MaxCacheBytes = w.cfg.Thumbnail.MaxCacheBytes
		opts.MaxCacheFiles = w.cfg.Thumbnail.MaxCacheFiles
	}
	return opts
}

func (w *sorterWindow) recentDirs() []string {
	return w.app.Preferences().StringList(recentDirsKey)
}

func (w *sorterWindow) rememberDirectory(dir string) {
	recent := slices.DeleteFunc(slices.Clone(w.recentDirs()), func(d string) bool { return d == dir })
	recent = append([]string{dir}, recent...)
	if len(recent) > maxRecentDirs {
		recent = recent[:maxRecentDirs]
	}
	w.app.Preferences().SetStringList(recentDirsKey, recent)
	w.sidebar.setRecent(recent, storage.NewFileURI(dir))
}

func (w *sorterWindow) currentDirURI() fyne.URI {
	if dir := w.session.Directory(); dir != "" {
		return storage.NewFileURI(dir)
	}
	return nil
}

// confirmDiscard runs next straight away, or after the user agreed to drop unsaved changes.
func (w *sorterWindow) confirmDiscard(next func()) {
	if !w.session.Dirty() {
		next()
		return
	}
	dialog.ShowConfirm(lang.L("Unsaved Order"),
		lang.L("The order of this folder changed since it was last saved. Discard the changes?"),
		func(ok bool) {
			if ok {
				next()
				return
			}
			w.sidebar.SyncSelection(w.currentDirURI())
		}, w.win)
}

func (w *sorterWindow) showError(err error) {
	w.log.Error().Err(err).Msg("operation failed")
	fyne.LogError("xsorter", err)
	dialog.ShowError(err, w.win)
}

// Actions

func (w *sorterWindow) openDirectory(dir string) {
	if err := w.session.SetDirectory(dir); err != nil {
		w.sidebar.SyncSelection(w.currentDirURI())
		w.showError(err)
	}
}

func (w *sorterWindow) openFolderAction() {
	chooseFolder(w.win, w.session.Directory(), func(path string, err error) {
		if err != nil {
			w.showError(err)
			return
		}
		if path == "" || path == w.session.Directory() {
			return
		}
		w.confirmDiscard(func() {
			w.openDirectory(path)
		})
	})
}

func (w *sorterWindow) orderStartDir() string {
	if f := w.session.OrderFile(); f != "" {
		return filepath.Dir(f)
	}
	if f := w.app.Preferences().String(lastOrderFileKey); f != "" {
		return filepath.Dir(f)
	}
	return w.session.Directory()
}

func (w *sorterWindow) loadOrderAction() {
	chooseOrderFile(w.win, w.orderStartDir(), func(path string, err error) {
		if err != nil {
			w.showError(err)
			return
		}
		if path == "" {
			return
		}
		w.confirmDiscard(func() {
			w.loadOrder(path)
		})
	})
}

func (w *sorterWindow) loadOrder(path string) {
	if err := w.session.LoadOrder(path); err != nil {
		w.showError(err)
		return
	}
	w.app.Preferences().SetString(lastOrderFileKey, path)
	w.updateActions()
}

func (w *sorterWindow) saveAction() {
	if w.Collection() == nil {
		return
	}
	if w.session.OrderFile() == "" {
		w.saveAsAction()
		return
	}
	if err := w.session.SaveOrder(); err != nil {
		w.showError(err)
		return
	}
	w.updateActions()
}

func (w *sorterWindow) saveAsAction() {
	dir := w.session.Directory()
	if dir == "" {
		return
	}
	name := filepath.Base(dir) + orderfile.Extension
	chooseSaveFile(w.win, w.orderStartDir(), name, func(path string, err error) {
		if err != nil {
			w.showError(err)
			return
		}
		if path != "" {
			w.saveOrderAs(path)
		}
	})
}

func (w *sorterWindow) saveOrderAs(path string) {
	if err := w.session.SaveOrderAs(path); err != nil {
		w.showError(err)
		return
	}
	w.app.Preferences().SetString(lastOrderFileKey, path)
	w.updateActions()
}

func (w *sorterWindow) applyAction() {
	plan, err := w.session.PlanCommit()
	if err != nil {
		w.showError(err)
		return
	}
	if len(plan.Items) == 0 {
		dialog.ShowInformation(lang.L("Apply Order"), lang.L("This folder has no images."), w.win)
		return
	}
	chooseFolder(w.win, "", func(target string, err error) {
		if err != nil {
			w.showError(err)
			return
		}
		if target != "" {
			w.confirmCommit(plan, target)
		}
	})
}

// commitSummary describes plan for the confirmation dialog, listing the first few copies.
func commitSummary(plan commit.Plan, target string, overwrite bool) string {
	const shown = 3

	var b strings.Builder
	fmt.Fprintf(&b, "Copy %d images into %s as:\n\n", len(plan.Items), target)
	for _, item := range plan.Items[:min(shown, len(plan.Items))] {
		fmt.Fprintf(&b, "    %s\n", item.Target)
	}
	if len(plan.Items) > shown {
		fmt.Fprintf(&b, "    ... %d more\n", len(plan.Items)-shown)
	}
	if overwrite {
		b.WriteString("\nExisting files with these names are replaced.")
	} else {
		b.WriteString("\nExisting files with these names are kept.")
	}
	return b.String()
}

func (w *sorterWindow) confirmCommit(plan commit.Plan, target string) {
	msg := commitSummary(plan, target, w.cfg.Commit.Overwrite)
	dialog.ShowConfirm(lang.L("Apply Order"), msg, func(ok bool) {
		if ok {
			w.runCommit(plan, target)
		}
	}, w.win)
}

func (w *sorterWindow) runCommit(plan commit.Plan, target string) {
	sink, err := commit.OpenSink(w.ctx, target, w.cfg.S3)
	if err != nil {
		w.showError(err)
		return
	}

	bar := widget.NewProgressBar()
	bar.Max = float64(len(plan.Items))
	current := widget.NewLabel("")
	current.Truncation = fyne.TextTruncateEllipsis
	progress := dialog.NewCustomWithoutButtons(lang.L("Applying Order"), container.NewVBox(current, bar), w.win)
	progress.Resize(fyne.NewSize(420, 0))
	progress.Show()

	w.committing = true
	w.updateActions()

	go func() {
		summary, err := commit.Apply(w.ctx, plan, sink, commit.Options{
			Overwrite: w.cfg.Commit.Overwrite,
			Logger:    w.log,
			Progress: func(done, _ int, r commit.Result) {
				fyne.Do(func() {
					bar.SetValue(float64(done))
					current.SetText(r.Item.Target)
				})
			},
		})
		if err == nil {
			err = summary.Err()
		}

		fyne.Do(func() {
			progress.Hide()
			w.committing = false
			w.updateActions()
			if err != nil {
				w.showError(err)
				return
			}
			dialog.ShowInformation(lang.L("Order Applied"),
				fmt.Sprintf("%d copied, %d skipped into %s", summary.Copied, summary.Skipped, summary.Target), w.win)
		})
	}()
}

func (w *sorterWindow) adjustZoom(steps int) {
	if steps == 0 || !w.zoom.step(steps) {
		return
	}
	w.gallery.reset()
	if rows := w.SelectedRows(); len(rows) > 0 {
		w.gallery.scrollTo(rows[0])
	}
	w.updateActions()
}

// State display

func (w *sorterWindow) updateActions() {
	hasDir := w.Collection() != nil
	setEnabled(w.saveBtn, hasDir && !w.committing)
	setEnabled(w.saveAsBtn, hasDir && !w.committing)
	setEnabled(w.applyBtn, hasDir && !w.committing)
	setEnabled(w.zoomInBtn, w.zoom.canZoomIn())
	setEnabled(w.zoomOutBtn, w.zoom.canZoomOut())

	w.win.SetTitle(w.title())
	w.updateStatus()
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (w *sorterWindow) title() string {
	dir := w.session.Directory()
	if dir == "" {
		return "xsorter"
	}
	title := filepath.Base(dir) + " - xsorter"
	if w.session.Dirty() {
		title = "*" + title
	}
	return title
}

func (w *sorterWindow) updateStatus() {
	c := w.Collection()
	if c == nil {
		w.status.SetText(lang.L("Open a folder to start sorting."))
		return
	}
	text := fmt.Sprintf("%d images, %d selected", c.Count(), len(w.selected))
	if f := w.session.OrderFile(); f != "" {
		text += "  ·  " + f
	}
	w.status.SetText(text)
}
