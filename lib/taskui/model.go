// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taskui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/tasktracker/lib/task"
	"github.com/bureau-foundation/tasktracker/lib/tui"
)

// Route identifies which screen is shown.
type Route int

const (
	// RouteDashboard is the filter bar, task list and preview.
	RouteDashboard Route = iota
	// RouteNewTask is the new-task form.
	RouteNewTask
	// RouteCard is the full view of one task.
	RouteCard
)

// FocusRegion identifies which part of the dashboard has keyboard
// focus.
type FocusRegion int

const (
	// FocusList means navigation keys move the list cursor.
	FocusList FocusRegion = iota
	// FocusQuery means keystrokes go to the title search.
	FocusQuery
	// FocusDue means keystrokes go to the due-date filter input.
	FocusDue
	// FocusDropdown means the completion dropdown is open and gets
	// all keyboard input until an option is chosen or it is
	// dismissed.
	FocusDropdown
)

// Split ratio bounds and step size.
const (
	splitRatioMin  = 0.20
	splitRatioMax  = 0.90
	splitRatioStep = 0.05

	// Below this width the preview pane is hidden and the list takes
	// the whole screen.
	previewMinWidth = 60
)

// Fixed rows at the top of the dashboard.
const (
	headerY    = 0
	filterBarY = 1
)

// storeEventMsg wraps a store Event for delivery through the
// bubbletea message loop.
type storeEventMsg struct {
	event task.Event
}

// heatTickMsg drives the glow decay animation. While any rows are
// hot, a new tick is scheduled after each one.
type heatTickMsg struct{}

// storageChangedMsg reports that the storage file was written by
// someone, possibly this process.
type storageChangedMsg struct{}

// reloadResultMsg carries the outcome of a Store.Reload triggered by a
// storage change.
type reloadResultMsg struct {
	err error
}

// mutationResultMsg is sent when a toggle or delete finishes. On
// success the store's event delivers the change.
type mutationResultMsg struct {
	err error
}

// taskAddedMsg is the result of submitting the form.
type taskAddedMsg struct {
	task task.Task
	err  error
}

// taskStats are the header counts over the unfiltered list.
type taskStats struct {
	total    int
	complete int
}

// Options configures a [Model].
type Options struct {
	// SplitRatio is the fraction of the width given to the list when
	// the preview pane is shown. Zero means 0.6.
	SplitRatio float64

	// ShowDescriptions adds a description excerpt column to rows.
	ShowDescriptions bool

	// Changes signals external writes to the storage file. Each
	// signal triggers Store.Reload. Nil disables watching.
	Changes <-chan struct{}

	// LogHandler, when set, is connected to the program by [Run] so
	// log records appear in the status bar.
	LogHandler *TUILogHandler
}

// Model is the top-level bubbletea model for the task tracker TUI.
type Model struct {
	store *task.Store
	theme tui.Theme
	keys  KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	route       Route
	focusRegion FocusRegion

	// Dashboard state. rows is the filtered list; the selection is
	// tracked by id so it survives refreshes that reorder or remove
	// rows.
	filterBar        FilterBar
	dropdown         *tui.DropdownOverlay
	rows             []filterRow
	stats            taskStats
	cursor           int
	scrollOffset     int
	selectedID       int64
	hasSelection     bool
	splitRatio       float64
	showDescriptions bool

	form TaskForm
	card CardView

	// Status bar notice from a log record or a failed action. The
	// sequence number pairs each notice with its fade message.
	notice         string
	noticeLevel    slog.Level
	noticeSequence int

	// Live update animation.
	heatTracker  *tui.HeatTracker[int64]
	eventChannel <-chan task.Event
	tickRunning  bool

	changes <-chan struct{}
	reload  func() error
}

// NewModel creates a Model over store. The model subscribes to the
// store's events immediately so no change between construction and
// Init is missed.
func NewModel(store *task.Store, options Options) Model {
	splitRatio := options.SplitRatio
	if splitRatio == 0 {
		splitRatio = 0.6
	}
	splitRatio = min(max(splitRatio, splitRatioMin), splitRatioMax)

	model := Model{
		store:            store,
		theme:            tui.DefaultTheme,
		keys:             DefaultKeyMap,
		filterBar:        NewFilterBar(),
		splitRatio:       splitRatio,
		showDescriptions: options.ShowDescriptions,
		card:             NewCardView(tui.DefaultTheme),
		heatTracker:      tui.NewHeatTracker[int64](),
		eventChannel:     store.Subscribe(),
		changes:          options.Changes,
		reload:           func() error { return store.Reload(context.Background()) },
	}
	model.refresh()
	return model
}

// Init implements tea.Model. Starts listening for store events and,
// when configured, storage changes.
func (model Model) Init() tea.Cmd {
	commands := []tea.Cmd{listenForStoreEvent(model.eventChannel)}
	if model.changes != nil {
		commands = append(commands, listenForStorageChange(model.changes))
	}
	return tea.Batch(commands...)
}

// listenForStoreEvent returns a tea.Cmd that blocks until an event
// arrives on the store channel, then delivers it as a storeEventMsg.
func listenForStoreEvent(channel <-chan task.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-channel
		if !ok {
			return nil
		}
		return storeEventMsg{event: event}
	}
}

// listenForStorageChange returns a tea.Cmd that blocks until the
// storage watcher fires.
func listenForStorageChange(channel <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-channel; !ok {
			return nil
		}
		return storageChangedMsg{}
	}
}

func (model Model) now() time.Time {
	return model.store.Clock().Now()
}

// Update implements tea.Model. Routes keyboard events by route and
// focus region and applies store changes.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		// ctrl+c quits from anywhere, including text inputs.
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		switch model.route {
		case RouteNewTask:
			return model.handleFormKeys(message)
		case RouteCard:
			return model.handleCardKeys(message)
		}
		switch model.focusRegion {
		case FocusQuery:
			return model.handleQueryKeys(message)
		case FocusDue:
			return model.handleDueKeys(message)
		case FocusDropdown:
			return model.handleDropdownKeys(message)
		}
		return model.handleListKeys(message)

	case tea.MouseMsg:
		cmd := model.handleMouse(message)
		return model, cmd

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.card.SetSize(model.width, model.bodyHeight())
		model.ensureCursorVisible()

	case toggleTaskMsg:
		return model, model.toggleCmd(message.ID)

	case deleteTaskMsg:
		return model, model.deleteCmd(message.ID)

	case mutationResultMsg:
		if message.err != nil {
			cmd := model.setNotice(message.err.Error(), slog.LevelError)
			return model, cmd
		}

	case taskAddedMsg:
		if message.err != nil {
			model.form.SetError(message.err.Error())
			return model, nil
		}
		model.route = RouteDashboard
		model.selectedID = message.task.ID
		model.hasSelection = true
		model.refresh()

	case storeEventMsg:
		return model.handleStoreEvent(message)

	case heatTickMsg:
		return model.handleHeatTick()

	case storageChangedMsg:
		reload := model.reload
		return model, tea.Batch(
			func() tea.Msg { return reloadResultMsg{err: reload()} },
			listenForStorageChange(model.changes),
		)

	case reloadResultMsg:
		if message.err != nil {
			cmd := model.setNotice("reload failed: "+message.err.Error(), slog.LevelError)
			return model, cmd
		}

	case logRecordMsg:
		cmd := model.setNotice(message.Summary, message.Level)
		return model, cmd

	case logRecordFadeMsg:
		if message.sequence == model.noticeSequence {
			model.notice = ""
		}
	}
	return model, nil
}

// setNotice shows text in the status bar and schedules its fade.
func (model *Model) setNotice(text string, level slog.Level) tea.Cmd {
	model.noticeSequence++
	model.notice = text
	model.noticeLevel = level
	sequence := model.noticeSequence
	return tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
		return logRecordFadeMsg{sequence: sequence}
	})
}

func (model Model) toggleCmd(id int64) tea.Cmd {
	store := model.store
	return func() tea.Msg {
		if _, _, err := store.ToggleComplete(id); err != nil {
			return mutationResultMsg{err: fmt.Errorf("toggling task %d: %w", id, err)}
		}
		return mutationResultMsg{}
	}
}

func (model Model) deleteCmd(id int64) tea.Cmd {
	store := model.store
	return func() tea.Msg {
		if _, _, err := store.Delete(id); err != nil {
			return mutationResultMsg{err: fmt.Errorf("deleting task %d: %w", id, err)}
		}
		return mutationResultMsg{}
	}
}

func (model Model) addCmd(draft task.Draft) tea.Cmd {
	store := model.store
	return func() tea.Msg {
		created, err := store.Add(draft)
		return taskAddedMsg{task: created, err: err}
	}
}

// handleListKeys processes keys when the dashboard list has focus.
func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)
	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)
	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-model.visibleHeight())
	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(model.visibleHeight())
	case key.Matches(message, model.keys.Home):
		model.moveCursor(-len(model.rows))
	case key.Matches(message, model.keys.End):
		model.moveCursor(len(model.rows))

	case key.Matches(message, model.keys.Toggle):
		if selected, ok := model.selected(); ok {
			return model, toggleTask(selected.ID)
		}
	case key.Matches(message, model.keys.Delete):
		if selected, ok := model.selected(); ok {
			return model, deleteTask(selected.ID)
		}
	case key.Matches(message, model.keys.Open):
		model.openCard()

	case key.Matches(message, model.keys.New):
		model.form = NewTaskForm(model.store.Today())
		model.route = RouteNewTask

	case key.Matches(message, model.keys.Completion):
		model.openDropdown()
	case key.Matches(message, model.keys.DueDate):
		model.filterBar.BeginDueEdit()
		model.focusRegion = FocusDue
	case key.Matches(message, model.keys.FilterActivate):
		model.focusRegion = FocusQuery

	case key.Matches(message, model.keys.Back):
		// Esc peels the filter off one layer at a time: search, then
		// due date, then completion.
		switch {
		case model.filterBar.ClearQuery():
		case !model.filterBar.DueDate.IsZero():
			model.filterBar.ClearDue()
		default:
			model.filterBar.Completion = task.ShowAll
		}
		model.refresh()

	case key.Matches(message, model.keys.SplitGrow):
		model.splitRatio = min(model.splitRatio+splitRatioStep, splitRatioMax)
	case key.Matches(message, model.keys.SplitShrink):
		model.splitRatio = max(model.splitRatio-splitRatioStep, splitRatioMin)
	}
	return model, nil
}

// handleQueryKeys processes keystrokes while typing a search. Esc
// clears the text, or leaves the input when it is already empty;
// Enter keeps the search and returns to the list. Arrow keys still
// move the list cursor.
func (model Model) handleQueryKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		if !model.filterBar.ClearQuery() {
			model.focusRegion = FocusList
		}
		model.refresh()
	case tea.KeyEnter:
		model.focusRegion = FocusList
	case tea.KeyUp:
		model.moveCursor(-1)
	case tea.KeyDown:
		model.moveCursor(1)
	default:
		if model.filterBar.UpdateQuery(message) {
			// Snap to the top so the first matches are visible as
			// the user types.
			model.cursor = 0
			model.scrollOffset = 0
			model.hasSelection = false
			model.refresh()
		}
	}
	return model, nil
}

// handleDueKeys processes keystrokes in the due-date input. Enter
// applies the date (an invalid one stays in the input with an error),
// Esc abandons the edit.
func (model Model) handleDueKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		model.filterBar.BeginDueEdit()
		model.focusRegion = FocusList
	case tea.KeyEnter:
		if err := model.filterBar.CommitDue(); err != nil {
			return model, nil
		}
		model.focusRegion = FocusList
		model.refresh()
	default:
		model.filterBar.UpdateDue(message)
	}
	return model, nil
}

// handleDropdownKeys routes input to the completion dropdown.
func (model Model) handleDropdownKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.dropdown == nil {
		model.focusRegion = FocusList
		return model, nil
	}
	switch {
	case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.Quit):
		// 'q' dismisses the dropdown rather than quitting.
		model.dismissDropdown()
	case key.Matches(message, model.keys.Up):
		model.dropdown.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.dropdown.MoveDown()
	case message.Type == tea.KeyEnter:
		model.selectCompletion(model.dropdown.Selected().Value)
	}
	return model, nil
}

func (model *Model) openDropdown() {
	model.dropdown = model.filterBar.CompletionDropdown(filterBarY)
	model.focusRegion = FocusDropdown
}

func (model *Model) dismissDropdown() {
	model.dropdown = nil
	model.focusRegion = FocusList
}

func (model *Model) selectCompletion(value string) {
	model.dismissDropdown()
	completion, err := task.ParseCompletion(value)
	if err != nil {
		return
	}
	model.filterBar.Completion = completion
	model.refresh()
}

// handleFormKeys routes input to the new-task form.
func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch model.form.Update(message, model.keys) {
	case formCancel:
		model.route = RouteDashboard
	case formSubmit:
		draft, err := model.form.Draft()
		if err != nil {
			model.form.SetError(err.Error())
			return model, nil
		}
		if err := draft.Validate(); err != nil {
			model.form.SetError(err.Error())
			return model, nil
		}
		return model, model.addCmd(draft)
	}
	return model, nil
}

// handleCardKeys processes keys on the card route.
func (model Model) handleCardKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, _ := model.card.TaskID()
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Back):
		model.route = RouteDashboard
	case key.Matches(message, model.keys.Up):
		model.card.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.card.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.card.PageUp()
	case key.Matches(message, model.keys.PageDown):
		model.card.PageDown()
	case key.Matches(message, model.keys.Home):
		model.card.Top()
	case key.Matches(message, model.keys.End):
		model.card.Bottom()
	case key.Matches(message, model.keys.Toggle):
		return model, toggleTask(id)
	case key.Matches(message, model.keys.Delete):
		return model, deleteTask(id)
	}
	return model, nil
}

func (model *Model) openCard() {
	selected, ok := model.selected()
	if !ok {
		return
	}
	model.card.SetSize(model.width, model.bodyHeight())
	model.card.SetTask(selected, model.store.Today())
	model.route = RouteCard
}

// handleMouse routes mouse events. Only presses and wheel events act;
// motion is ignored.
func (model *Model) handleMouse(message tea.MouseMsg) tea.Cmd {
	if message.Action == tea.MouseActionMotion {
		return nil
	}

	if model.route == RouteCard {
		switch message.Button {
		case tea.MouseButtonWheelUp:
			model.card.LineUp(3)
		case tea.MouseButtonWheelDown:
			model.card.LineDown(3)
		}
		return nil
	}
	if model.route != RouteDashboard {
		return nil
	}

	if model.dropdown != nil {
		if message.Button == tea.MouseButtonLeft && message.Action == tea.MouseActionPress {
			if model.dropdown.Contains(message.X, message.Y) {
				index := model.dropdown.OptionAtY(message.Y)
				model.selectCompletion(model.dropdown.Options[index].Value)
			} else {
				model.dismissDropdown()
			}
		}
		return nil
	}

	contentStart := model.contentStartY()
	inList := message.Y >= contentStart && message.Y < contentStart+model.visibleHeight() &&
		message.X >= 0 && message.X < model.listWidth()-1

	switch message.Button {
	case tea.MouseButtonWheelUp:
		if inList {
			model.scrollList(-1)
		}
	case tea.MouseButtonWheelDown:
		if inList {
			model.scrollList(1)
		}
	case tea.MouseButtonLeft:
		if message.Action != tea.MouseActionPress {
			return nil
		}
		if message.Y == filterBarY {
			model.handleFilterBarClick(message.X)
			return nil
		}
		if !inList {
			return nil
		}
		model.focusRegion = FocusList
		index := model.scrollOffset + message.Y - contentStart
		if index >= len(model.rows) {
			return nil
		}
		row := model.rows[index].Task
		alreadySelected := model.hasSelection && model.selectedID == row.ID
		model.cursor = index
		model.selectedID = row.ID
		model.hasSelection = true
		if cmd := model.itemRenderer().Action(row.ID, message.X); cmd != nil {
			return cmd
		}
		// A second click on the selected row opens it.
		if alreadySelected {
			model.openCard()
		}
	}
	return nil
}

func (model *Model) handleFilterBarClick(x int) {
	switch model.filterBar.Target(x) {
	case barCompletion:
		model.openDropdown()
	case barDue:
		model.filterBar.BeginDueEdit()
		model.focusRegion = FocusDue
	case barQuery:
		model.focusRegion = FocusQuery
	}
}

// handleStoreEvent applies a store change: the row glows, the list is
// recomputed, and the card route follows the task it shows.
func (model Model) handleStoreEvent(message storeEventMsg) (tea.Model, tea.Cmd) {
	event := message.event

	kind := tui.HeatChanged
	if event.Kind == task.EventRemove {
		kind = tui.HeatRemoved
	}
	model.heatTracker.Ignite(event.ID, kind, model.now())
	model.refresh()

	if model.route == RouteCard {
		if id, ok := model.card.TaskID(); ok && id == event.ID {
			if event.Kind == task.EventRemove {
				model.card.Clear()
				model.route = RouteDashboard
			} else {
				model.card.SetTask(event.Task, model.store.Today())
			}
		}
	}

	commands := []tea.Cmd{listenForStoreEvent(model.eventChannel)}
	if !model.tickRunning {
		model.tickRunning = true
		commands = append(commands, scheduleHeatTick())
	}
	return model, tea.Batch(commands...)
}

// handleHeatTick keeps the animation running while any row is hot.
func (model Model) handleHeatTick() (tea.Model, tea.Cmd) {
	if model.heatTracker.HasHot(model.now()) {
		return model, scheduleHeatTick()
	}
	model.tickRunning = false
	return model, nil
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

// refresh recomputes the filtered rows from the store and restores
// the selection by id.
func (model *Model) refresh() {
	tasks := model.store.Tasks()
	model.stats = taskStats{total: len(tasks)}
	for _, item := range tasks {
		if item.IsComplete {
			model.stats.complete++
		}
	}
	model.rows = model.filterBar.Apply(tasks)
	model.restoreSelection()
	model.ensureCursorVisible()
}

func (model *Model) restoreSelection() {
	if model.hasSelection {
		for index, row := range model.rows {
			if row.Task.ID == model.selectedID {
				model.cursor = index
				return
			}
		}
	}
	model.cursor = min(max(model.cursor, 0), max(len(model.rows)-1, 0))
	model.syncSelection()
}

// syncSelection records the id under the cursor.
func (model *Model) syncSelection() {
	if model.cursor < len(model.rows) {
		model.selectedID = model.rows[model.cursor].Task.ID
		model.hasSelection = true
		return
	}
	model.hasSelection = false
}

func (model *Model) moveCursor(delta int) {
	if len(model.rows) == 0 {
		return
	}
	model.cursor = min(max(model.cursor+delta, 0), len(model.rows)-1)
	model.syncSelection()
	model.ensureCursorVisible()
}

// scrollList moves the viewport without moving the selection, unless
// the selection would leave the window.
func (model *Model) scrollList(delta int) {
	visible := model.visibleHeight()
	maxOffset := max(len(model.rows)-visible, 0)
	model.scrollOffset = min(max(model.scrollOffset+delta, 0), maxOffset)
	if model.cursor < model.scrollOffset {
		model.cursor = model.scrollOffset
	} else if visible > 0 && model.cursor >= model.scrollOffset+visible {
		model.cursor = model.scrollOffset + visible - 1
	}
	model.syncSelection()
}

// selected returns the task under the cursor.
func (model Model) selected() (task.Task, bool) {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return task.Task{}, false
	}
	return model.rows[model.cursor].Task, true
}

// contentStartY is the first row of the list: below the header and
// the filter bar.
func (model Model) contentStartY() int {
	return filterBarY + 1
}

// visibleHeight is the number of list rows between the filter bar and
// the bottom separator and help bar.
func (model Model) visibleHeight() int {
	return model.height - model.contentStartY() - 2
}

// bodyHeight is the height available to the form and card routes:
// everything except the header, separator and help bar.
func (model Model) bodyHeight() int {
	return max(model.height-3, 1)
}

func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}
	maxOffset := max(len(model.rows)-visible, 0)
	model.scrollOffset = min(model.scrollOffset, maxOffset)
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

func (model Model) showPreview() bool {
	return model.width >= previewMinWidth
}

// listWidth returns the width of the list pane including its
// scrollbar column.
func (model Model) listWidth() int {
	if !model.showPreview() {
		return model.width
	}
	return int(float64(model.width) * model.splitRatio)
}

func (model Model) itemRenderer() ItemRenderer {
	return NewItemRenderer(model.theme, model.listWidth()-1, model.showDescriptions)
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	var title, body string
	switch model.route {
	case RouteNewTask:
		title = "New Task"
		body = model.form.View(model.theme, model.width, model.bodyHeight())
	case RouteCard:
		id, _ := model.card.TaskID()
		title = fmt.Sprintf("Task #%d", id)
		body = model.card.View()
	default:
		title = "Task Tracker App"
		body = model.filterBar.View(model.theme, model.width, model.focusRegion) + "\n" + model.renderContent()
	}

	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
	output := strings.Join([]string{model.renderHeader(title), body, separator, model.renderHelp()}, "\n")

	if model.route == RouteDashboard && model.dropdown != nil {
		output = tui.SpliceOverlay(output, model.dropdown.Render(model.theme),
			model.dropdown.AnchorX, model.dropdown.AnchorY)
	}
	return output
}

// renderContent renders the list pane and, when wide enough, the
// divider and preview pane.
func (model Model) renderContent() string {
	visible := max(model.visibleHeight(), 0)
	listView := model.renderListPane(visible)
	if !model.showPreview() {
		return listView
	}

	divider := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Width(1).
		Height(visible).
		Render(strings.TrimSuffix(strings.Repeat("│\n", visible), "\n"))

	previewWidth := model.width - model.listWidth() - 1
	preview := ""
	if selected, ok := model.selected(); ok {
		preview = renderTaskDetail(model.theme, selected, model.store.Today(), max(previewWidth-2, 10))
	}
	previewView := lipgloss.NewStyle().
		PaddingLeft(1).
		Width(previewWidth).
		Height(visible).
		MaxHeight(visible).
		Render(preview)

	return lipgloss.JoinHorizontal(lipgloss.Top, listView, divider, previewView)
}

// renderListPane renders the visible rows with a scrollbar column.
func (model Model) renderListPane(visible int) string {
	rowWidth := model.listWidth() - 1
	if len(model.rows) == 0 {
		text := "No tasks yet. Press n to add one."
		if model.stats.total > 0 {
			text = "No tasks match the filter. Esc clears it."
		}
		return lipgloss.Place(model.listWidth(), visible, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(text))
	}

	renderer := model.itemRenderer()
	today := model.store.Today()
	now := model.now()
	rows := make([]string, 0, visible)
	for index := model.scrollOffset; index < model.scrollOffset+visible && index < len(model.rows); index++ {
		row := model.rows[index]
		selected := index == model.cursor
		rendered := renderer.Render(row.Task, today, selected, row.Positions)
		// Recently changed rows glow; the selection highlight takes
		// priority.
		if !selected {
			if heat := model.heatTracker.Heat(row.Task.ID, now); heat > 0 {
				accent := model.theme.HotAccentChanged
				if model.heatTracker.Kind(row.Task.ID) == tui.HeatRemoved {
					accent = model.theme.HotAccentRemoved
				}
				rendered = lipgloss.NewStyle().
					Background(accent).
					Width(rowWidth).
					MaxWidth(rowWidth).
					Render(rendered)
			}
		}
		rows = append(rows, rendered)
	}
	for len(rows) < visible {
		rows = append(rows, strings.Repeat(" ", rowWidth))
	}

	scrollbar := tui.RenderScrollbar(model.theme, visible, len(model.rows), visible, model.scrollOffset,
		model.focusRegion == FocusList)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(rowWidth).Height(visible).Render(strings.Join(rows, "\n")),
		scrollbar)
}

// renderHeader renders the title embedded in a horizontal rule with
// counts on the right:
//
//	─── Task Tracker App ──────────────── 3 shown  2 open  1 done ─
func (model Model) renderHeader(title string) string {
	separatorStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	statsStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	left := separatorStyle.Render("───") + " " + titleStyle.Render(title) + " "
	leftWidth := 3 + 1 + lipgloss.Width(title) + 1

	stats := fmt.Sprintf("%d shown  %d open  %d done",
		len(model.rows), model.stats.total-model.stats.complete, model.stats.complete)
	right := " " + statsStyle.Render(stats) + " " + separatorStyle.Render("─")
	rightWidth := 1 + lipgloss.Width(stats) + 1 + 1

	fill := max(model.width-leftWidth-rightWidth, 1)
	return left + separatorStyle.Render(strings.Repeat("─", fill)) + right
}

// renderHelp renders the bottom line: a notice when one is showing,
// otherwise key hints and the list position.
func (model Model) renderHelp() string {
	if model.notice != "" {
		color := model.theme.HelpText
		switch {
		case model.noticeLevel >= slog.LevelError:
			color = model.theme.ErrorForeground
		case model.noticeLevel >= slog.LevelWarn:
			color = model.theme.WarnForeground
		}
		return lipgloss.NewStyle().Foreground(color).Bold(true).
			MaxWidth(model.width).Render(" " + model.notice)
	}

	style := lipgloss.NewStyle().Foreground(model.theme.HelpText).MaxWidth(model.width)
	switch model.route {
	case RouteNewTask:
		return style.Render(" [FORM] Tab/S-Tab field  C-s save  Esc cancel  C-c quit")
	case RouteCard:
		return style.Render(" [CARD] q quit  ↑↓ scroll  space toggle  d delete  Esc back")
	}

	focusIndicator := "LIST"
	switch model.focusRegion {
	case FocusQuery:
		focusIndicator = "SEARCH"
	case FocusDue:
		focusIndicator = "DUE"
	case FocusDropdown:
		focusIndicator = "SELECT"
	}
	help := fmt.Sprintf(" [%s] q quit  ↑↓ navigate  space toggle  d delete  enter open  n new  c show  D due  / search",
		focusIndicator)
	if len(model.rows) > 0 {
		help += fmt.Sprintf("  %d/%d", model.cursor+1, len(model.rows))
	}
	return style.Render(help)
}
