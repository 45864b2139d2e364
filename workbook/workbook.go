// Package workbook ties named cells to a dependency graph, enforcing
// acyclicity on every write with rollback-on-cycle semantics, and
// recomputes dependent cells in topological order.
package workbook

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/MasterFire41604/Spreadsheet-Program/depgraph"
	"github.com/MasterFire41604/Spreadsheet-Program/formula"
	"github.com/MasterFire41604/Spreadsheet-Program/internal/enginelog"
	"github.com/MasterFire41604/Spreadsheet-Program/namepolicy"
	"github.com/MasterFire41604/Spreadsheet-Program/notify"
	"github.com/MasterFire41604/Spreadsheet-Program/persistence"
	"github.com/MasterFire41604/Spreadsheet-Program/sheeterr"
)

// DefaultVersion is used by New when no version is supplied.
const DefaultVersion = "default"

// Workbook is a named collection of cells with reactive recomputation.
// It is single-threaded and non-reentrant: exactly one caller at a time
// may hold and operate on a given instance.
type Workbook struct {
	cells      map[string]record
	graph      *depgraph.Graph
	validate   namepolicy.Validator
	normalize  namepolicy.Normalizer
	version    string
	dirty      bool
	dispatcher *notify.Dispatcher
	log        *slog.Logger
}

// New constructs an empty workbook. A nil validate accepts every name; a
// nil normalize is the identity function; an empty version defaults to
// DefaultVersion; a nil logger falls back to enginelog.Discard.
func New(validate namepolicy.Validator, normalize namepolicy.Normalizer, version string, log *slog.Logger) *Workbook {
	if validate == nil {
		validate = namepolicy.AlwaysValid
	}
	if normalize == nil {
		normalize = namepolicy.Identity
	}
	if version == "" {
		version = DefaultVersion
	}
	if log == nil {
		log = enginelog.Discard()
	}
	return &Workbook{
		cells:     make(map[string]record),
		graph:     depgraph.New(),
		validate:  validate,
		normalize: normalize,
		version:   version,
		log:       log,
	}
}

// SetDispatcher attaches a change-notification dispatcher. A nil
// dispatcher (the default) disables notification entirely.
func (w *Workbook) SetDispatcher(d *notify.Dispatcher) { w.dispatcher = d }

// Version returns the workbook's version string.
func (w *Workbook) Version() string { return w.version }

// Dirty reports whether any successful content change has occurred since
// construction or the last Save.
func (w *Workbook) Dirty() bool { return w.dirty }

func (w *Workbook) checkName(name string) (string, error) {
	if !namepolicy.Accepts(name, w.normalize, w.validate) {
		return "", fmt.Errorf("%w: %q", sheeterr.ErrInvalidName, name)
	}
	return w.normalize(name), nil
}

// classify implements the text-to-contents boundary rule: a parseable
// double wins first, then a leading '=' selects a formula, otherwise the
// text is stored verbatim.
func (w *Workbook) classify(text string) (Contents, error) {
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return numberContents(f), nil
	}
	if strings.HasPrefix(text, "=") {
		f, err := formula.New(text[1:], formula.Normalizer(w.normalize), formula.Validator(w.validate))
		if err != nil {
			return Contents{}, err
		}
		return formulaContents(f), nil
	}
	return textContents(text), nil
}

// SetContentsOfCell is the canonical write: it validates name, classifies
// text, tentatively rewires the dependency graph, checks for cycles, and
// on success recomputes every affected cell in topological order. It
// returns the recomputation order (n first); on a circular reference the
// workbook is left exactly as it was before the call.
func (w *Workbook) SetContentsOfCell(name, text string) ([]string, error) {
	n, err := w.checkName(name)
	if err != nil {
		return nil, err
	}

	newContents, err := w.classify(text)
	if err != nil {
		return nil, err
	}

	priorInEdges := w.graph.Dependees(n)

	var newInEdges []string
	if newContents.Kind == ContentsFormula {
		newInEdges = newContents.Formula.Variables()
	}
	w.graph.ReplaceDependees(n, newInEdges)

	order, cycleErr := w.topoOrder(n)
	if cycleErr != nil {
		w.graph.ReplaceDependees(n, priorInEdges)
		w.log.Warn("rollback: write would create a cycle", "cell", n, "error", cycleErr)
		return nil, cycleErr
	}

	rec := record{contents: newContents, sourceText: text}
	w.cells[n] = rec
	w.recomputeAll(order)
	w.dirty = true

	w.notifyChanges(order)
	w.log.Debug("recomputed cells", "cell", n, "order", order)
	return order, nil
}

// topoOrder performs an iterative depth-first traversal over the
// dependents (forward) edges reachable from n, starting at n, using an
// explicit stack so it cannot overflow the platform call stack on long
// chains. It returns the reverse of the finish order, which is a valid
// recomputation order with n first. A cell already "visiting" when
// encountered again signals a cycle.
func (w *Workbook) topoOrder(n string) ([]string, error) {
	const (
		visiting = 1
		visited  = 2
	)
	state := make(map[string]int)
	var finish []string

	type frame struct {
		node     string
		children []string
		next     int
	}

	stack := []frame{{node: n, children: w.graph.Dependents(n)}}
	state[n] = visiting

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.children) {
			state[top.node] = visited
			finish = append(finish, top.node)
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.children[top.next]
		top.next++

		switch state[child] {
		case visiting:
			return nil, fmt.Errorf("%w: write to %q would create a cycle through %q", sheeterr.ErrCircularReference, n, child)
		case visited:
			continue
		default:
			state[child] = visiting
			stack = append(stack, frame{node: child, children: w.graph.Dependents(child)})
		}
	}

	order := make([]string, len(finish))
	for i, name := range finish {
		order[len(finish)-1-i] = name
	}
	return order, nil
}

// recomputeAll re-evaluates every cell in order, writing its new cached
// value. Non-formula cells copy their contents into value; formula cells
// evaluate against a lookup backed by the current cached values, which
// is exactly what makes FormulaError propagate lazily through chains.
func (w *Workbook) recomputeAll(order []string) {
	for _, name := range order {
		w.recomputeCell(name)
	}
}

func (w *Workbook) recomputeCell(name string) {
	rec, ok := w.cells[name]
	if !ok {
		return
	}
	switch rec.contents.Kind {
	case ContentsNumber:
		rec.value = numberValue(rec.contents.Number)
	case ContentsText:
		rec.value = textValue(rec.contents.Text)
	case ContentsFormula:
		lookup := func(varName string) (float64, bool) {
			dep, ok := w.cells[varName]
			if !ok || dep.value.Kind != ValueNumber {
				return 0, false
			}
			return dep.value.Number, true
		}
		v, err := rec.contents.Formula.Evaluate(lookup)
		if err != nil {
			rec.value = errorValue(err.Error())
		} else {
			rec.value = numberValue(v)
		}
	}
	w.cells[name] = rec
}

func (w *Workbook) notifyChanges(order []string) {
	if w.dispatcher == nil || len(order) == 0 {
		return
	}
	updates := make([]notify.CellUpdate, 0, len(order))
	for _, name := range order {
		rec := w.cells[name]
		updates = append(updates, notify.CellUpdate{
			Name:    name,
			Display: displayValue(rec.value),
			IsError: rec.value.Kind == ValueError,
		})
	}
	w.dispatcher.Notify(updates)
}

func displayValue(v Value) string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case ValueText:
		return v.Text
	case ValueError:
		return v.Reason
	default:
		return ""
	}
}

// GetCellContents returns the stored contents of name; an empty or
// never-written cell reads back as Text("").
func (w *Workbook) GetCellContents(name string) (Contents, error) {
	n, err := w.checkName(name)
	if err != nil {
		return Contents{}, err
	}
	rec, ok := w.cells[n]
	if !ok {
		return emptyContents(), nil
	}
	return rec.contents, nil
}

// GetCellValue returns the cached value of name; an empty or
// never-written cell reads back as Text("").
func (w *Workbook) GetCellValue(name string) (Value, error) {
	n, err := w.checkName(name)
	if err != nil {
		return Value{}, err
	}
	rec, ok := w.cells[n]
	if !ok {
		return emptyValue(), nil
	}
	return rec.value, nil
}

// GetNamesOfAllNonemptyCells returns every cell whose contents is not the
// empty text, in unspecified order.
func (w *Workbook) GetNamesOfAllNonemptyCells() []string {
	names := make([]string, 0, len(w.cells))
	for name, rec := range w.cells {
		if rec.contents.Kind == ContentsText && rec.contents.Text == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Save persists the workbook's logical state (version and every
// nonempty cell's source text) to path, then clears dirty.
func (w *Workbook) Save(path string) error {
	store, err := persistence.Open(path, w.log)
	if err != nil {
		return fmt.Errorf("%w: %v", sheeterr.ErrSpreadsheetReadWrite, err)
	}
	defer store.Close()

	if err := store.WriteVersion(w.version); err != nil {
		return fmt.Errorf("%w: %v", sheeterr.ErrSpreadsheetReadWrite, err)
	}

	cells := make(map[string]string, len(w.cells))
	for name, rec := range w.cells {
		if rec.contents.Kind == ContentsText && rec.contents.Text == "" {
			continue
		}
		cells[name] = rec.sourceText
	}
	if err := store.WriteCells(cells); err != nil {
		return fmt.Errorf("%w: %v", sheeterr.ErrSpreadsheetReadWrite, err)
	}

	w.dirty = false
	return nil
}

// Load reads a previously Saved workbook from path and replays every
// entry through SetContentsOfCell to rebuild contents, graph edges, and
// values from scratch. The stored version must equal version. Any I/O
// failure, parse failure, version mismatch, or replay failure surfaces
// as ErrSpreadsheetReadWrite; genuine programmer panics during replay
// are never recovered or rebranded.
func Load(path string, validate namepolicy.Validator, normalize namepolicy.Normalizer, version string, log *slog.Logger) (*Workbook, error) {
	store, err := persistence.Open(path, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sheeterr.ErrSpreadsheetReadWrite, err)
	}
	defer store.Close()

	storedVersion, err := store.ReadVersion()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sheeterr.ErrSpreadsheetReadWrite, err)
	}
	if version == "" {
		version = DefaultVersion
	}
	if storedVersion != version {
		return nil, fmt.Errorf("%w: stored version %q does not match requested version %q", sheeterr.ErrSpreadsheetReadWrite, storedVersion, version)
	}

	cells, err := store.ReadCells()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sheeterr.ErrSpreadsheetReadWrite, err)
	}

	w := New(validate, normalize, version, log)
	for name, sourceText := range cells {
		if _, err := w.SetContentsOfCell(name, sourceText); err != nil {
			return nil, fmt.Errorf("%w: replaying %q: %v", sheeterr.ErrSpreadsheetReadWrite, name, err)
		}
	}
	w.dirty = false
	return w, nil
}
