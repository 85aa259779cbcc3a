package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/edudesk/contentdesk/internal/confirm"
	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/replace"
	"github.com/edudesk/contentdesk/internal/sections"
	"github.com/edudesk/contentdesk/internal/value"
)

var (
	// ErrNotLoaded is returned by session operations before a record is loaded.
	ErrNotLoaded = errors.New("no record loaded")
	// ErrNotEditing is returned when a draft operation names a section without a draft.
	ErrNotEditing = errors.New("section is not being edited")
)

// DefaultCollegeTabs are the tabs of a college record.
var DefaultCollegeTabs = []string{
	"about", "courses", "seat_matrix", "ranking", "nirf", "placements", "cutoff", "facilities",
}

// DefaultExamTabs are the tabs every exam record shows, followed by its other sections.
var DefaultExamTabs = []string{
	"About", "Exam Dates", "Eligibility Criteria", "Exam Pattern & Syllabus", "Yearly Cutoff",
	"Application Fee", "Resources",
}

// Layout describes how records are split into tabs.
type Layout struct {
	CollegeTabs []string
	ExamTabs    []string
	SpecialTabs []string
}

// DefaultLayout returns the built-in layout.
func DefaultLayout() Layout {
	return Layout{
		CollegeTabs: slices.Clone(DefaultCollegeTabs),
		ExamTabs:    slices.Clone(DefaultExamTabs),
		SpecialTabs: slices.Clone(sections.DefaultSpecialTabs),
	}
}

// Outcome reports a destructive operation that needed confirmation.
type Outcome struct {
	Prompt  string `json:"prompt"`
	Applied bool   `json:"applied"`
}

// Session is the editing state of one record. Section edits go to per-section drafts
// until committed; nothing reaches the store until Save. A Session is safe for
// concurrent use.
type Session struct {
	mu sync.Mutex

	store      Store
	reconciler *sections.Reconciler
	layout     Layout

	doc    Document
	loaded bool
	dirty  bool
	drafts map[string]value.Value
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithReconciler replaces the default reconciler.
func WithReconciler(rc *sections.Reconciler) SessionOption {
	return func(s *Session) {
		s.reconciler = rc
	}
}

// WithLayout replaces the default tab layout.
func WithLayout(l Layout) SessionOption {
	return func(s *Session) {
		s.layout = l
	}
}

// NewSession returns an empty session over store.
func NewSession(store Store, opts ...SessionOption) *Session {
	s := &Session{
		store:      store,
		reconciler: sections.NewReconciler(nil),
		layout:     DefaultLayout(),
		drafts:     map[string]value.Value{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches ref and replaces the session state with it. Pending drafts are
// discarded.
func (s *Session) Load(ctx context.Context, ref Ref) (Document, error) {
	doc, err := s.store.Load(ctx, ref)
	if err != nil {
		return Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDocument(doc)

	logging.LoggerFromContext(ctx).InfoContext(ctx, "Record loaded",
		slog.String("record", ref.String()),
		slog.Int("sections", doc.Sections.Len()),
		slog.Int("basic_fields", doc.Basic.Len()),
	)
	return doc, nil
}

// Open replaces the session state with a document obtained elsewhere.
func (s *Session) Open(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDocument(doc)
}

func (s *Session) setDocument(doc Document) {
	s.doc = doc
	s.loaded = true
	s.dirty = false
	s.drafts = map[string]value.Value{}
}

// Document returns the committed state of the record.
func (s *Session) Document() (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return Document{}, ErrNotLoaded
	}
	return s.doc, nil
}

// Dirty reports whether the record changed since it was loaded or saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Editing returns the keys of sections with an open draft.
func (s *Session) Editing() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.drafts))
	for k := range s.drafts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Tabs projects the committed sections onto the record's tabs.
func (s *Session) Tabs() ([]sections.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return sections.Project(s.doc.Sections, s.tabNames(), s.layout.SpecialTabs), nil
}

// Unassigned returns the section keys that no tab shows.
func (s *Session) Unassigned() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return sections.Unassigned(s.doc.Sections, s.tabNames()), nil
}

func (s *Session) tabNames() []string {
	if s.doc.Ref.IsExam() {
		return sections.TabNames(s.layout.ExamTabs, s.doc.Sections, nil)
	}
	return s.layout.CollegeTabs
}

// Section returns the draft of key when one is open, and the committed value otherwise.
func (s *Session) Section(key string) (value.Value, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, false, ErrNotLoaded
	}
	if draft, ok := s.drafts[key]; ok {
		return draft, true, nil
	}
	sec, err := s.doc.Sections.Lookup(key)
	if err != nil {
		return nil, false, err
	}
	return sec.Value, false, nil
}

// BeginEdit opens a draft of section key holding a copy of its committed value. An
// existing draft is kept.
func (s *Session) BeginEdit(key string) (value.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginEdit(key)
}

func (s *Session) beginEdit(key string) (value.Value, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	if draft, ok := s.drafts[key]; ok {
		return draft, nil
	}
	sec, err := s.doc.Sections.Lookup(key)
	if err != nil {
		return nil, err
	}
	draft := value.Clone(sec.Value)
	s.drafts[key] = draft
	return draft, nil
}

// UpdateDraft replaces the draft of key.
func (s *Session) UpdateDraft(key string, v value.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotEditing, key)
	}
	s.drafts[key] = v
	return nil
}

// EditDraft applies fn to the draft of key, opening the draft first when needed. When
// fn fails the draft is left as it was.
func (s *Session) EditDraft(key string, fn func(value.Value) (value.Value, error)) (value.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.beginEdit(key)
	if err != nil {
		return nil, err
	}
	next, err := fn(draft)
	if err != nil {
		return draft, err
	}
	s.drafts[key] = next
	return next, nil
}

// CommitEdit writes the draft of key into the record and closes it.
func (s *Session) CommitEdit(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotEditing, key)
	}
	reg, err := s.reconciler.SaveSection(s.doc.Sections, key, draft)
	if err != nil {
		return err
	}
	s.commit(reg)
	delete(s.drafts, key)
	return nil
}

// CancelEdit discards the draft of key.
func (s *Session) CancelEdit(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
}

// AddSection adds a section built from text under parent and returns its key. Exam
// sections are stored tagged with their content type.
func (s *Session) AddSection(parent, title string, typ ContentType, text string) (string, error) {
	content, err := BuildContent(typ, text)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return "", ErrNotLoaded
	}
	if s.doc.Ref.IsExam() {
		content = wrapTyped(typ, content)
	}

	reg, key, err := s.reconciler.AddSection(s.doc.Sections, parent, title, content)
	if err != nil {
		return "", err
	}
	s.commit(reg)
	return key, nil
}

// DeleteSection deletes section key when confirmed is true. Otherwise it only returns
// the confirmation prompt.
func (s *Session) DeleteSection(key string, confirmed bool) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return Outcome{}, ErrNotLoaded
	}

	pending, err := s.reconciler.DeleteSection(s.doc.Sections, key)
	if err != nil {
		return Outcome{}, err
	}
	if confirmed {
		s.commit(pending.Confirm())
		s.dropDrafts(key)
	}
	return Outcome{Prompt: pending.Prompt, Applied: confirmed}, nil
}

// RenameSection renames a section, keeping its position.
func (s *Session) RenameSection(oldKey, newKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	reg, err := s.reconciler.RenameSection(s.doc.Sections, oldKey, newKey)
	if err != nil {
		return err
	}
	s.commit(reg)
	s.dropDrafts(oldKey)
	return nil
}

// MoveSection drops section active onto the position of section over.
func (s *Session) MoveSection(active, over string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	reg, err := s.reconciler.MoveSection(s.doc.Sections, active, over)
	if err != nil {
		return err
	}
	s.commit(reg)
	return nil
}

// SetBasic stores v under a basic field. New fields are appended.
func (s *Session) SetBasic(field string, v value.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	s.doc.Basic = s.doc.Basic.Set(field, v)
	s.dirty = true
	return nil
}

// ReplaceOutcome reports a record-wide replace.
type ReplaceOutcome struct {
	Outcome
	Matches int `json:"matches"`
}

// ReplaceAll replaces search with repl across basic data and every section. Both are
// replaced together once confirmed, or neither is.
func (s *Session) ReplaceAll(search, repl string, confirmed bool) (ReplaceOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ReplaceOutcome{}, ErrNotLoaded
	}

	pending := ReplaceDocument(s.doc, search, repl)
	matches := CountMatches(s.doc, search)
	out := ReplaceOutcome{
		Outcome: Outcome{Prompt: pending.Prompt, Applied: confirmed && matches > 0},
		Matches: matches,
	}
	if out.Applied {
		s.doc = pending.Confirm()
		s.dirty = true
		s.drafts = map[string]value.Value{}
	}
	return out, nil
}

// ReplaceDocument prepares a replace of search with repl over basic data and sections.
func ReplaceDocument(doc Document, search, repl string) confirm.Pending[Document] {
	prompt := fmt.Sprintf("Replace %d occurrences of %q with %q in basic data and all sections?",
		CountMatches(doc, search), search, repl)
	return confirm.New(prompt, doc, func() Document {
		next := doc
		next.Basic = asGroup(replace.Replace(doc.Basic, search, repl))
		next.Sections = sections.NewRegistry(asGroup(replace.Replace(doc.Sections.Group(), search, repl)))
		return next
	})
}

// CountMatches counts occurrences of search in basic data and sections.
func CountMatches(doc Document, search string) int {
	return replace.Count(doc.Basic, search) + replace.Count(doc.Sections.Group(), search)
}

func asGroup(v value.Value) value.Group {
	g, _ := v.(value.Group)
	return g
}

// Save writes the committed record to the store. Open drafts are not included.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	doc := s.doc
	drafts := len(s.drafts)
	s.mu.Unlock()

	logger := logging.LoggerFromContext(ctx)
	if drafts > 0 {
		logger.WarnContext(ctx, "Saving with uncommitted drafts", slog.Int("drafts", drafts))
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return err
	}

	s.mu.Lock()
	if value.Equal(s.doc.Basic, doc.Basic) && value.Equal(s.doc.Sections.Group(), doc.Sections.Group()) {
		s.dirty = false
	}
	s.mu.Unlock()

	logger.InfoContext(ctx, "Record saved",
		slog.String("record", doc.Ref.String()),
		slog.Int("sections", doc.Sections.Len()),
	)
	return nil
}

func (s *Session) commit(reg sections.Registry) {
	s.doc.Sections = reg
	s.dirty = true
}

// dropDrafts closes the draft of key and of any section nested under it.
func (s *Session) dropDrafts(key string) {
	for k := range s.drafts {
		if k == key {
			delete(s.drafts, k)
			continue
		}
		if parent, _, ok := sections.SplitKey(k); ok && parent == key {
			delete(s.drafts, k)
		}
	}
}
